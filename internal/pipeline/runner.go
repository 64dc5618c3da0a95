package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/mayflower/storyteller/internal/state"
	"github.com/mayflower/storyteller/internal/story"
)

// RetryConfig defines retry behavior for failed steps.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig provides sensible defaults for retry behavior.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts:   3,
	InitialDelay:  100 * time.Millisecond,
	MaxDelay:      5 * time.Second,
	BackoffFactor: 2.0,
}

// Runner executes steps in order against the shared state. Each step
// gets a snapshot clone, its delta is applied through the state
// manager's single writer, and the new snapshot is checkpointed before
// the next step runs.
type Runner struct {
	state      *state.Manager
	checkpoint *CheckpointManager
	progress   *ProgressTracker
	limiter    *rate.Limiter
	retry      RetryConfig
	logger     *slog.Logger
}

type RunnerOption func(*Runner)

// WithCheckpoints enables snapshot persistence after each step.
func WithCheckpoints(cm *CheckpointManager) RunnerOption {
	return func(r *Runner) {
		r.checkpoint = cm
	}
}

// WithProgress attaches a progress tracker.
func WithProgress(p *ProgressTracker) RunnerOption {
	return func(r *Runner) {
		r.progress = p
	}
}

// WithRateLimit throttles step execution to n starts per minute.
func WithRateLimit(perMinute, burst int) RunnerOption {
	return func(r *Runner) {
		if perMinute > 0 {
			r.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst)
		}
	}
}

// WithRetry overrides the retry configuration.
func WithRetry(cfg RetryConfig) RunnerOption {
	return func(r *Runner) {
		r.retry = cfg
	}
}

// WithLogger configures a custom logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

func NewRunner(st *state.Manager, opts ...RunnerOption) *Runner {
	r := &Runner{
		state:  st,
		retry:  DefaultRetryConfig,
		logger: slog.Default().With("component", "pipeline"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the steps sequentially. A step failure after all retry
// attempts aborts the run; deltas already applied stay applied.
func (r *Runner) Run(ctx context.Context, steps []Step) error {
	for _, step := range steps {
		if err := r.runStep(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runStep(ctx context.Context, step Step) error {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	start := time.Now()
	delta, err := r.runWithRetry(ctx, step)
	if err != nil {
		return err
	}

	version, warnings := r.state.Apply(delta)
	r.logger.Info("step applied",
		"step", step.Name(),
		"version", version,
		"warnings", len(warnings),
		"duration", time.Since(start))

	if r.progress != nil {
		r.progress.Record(step.Name(), version)
	}
	if r.checkpoint != nil {
		cp := &Checkpoint{
			SessionID: r.state.SessionID(),
			Version:   version,
			Step:      step.Name(),
			Timestamp: time.Now(),
			Document:  r.state.Snapshot(),
		}
		if err := r.checkpoint.Save(ctx, cp); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runWithRetry(ctx context.Context, step Step) (*story.Document, error) {
	delay := r.retry.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= r.retry.MaxAttempts; attempt++ {
		delta, err := step.Run(ctx, r.state.Snapshot())
		if err == nil {
			return delta, nil
		}
		lastErr = &StepError{
			Step:      step.Name(),
			Attempt:   attempt,
			Cause:     err,
			Retryable: attempt < r.retry.MaxAttempts,
			Timestamp: time.Now(),
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, lastErr
		}
		r.logger.Warn("step failed",
			"step", step.Name(),
			"attempt", attempt,
			"error", err)

		if attempt < r.retry.MaxAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * r.retry.BackoffFactor)
			if delay > r.retry.MaxDelay {
				delay = r.retry.MaxDelay
			}
		}
	}
	return nil, lastErr
}
