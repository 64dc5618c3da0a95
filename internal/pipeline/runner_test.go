package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mayflower/storyteller/internal/state"
	"github.com/mayflower/storyteller/internal/storage"
	"github.com/mayflower/storyteller/internal/story"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

func factStep(name, fact string) Step {
	return StepFunc{
		StepName: name,
		Fn: func(ctx context.Context, snapshot *story.Document) (*story.Document, error) {
			return &story.Document{
				Characters: map[string]*story.Character{
					"hero": {KnownFacts: []string{fact}},
				},
			}, nil
		},
	}
}

func TestRunnerAppliesStepsInOrder(t *testing.T) {
	manager := state.NewManager()
	runner := NewRunner(manager, WithRetry(fastRetry()))

	steps := []Step{
		factStep("one", "first"),
		factStep("two", "second"),
		factStep("three", "third"),
	}
	if err := runner.Run(context.Background(), steps); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	facts := manager.Snapshot().Characters["hero"].KnownFacts
	want := []string{"first", "second", "third"}
	for i, fact := range want {
		if facts[i] != fact {
			t.Fatalf("facts = %v, want %v (submission order)", facts, want)
		}
	}
	if manager.Version() != 3 {
		t.Errorf("version = %d, want 3", manager.Version())
	}
}

func TestRunnerStepSeesPriorDeltas(t *testing.T) {
	manager := state.NewManager()
	runner := NewRunner(manager, WithRetry(fastRetry()))

	var observed string
	steps := []Step{
		StepFunc{
			StepName: "set_genre",
			Fn: func(ctx context.Context, snapshot *story.Document) (*story.Document, error) {
				return &story.Document{Genre: "fantasy"}, nil
			},
		},
		StepFunc{
			StepName: "read_genre",
			Fn: func(ctx context.Context, snapshot *story.Document) (*story.Document, error) {
				observed = snapshot.Genre
				return &story.Document{}, nil
			},
		},
	}
	if err := runner.Run(context.Background(), steps); err != nil {
		t.Fatal(err)
	}
	if observed != "fantasy" {
		t.Errorf("downstream step saw genre %q, want prior delta merged first", observed)
	}
}

func TestRunnerRetriesFailedStep(t *testing.T) {
	manager := state.NewManager()
	runner := NewRunner(manager, WithRetry(fastRetry()))

	attempts := 0
	flaky := StepFunc{
		StepName: "flaky",
		Fn: func(ctx context.Context, snapshot *story.Document) (*story.Document, error) {
			attempts++
			if attempts < 3 {
				return nil, fmt.Errorf("transient failure")
			}
			return &story.Document{Genre: "fantasy"}, nil
		},
	}
	if err := runner.Run(context.Background(), []Step{flaky}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if manager.Snapshot().Genre != "fantasy" {
		t.Errorf("delta from eventual success not applied")
	}
}

func TestRunnerExhaustedRetriesReturnStepError(t *testing.T) {
	manager := state.NewManager()
	runner := NewRunner(manager, WithRetry(fastRetry()))

	broken := StepFunc{
		StepName: "broken",
		Fn: func(ctx context.Context, snapshot *story.Document) (*story.Document, error) {
			return nil, fmt.Errorf("permanent failure")
		},
	}
	err := runner.Run(context.Background(), []Step{broken})
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("error = %T, want *StepError", err)
	}
	if stepErr.Step != "broken" || stepErr.Attempt != 3 {
		t.Errorf("step error = %+v", stepErr)
	}
	if manager.Version() != 0 {
		t.Errorf("failed step must not advance state, version = %d", manager.Version())
	}
}

func TestRunnerRecordsProgress(t *testing.T) {
	manager := state.NewManager()
	var callbacks []string
	progress := NewProgressTracker(func(step string, version uint64) {
		callbacks = append(callbacks, fmt.Sprintf("%s@%d", step, version))
	})
	runner := NewRunner(manager, WithProgress(progress), WithRetry(fastRetry()))

	steps := []Step{factStep("one", "a"), factStep("one", "b"), factStep("two", "c")}
	if err := runner.Run(context.Background(), steps); err != nil {
		t.Fatal(err)
	}

	if progress.Count("one") != 2 || progress.Count("two") != 1 {
		t.Errorf("counts = one:%d two:%d", progress.Count("one"), progress.Count("two"))
	}
	if len(callbacks) != 3 || callbacks[2] != "two@3" {
		t.Errorf("callbacks = %v", callbacks)
	}
	if progress.Elapsed() <= 0 {
		t.Errorf("elapsed not tracked")
	}
}

func TestRunnerWritesCheckpoints(t *testing.T) {
	manager := state.NewManager(state.WithSessionID("test-session"))
	store := storage.NewFileSystem(t.TempDir())
	cm := NewCheckpointManager(store)
	runner := NewRunner(manager, WithCheckpoints(cm), WithRetry(fastRetry()))

	if err := runner.Run(context.Background(), []Step{factStep("one", "a")}); err != nil {
		t.Fatal(err)
	}

	cp, err := cm.Load(context.Background(), "test-session")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cp.Version != 1 || cp.Step != "one" {
		t.Errorf("checkpoint = %+v", cp)
	}
	if cp.Document.Characters["hero"].KnownFacts[0] != "a" {
		t.Errorf("checkpoint document missing applied delta")
	}
}

func TestRunnerContextCancellation(t *testing.T) {
	manager := state.NewManager()
	runner := NewRunner(manager, WithRetry(fastRetry()))

	ctx, cancel := context.WithCancel(context.Background())
	blocked := StepFunc{
		StepName: "blocked",
		Fn: func(ctx context.Context, snapshot *story.Document) (*story.Document, error) {
			cancel()
			return nil, ctx.Err()
		},
	}
	err := runner.Run(ctx, []Step{blocked})
	if err == nil {
		t.Fatal("expected error from cancelled step")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled in chain", err)
	}
}
