package pipeline

import (
	"sync"
	"time"
)

// ProgressCallback receives the step name and new state version after
// each applied delta.
type ProgressCallback func(step string, version uint64)

// ProgressTracker counts step invocations and elapsed time for one
// pipeline run. Steps can re-run (revision cycles revisit the same
// node), so counts are per name, not per position.
type ProgressTracker struct {
	mu       sync.Mutex
	started  time.Time
	counts   map[string]int
	callback ProgressCallback
}

func NewProgressTracker(callback ProgressCallback) *ProgressTracker {
	return &ProgressTracker{
		counts:   make(map[string]int),
		callback: callback,
	}
}

// Record notes one completed invocation of step and fires the callback
// if one is set.
func (p *ProgressTracker) Record(step string, version uint64) {
	p.mu.Lock()
	if p.started.IsZero() {
		p.started = time.Now()
	}
	p.counts[step]++
	cb := p.callback
	p.mu.Unlock()

	if cb != nil {
		cb(step, version)
	}
}

// Count returns how many times step has run.
func (p *ProgressTracker) Count(step string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts[step]
}

// Elapsed returns time since the first recorded step, zero before any.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started.IsZero() {
		return 0
	}
	return time.Since(p.started)
}

// Reset clears all tracking state.
func (p *ProgressTracker) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = time.Time{}
	p.counts = make(map[string]int)
}
