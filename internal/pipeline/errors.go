package pipeline

import (
	"fmt"
	"time"
)

// StepError wraps a step failure with retry context. The merge engine
// itself never fails; step errors come from the steps producing deltas.
type StepError struct {
	Step      string
	Attempt   int
	Cause     error
	Retryable bool
	Timestamp time.Time
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed (attempt %d): %v", e.Step, e.Attempt, e.Cause)
}

func (e *StepError) Unwrap() error {
	return e.Cause
}
