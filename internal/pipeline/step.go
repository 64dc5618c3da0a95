// Package pipeline runs processing steps against the shared story
// state. Steps read a snapshot and return a delta; the runner applies
// each delta through the state manager in submission order, so merges
// stay serialized however the steps themselves are produced.
package pipeline

import (
	"context"

	"github.com/mayflower/storyteller/internal/story"
)

// Step is one processing node. Run receives a clone of the current
// snapshot and returns a partial document containing only what the
// step touched. Steps must not assume when their delta lands beyond
// "before downstream steps read it".
type Step interface {
	Name() string
	Run(ctx context.Context, snapshot *story.Document) (*story.Document, error)
}

// StepFunc adapts a function to the Step interface.
type StepFunc struct {
	StepName string
	Fn       func(ctx context.Context, snapshot *story.Document) (*story.Document, error)
}

func (s StepFunc) Name() string { return s.StepName }

func (s StepFunc) Run(ctx context.Context, snapshot *story.Document) (*story.Document, error) {
	return s.Fn(ctx, snapshot)
}
