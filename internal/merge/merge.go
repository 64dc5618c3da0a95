// Package merge implements the incremental state-merge engine: the
// type-specific reducers that fold a step's partial document into the
// current snapshot without losing any earlier contribution. The engine
// is pure computation; it performs no I/O, never fails, and reports
// degraded input through warnings instead of errors.
package merge

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mayflower/storyteller/internal/story"
)

// Result is a merged snapshot plus any normalization warnings produced
// while folding the delta in. Doc is always non-nil and always valid.
type Result struct {
	Doc      *story.Document
	Warnings []Warning
}

// Merge folds delta into current and returns the new snapshot. Neither
// operand is mutated: the result is built on a deep clone of current,
// and entities inserted from the delta are cloned on the way in.
// Collections absent from the delta are carried over unchanged.
func Merge(current, delta *story.Document) Result {
	result := current.Clone()
	if delta == nil {
		return Result{Doc: result}
	}
	sink := &warningSink{}

	mergeScalars(result, delta)
	result.Characters = mergeCharacters(result.Characters, delta.Characters)
	result.Chapters = mergeChapters(result.Chapters, delta.Chapters)
	result.WorldElements = mergeWorldElements(result.WorldElements, delta.WorldElements)
	result.PlotThreads = mergePlotThreads(result.PlotThreads, delta.PlotThreads)
	result.Revelations = mergeRevelations(result.Revelations, delta.Revelations, sink)
	result.CreativeElements = mergeCreativeElements(result.CreativeElements, delta.CreativeElements)
	result.Messages = mergeMessages(result.Messages, delta.Messages)

	return Result{Doc: result, Warnings: sink.list()}
}

// MergeParallel is Merge with the independent collections folded
// concurrently. Entity keys have no inter-dependencies, so each
// collection merger gets its own goroutine; scalars are cheap and stay
// on the calling goroutine. The error return only reports context
// cancellation.
func MergeParallel(ctx context.Context, current, delta *story.Document) (Result, error) {
	result := current.Clone()
	if delta == nil {
		return Result{Doc: result}, nil
	}
	sink := &warningSink{}
	mergeScalars(result, delta)

	g, ctx := errgroup.WithContext(ctx)
	run := func(f func()) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f()
			return nil
		})
	}

	run(func() { result.Characters = mergeCharacters(result.Characters, delta.Characters) })
	run(func() { result.Chapters = mergeChapters(result.Chapters, delta.Chapters) })
	run(func() { result.WorldElements = mergeWorldElements(result.WorldElements, delta.WorldElements) })
	run(func() { result.PlotThreads = mergePlotThreads(result.PlotThreads, delta.PlotThreads) })
	run(func() { result.Revelations = mergeRevelations(result.Revelations, delta.Revelations, sink) })
	run(func() { result.CreativeElements = mergeCreativeElements(result.CreativeElements, delta.CreativeElements) })
	run(func() { result.Messages = mergeMessages(result.Messages, delta.Messages) })

	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return Result{Doc: result, Warnings: sink.list()}, nil
}

// mergeScalars applies replace-on-nonempty to the simple story fields.
// Completed can only latch on; a delta cannot un-complete a story.
func mergeScalars(result, delta *story.Document) {
	result.Genre = ReplaceIfNonEmpty(result.Genre, delta.Genre)
	result.Tone = ReplaceIfNonEmpty(result.Tone, delta.Tone)
	result.Author = ReplaceIfNonEmpty(result.Author, delta.Author)
	result.AuthorStyleGuidance = ReplaceIfNonEmpty(result.AuthorStyleGuidance, delta.AuthorStyleGuidance)
	result.Language = ReplaceIfNonEmpty(result.Language, delta.Language)
	result.InitialIdea = ReplaceIfNonEmpty(result.InitialIdea, delta.InitialIdea)
	result.GlobalStory = ReplaceIfNonEmpty(result.GlobalStory, delta.GlobalStory)
	result.CurrentChapter = ReplaceIfNonEmpty(result.CurrentChapter, delta.CurrentChapter)
	result.CurrentScene = ReplaceIfNonEmpty(result.CurrentScene, delta.CurrentScene)
	result.LastNode = ReplaceIfNonEmpty(result.LastNode, delta.LastNode)
	if len(delta.InitialIdeaElements) > 0 {
		result.InitialIdeaElements = story.CloneValue(delta.InitialIdeaElements).(map[string]any)
	}
	if delta.Completed {
		result.Completed = true
	}
}

// mergeCreativeElements replaces whole entries per key; brainstormed
// elements are regenerated wholesale rather than updated incrementally.
func mergeCreativeElements(existing, delta map[string]map[string]any) map[string]map[string]any {
	if len(delta) == 0 {
		return existing
	}
	result := existing
	if result == nil {
		result = make(map[string]map[string]any, len(delta))
	}
	for key, value := range delta {
		result[key] = story.CloneValue(value).(map[string]any)
	}
	return result
}
