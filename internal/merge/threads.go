package merge

import "github.com/mayflower/storyteller/internal/story"

// mergePlotThreads merges partial plot threads. Status replaces when
// the delta carries a different value; last chapter and scene only move
// together; history entries append idempotently keyed by their full
// (chapter, scene, development) identity, so re-applying an identical
// delta never duplicates history.
func mergePlotThreads(existing, delta map[string]*story.PlotThread) map[string]*story.PlotThread {
	if len(delta) == 0 {
		return existing
	}
	result := existing
	if result == nil {
		result = make(map[string]*story.PlotThread, len(delta))
	}
	for name, partial := range delta {
		if partial == nil {
			continue
		}
		current, ok := result[name]
		if !ok || current == nil {
			result[name] = partial.Clone()
			continue
		}
		if partial.Status != "" && partial.Status != current.Status {
			current.Status = partial.Status
		}
		if partial.LastChapter != "" && partial.LastScene != "" {
			current.LastChapter = partial.LastChapter
			current.LastScene = partial.LastScene
		}
		current.DevelopmentHistory = DedupAppendList(
			current.DevelopmentHistory,
			partial.DevelopmentHistory,
			func(d story.Development) story.Development { return d },
		)
	}
	return result
}
