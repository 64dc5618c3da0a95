package merge

import "github.com/mayflower/storyteller/internal/story"

// SceneRevisedNote is the sentinel a rewrite step emits as the sole
// reflection note of a revised scene. It signals a fresh revision
// cycle: instead of appending, the merge replaces the accumulated notes
// with just this entry.
const SceneRevisedNote = "Scene has been revised"

func mergeScenes(existing, delta map[string]*story.Scene) map[string]*story.Scene {
	if len(delta) == 0 {
		return existing
	}
	result := existing
	if result == nil {
		result = make(map[string]*story.Scene, len(delta))
	}
	for id, partial := range delta {
		if partial == nil {
			continue
		}
		current, ok := result[id]
		if !ok || current == nil {
			result[id] = partial.Clone()
			continue
		}
		current.Content = ReplaceIfNonEmpty(current.Content, partial.Content)
		if len(partial.StructuredReflection) > 0 {
			current.StructuredReflection = story.CloneValue(partial.StructuredReflection).(map[string]any)
		}
		if len(partial.ReflectionNotes) == 1 && partial.ReflectionNotes[0] == SceneRevisedNote {
			current.ReflectionNotes = append([]string(nil), partial.ReflectionNotes...)
		} else {
			current.ReflectionNotes = AppendList(current.ReflectionNotes, partial.ReflectionNotes)
		}
	}
	return result
}

// mergeChapters merges partial chapters, recursing into scenes.
func mergeChapters(existing, delta map[string]*story.Chapter) map[string]*story.Chapter {
	if len(delta) == 0 {
		return existing
	}
	result := existing
	if result == nil {
		result = make(map[string]*story.Chapter, len(delta))
	}
	for id, partial := range delta {
		if partial == nil {
			continue
		}
		current, ok := result[id]
		if !ok || current == nil {
			result[id] = partial.Clone()
			continue
		}
		current.Scenes = mergeScenes(current.Scenes, partial.Scenes)
		current.ReflectionNotes = AppendList(current.ReflectionNotes, partial.ReflectionNotes)
		current.Title = ReplaceIfNonEmpty(current.Title, partial.Title)
		current.Outline = ReplaceIfNonEmpty(current.Outline, partial.Outline)
	}
	return result
}
