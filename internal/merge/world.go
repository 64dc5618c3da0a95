package merge

import (
	"fmt"

	"github.com/mayflower/storyteller/internal/story"
)

// mergeWorldElements merges worldbuilding categories. Field values keep
// their decoded JSON shape, so the policy branches on shape: lists
// dedup-append (string equality as the duplicate test), nested maps
// shallow-merge with new keys winning, scalars replace when the new
// value carries information.
func mergeWorldElements(existing, delta map[string]story.WorldCategory) map[string]story.WorldCategory {
	if len(delta) == 0 {
		return existing
	}
	result := existing
	if result == nil {
		result = make(map[string]story.WorldCategory, len(delta))
	}
	for category, elements := range delta {
		current, ok := result[category]
		if !ok || current == nil {
			result[category] = story.WorldCategory(story.CloneValue(map[string]any(elements)).(map[string]any))
			continue
		}
		for field, value := range elements {
			old, ok := current[field]
			if !ok {
				current[field] = story.CloneValue(value)
				continue
			}
			current[field] = mergeWorldValue(old, value)
		}
	}
	return result
}

func mergeWorldValue(old, new any) any {
	switch newVal := new.(type) {
	case []any:
		if oldList, ok := old.([]any); ok {
			return dedupAppendAny(oldList, newVal)
		}
	case map[string]any:
		if oldMap, ok := old.(map[string]any); ok {
			merged := ShallowMergeMap(oldMap, newVal)
			return story.CloneValue(merged)
		}
	}
	if truthy(new) {
		return story.CloneValue(new)
	}
	return old
}

// dedupAppendAny appends new items whose string rendering is not
// already present. Rendering with fmt.Sprint matches entries that are
// equal in content but not comparable as values.
func dedupAppendAny(existing, new []any) []any {
	seen := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		seen[fmt.Sprint(item)] = struct{}{}
	}
	out := append([]any(nil), existing...)
	for _, item := range new {
		k := fmt.Sprint(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, story.CloneValue(item))
	}
	return out
}
