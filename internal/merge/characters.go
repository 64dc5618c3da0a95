package merge

import "github.com/mayflower/storyteller/internal/story"

// mergeCharacters folds partial character profiles into the existing
// roster. Fact and evolution lists are append-only; relationships merge
// as a map with new entries winning overlaps; identity fields replace
// only when the delta carries a value. The existing map is owned by the
// caller (a fresh clone) and is extended in place.
func mergeCharacters(existing, delta map[string]*story.Character) map[string]*story.Character {
	if len(delta) == 0 {
		return existing
	}
	result := existing
	if result == nil {
		result = make(map[string]*story.Character, len(delta))
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
		current.Evolution = AppendList(current.Evolution, partial.Evolution)
		current.KnownFacts = AppendList(current.KnownFacts, partial.KnownFacts)
		current.SecretFacts = AppendList(current.SecretFacts, partial.SecretFacts)
		current.RevealedFacts = AppendList(current.RevealedFacts, partial.RevealedFacts)
		current.Relationships = ShallowMergeMap(current.Relationships, partial.Relationships)
		current.Name = ReplaceIfNonEmpty(current.Name, partial.Name)
		current.Role = ReplaceIfNonEmpty(current.Role, partial.Role)
		current.Backstory = ReplaceIfNonEmpty(current.Backstory, partial.Backstory)
	}
	return result
}
