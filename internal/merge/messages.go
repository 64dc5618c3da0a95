package merge

import "github.com/mayflower/storyteller/internal/story"

// mergeMessages applies one delta's worth of updates to the ordered
// message log. Removal markers take effect before any appends from the
// same delta, which is how a step resets and restates the log in one
// update. Appends with an ID already in the log replace that entry in
// place; everything else appends in delta order.
func mergeMessages(existing, delta []story.Message) []story.Message {
	if len(delta) == 0 {
		return existing
	}

	removed := make(map[string]struct{})
	for _, m := range delta {
		if m.Remove && m.ID != "" {
			removed[m.ID] = struct{}{}
		}
	}

	result := make([]story.Message, 0, len(existing)+len(delta))
	index := make(map[string]int, len(existing))
	for _, m := range existing {
		if _, gone := removed[m.ID]; gone {
			continue
		}
		if m.ID != "" {
			index[m.ID] = len(result)
		}
		result = append(result, m)
	}

	for _, m := range delta {
		if m.Remove {
			continue
		}
		if m.ID != "" {
			if pos, ok := index[m.ID]; ok {
				result[pos] = m
				continue
			}
			index[m.ID] = len(result)
		}
		result = append(result, m)
	}
	return result
}
