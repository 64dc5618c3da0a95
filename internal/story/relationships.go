package story

import (
	"encoding/json"
	"fmt"
)

// Relationships maps a character id to a description of the
// relationship. Contributing steps sometimes emit the same data as a
// list of {character, relationship} pairs instead of a map; decoding
// accepts both and normalizes to the map form. Anything else degrades
// to an empty map rather than failing the whole delta.
type Relationships map[string]string

type relationshipPair struct {
	Character    string `json:"character"`
	Relationship string `json:"relationship"`
}

func (r *Relationships) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err == nil {
		*r = m
		return nil
	}

	var pairs []relationshipPair
	if err := json.Unmarshal(data, &pairs); err == nil {
		m := make(Relationships, len(pairs))
		for i, p := range pairs {
			key := p.Character
			if key == "" {
				key = fmt.Sprintf("char_%d", i)
			}
			m[key] = p.Relationship
		}
		*r = m
		return nil
	}

	// Unrecognized shape: treat as no information.
	*r = Relationships{}
	return nil
}
