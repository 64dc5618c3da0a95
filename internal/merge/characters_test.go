package merge

import (
	"reflect"
	"testing"

	"github.com/mayflower/storyteller/internal/story"
)

func TestMergeCharactersAppendsFactLists(t *testing.T) {
	existing := map[string]*story.Character{
		"hero": {
			Name:          "Ava",
			Evolution:     []string{"timid"},
			KnownFacts:    []string{"orphan"},
			SecretFacts:   []string{"royal blood"},
			RevealedFacts: []string{"good with a bow"},
		},
	}
	delta := map[string]*story.Character{
		"hero": {
			Evolution:     []string{"braver"},
			KnownFacts:    []string{"left home"},
			SecretFacts:   []string{"cursed"},
			RevealedFacts: []string{"royal blood"},
		},
	}

	result := mergeCharacters(existing, delta)
	hero := result["hero"]

	if want := []string{"timid", "braver"}; !reflect.DeepEqual(hero.Evolution, want) {
		t.Errorf("evolution = %v, want %v", hero.Evolution, want)
	}
	if want := []string{"orphan", "left home"}; !reflect.DeepEqual(hero.KnownFacts, want) {
		t.Errorf("known facts = %v, want %v", hero.KnownFacts, want)
	}
	if len(hero.SecretFacts) != 2 || len(hero.RevealedFacts) != 2 {
		t.Errorf("list fields must only grow: secret=%v revealed=%v", hero.SecretFacts, hero.RevealedFacts)
	}
}

func TestMergeCharactersAppendMonotonicity(t *testing.T) {
	existing := map[string]*story.Character{
		"hero": {KnownFacts: []string{"a", "b", "c"}},
	}
	deltas := []map[string]*story.Character{
		{"hero": {KnownFacts: []string{"d"}}},
		{"hero": {}},
		{"hero": nil},
		nil,
	}
	prev := len(existing["hero"].KnownFacts)
	for _, delta := range deltas {
		existing = mergeCharacters(existing, delta)
		got := len(existing["hero"].KnownFacts)
		if got < prev {
			t.Fatalf("known_facts shrank from %d to %d", prev, got)
		}
		prev = got
	}
}

func TestMergeCharactersIdentityFields(t *testing.T) {
	tests := []struct {
		name     string
		existing *story.Character
		delta    *story.Character
		want     *story.Character
	}{
		{
			name:     "non-empty delta replaces",
			existing: &story.Character{Name: "Ava", Role: "sidekick"},
			delta:    &story.Character{Role: "protagonist"},
			want:     &story.Character{Name: "Ava", Role: "protagonist"},
		},
		{
			name:     "empty delta fields keep existing",
			existing: &story.Character{Name: "Ava", Backstory: "long"},
			delta:    &story.Character{},
			want:     &story.Character{Name: "Ava", Backstory: "long"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := mergeCharacters(
				map[string]*story.Character{"c": tt.existing},
				map[string]*story.Character{"c": tt.delta},
			)
			got := result["c"]
			if got.Name != tt.want.Name || got.Role != tt.want.Role || got.Backstory != tt.want.Backstory {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMergeCharactersRelationships(t *testing.T) {
	existing := map[string]*story.Character{
		"hero": {Relationships: story.Relationships{"mentor": "student", "rival": "enemy"}},
	}
	delta := map[string]*story.Character{
		"hero": {Relationships: story.Relationships{"rival": "uneasy ally", "bob": "friend"}},
	}
	result := mergeCharacters(existing, delta)
	want := story.Relationships{"mentor": "student", "rival": "uneasy ally", "bob": "friend"}
	if !reflect.DeepEqual(result["hero"].Relationships, want) {
		t.Errorf("relationships = %v, want %v", result["hero"].Relationships, want)
	}
}

func TestMergeCharactersNewAndNilEntries(t *testing.T) {
	existing := map[string]*story.Character{
		"hero": {Name: "Ava"},
	}
	delta := map[string]*story.Character{
		"villain": {Name: "Mor"},
		"ghost":   nil,
	}
	result := mergeCharacters(existing, delta)

	if len(result) != 2 {
		t.Fatalf("expected 2 characters, got %d", len(result))
	}
	if result["villain"].Name != "Mor" {
		t.Errorf("new character not inserted")
	}
	if _, ok := result["ghost"]; ok {
		t.Errorf("nil character entry should be skipped")
	}
}

func TestMergeCharactersNilExisting(t *testing.T) {
	result := mergeCharacters(nil, map[string]*story.Character{
		"hero": {Name: "Ava"},
	})
	if result["hero"].Name != "Ava" {
		t.Errorf("merge into nil map failed")
	}
}
