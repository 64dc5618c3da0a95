package story

import (
	"reflect"
	"testing"
)

func TestDocumentCloneIsDeep(t *testing.T) {
	original := &Document{
		Genre: "fantasy",
		Characters: map[string]*Character{
			"hero": {
				Name:          "Ava",
				KnownFacts:    []string{"orphan"},
				Relationships: Relationships{"mentor": "student"},
			},
		},
		Chapters: map[string]*Chapter{
			"1": {
				Scenes: map[string]*Scene{
					"1": {
						Content:              "A",
						ReflectionNotes:      []string{"note"},
						StructuredReflection: map[string]any{"nested": map[string]any{"score": float64(3)}},
					},
				},
			},
		},
		WorldElements: map[string]WorldCategory{
			"geography": {"regions": []any{"north"}},
		},
		PlotThreads: map[string]*PlotThread{
			"quest": {DevelopmentHistory: []Development{{Chapter: "1", Scene: "1", Development: "d"}}},
		},
		Revelations: &Revelations{
			Reader:           []string{"r"},
			ContinuityIssues: []ContinuityIssue{{AfterChapter: "1", Issues: []string{"i"}}},
		},
		Messages: []Message{{ID: "m1", Content: "hello"}},
	}

	clone := original.Clone()
	if !reflect.DeepEqual(clone, original) {
		t.Fatalf("clone differs from original")
	}

	clone.Characters["hero"].KnownFacts[0] = "mutated"
	clone.Characters["hero"].Relationships["mentor"] = "mutated"
	clone.Chapters["1"].Scenes["1"].StructuredReflection["nested"].(map[string]any)["score"] = float64(9)
	clone.WorldElements["geography"]["regions"].([]any)[0] = "mutated"
	clone.PlotThreads["quest"].DevelopmentHistory[0].Development = "mutated"
	clone.Revelations.ContinuityIssues[0].Issues[0] = "mutated"
	clone.Messages[0].Content = "mutated"

	if original.Characters["hero"].KnownFacts[0] != "orphan" {
		t.Errorf("fact list shared with clone")
	}
	if original.Characters["hero"].Relationships["mentor"] != "student" {
		t.Errorf("relationships shared with clone")
	}
	if original.Chapters["1"].Scenes["1"].StructuredReflection["nested"].(map[string]any)["score"] != float64(3) {
		t.Errorf("nested structured reflection shared with clone")
	}
	if original.WorldElements["geography"]["regions"].([]any)[0] != "north" {
		t.Errorf("world element list shared with clone")
	}
	if original.PlotThreads["quest"].DevelopmentHistory[0].Development != "d" {
		t.Errorf("development history shared with clone")
	}
	if original.Revelations.ContinuityIssues[0].Issues[0] != "i" {
		t.Errorf("continuity issues shared with clone")
	}
	if original.Messages[0].Content != "hello" {
		t.Errorf("messages shared with clone")
	}
}

func TestNilClones(t *testing.T) {
	var doc *Document
	if got := doc.Clone(); got == nil {
		t.Errorf("nil document should clone to empty document")
	}

	var c *Character
	if c.Clone() != nil {
		t.Errorf("nil character should clone to nil")
	}
	var r *Revelations
	if r.Clone() != nil {
		t.Errorf("nil revelations should clone to nil")
	}
}

func TestCloneValue(t *testing.T) {
	original := map[string]any{
		"list":   []any{"a", map[string]any{"k": "v"}},
		"scalar": float64(1),
	}
	clone := CloneValue(original).(map[string]any)
	clone["list"].([]any)[1].(map[string]any)["k"] = "mutated"
	if original["list"].([]any)[1].(map[string]any)["k"] != "v" {
		t.Errorf("nested map shared between clone and original")
	}
}
