package merge

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mayflower/storyteller/internal/story"
)

// knownCollections are the top-level document keys the engine merges.
// Anything else in an external delta is a forward-compatible no-op.
var knownCollections = map[string]struct{}{
	"messages":              {},
	"genre":                 {},
	"tone":                  {},
	"author":                {},
	"author_style_guidance": {},
	"language":              {},
	"initial_idea":          {},
	"initial_idea_elements": {},
	"global_story":          {},
	"chapters":              {},
	"characters":            {},
	"revelations":           {},
	"creative_elements":     {},
	"world_elements":        {},
	"plot_threads":          {},
	"current_chapter":       {},
	"current_scene":         {},
	"completed":             {},
	"last_node":             {},
}

// DecodeDelta parses an externally supplied JSON delta. Unknown
// top-level keys are ignored with a warning, and characters whose
// relationships arrive as a pair list instead of a map are flagged so
// tests can assert on the normalization. Only unparseable JSON is an
// error; shape problems inside a known collection degrade to empty
// values during decoding.
func DecodeDelta(data []byte) (*story.Document, []Warning, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("parsing delta: %w", err)
	}

	var warnings []Warning
	for key := range raw {
		if _, ok := knownCollections[key]; !ok {
			warnings = append(warnings, Warning{
				Collection: key,
				Message:    "unknown top-level collection; ignored",
			})
		}
	}
	warnings = append(warnings, probeRelationshipShapes(raw["characters"])...)

	var delta story.Document
	if err := json.Unmarshal(data, &delta); err != nil {
		// A declared field with the wrong JSON type is skipped by the
		// decoder while the rest of the document still populates. The
		// field stays at its empty value, which the merge treats as a
		// no-op, so the step's other contributions survive.
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, warnings, fmt.Errorf("decoding delta: %w", err)
		}
		collection, field, _ := strings.Cut(typeErr.Field, ".")
		warnings = append(warnings, Warning{
			Collection: collection,
			Field:      field,
			Message:    fmt.Sprintf("wrong type (%s); field left empty", typeErr.Value),
		})
	}
	return &delta, warnings, nil
}

// probeRelationshipShapes inspects the raw characters collection for
// relationships supplied in the pair-list form. Decoding normalizes
// them regardless; the warning just keeps the coercion visible.
func probeRelationshipShapes(raw json.RawMessage) []Warning {
	if len(raw) == 0 {
		return nil
	}
	var chars map[string]map[string]json.RawMessage
	if err := json.Unmarshal(raw, &chars); err != nil {
		return nil
	}
	var warnings []Warning
	for id, fields := range chars {
		rel, ok := fields["relationships"]
		if !ok || len(rel) == 0 {
			continue
		}
		if rel[0] != '{' && string(rel) != "null" {
			warnings = append(warnings, Warning{
				Collection: "characters",
				Key:        id,
				Field:      "relationships",
				Message:    "not a map; normalized",
			})
		}
	}
	return warnings
}
