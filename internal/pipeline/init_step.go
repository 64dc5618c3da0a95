package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mayflower/storyteller/internal/memory"
	"github.com/mayflower/storyteller/internal/story"
)

// Story defaults applied when the caller supplies nothing.
const (
	DefaultGenre    = "fantasy"
	DefaultTone     = "epic"
	DefaultLanguage = "english"
)

// InitStep seeds the story state from user input: it fills in default
// genre, tone and language, pulls cached author style guidance from the
// memory side channel, and resets the message log (removal markers for
// everything already there, then one status message) so every session
// starts its conversation clean.
type InitStep struct {
	Genre              string
	Tone               string
	Author             string
	InitialIdea        string
	Language           string
	SupportedLanguages []string
	Memory             *memory.Store
}

func (s *InitStep) Name() string { return "initialize_state" }

func (s *InitStep) Run(ctx context.Context, snapshot *story.Document) (*story.Document, error) {
	genre := firstNonEmpty(s.Genre, snapshot.Genre, DefaultGenre)
	tone := firstNonEmpty(s.Tone, snapshot.Tone, DefaultTone)
	author := firstNonEmpty(s.Author, snapshot.Author)
	idea := firstNonEmpty(s.InitialIdea, snapshot.InitialIdea)
	language := firstNonEmpty(s.Language, snapshot.Language, DefaultLanguage)
	if !s.languageSupported(language) {
		language = DefaultLanguage
	}

	var styleGuidance string
	if author != "" && s.Memory != nil {
		key := "author_style_" + strings.ReplaceAll(strings.ToLower(author), " ", "_")
		if _, err := s.Memory.Get(ctx, key, &styleGuidance); err != nil {
			// Cache problems are not fatal; guidance regenerates later.
			styleGuidance = ""
		}
	}

	delta := &story.Document{
		Genre:               genre,
		Tone:                tone,
		Author:              author,
		AuthorStyleGuidance: styleGuidance,
		Language:            language,
		InitialIdea:         idea,
	}

	// Reset the conversation: removals first, then the status message.
	for _, msg := range snapshot.Messages {
		if msg.ID != "" {
			delta.Messages = append(delta.Messages, story.Message{ID: msg.ID, Remove: true})
		}
	}
	delta.Messages = append(delta.Messages, story.Message{
		ID:      uuid.New().String(),
		Role:    story.RoleAI,
		Content: s.statusMessage(genre, tone, author, idea),
	})
	return delta, nil
}

func (s *InitStep) languageSupported(language string) bool {
	if len(s.SupportedLanguages) == 0 {
		return language == DefaultLanguage
	}
	for _, supported := range s.SupportedLanguages {
		if strings.EqualFold(supported, language) {
			return true
		}
	}
	return false
}

func (s *InitStep) statusMessage(genre, tone, author, idea string) string {
	msg := fmt.Sprintf("I'll create a %s %s story", tone, genre)
	if author != "" {
		msg += fmt.Sprintf(" in the style of %s", author)
	}
	if idea != "" {
		msg += fmt.Sprintf(" based on your idea: %q", idea)
	}
	return msg + ". Let me start planning the narrative..."
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
