package story

// Document is the full story-state snapshot at one point in time. A
// delta is a Document with only the touched entities populated; absent
// collections mean "unchanged", never "removed".
type Document struct {
	Messages []Message `json:"messages,omitempty"`

	// Simple fields where replacement is fine
	Genre               string         `json:"genre,omitempty"`
	Tone                string         `json:"tone,omitempty"`
	Author              string         `json:"author,omitempty"`
	AuthorStyleGuidance string         `json:"author_style_guidance,omitempty"`
	Language            string         `json:"language,omitempty"`
	InitialIdea         string         `json:"initial_idea,omitempty"`
	InitialIdeaElements map[string]any `json:"initial_idea_elements,omitempty"`
	GlobalStory         string         `json:"global_story,omitempty"`

	// Complex collections with type-specific merge policies
	Chapters         map[string]*Chapter       `json:"chapters,omitempty"`
	Characters       map[string]*Character     `json:"characters,omitempty"`
	Revelations      *Revelations              `json:"revelations,omitempty"`
	CreativeElements map[string]map[string]any `json:"creative_elements,omitempty"`
	WorldElements    map[string]WorldCategory  `json:"world_elements,omitempty"`
	PlotThreads      map[string]*PlotThread    `json:"plot_threads,omitempty"`

	// Tracking fields
	CurrentChapter string `json:"current_chapter,omitempty"`
	CurrentScene   string `json:"current_scene,omitempty"`
	Completed      bool   `json:"completed,omitempty"`
	LastNode       string `json:"last_node,omitempty"`
}

// Character holds one character profile. The fact lists only grow
// across merges.
type Character struct {
	Name          string        `json:"name,omitempty"`
	Role          string        `json:"role,omitempty"`
	Backstory     string        `json:"backstory,omitempty"`
	Evolution     []string      `json:"evolution,omitempty"`
	KnownFacts    []string      `json:"known_facts,omitempty"`
	SecretFacts   []string      `json:"secret_facts,omitempty"`
	RevealedFacts []string      `json:"revealed_facts,omitempty"`
	Relationships Relationships `json:"relationships,omitempty"`
}

// Scene is a single scene within a chapter.
type Scene struct {
	Content              string         `json:"content,omitempty"`
	ReflectionNotes      []string       `json:"reflection_notes,omitempty"`
	StructuredReflection map[string]any `json:"structured_reflection,omitempty"`
}

// Chapter groups scenes and chapter-level notes.
type Chapter struct {
	Title           string            `json:"title,omitempty"`
	Outline         string            `json:"outline,omitempty"`
	Scenes          map[string]*Scene `json:"scenes,omitempty"`
	ReflectionNotes []string          `json:"reflection_notes,omitempty"`
}

// WorldCategory is one category of worldbuilding elements. Field values
// keep their decoded JSON shape (string, []any, map[string]any, number,
// bool); the merge policy branches on that shape.
type WorldCategory map[string]any

// PlotThread tracks one plot thread through the story.
type PlotThread struct {
	Status             string        `json:"status,omitempty"`
	LastChapter        string        `json:"last_chapter,omitempty"`
	LastScene          string        `json:"last_scene,omitempty"`
	DevelopmentHistory []Development `json:"development_history,omitempty"`
}

// Development is one entry in a plot thread's history. All fields form
// the composite identity used for idempotent appends.
type Development struct {
	Chapter     string `json:"chapter"`
	Scene       string `json:"scene"`
	Development string `json:"development"`
}

// Revelations holds what the reader and the characters have learned,
// plus detected continuity issues.
type Revelations struct {
	Reader           []string          `json:"reader,omitempty"`
	Characters       []string          `json:"characters,omitempty"`
	ContinuityIssues []ContinuityIssue `json:"continuity_issues,omitempty"`
}

// ContinuityIssue describes a detected inconsistency anchored to the
// chapter after which it was found. At most one canonical record per
// AfterChapter survives a merge.
type ContinuityIssue struct {
	AfterChapter     string   `json:"after_chapter,omitempty"`
	Issues           []string `json:"issues,omitempty"`
	ResolutionStatus string   `json:"resolution_status,omitempty"`
}

// ResolutionCompleted is the one resolution status the continuity
// resolver treats specially; every other value counts as unresolved.
const ResolutionCompleted = "completed"

// Resolved reports whether the issue has been fully resolved.
func (i ContinuityIssue) Resolved() bool {
	return i.ResolutionStatus == ResolutionCompleted
}

// Message roles used by the pipeline.
const (
	RoleHuman = "human"
	RoleAI    = "ai"
)

// Message is one entry in the ordered conversation log. A Message with
// Remove set is a removal marker: within a single delta all removals
// are applied before any appends, which lets a step reset and restate
// the log in one update.
type Message struct {
	ID      string `json:"id,omitempty"`
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
	Remove  bool   `json:"remove,omitempty"`
}
