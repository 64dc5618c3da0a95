package story

// Clone returns a deep copy of the document. Merging always operates on
// clones so that mutating a merged snapshot can never retroactively
// change an earlier one. A nil receiver clones to an empty document.
func (d *Document) Clone() *Document {
	if d == nil {
		return &Document{}
	}
	out := *d
	out.Messages = append([]Message(nil), d.Messages...)
	out.InitialIdeaElements = cloneAnyMap(d.InitialIdeaElements)

	if d.Chapters != nil {
		out.Chapters = make(map[string]*Chapter, len(d.Chapters))
		for id, ch := range d.Chapters {
			out.Chapters[id] = ch.Clone()
		}
	}
	if d.Characters != nil {
		out.Characters = make(map[string]*Character, len(d.Characters))
		for id, c := range d.Characters {
			out.Characters[id] = c.Clone()
		}
	}
	out.Revelations = d.Revelations.Clone()
	if d.CreativeElements != nil {
		out.CreativeElements = make(map[string]map[string]any, len(d.CreativeElements))
		for k, v := range d.CreativeElements {
			out.CreativeElements[k] = cloneAnyMap(v)
		}
	}
	if d.WorldElements != nil {
		out.WorldElements = make(map[string]WorldCategory, len(d.WorldElements))
		for k, v := range d.WorldElements {
			out.WorldElements[k] = WorldCategory(cloneAnyMap(v))
		}
	}
	if d.PlotThreads != nil {
		out.PlotThreads = make(map[string]*PlotThread, len(d.PlotThreads))
		for name, t := range d.PlotThreads {
			out.PlotThreads[name] = t.Clone()
		}
	}
	return &out
}

func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	out := *c
	out.Evolution = append([]string(nil), c.Evolution...)
	out.KnownFacts = append([]string(nil), c.KnownFacts...)
	out.SecretFacts = append([]string(nil), c.SecretFacts...)
	out.RevealedFacts = append([]string(nil), c.RevealedFacts...)
	if c.Relationships != nil {
		out.Relationships = make(Relationships, len(c.Relationships))
		for k, v := range c.Relationships {
			out.Relationships[k] = v
		}
	}
	return &out
}

func (s *Scene) Clone() *Scene {
	if s == nil {
		return nil
	}
	out := *s
	out.ReflectionNotes = append([]string(nil), s.ReflectionNotes...)
	out.StructuredReflection = cloneAnyMap(s.StructuredReflection)
	return &out
}

func (c *Chapter) Clone() *Chapter {
	if c == nil {
		return nil
	}
	out := *c
	out.ReflectionNotes = append([]string(nil), c.ReflectionNotes...)
	if c.Scenes != nil {
		out.Scenes = make(map[string]*Scene, len(c.Scenes))
		for id, s := range c.Scenes {
			out.Scenes[id] = s.Clone()
		}
	}
	return &out
}

func (t *PlotThread) Clone() *PlotThread {
	if t == nil {
		return nil
	}
	out := *t
	out.DevelopmentHistory = append([]Development(nil), t.DevelopmentHistory...)
	return &out
}

func (r *Revelations) Clone() *Revelations {
	if r == nil {
		return nil
	}
	out := *r
	out.Reader = append([]string(nil), r.Reader...)
	out.Characters = append([]string(nil), r.Characters...)
	if r.ContinuityIssues != nil {
		out.ContinuityIssues = make([]ContinuityIssue, len(r.ContinuityIssues))
		for i, issue := range r.ContinuityIssues {
			issue.Issues = append([]string(nil), issue.Issues...)
			out.ContinuityIssues[i] = issue
		}
	}
	return &out
}

func cloneAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies a decoded JSON value. Scalars are returned
// as-is.
func CloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneAnyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CloneValue(item)
		}
		return out
	default:
		return v
	}
}
