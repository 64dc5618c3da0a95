package merge

import (
	"fmt"
	"sync"
)

// Warning records an input that had to be normalized or dropped while
// merging. The merge itself never fails; warnings are how degraded
// input stays observable to callers and tests.
type Warning struct {
	Collection string
	Key        string
	Field      string
	Message    string
}

func (w Warning) String() string {
	if w.Key != "" {
		return fmt.Sprintf("%s[%s].%s: %s", w.Collection, w.Key, w.Field, w.Message)
	}
	return fmt.Sprintf("%s.%s: %s", w.Collection, w.Field, w.Message)
}

// warningSink collects warnings from the per-collection mergers. It is
// mutex-guarded so the parallel document merge can share one sink.
type warningSink struct {
	mu       sync.Mutex
	warnings []Warning
}

func (s *warningSink) add(collection, key, field, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnings = append(s.warnings, Warning{
		Collection: collection,
		Key:        key,
		Field:      field,
		Message:    msg,
	})
}

func (s *warningSink) list() []Warning {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Warning(nil), s.warnings...)
}
