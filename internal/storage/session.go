package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// SessionPath builds the session-scoped directory for one pipeline
// run: sessions/<timestamp>_<short-id>, with an optional sanitized
// label from the initial story idea.
func SessionPath(sessionID, label string) string {
	timestamp := time.Now().Format("2006-01-02_1504")
	short := sessionID
	if len(short) > 8 {
		short = short[:8]
	}
	if label == "" {
		return filepath.Join("sessions", fmt.Sprintf("%s_%s", timestamp, short))
	}
	return filepath.Join("sessions", fmt.Sprintf("%s_%s_%s", timestamp, sanitizeLabel(label, 30), short))
}

func sanitizeLabel(s string, maxLen int) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '/', r == '.':
			b.WriteRune('-')
		}
	}
	out := b.String()
	for strings.Contains(out, "--") {
		out = strings.ReplaceAll(out, "--", "-")
	}
	out = strings.Trim(out, "-")
	if len(out) > maxLen {
		out = out[:maxLen]
	}
	return out
}
