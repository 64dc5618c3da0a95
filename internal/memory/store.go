// Package memory is the namespaced key/value side channel steps use
// for cross-cutting artifacts (concept trackers, cached style
// guidance). It sits outside the document merge and carries none of
// its guarantees.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/mayflower/storyteller/internal/storage"
)

// Entry is one stored record.
type Entry struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Store persists entries under memory/<namespace>/<key>.json.
type Store struct {
	storage   storage.Storage
	namespace string
	logger    *slog.Logger
}

func NewStore(st storage.Storage, namespace string) *Store {
	return &Store{
		storage:   st,
		namespace: namespace,
		logger:    slog.Default().With("component", "memory", "namespace", namespace),
	}
}

func (s *Store) keyPath(key string) string {
	return path.Join("memory", s.namespace, key+".json")
}

// Put stores value under key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling memory value: %w", err)
	}
	entry := Entry{Key: key, Value: raw, UpdatedAt: time.Now()}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling memory entry: %w", err)
	}
	s.logger.Debug("memory put", "key", key, "bytes", len(raw))
	return s.storage.Save(ctx, s.keyPath(key), data)
}

// Get loads the entry for key into target. The boolean reports whether
// the key existed.
func (s *Store) Get(ctx context.Context, key string, target any) (bool, error) {
	data, err := s.storage.Load(ctx, s.keyPath(key))
	if err != nil {
		// Absent keys are not errors; callers regenerate on miss.
		s.logger.Debug("memory miss", "key", key)
		return false, nil
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return false, fmt.Errorf("parsing memory entry %q: %w", key, err)
	}
	if err := json.Unmarshal(entry.Value, target); err != nil {
		return false, fmt.Errorf("decoding memory value %q: %w", key, err)
	}
	return true, nil
}

// Search returns all entries whose key contains the query substring.
func (s *Store) Search(ctx context.Context, query string) ([]Entry, error) {
	pattern := path.Join("memory", s.namespace, "*.json")
	files, err := s.storage.List(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("listing memory entries: %w", err)
	}

	var results []Entry
	for _, file := range files {
		key := strings.TrimSuffix(path.Base(file), ".json")
		if query != "" && !strings.Contains(key, query) {
			continue
		}
		data, err := s.storage.Load(ctx, file)
		if err != nil {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		results = append(results, entry)
	}
	return results, nil
}

// Delete removes the entry for key if present.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, s.keyPath(key))
}
