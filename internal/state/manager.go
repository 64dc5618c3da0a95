// Package state owns the canonical "current snapshot" cell. Steps may
// run concurrently, but every merge goes through one mutex-guarded
// writer so deltas apply in a single canonical order.
package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mayflower/storyteller/internal/merge"
	"github.com/mayflower/storyteller/internal/story"
)

// Manager serializes merges against a single current document. Reads
// return clones, so no caller can mutate the canonical snapshot behind
// the manager's back.
type Manager struct {
	mu        sync.RWMutex
	doc       *story.Document
	version   uint64
	sessionID string
	logger    *slog.Logger
}

type Option func(*Manager)

// WithLogger configures a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) Option {
	return func(m *Manager) {
		m.sessionID = id
	}
}

// WithInitial seeds the manager with an existing snapshot, e.g. one
// loaded from a checkpoint.
func WithInitial(doc *story.Document) Option {
	return func(m *Manager) {
		m.doc = doc.Clone()
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		doc:       &story.Document{},
		sessionID: uuid.New().String(),
		logger:    slog.Default().With("component", "state"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) SessionID() string {
	return m.sessionID
}

// Apply merges delta into the current snapshot and swaps it in
// atomically. It returns the new version and any normalization
// warnings from the merge.
func (m *Manager) Apply(delta *story.Document) (uint64, []merge.Warning) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := merge.Merge(m.doc, delta)
	m.doc = result.Doc
	m.version++

	for _, w := range result.Warnings {
		m.logger.Warn("delta normalized during merge",
			"session_id", m.sessionID,
			"version", m.version,
			"warning", w.String())
	}
	return m.version, result.Warnings
}

// ApplyParallel is Apply using the concurrent collection merge. The
// write lock still serializes whole merges; only the independent
// collections inside one merge run concurrently.
func (m *Manager) ApplyParallel(ctx context.Context, delta *story.Document) (uint64, []merge.Warning, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result, err := merge.MergeParallel(ctx, m.doc, delta)
	if err != nil {
		return m.version, nil, err
	}
	m.doc = result.Doc
	m.version++
	return m.version, result.Warnings, nil
}

// Snapshot returns a clone of the current document.
func (m *Manager) Snapshot() *story.Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc.Clone()
}

// Version returns how many deltas have been applied.
func (m *Manager) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}
