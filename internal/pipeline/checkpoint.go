package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mayflower/storyteller/internal/storage"
	"github.com/mayflower/storyteller/internal/story"
)

// Checkpoint is a persisted snapshot of the story state after one
// applied delta, enough to resume a session from its last good state.
type Checkpoint struct {
	SessionID string          `json:"session_id"`
	Version   uint64          `json:"version"`
	Step      string          `json:"step"`
	Timestamp time.Time       `json:"timestamp"`
	Document  *story.Document `json:"document"`
}

type CheckpointManager struct {
	storage storage.Storage
}

func NewCheckpointManager(st storage.Storage) *CheckpointManager {
	return &CheckpointManager{storage: st}
}

func (cm *CheckpointManager) Save(ctx context.Context, cp *Checkpoint) error {
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling checkpoint: %w", err)
	}
	filename := fmt.Sprintf("checkpoints/%s.json", cp.SessionID)
	return cm.storage.Save(ctx, filename, data)
}

func (cm *CheckpointManager) Load(ctx context.Context, sessionID string) (*Checkpoint, error) {
	filename := fmt.Sprintf("checkpoints/%s.json", sessionID)
	data, err := cm.storage.Load(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("loading checkpoint: %w", err)
	}
	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("unmarshaling checkpoint: %w", err)
	}
	return &cp, nil
}

func (cm *CheckpointManager) List(ctx context.Context) ([]*Checkpoint, error) {
	files, err := cm.storage.List(ctx, "checkpoints/*.json")
	if err != nil {
		return nil, fmt.Errorf("listing checkpoints: %w", err)
	}
	var checkpoints []*Checkpoint
	for _, file := range files {
		data, err := cm.storage.Load(ctx, file)
		if err != nil {
			continue
		}
		var cp Checkpoint
		if err := json.Unmarshal(data, &cp); err != nil {
			continue
		}
		checkpoints = append(checkpoints, &cp)
	}
	return checkpoints, nil
}

func (cm *CheckpointManager) Delete(ctx context.Context, sessionID string) error {
	filename := fmt.Sprintf("checkpoints/%s.json", sessionID)
	return cm.storage.Delete(ctx, filename)
}
