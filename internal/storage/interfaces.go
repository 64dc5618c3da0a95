package storage

import "context"

// Storage abstracts where session artifacts land: snapshots,
// checkpoints and the memory side channel all write through it.
type Storage interface {
	Save(ctx context.Context, path string, data []byte) error
	Load(ctx context.Context, path string) ([]byte, error)
	List(ctx context.Context, pattern string) ([]string, error)
	Delete(ctx context.Context, path string) error
}
