package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSystem stores artifacts under a base directory. All paths are
// relative to the base; traversal outside it is rejected.
type FileSystem struct {
	baseDir string
}

func NewFileSystem(baseDir string) *FileSystem {
	return &FileSystem{baseDir: baseDir}
}

// resolve cleans and validates a relative path against the base
// directory.
func (fs *FileSystem) resolve(path string) (string, error) {
	cleaned := filepath.Clean(path)
	if strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid path: contains parent directory reference")
	}
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid path: absolute paths not allowed")
	}

	full := filepath.Join(fs.baseDir, cleaned)
	if !strings.HasPrefix(full, fs.baseDir+string(filepath.Separator)) && full != fs.baseDir {
		return "", fmt.Errorf("invalid path: outside base directory")
	}
	return full, nil
}

func (fs *FileSystem) Save(ctx context.Context, path string, data []byte) error {
	full, err := fs.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}

func (fs *FileSystem) Load(ctx context.Context, path string) ([]byte, error) {
	full, err := fs.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

func (fs *FileSystem) List(ctx context.Context, pattern string) ([]string, error) {
	cleaned := filepath.Clean(pattern)
	if strings.Contains(cleaned, "..") {
		return nil, fmt.Errorf("invalid pattern: contains parent directory reference")
	}
	if filepath.IsAbs(cleaned) {
		return nil, fmt.Errorf("invalid pattern: absolute paths not allowed")
	}

	matches, err := filepath.Glob(filepath.Join(fs.baseDir, cleaned))
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}

	var results []string
	for _, match := range matches {
		rel, err := filepath.Rel(fs.baseDir, match)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		results = append(results, rel)
	}
	return results, nil
}

func (fs *FileSystem) Delete(ctx context.Context, path string) error {
	full, err := fs.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}
