package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/rkotari/benchtrack/pkg/filestore"
)

// Store keeps blobs as files under a base directory. Keys are
// uuid-derived filenames that preserve the original extension.
type Store struct {
	baseDir string
}

func New(baseDir string) (*Store, error) {
	if baseDir == "" {
		baseDir = "uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("prepare upload dir: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

func (s *Store) Put(ctx context.Context, data []byte, originalFilename string) (string, error) {
	ext := filepath.Ext(originalFilename)
	key := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(s.baseDir, key), data, 0o644); err != nil {
		return "", fmt.Errorf("store file: %w", err)
	}
	return key, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, filestore.ErrNotFound
		}
		return nil, fmt.Errorf("load file: %w", err)
	}
	return data, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(s.baseDir, key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}
