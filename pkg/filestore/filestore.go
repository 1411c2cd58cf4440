package filestore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no blob exists under the given key.
var ErrNotFound = errors.New("file not found")

// Store is the port for opaque blob storage. Keys are generated by the
// implementation on Put; callers treat them as opaque strings.
// Delete is idempotent: removing a missing key is not an error.
type Store interface {
	Put(ctx context.Context, data []byte, originalFilename string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
