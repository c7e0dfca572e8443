package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no descriptor set is stored under the
// requested name.
var ErrNotFound = errors.New("descriptor set not found")

// Store persists named descriptor-set blobs.
type Store interface {
	// Put stores data under name, overwriting any previous value.
	Put(ctx context.Context, name string, data []byte) error

	// Get returns the blob stored under name, or ErrNotFound.
	Get(ctx context.Context, name string) ([]byte, error)

	// List returns the names of all stored descriptor sets.
	List(ctx context.Context) ([]string, error)

	// Delete removes the blob stored under name. Deleting a missing name
	// is not an error.
	Delete(ctx context.Context, name string) error

	// Close releases the backend connection.
	Close() error
}
