// internal/storage/archive/interface.go
package archive

import (
	"context"
	"io"
)

// Blob is a random-access view of one stored archive.
type Blob interface {
	io.ReaderAt
	io.Closer

	// Size returns the blob length in bytes
	Size() int64
}

// Storage defines the interface for archive storage backends. Archives
// are immutable, so backends are read-only.
type Storage interface {
	// Open returns a random-access blob for the archive at path
	Open(ctx context.Context, path string) (Blob, error)

	// List returns all paths matching the prefix
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists checks if an archive exists at the given path
	Exists(ctx context.Context, path string) (bool, error)
}
