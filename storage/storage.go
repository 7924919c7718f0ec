package storage

import (
	"context"
	"io"
)

// Storage stores dump files by path.
type Storage interface {
	// Exists checks whether an object exists at the given path.
	Exists(ctx context.Context, path string) (bool, error)

	// Download returns a reader for the object at the given path.
	// The caller is responsible for closing the returned ReadCloser.
	// A missing object yields a CACHE_NOT_FOUND error.
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Upload writes data from reader to the given path, replacing any
	// existing object. Readers never observe a partially written object.
	Upload(ctx context.Context, path string, reader io.Reader) error

	// Delete removes the object at the given path.
	// Returns nil if the object does not exist.
	Delete(ctx context.Context, path string) error
}
