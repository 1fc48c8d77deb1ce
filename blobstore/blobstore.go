// Package blobstore provides storage abstraction for immutable model
// artifacts (embedding matrices, tag vocabularies, scorer checkpoints,
// track catalogs).
//
// Artifacts are written once by an offline training pipeline and read
// whole at engine startup, so the interface is a simple streaming one.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - Memory: in-memory store for tests
//   - Local: local filesystem with atomic writes
//   - s3.Store: Amazon S3
//   - minio.Store: MinIO and other S3-compatible storage
package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is an abstraction for accessing named artifact blobs.
type Store interface {
	// Open opens a blob for reading. The caller must close the reader.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Put writes a blob. The write is atomic: readers see either the
	// previous content or the full new content, never a partial blob.
	Put(ctx context.Context, name string, r io.Reader) error

	// List returns the names of all blobs with the given prefix,
	// sorted lexicographically.
	List(ctx context.Context, prefix string) ([]string, error)
}
