package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when an artifact does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is an abstraction for accessing immutable module artifacts.
// Implementations must be safe for concurrent use.
type Store interface {
	// Open opens an artifact for reading.
	Open(ctx context.Context, name string) (Blob, error)

	// Put writes an artifact atomically: readers see either the old
	// content or the new, never a partial write.
	Put(ctx context.Context, name string, data []byte) error

	// Delete removes an artifact. Deleting a missing artifact is not an
	// error.
	Delete(ctx context.Context, name string) error

	// List returns all artifact names with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to one artifact.
type Blob interface {
	io.ReaderAt
	io.Closer
	// Size returns the size of the artifact in bytes.
	Size() int64
}

// Mappable is an optional interface for Blobs whose bytes are directly
// addressable, typically via mmap. The slice is valid until the Blob is
// closed.
type Mappable interface {
	Bytes() ([]byte, error)
}

// ReadAll fetches the whole artifact. Mappable blobs are copied so the
// result outlives the handle.
func ReadAll(ctx context.Context, s Store, name string) ([]byte, error) {
	b, err := s.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	if m, ok := b.(Mappable); ok {
		raw, err := m.Bytes()
		if err == nil {
			out := make([]byte, len(raw))
			copy(out, raw)
			return out, nil
		}
	}

	out := make([]byte, b.Size())
	if _, err := io.ReadFull(io.NewSectionReader(b, 0, b.Size()), out); err != nil {
		return nil, err
	}
	return out, nil
}
