package blobstore

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is a flat namespace of immutable blobs.
type Store interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Put writes a blob atomically, replacing any existing blob of that name.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the sorted names that start with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	io.ReaderAt
	io.Closer
	// Size returns the size of the blob in bytes.
	Size() int64
}

// Mappable is an optional interface for Blobs that expose their contents
// without copying.
type Mappable interface {
	// Bytes returns the underlying byte slice.
	// The slice is valid until the Blob is closed.
	Bytes() ([]byte, error)
}

// ReadAll returns the whole contents of b. For a Mappable blob the result
// aliases b and is only valid until b is closed.
func ReadAll(b Blob) ([]byte, error) {
	if m, ok := b.(Mappable); ok {
		return m.Bytes()
	}
	size := b.Size()
	if size < 0 || uint64(size) > uint64(maxBlobSize) {
		return nil, fmt.Errorf("blobstore: blob size %d out of range", size)
	}
	data := make([]byte, size)
	n, err := b.ReadAt(data, 0)
	if err != nil && !(err == io.EOF && int64(n) == size) {
		return nil, err
	}
	return data, nil
}

// maxBlobSize bounds in-memory reads of a single blob.
const maxBlobSize = 1 << 40

// BytesBlob is a Blob over an in-memory byte slice.
type BytesBlob struct {
	data []byte
}

// NewBytesBlob wraps data without copying.
func NewBytesBlob(data []byte) *BytesBlob {
	return &BytesBlob{data: data}
}

// ReadAt implements io.ReaderAt.
func (b *BytesBlob) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("blobstore: negative offset %d", off)
	}
	if off >= int64(len(b.data)) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close is a no-op.
func (b *BytesBlob) Close() error { return nil }

// Size returns len of the wrapped slice.
func (b *BytesBlob) Size() int64 { return int64(len(b.data)) }

// Bytes returns the wrapped slice.
func (b *BytesBlob) Bytes() ([]byte, error) { return b.data, nil }
