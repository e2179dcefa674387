package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	vfs "github.com/arklab/pixelsom/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStoreLifecycle(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	data := []byte("PSOM grid snapshot payload")
	require.NoError(t, store.Put(ctx, "grids/a.psom", data))
	require.NoError(t, store.Put(ctx, "grids/b.psom", []byte("b")))
	require.NoError(t, store.Put(ctx, "other.psom", nil))

	blob, err := store.Open(ctx, "grids/a.psom")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), blob.Size())

	got, err := ReadAll(blob)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	buf := make([]byte, 4)
	n, err := blob.ReadAt(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "PSOM", string(buf))
	require.NoError(t, blob.Close())

	empty, err := store.Open(ctx, "other.psom")
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.Size())
	require.NoError(t, empty.Close())

	names, err := store.List(ctx, "grids/")
	require.NoError(t, err)
	assert.Equal(t, []string{"grids/a.psom", "grids/b.psom"}, names)

	names, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"grids/a.psom", "grids/b.psom", "other.psom"}, names)

	// Overwrite
	require.NoError(t, store.Put(ctx, "grids/b.psom", []byte("bb")))
	blob, err = store.Open(ctx, "grids/b.psom")
	require.NoError(t, err)
	got, err = ReadAll(blob)
	require.NoError(t, err)
	assert.Equal(t, "bb", string(got))
	require.NoError(t, blob.Close())

	require.NoError(t, store.Delete(ctx, "grids/a.psom"))
	require.NoError(t, store.Delete(ctx, "grids/a.psom"))
	_, err = store.Open(ctx, "grids/a.psom")
	assert.ErrorIs(t, err, ErrNotFound)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, store.Put(cancelled, "x", data), context.Canceled)
}

func TestMemoryStore(t *testing.T) {
	testStoreLifecycle(t, NewMemoryStore())
}

func TestMemoryStore_CopiesInput(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data := []byte("abc")
	require.NoError(t, store.Put(ctx, "k", data))
	data[0] = 'z'

	blob, err := store.Open(ctx, "k")
	require.NoError(t, err)
	got, err := ReadAll(blob)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestLocalStore(t *testing.T) {
	testStoreLifecycle(t, NewLocalStore(t.TempDir()))
}

func TestLocalStore_AtomicPut(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewLocalStore(root)

	require.NoError(t, store.Put(ctx, "nested/dir/grid.psom", []byte("x")))

	entries, err := os.ReadDir(filepath.Join(root, "nested", "dir"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "grid.psom", entries[0].Name())

	// Stray temp files are not listed.
	require.NoError(t, os.WriteFile(filepath.Join(root, ".tmp-123"), []byte("partial"), 0o600))
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"nested/dir/grid.psom"}, names)
}

func TestLocalStore_FailedPutLeavesNoTrace(t *testing.T) {
	faults := map[string]vfs.Fault{
		"Write":  {FailAfterBytes: 4},
		"Sync":   {FailAfterBytes: -1, FailOnSync: true},
		"Close":  {FailAfterBytes: -1, FailOnClose: true},
		"Rename": {FailAfterBytes: -1, FailOnRename: true},
	}

	for name, fault := range faults {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			root := t.TempDir()
			ffs := vfs.NewFaultyFS(nil)
			store := &LocalStore{root: root, fs: ffs}

			require.NoError(t, store.Put(ctx, "grid.psom", []byte("v1")))
			ffs.AddRule(".tmp-grid.psom", fault)

			err := store.Put(ctx, "grid.psom", []byte("version two"))
			assert.ErrorIs(t, err, vfs.ErrInjected)

			entries, err := os.ReadDir(root)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, "grid.psom", entries[0].Name())

			blob, err := store.Open(ctx, "grid.psom")
			require.NoError(t, err)
			defer blob.Close()
			got, err := ReadAll(blob)
			require.NoError(t, err)
			assert.Equal(t, "v1", string(got))
		})
	}
}

func TestLocalStore_InvalidName(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	for _, name := range []string{"", "../escape", "/abs"} {
		assert.Error(t, store.Put(ctx, name, []byte("x")), name)
		_, err := store.Open(ctx, name)
		assert.Error(t, err, name)
	}
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "absent"))
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLocalStore_ClosedBlob(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())
	require.NoError(t, store.Put(ctx, "g", []byte("data")))

	blob, err := store.Open(ctx, "g")
	require.NoError(t, err)
	require.NoError(t, blob.Close())

	_, err = ReadAll(blob)
	assert.Error(t, err)
}

// readerOnly hides Mappable so ReadAll takes the copying path.
type readerOnly struct{ Blob }

func TestReadAll_ReaderAt(t *testing.T) {
	got, err := ReadAll(readerOnly{NewBytesBlob([]byte("hello"))})
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	got, err = ReadAll(readerOnly{NewBytesBlob(nil)})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBytesBlob_ReadAt(t *testing.T) {
	b := NewBytesBlob([]byte("hello"))

	buf := make([]byte, 10)
	n, err := b.ReadAt(buf, 3)
	assert.Equal(t, 2, n)
	assert.Equal(t, io.EOF, err)

	_, err = b.ReadAt(buf, 5)
	assert.Equal(t, io.EOF, err)

	_, err = b.ReadAt(buf, -1)
	assert.Error(t, err)
}
