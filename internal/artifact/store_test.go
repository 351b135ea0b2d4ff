package artifact

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSaveOpenRemove(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("task-1", "csv", []byte("a,b,c")))
	assert.True(t, store.Exists("task-1", "csv"))
	assert.False(t, store.Exists("task-1", "xlsx"))

	f, err := store.Open("task-1", "csv")
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	f.Close()
	require.NoError(t, err)
	assert.Equal(t, "a,b,c", string(data))

	require.NoError(t, store.Remove("task-1", "csv"))
	assert.False(t, store.Exists("task-1", "csv"))

	// Removing again is not an error.
	require.NoError(t, store.Remove("task-1", "csv"))
}

func TestStoreOpenMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open("nope", "csv")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSweepOlderThan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save("old", "csv", []byte("old")))
	require.NoError(t, store.Save("new", "csv", []byte("new")))

	// Unrelated files are left alone regardless of age.
	unrelated := filepath.Join(dir, "keep.txt")
	require.NoError(t, os.WriteFile(unrelated, []byte("x"), 0644))

	stale := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(store.path("old", "csv"), stale, stale))
	require.NoError(t, os.Chtimes(unrelated, stale, stale))

	removed := store.SweepOlderThan(time.Hour)
	assert.Equal(t, 1, removed)
	assert.False(t, store.Exists("old", "csv"))
	assert.True(t, store.Exists("new", "csv"))
	_, err = os.Stat(unrelated)
	assert.NoError(t, err)
}

func TestDownloadName(t *testing.T) {
	name := DownloadName("task-9", "csv")
	assert.Contains(t, name, "ebay_revise_template_task-9_")
	assert.Contains(t, name, ".csv")
}
