package media

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreSaveOpenRemove(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	name := store.GenerateFilename("lesson.MP4")
	require.True(t, ValidFilename(name))
	require.True(t, strings.HasSuffix(name, ".mp4"))

	n, err := store.Save(name, strings.NewReader("fake video bytes"))
	require.NoError(t, err)
	require.Equal(t, int64(16), n)

	f, info, err := store.Open(name)
	require.NoError(t, err)
	defer f.Close()
	require.Equal(t, int64(16), info.Size())
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	require.Equal(t, "fake video bytes", string(data))

	require.NoError(t, store.Remove(name))
	_, _, err = store.Open(name)
	require.True(t, os.IsNotExist(err))

	// Removing twice is fine; the catalog row is authoritative.
	require.NoError(t, store.Remove(name))
}

func TestStoreOpenRejectsDirectories(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Open("..")
	require.True(t, os.IsNotExist(err))
}

func TestGenerateFilenameUnique(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	a := store.GenerateFilename("x.webm")
	b := store.GenerateFilename("x.webm")
	require.NotEqual(t, a, b)
	require.True(t, strings.HasSuffix(a, ".webm"))

	// Missing extensions default to .mp4.
	require.True(t, strings.HasSuffix(store.GenerateFilename("raw"), ".mp4"))
}
