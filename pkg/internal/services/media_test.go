package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/chronicle/pkg/internal/database"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/models"
	"git.solsynth.dev/hypernet/chronicle/pkg/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaStoreSaveAndRemove(t *testing.T) {
	store := NewMediaStore(t.TempDir())

	name, err := store.SaveImage(testutils.FileHeader(t, "pixel.gif", testutils.TinyGIF), ".gif")
	require.NoError(t, err)
	assert.Regexp(t, `^posts/[0-9a-f-]{36}\.gif$`, name)

	content, err := os.ReadFile(filepath.Join(store.Root(), name))
	require.NoError(t, err)
	assert.Equal(t, testutils.TinyGIF, content)

	require.NoError(t, store.Remove(name))
	_, err = os.Stat(filepath.Join(store.Root(), name))
	assert.True(t, os.IsNotExist(err))

	// Already gone
	require.NoError(t, store.Remove(name))

	assert.Error(t, store.Remove("../settings.toml"))
	assert.Error(t, store.Remove("posts/../../settings.toml"))
}

func TestMediaStoreCleanupOrphans(t *testing.T) {
	testutils.CreateTempDB(t)
	store := NewMediaStore(t.TempDir())
	leo := testutils.CreateAccount(t, "leo")

	header := testutils.FileHeader(t, "pixel.gif", testutils.TinyGIF)
	used, err := store.SaveImage(header, ".gif")
	require.NoError(t, err)
	orphan, err := store.SaveImage(header, ".gif")
	require.NoError(t, err)
	fresh, err := store.SaveImage(header, ".gif")
	require.NoError(t, err)

	post := testutils.CreatePost(t, leo, nil, "with image", time.Now())
	require.NoError(t, database.C.Model(&models.Post{}).Where("id = ?", post.ID).Update("image", used).Error)

	old := time.Now().Add(-2 * time.Hour)
	for _, name := range []string{used, orphan} {
		require.NoError(t, os.Chtimes(filepath.Join(store.Root(), name), old, old))
	}

	removed, err := store.CleanupOrphans(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.FileExists(t, filepath.Join(store.Root(), used))
	assert.FileExists(t, filepath.Join(store.Root(), fresh))
	assert.NoFileExists(t, filepath.Join(store.Root(), orphan))
}

func TestMediaStoreCleanupWithoutDirectory(t *testing.T) {
	store := NewMediaStore(filepath.Join(t.TempDir(), "missing"))
	removed, err := store.CleanupOrphans(time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
