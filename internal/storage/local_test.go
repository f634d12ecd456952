package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir(), "/files/")
	require.NoError(t, err)
	return store
}

func TestLocalStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)

	key, err := store.Store([]byte("measurement sheet"), "claims", "pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "claims/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	data, err := os.ReadFile(filepath.Join(store.baseDir, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "measurement sheet", string(data))

	require.NoError(t, store.Delete(key))
	_, err = os.ReadFile(filepath.Join(store.baseDir, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStoreExtensionHandling(t *testing.T) {
	store := newTestStore(t)

	key, err := store.Store([]byte("x"), "surveys", ".png")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.False(t, strings.Contains(key, ".."))

	key, err = store.Store([]byte("x"), "surveys", "")
	require.NoError(t, err)
	assert.False(t, strings.Contains(filepath.Base(key), "."))
}

func TestLocalStoreDeleteMissingIsNoop(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Delete("claims/never-existed.pdf"))
	assert.NoError(t, store.Delete(""))
}

func TestLocalStoreURLFor(t *testing.T) {
	store := newTestStore(t)
	assert.Equal(t, "/files/claims/a.pdf", store.URLFor("claims/a.pdf"))
	assert.Equal(t, "", store.URLFor(""))
}
