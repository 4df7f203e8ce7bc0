package toml

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsStoreGetReturnsFallbackWhenMissing(t *testing.T) {
	t.Parallel()

	store, err := NewSettingsStore(filepath.Join(t.TempDir(), "querykiln-store.toml"))
	require.NoError(t, err)

	got, err := store.Get(context.Background(), "apiKey", "none")
	require.NoError(t, err)
	assert.Equal(t, "none", got)
}

func TestSettingsStoreSetGetDelete(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "querykiln-store.toml")
	store, err := NewSettingsStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Set(context.Background(), "update.pending_path", "/tmp/kiln-1.2.0"))
	require.NoError(t, store.Set(context.Background(), "update.pending_version", "1.2.0"))
	require.NoError(t, store.Set(context.Background(), "update.pending_version", "1.2.1"))

	reopened, err := NewSettingsStore(path)
	require.NoError(t, err)

	got, err := reopened.Get(context.Background(), "update.pending_path", "")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/kiln-1.2.0", got)

	got, err = reopened.Get(context.Background(), "update.pending_version", "")
	require.NoError(t, err)
	assert.Equal(t, "1.2.1", got)

	require.NoError(t, reopened.Delete(context.Background(), "update.pending_path"))
	require.NoError(t, reopened.Delete(context.Background(), "update.pending_path"))

	got, err = store.Get(context.Background(), "update.pending_path", "gone")
	require.NoError(t, err)
	assert.Equal(t, "gone", got)
}

func TestSettingsStoreRejectsEmptyKey(t *testing.T) {
	t.Parallel()

	store, err := NewSettingsStore(filepath.Join(t.TempDir(), "querykiln-store.toml"))
	require.NoError(t, err)

	err = store.Set(context.Background(), "  ", "v")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "setting key is empty")
}
