package infrastructure

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCartStore_RoundTrip(t *testing.T) {
	store := NewFileCartStore(filepath.Join(t.TempDir(), "db", "cart_handle.json"))

	id, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, id, "missing file means no stored cart")

	require.NoError(t, store.Save("cart_1"))
	id, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "cart_1", id)

	require.NoError(t, store.Clear())
	id, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, id)
	require.NoError(t, store.Clear(), "clearing twice is fine")
}

func TestFileCartStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart_handle.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	store := NewFileCartStore(path)
	_, err := store.Load()
	assert.Error(t, err)
}

func TestMemoryCartStore(t *testing.T) {
	store := NewMemoryCartStore("cart_1")

	id, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "cart_1", id)

	require.NoError(t, store.Save("cart_2"))
	id, _ = store.Load()
	assert.Equal(t, "cart_2", id)

	require.NoError(t, store.Clear())
	id, _ = store.Load()
	assert.Empty(t, id)
}
