package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

func TestFileStore_SetGet(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), true, 3600)
	require.NoError(t, err)

	key := ContentKey([]byte("workbook bytes"))
	require.NoError(t, store.Set(key, "nga.xlsx", []payload{{Year: 2025, Value: 69.9}}))

	entry, err := store.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "nga.xlsx", entry.Source)

	var got []payload
	require.NoError(t, entry.Decode(&got))
	require.Len(t, got, 1)
	assert.InDelta(t, 69.9, got[0].Value, 1e-12)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFileStore_Errors(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), true, 3600)
	require.NoError(t, err)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, ErrCacheNotFound)

	_, err = store.Get("")
	assert.ErrorIs(t, err, ErrInvalidCacheKey)
	assert.ErrorIs(t, store.Set("", "", 1), ErrInvalidCacheKey)

	assert.NoError(t, store.Delete("missing"))
}

func TestFileStore_Disabled(t *testing.T) {
	store, err := NewFileStore("", false, 0)
	require.NoError(t, err)
	assert.False(t, store.IsEnabled())

	_, err = store.Get("k")
	assert.ErrorIs(t, err, ErrCacheDisabled)
	assert.ErrorIs(t, store.Set("k", "", 1), ErrCacheDisabled)
	_, err = store.CleanupExpired()
	assert.ErrorIs(t, err, ErrCacheDisabled)
}

func TestFileStore_Expired(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, true, 3600)
	require.NoError(t, err)

	entry := NewEntry("old", "", json.RawMessage(`1`), 60)
	entry.CreatedAt = time.Now().Add(-2 * time.Hour)
	entry.ExpiresAt = time.Now().Add(-time.Hour)
	data, err := json.Marshal(entry)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.json"), data, 0o600))

	removed, err := store.CleanupExpired()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.json"), data, 0o600))
	_, err = store.Get("old")
	assert.ErrorIs(t, err, ErrCacheExpired)
	_, statErr := os.Stat(filepath.Join(dir, "old.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestContentKey(t *testing.T) {
	a := ContentKey([]byte("a"))
	assert.Len(t, a, 64)
	assert.Equal(t, a, ContentKey([]byte("a")))
	assert.NotEqual(t, a, ContentKey([]byte("b")))
}
