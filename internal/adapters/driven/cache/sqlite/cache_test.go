package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := NewCache(filepath.Join(t.TempDir(), "embeddings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestCache_PutGet(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	vector := []float32{0.1, -0.5, 3.25, 0}
	require.NoError(t, cache.Put(ctx, "nomic-embed-text", "post final bill", vector))

	got, ok, err := cache.Get(ctx, "nomic-embed-text", "post final bill")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, vector, got)
}

func TestCache_Get_Miss(t *testing.T) {
	cache := newTestCache(t)

	_, ok, err := cache.Get(context.Background(), "nomic-embed-text", "never stored")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_KeyedByModel(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "model-a", "text", []float32{1}))

	_, ok, err := cache.Get(ctx, "model-b", "text")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_PutReplaces(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "m", "text", []float32{1, 2}))
	require.NoError(t, cache.Put(ctx, "m", "text", []float32{3, 4, 5}))

	got, ok, err := cache.Get(ctx, "m", "text")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float32{3, 4, 5}, got)
}

func TestCache_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.db")
	ctx := context.Background()

	cache, err := NewCache(path)
	require.NoError(t, err)
	require.NoError(t, cache.Put(ctx, "m", "text", []float32{0.5}))
	require.NoError(t, cache.Close())

	reopened, err := NewCache(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.Get(ctx, "m", "text")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float32{0.5}, got)
}

func TestEncodeDecodeVector(t *testing.T) {
	vector := []float32{-1.5, 0, 2.25}

	decoded, err := decodeVector(encodeVector(vector), len(vector))
	require.NoError(t, err)
	assert.Equal(t, vector, decoded)

	_, err = decodeVector([]byte{0, 0}, 3)
	assert.Error(t, err)
}
