package geocode

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := OpenCache(filepath.Join(t.TempDir(), "geocode.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestCachePutGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := newTestCache(t)

	stored := &Result{
		Latitude:    48.1371,
		Longitude:   11.5754,
		DisplayName: "München, Bayern, Deutschland",
		Source:      "nominatim",
		Matched:     true,
	}
	require.NoError(t, cache.Put(ctx, "München, Deutschland", stored))

	got, ok, err := cache.Get(ctx, "München, Deutschland")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, stored.Latitude, got.Latitude)
	assert.Equal(t, stored.Longitude, got.Longitude)
	assert.Equal(t, stored.DisplayName, got.DisplayName)
	assert.True(t, got.Matched)
	assert.Equal(t, "cache", got.Source)
}

func TestCacheKeyNormalization(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := newTestCache(t)

	require.NoError(t, cache.Put(ctx, "Berlin, Deutschland", &Result{Matched: true, Latitude: 52.52, Longitude: 13.4}))

	got, ok, err := cache.Get(ctx, "  berlin, deutschland  ")
	require.NoError(t, err)
	require.True(t, ok, "keys are case and whitespace insensitive")
	assert.Equal(t, 52.52, got.Latitude)
}

func TestCacheStoresMisses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := newTestCache(t)

	require.NoError(t, cache.Put(ctx, "Atlantis", &Result{Matched: false}))

	got, ok, err := cache.Get(ctx, "Atlantis")
	require.NoError(t, err)
	require.True(t, ok, "a cached miss is still a cache entry")
	assert.False(t, got.Matched)
}

func TestCacheGetAbsent(t *testing.T) {
	t.Parallel()

	cache := newTestCache(t)

	got, ok, err := cache.Get(context.Background(), "Nie gesucht")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestCachePutOverwrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := newTestCache(t)

	require.NoError(t, cache.Put(ctx, "Hamburg", &Result{Matched: false}))
	require.NoError(t, cache.Put(ctx, "Hamburg", &Result{Matched: true, Latitude: 53.55, Longitude: 9.99}))

	got, ok, err := cache.Get(ctx, "Hamburg")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Matched)
	assert.Equal(t, 53.55, got.Latitude)
}
