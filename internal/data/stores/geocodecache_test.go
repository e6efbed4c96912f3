package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/mappicker/internal/core/geo"
)

func newTestGeocodeCache(t *testing.T) (*GeocodeCache, *time.Time) {
	t.Helper()
	cache := NewGeocodeCache(openTestDB(t))
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	return cache, &now
}

func TestGeocodeCache_PutAndGet(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestGeocodeCache(t)
	warsaw := geo.Position{Latitude: 52.2297, Longitude: 21.0122}

	_, err := cache.Get(ctx, "Warsaw")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, cache.Put(ctx, "Warsaw", warsaw, time.Hour))

	for _, q := range []string{"Warsaw", "warsaw", "  WARSAW "} {
		got, err := cache.Get(ctx, q)
		require.NoError(t, err, q)
		assert.Equal(t, warsaw, got)
	}
}

func TestGeocodeCache_Expiry(t *testing.T) {
	ctx := context.Background()
	cache, now := newTestGeocodeCache(t)

	require.NoError(t, cache.Put(ctx, "Kraków", geo.Position{Latitude: 50.06, Longitude: 19.94}, time.Hour))

	*now = now.Add(2 * time.Hour)

	_, err := cache.Get(ctx, "Kraków")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGeocodeCache_Failure(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestGeocodeCache(t)

	require.NoError(t, cache.PutFailure(ctx, "Atlantis", time.Minute))

	_, err := cache.Get(ctx, "atlantis")
	assert.ErrorIs(t, err, ErrCachedFailure)

	require.NoError(t, cache.Put(ctx, "Atlantis", geo.Position{Latitude: 1, Longitude: 2}, time.Hour))
	got, err := cache.Get(ctx, "Atlantis")
	require.NoError(t, err, "success overwrites a cached failure")
	assert.Equal(t, geo.Position{Latitude: 1, Longitude: 2}, got)
}

func TestGeocodeCache_SweepExpired(t *testing.T) {
	ctx := context.Background()
	cache, now := newTestGeocodeCache(t)

	require.NoError(t, cache.Put(ctx, "short", geo.Position{}, time.Minute))
	require.NoError(t, cache.PutFailure(ctx, "also short", time.Minute))
	require.NoError(t, cache.Put(ctx, "long", geo.Position{Latitude: 1}, 24*time.Hour))

	*now = now.Add(time.Hour)

	n, err := cache.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = cache.Get(ctx, "long")
	assert.NoError(t, err)
}
