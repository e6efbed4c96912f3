package geocoding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/mappicker/internal/core/geo"
	"github.com/colonyops/mappicker/internal/data/db"
	"github.com/colonyops/mappicker/internal/data/stores"
	"github.com/colonyops/mappicker/internal/geocoding/nominatim"
)

var warsaw = geo.Position{Latitude: 52.2297, Longitude: 21.0122}

type fakeProvider struct {
	calls   []string
	results map[string]geo.Position
	err     error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Geocode(_ context.Context, query string) (geo.Position, error) {
	f.calls = append(f.calls, query)
	if f.err != nil {
		return geo.Position{}, f.err
	}
	pos, ok := f.results[query]
	if !ok {
		return geo.Position{}, ErrNoResults
	}
	return pos, nil
}

func newTestStores(t *testing.T) (*stores.PointStore, *stores.GeocodeCache) {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "mappicker.db"), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return stores.NewPointStore(database, stores.PointStoreOptions{}), stores.NewGeocodeCache(database)
}

func TestService_Geocode(t *testing.T) {
	ctx := context.Background()
	points, cache := newTestStores(t)
	require.NoError(t, points.ReplaceAll(ctx, nil, []stores.Place{
		{Name: "Dworzec Centralny", Position: geo.Position{Latitude: 52.2289, Longitude: 21.0031}},
	}))

	provider := &fakeProvider{results: map[string]geo.Position{"Warsaw": warsaw}}
	svc := NewService(Options{
		Gazetteer:  points,
		Cache:      cache,
		Provider:   provider,
		CacheTTL:   time.Hour,
		FailureTTL: time.Minute,
	})

	t.Run("gazetteer answers without the provider", func(t *testing.T) {
		pos, err := svc.Geocode(ctx, "dworzec centralny")
		require.NoError(t, err)
		assert.Equal(t, geo.Position{Latitude: 52.2289, Longitude: 21.0031}, pos)
		assert.Empty(t, provider.calls)
	})

	t.Run("provider result is cached", func(t *testing.T) {
		pos, err := svc.Geocode(ctx, "Warsaw")
		require.NoError(t, err)
		assert.Equal(t, warsaw, pos)

		pos, err = svc.Geocode(ctx, "  Warsaw ")
		require.NoError(t, err)
		assert.Equal(t, warsaw, pos)
		assert.Equal(t, []string{"Warsaw"}, provider.calls)
	})

	t.Run("misses are cached", func(t *testing.T) {
		provider.calls = nil

		_, err := svc.Geocode(ctx, "Atlantis")
		require.ErrorIs(t, err, ErrNoResults)

		_, err = svc.Geocode(ctx, "Atlantis")
		require.ErrorIs(t, err, ErrNoResults)
		assert.Equal(t, []string{"Atlantis"}, provider.calls)
	})

	t.Run("empty query", func(t *testing.T) {
		provider.calls = nil
		_, err := svc.Geocode(ctx, "   ")
		require.ErrorIs(t, err, ErrNoResults)
		assert.Empty(t, provider.calls)
	})
}

func TestService_ProviderErrorNotCached(t *testing.T) {
	ctx := context.Background()
	_, cache := newTestStores(t)

	provider := &fakeProvider{err: errors.New("connection refused")}
	svc := NewService(Options{Cache: cache, Provider: provider, CacheTTL: time.Hour, FailureTTL: time.Hour})

	_, err := svc.Geocode(ctx, "Warsaw")
	require.ErrorIs(t, err, ErrGeocodingFailed)

	provider.err = nil
	provider.results = map[string]geo.Position{"Warsaw": warsaw}

	pos, err := svc.Geocode(ctx, "Warsaw")
	require.NoError(t, err)
	assert.Equal(t, warsaw, pos)
}

func TestService_Offline(t *testing.T) {
	svc := NewService(Options{})

	_, err := svc.Geocode(context.Background(), "Warsaw")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestService_Nominatim(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("q") == "Kraków" {
			_, _ = w.Write([]byte(`[{"lat":"50.0614","lon":"19.9366","display_name":"Kraków"}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	svc := NewService(Options{
		Provider: Nominatim{
			Client:       nominatim.NewClient(server.URL, "", nominatim.WithRateLimit(1000)),
			CountryCodes: "pl",
		},
	})

	pos, err := svc.Geocode(context.Background(), "Kraków")
	require.NoError(t, err)
	assert.Equal(t, geo.Position{Latitude: 50.0614, Longitude: 19.9366}, pos)

	_, err = svc.Geocode(context.Background(), "Nowhere")
	assert.ErrorIs(t, err, ErrNoResults)
	assert.Equal(t, int32(2), calls.Load())
}
