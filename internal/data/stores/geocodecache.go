package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/colonyops/mappicker/internal/core/geo"
	"github.com/colonyops/mappicker/internal/data/db"
)

// ErrCachedFailure is returned by GeocodeCache.Get for a query that recently
// resolved to nothing.
var ErrCachedFailure = errors.New("cached geocoding failure")

// GeocodeCache remembers geocoder answers, including misses, with an expiry.
type GeocodeCache struct {
	db  *db.DB
	now func() time.Time
}

// NewGeocodeCache creates a new SQLite-backed geocode cache.
func NewGeocodeCache(db *db.DB) *GeocodeCache {
	return &GeocodeCache{db: db, now: time.Now}
}

// cacheKey normalizes the query so "Warsaw" and " warsaw" share an entry.
func cacheKey(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

// Get returns the cached position for query. It returns ErrNotFound on a miss
// or an expired entry and ErrCachedFailure for a cached miss.
// Expired entries are lazily deleted.
func (c *GeocodeCache) Get(ctx context.Context, query string) (geo.Position, error) {
	key := cacheKey(query)

	var (
		lat, lon  sql.NullFloat64
		found     bool
		expiresAt int64
	)
	err := c.db.Conn().QueryRowContext(ctx,
		"SELECT latitude, longitude, found, expires_at FROM geocode_cache WHERE query = ?", key,
	).Scan(&lat, &lon, &found, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return geo.Position{}, fmt.Errorf("geocode cache %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return geo.Position{}, fmt.Errorf("geocode cache %q: %w", key, err)
	}

	if expiresAt < c.now().UnixNano() {
		_, _ = c.db.Conn().ExecContext(ctx, "DELETE FROM geocode_cache WHERE query = ?", key)
		return geo.Position{}, fmt.Errorf("geocode cache %q: %w", key, ErrNotFound)
	}

	if !found {
		return geo.Position{}, fmt.Errorf("geocode cache %q: %w", key, ErrCachedFailure)
	}

	return geo.Position{Latitude: lat.Float64, Longitude: lon.Float64}, nil
}

// Put stores a resolved position for ttl.
func (c *GeocodeCache) Put(ctx context.Context, query string, pos geo.Position, ttl time.Duration) error {
	return c.put(ctx, query,
		sql.NullFloat64{Float64: pos.Latitude, Valid: true},
		sql.NullFloat64{Float64: pos.Longitude, Valid: true},
		true, ttl)
}

// PutFailure records that query resolved to nothing, for ttl.
func (c *GeocodeCache) PutFailure(ctx context.Context, query string, ttl time.Duration) error {
	return c.put(ctx, query, sql.NullFloat64{}, sql.NullFloat64{}, false, ttl)
}

// SweepExpired deletes all entries whose TTL has passed and reports how many.
func (c *GeocodeCache) SweepExpired(ctx context.Context) (int64, error) {
	res, err := c.db.Conn().ExecContext(ctx, "DELETE FROM geocode_cache WHERE expires_at < ?", c.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("geocode cache sweep: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (c *GeocodeCache) put(ctx context.Context, query string, lat, lon sql.NullFloat64, found bool, ttl time.Duration) error {
	key := cacheKey(query)
	expiresAt := c.now().Add(ttl).UnixNano()

	_, err := c.db.Conn().ExecContext(ctx, `
		INSERT INTO geocode_cache (query, latitude, longitude, found, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (query) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			found = excluded.found,
			expires_at = excluded.expires_at`,
		key, lat, lon, found, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("geocode cache put %q: %w", key, err)
	}
	return nil
}
