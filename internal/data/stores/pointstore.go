package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/colonyops/mappicker/internal/core/geo"
	"github.com/colonyops/mappicker/internal/core/picker"
	"github.com/colonyops/mappicker/internal/data/db"
)

// Place is a named location used to resolve searches without a network call.
type Place struct {
	Name     string       `yaml:"name" json:"name"`
	Position geo.Position `yaml:",inline" json:"position"`
}

// PointStoreOptions bounds the lookup result.
type PointStoreOptions struct {
	RadiusMeters float64 // search radius when the map reports no bounds
	Limit        int
}

// PointStore implements picker.PointLookup using SQLite.
type PointStore struct {
	db   *db.DB
	opts PointStoreOptions
}

var _ picker.PointLookup = (*PointStore)(nil)

// NewPointStore creates a new SQLite-backed point store.
func NewPointStore(db *db.DB, opts PointStoreOptions) *PointStore {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.RadiusMeters <= 0 {
		opts.RadiusMeters = 3000
	}
	return &PointStore{db: db, opts: opts}
}

const pointColumns = "key, type, name, description, service, latitude, longitude"

// LookupPoints returns the points inside bounds, or within the configured
// radius of position when bounds are absent, nearest first.
func (s *PointStore) LookupPoints(ctx context.Context, position geo.Position, bounds geo.Bounds) ([]geo.MapPoint, error) {
	box := bounds
	if box.IsZero() {
		box = geo.BoundsAround(position, s.opts.RadiusMeters)
	}

	rows, err := s.db.Conn().QueryContext(ctx,
		"SELECT "+pointColumns+" FROM points"+
			" WHERE latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?",
		box.SouthWest.Latitude, box.NorthEast.Latitude,
		box.SouthWest.Longitude, box.NorthEast.Longitude,
	)
	if err != nil {
		return nil, fmt.Errorf("lookup points: %w", err)
	}

	points, err := scanPoints(rows)
	if err != nil {
		return nil, fmt.Errorf("lookup points: %w", err)
	}

	if bounds.IsZero() {
		inRadius := points[:0]
		for _, p := range points {
			if geo.Distance(position, p.Position()) <= s.opts.RadiusMeters {
				inRadius = append(inRadius, p)
			}
		}
		points = inRadius
	}

	sort.SliceStable(points, func(i, j int) bool {
		return geo.Distance(position, points[i].Position()) < geo.Distance(position, points[j].Position())
	})

	if len(points) > s.opts.Limit {
		points = points[:s.opts.Limit]
	}

	return points, nil
}

// Get returns a single point by key.
func (s *PointStore) Get(ctx context.Context, key string) (geo.MapPoint, error) {
	rows, err := s.db.Conn().QueryContext(ctx, "SELECT "+pointColumns+" FROM points WHERE key = ?", key)
	if err != nil {
		return geo.MapPoint{}, fmt.Errorf("get point %q: %w", key, err)
	}

	points, err := scanPoints(rows)
	if err != nil {
		return geo.MapPoint{}, fmt.Errorf("get point %q: %w", key, err)
	}
	if len(points) == 0 {
		return geo.MapPoint{}, fmt.Errorf("get point %q: %w", key, ErrNotFound)
	}
	return points[0], nil
}

// List returns every point ordered by key.
func (s *PointStore) List(ctx context.Context) ([]geo.MapPoint, error) {
	rows, err := s.db.Conn().QueryContext(ctx, "SELECT "+pointColumns+" FROM points ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("list points: %w", err)
	}

	points, err := scanPoints(rows)
	if err != nil {
		return nil, fmt.Errorf("list points: %w", err)
	}
	return points, nil
}

// ReplaceAll swaps the stored points and places for the given sets in one
// transaction.
func (s *PointStore) ReplaceAll(ctx context.Context, points []geo.MapPoint, places []Place) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM points"); err != nil {
			return fmt.Errorf("clear points: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM places"); err != nil {
			return fmt.Errorf("clear places: %w", err)
		}

		insertPoint, err := tx.PrepareContext(ctx,
			"INSERT INTO points ("+pointColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)")
		if err != nil {
			return fmt.Errorf("prepare point insert: %w", err)
		}
		defer func() { _ = insertPoint.Close() }()

		for _, p := range points {
			if _, err := insertPoint.ExecContext(ctx,
				p.Key, p.Type, p.Name, p.Description, p.Service, p.Geocode[0], p.Geocode[1],
			); err != nil {
				return fmt.Errorf("insert point %q: %w", p.Key, err)
			}
		}

		for _, pl := range places {
			if _, err := tx.ExecContext(ctx,
				"INSERT OR REPLACE INTO places (name, latitude, longitude) VALUES (?, ?, ?)",
				pl.Name, pl.Position.Latitude, pl.Position.Longitude,
			); err != nil {
				return fmt.Errorf("insert place %q: %w", pl.Name, err)
			}
		}

		return nil
	})
}

// FindPlace returns the position of a place by case-insensitive exact name.
func (s *PointStore) FindPlace(ctx context.Context, name string) (geo.Position, error) {
	var pos geo.Position
	err := s.db.Conn().QueryRowContext(ctx,
		"SELECT latitude, longitude FROM places WHERE name = ?", name,
	).Scan(&pos.Latitude, &pos.Longitude)
	if errors.Is(err, sql.ErrNoRows) {
		return geo.Position{}, fmt.Errorf("find place %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return geo.Position{}, fmt.Errorf("find place %q: %w", name, err)
	}
	return pos, nil
}

// Count returns the number of stored points.
func (s *PointStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM points").Scan(&n); err != nil {
		return 0, fmt.Errorf("count points: %w", err)
	}
	return n, nil
}

func scanPoints(rows *sql.Rows) ([]geo.MapPoint, error) {
	defer func() { _ = rows.Close() }()

	points := []geo.MapPoint{}
	for rows.Next() {
		var p geo.MapPoint
		if err := rows.Scan(&p.Key, &p.Type, &p.Name, &p.Description, &p.Service, &p.Geocode[0], &p.Geocode[1]); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
