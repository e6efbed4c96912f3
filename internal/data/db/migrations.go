package db

import (
	"cmp"
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/colonyops/mappicker/internal/core/logging"
)

//go:embed migrations/*.sql
var schemaFS embed.FS

var migrationFile = regexp.MustCompile(`^(\d+)_(\w+)\.(up|down)\.sql$`)

// step is one schema change with the SQL that applies and reverts it.
type step struct {
	version int
	name    string
	up      string
	down    string
}

// schemaSteps reads migrations/*.sql from fsys in version order. Every
// version needs exactly one up and one down file under the same name.
func schemaSteps(fsys fs.FS) ([]step, error) {
	entries, err := fs.ReadDir(fsys, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	byVersion := make(map[int]*step)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		version, name, direction, err := parseFilename(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("migration %q: %w", entry.Name(), err)
		}
		body, err := fs.ReadFile(fsys, path.Join("migrations", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("migration %q: %w", entry.Name(), err)
		}

		s, ok := byVersion[version]
		if !ok {
			s = &step{version: version, name: name}
			byVersion[version] = s
		}
		if s.name != name {
			return nil, fmt.Errorf("migration %04d is named both %q and %q", version, s.name, name)
		}

		sqlText := &s.up
		if direction == "down" {
			sqlText = &s.down
		}
		if *sqlText != "" {
			return nil, fmt.Errorf("migration %04d has two %s files", version, direction)
		}
		*sqlText = string(body)
	}

	steps := make([]step, 0, len(byVersion))
	for _, s := range byVersion {
		if s.up == "" || s.down == "" {
			return nil, fmt.Errorf("migration %04d (%s) needs non-empty up and down files", s.version, s.name)
		}
		steps = append(steps, *s)
	}
	slices.SortFunc(steps, func(a, b step) int { return cmp.Compare(a.version, b.version) })

	return steps, nil
}

// parseFilename splits "0001_points.up.sql" into 1, "points" and "up".
func parseFilename(filename string) (version int, name, direction string, err error) {
	m := migrationFile.FindStringSubmatch(filename)
	if m == nil {
		return 0, "", "", fmt.Errorf("want NNNN_name.up.sql or NNNN_name.down.sql")
	}

	version, err = strconv.Atoi(m[1])
	if err != nil {
		return 0, "", "", fmt.Errorf("version %q: %w", m[1], err)
	}
	if version == 0 {
		return 0, "", "", fmt.Errorf("version must be positive")
	}

	return version, m[2], m[3], nil
}

// migrate brings the schema up to date. Each step runs in its own
// transaction together with its schema_migrations row.
func (db *DB) migrate(ctx context.Context) error {
	steps, applied, err := db.schemaState(ctx)
	if err != nil {
		return err
	}

	log := logging.Component("db")
	for _, s := range steps {
		if applied[s.version] {
			continue
		}

		log.Info().Int("version", s.version).Str("name", s.name).Msg("applying migration")
		err := db.WithTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, s.up); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
				s.version, s.name, time.Now().UnixNano(),
			)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %04d (%s): %w", s.version, s.name, err)
		}
	}

	return nil
}

// rollback reverts the n most recently applied steps, newest first.
func (db *DB) rollback(ctx context.Context, n int) error {
	if n <= 0 {
		return fmt.Errorf("rollback count must be positive, got %d", n)
	}

	steps, applied, err := db.schemaState(ctx)
	if err != nil {
		return err
	}

	steps = slices.DeleteFunc(steps, func(s step) bool { return !applied[s.version] })
	if n > len(steps) {
		return fmt.Errorf("cannot roll back %d migrations, %d applied", n, len(steps))
	}
	slices.Reverse(steps)

	log := logging.Component("db")
	for _, s := range steps[:n] {
		log.Info().Int("version", s.version).Str("name", s.name).Msg("reverting migration")
		err := db.WithTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, s.down); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, "DELETE FROM schema_migrations WHERE version = ?", s.version)
			return err
		})
		if err != nil {
			return fmt.Errorf("revert migration %04d (%s): %w", s.version, s.name, err)
		}
	}

	return nil
}

// SchemaVersion returns the newest applied migration, or 0 before the first.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	if err := db.conn.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(version.Int64), nil
}

// schemaState loads the embedded steps and the set of versions already
// recorded, creating the tracking table on first use.
func (db *DB) schemaState(ctx context.Context) ([]step, map[int]bool, error) {
	steps, err := schemaSteps(schemaFS)
	if err != nil {
		return nil, nil, err
	}

	_, err = db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, nil, fmt.Errorf("read applied migrations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, nil, fmt.Errorf("read applied migrations: %w", err)
		}
		applied[v] = true
	}

	return steps, applied, rows.Err()
}
