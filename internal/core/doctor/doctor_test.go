package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statuses(r Result) map[string]Status {
	out := make(map[string]Status, len(r.Items))
	for _, item := range r.Items {
		out[item.Label] = item.Status
	}
	return out
}

func TestPathsCheck(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "config.yaml")
	points := filepath.Join(dir, "points.yaml")
	require.NoError(t, os.WriteFile(config, []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(points, []byte("points: []"), 0o644))

	tests := []struct {
		name                            string
		configPath, dataDir, pointsFile string
		want                            map[string]Status
	}{
		{
			name:       "all present",
			configPath: config,
			dataDir:    dir,
			pointsFile: points,
			want:       map[string]Status{"config": StatusPass, "data dir": StatusPass, "points file": StatusPass},
		},
		{
			name:       "fresh install",
			configPath: filepath.Join(dir, "missing.yaml"),
			dataDir:    filepath.Join(dir, "new"),
			want:       map[string]Status{"config": StatusPass, "data dir": StatusWarn, "points file": StatusPass},
		},
		{
			name:       "broken paths",
			configPath: dir,
			dataDir:    config,
			pointsFile: filepath.Join(dir, "gone.yaml"),
			want:       map[string]Status{"config": StatusFail, "data dir": StatusFail, "points file": StatusFail},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewPathsCheck(tt.configPath, tt.dataDir, tt.pointsFile).Run(context.Background())
			assert.Equal(t, "Files", result.Name)
			assert.Equal(t, tt.want, statuses(result))
		})
	}
}

type countFunc func(ctx context.Context) (int, error)

func (f countFunc) Count(ctx context.Context) (int, error) { return f(ctx) }

func TestStorageCheck(t *testing.T) {
	tests := []struct {
		name  string
		count countFunc
		want  Status
	}{
		{name: "has points", count: func(context.Context) (int, error) { return 12, nil }, want: StatusPass},
		{name: "empty", count: func(context.Context) (int, error) { return 0, nil }, want: StatusWarn},
		{name: "query error", count: func(context.Context) (int, error) { return 0, errors.New("database is locked") }, want: StatusFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewStorageCheck(tt.count).Run(context.Background())
			require.Len(t, result.Items, 1)
			assert.Equal(t, tt.want, result.Items[0].Status)
		})
	}

	t.Run("schema version", func(t *testing.T) {
		points := countFunc(func(context.Context) (int, error) { return 3, nil })

		result := NewStorageCheck(points).WithSchema(func(context.Context) (int, error) { return 2, nil }).Run(context.Background())
		require.Len(t, result.Items, 2)
		assert.Equal(t, CheckItem{Label: "schema", Status: StatusPass, Detail: "version 2"}, result.Items[1])

		result = NewStorageCheck(points).WithSchema(func(context.Context) (int, error) { return 0, errors.New("no such table") }).Run(context.Background())
		assert.Equal(t, StatusFail, result.Items[1].Status)
	})
}

func TestGeocoderCheck(t *testing.T) {
	t.Run("offline", func(t *testing.T) {
		result := NewGeocoderCheck("offline", nil).Run(context.Background())
		require.Len(t, result.Items, 1)
		assert.Equal(t, StatusPass, result.Items[0].Status)
	})

	t.Run("reachable", func(t *testing.T) {
		var gotDeadline bool
		result := NewGeocoderCheck("nominatim", func(ctx context.Context) error {
			_, gotDeadline = ctx.Deadline()
			return nil
		}).Run(context.Background())

		require.Len(t, result.Items, 1)
		assert.Equal(t, StatusPass, result.Items[0].Status)
		assert.True(t, gotDeadline, "ping is bounded")
	})

	t.Run("unreachable", func(t *testing.T) {
		result := NewGeocoderCheck("nominatim", func(context.Context) error {
			return errors.New("connection refused")
		}).Run(context.Background())

		require.Len(t, result.Items, 1)
		assert.Equal(t, StatusFail, result.Items[0].Status)
		assert.Contains(t, result.Items[0].Detail, "connection refused")
	})
}

func TestTerminalCheck(t *testing.T) {
	origTTY, origSize := isTerminalFunc, getSizeFunc
	t.Cleanup(func() {
		isTerminalFunc = origTTY
		getSizeFunc = origSize
	})

	tests := []struct {
		name string
		tty  bool
		w, h int
		err  error
		want map[string]Status
	}{
		{name: "not a terminal", want: map[string]Status{"interactive": StatusWarn}},
		{name: "large enough", tty: true, w: 120, h: 40, want: map[string]Status{"interactive": StatusPass, "size": StatusPass}},
		{name: "too small", tty: true, w: 60, h: 20, want: map[string]Status{"interactive": StatusPass, "size": StatusWarn}},
		{name: "size unknown", tty: true, err: errors.New("ioctl"), want: map[string]Status{"interactive": StatusPass, "size": StatusWarn}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isTerminalFunc = func(int) bool { return tt.tty }
			getSizeFunc = func(int) (int, int, error) { return tt.w, tt.h, tt.err }

			result := NewTerminalCheck().Run(context.Background())
			assert.Equal(t, tt.want, statuses(result))
		})
	}
}

func TestSummary(t *testing.T) {
	results := RunAll(context.Background(), []Check{
		NewGeocoderCheck("offline", nil),
		NewStorageCheck(countFunc(func(context.Context) (int, error) { return 0, nil })),
		NewStorageCheck(countFunc(func(context.Context) (int, error) { return 0, errors.New("boom") })),
	})

	require.Len(t, results, 3)
	passed, warned, failed := Summary(results)
	assert.Equal(t, 1, passed)
	assert.Equal(t, 1, warned)
	assert.Equal(t, 1, failed)
}
