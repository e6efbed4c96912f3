package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/mappicker/internal/core/geo"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load("", dataDir)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, geo.DefaultPosition, cfg.Map.Position())
	assert.Equal(t, geo.DefaultZoom, cfg.Map.Zoom)
	assert.Equal(t, 500*time.Millisecond, cfg.Map.Debounce)
	assert.Equal(t, "tokyo-night", cfg.TUI.Theme)
	assert.Equal(t, ProviderNominatim, cfg.Geocoder.Provider)
	assert.Equal(t, filepath.Join(dataDir, "mappicker.db"), cfg.DatabaseFile())
	assert.Equal(t, 50, cfg.TUI.HistorySize)
	assert.Equal(t, filepath.Join(dataDir, "history.json"), cfg.HistoryFile())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Lookup, cfg.Lookup)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
map:
  latitude: 50.06
  longitude: 19.94
  zoom: 15
  debounce: 250ms
tui:
  theme: gruvbox
lookup:
  limit: 20
geocoder:
  provider: offline
  country_codes: "PL, de"
  cache_ttl: 24h
points_file: points.yaml
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, geo.Position{Latitude: 50.06, Longitude: 19.94}, cfg.Map.Position())
	assert.Equal(t, 15, cfg.Map.Zoom)
	assert.Equal(t, 250*time.Millisecond, cfg.Map.Debounce)
	assert.Equal(t, "gruvbox", cfg.TUI.Theme)
	assert.Equal(t, 20, cfg.Lookup.Limit)
	assert.InDelta(t, 3000, cfg.Lookup.RadiusMeters, 0, "unset keys keep defaults")
	assert.Equal(t, ProviderOffline, cfg.Geocoder.Provider)
	assert.Equal(t, []string{"pl", "de"}, cfg.Geocoder.Countries())
	assert.Equal(t, 24*time.Hour, cfg.Geocoder.CacheTTL)
	assert.Equal(t, time.Hour, cfg.Geocoder.FailureTTL)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "points.yaml"), cfg.PointsFile, "relative to the config file")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "malformed yaml", content: "map: [", wantErr: "parse config file"},
		{name: "latitude out of range", content: "map:\n  latitude: 95\n  longitude: 10\n", wantErr: "out of range"},
		{name: "zoom too large", content: "map:\n  zoom: 25\n", wantErr: "map.zoom"},
		{name: "unknown provider", content: "geocoder:\n  provider: google\n", wantErr: "geocoder.provider"},
		{name: "negative limit", content: "lookup:\n  limit: -1\n", wantErr: "lookup.limit"},
		{name: "negative history size", content: "tui:\n  history_size: -5\n", wantErr: "tui.history_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_EmptyDataDir(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data directory")
}

func TestSave(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Geocoder.Provider = ProviderOffline
	cfg.Geocoder.FailureTTL = 90 * time.Minute
	cfg.TUI.Theme = "osm"
	cfg.DataDir = "/ignored"

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, Save(cfg, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "/ignored")

	dataDir := t.TempDir()
	loaded, err := Load(path, dataDir)
	require.NoError(t, err)

	cfg.DataDir = dataDir
	assert.Equal(t, cfg, *loaded)
}
