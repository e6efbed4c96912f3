package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Geocoder.Email = "ops@example.com"
	return &cfg
}

func TestValidateDeep_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	assert.NoError(t, cfg.ValidateDeep(""))
	assert.Empty(t, cfg.Warnings())
}

func TestValidateDeep_FieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(t *testing.T, c *Config)
		wantField string
		wantMsg   string
	}{
		{
			name:      "unknown theme",
			mutate:    func(_ *testing.T, c *Config) { c.TUI.Theme = "solarized-neon" },
			wantField: "tui.theme",
			wantMsg:   "unknown theme",
		},
		{
			name:      "base url without scheme",
			mutate:    func(_ *testing.T, c *Config) { c.Geocoder.BaseURL = "nominatim.local" },
			wantField: "geocoder.base_url",
			wantMsg:   "scheme",
		},
		{
			name:      "bad country code",
			mutate:    func(_ *testing.T, c *Config) { c.Geocoder.CountryCodes = "pl,pol" },
			wantField: "geocoder.country_codes[1]",
			wantMsg:   "two-letter",
		},
		{
			name: "failure ttl longer than cache ttl",
			mutate: func(_ *testing.T, c *Config) {
				c.Geocoder.CacheTTL = time.Minute
				c.Geocoder.FailureTTL = time.Hour
			},
			wantField: "geocoder.failure_ttl",
			wantMsg:   "cache_ttl",
		},
		{
			name:      "missing points file",
			mutate:    func(t *testing.T, c *Config) { c.PointsFile = filepath.Join(t.TempDir(), "missing.yaml") },
			wantField: "points_file",
			wantMsg:   "cannot open",
		},
		{
			name: "data dir is a file",
			mutate: func(t *testing.T, c *Config) {
				path := filepath.Join(t.TempDir(), "file")
				require.NoError(t, os.WriteFile(path, nil, 0o644))
				c.DataDir = path
			},
			wantField: "data_dir",
			wantMsg:   "not a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(t, cfg)

			err := cfg.ValidateDeep("")

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			require.Len(t, fieldErrs, 1)
			assert.Equal(t, tt.wantField, fieldErrs[0].Field)
			assert.Contains(t, fieldErrs[0].Err.Error(), tt.wantMsg)
		})
	}
}

func TestValidateDeep_OfflineIgnoresBaseURL(t *testing.T) {
	cfg := validConfig(t)
	cfg.Geocoder.Provider = ProviderOffline
	cfg.Geocoder.BaseURL = "::not a url::"

	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestValidateDeep_ConfigFileIsDirectory(t *testing.T) {
	cfg := validConfig(t)

	err := cfg.ValidateDeep(t.TempDir())

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "config_file", fieldErrs[0].Field)
}

func TestValidateDeep_RunsBasicValidation(t *testing.T) {
	cfg := validConfig(t)
	cfg.Lookup.Limit = 0

	err := cfg.ValidateDeep("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lookup.limit")
}

func TestWarnings(t *testing.T) {
	cfg := validConfig(t)
	cfg.Geocoder.Email = ""
	cfg.Map.Debounce = 50 * time.Millisecond

	warnings := cfg.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, "email", warnings[0].Item)
	assert.Equal(t, "debounce", warnings[1].Item)

	cfg = validConfig(t)
	cfg.Geocoder.Provider = ProviderOffline
	warnings = cfg.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "provider", warnings[0].Item)
}
