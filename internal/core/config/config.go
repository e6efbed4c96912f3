// Package config handles configuration loading and validation for mappicker.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/mappicker/internal/core/geo"
)

// Geocoder providers.
const (
	ProviderNominatim = "nominatim"
	ProviderOffline   = "offline"
)

// Config holds the application configuration.
type Config struct {
	Map        MapConfig      `yaml:"map"`
	TUI        TUIConfig      `yaml:"tui"`
	Lookup     LookupConfig   `yaml:"lookup"`
	Geocoder   GeocoderConfig `yaml:"geocoder"`
	PointsFile string         `yaml:"points_file"`
	Database   DatabaseConfig `yaml:"database"`
	DataDir    string         `yaml:"-"` // set by caller, not from config file
}

// MapConfig sets where the map opens and how long it waits before loading points.
type MapConfig struct {
	Latitude  float64       `yaml:"latitude"`
	Longitude float64       `yaml:"longitude"`
	Zoom      int           `yaml:"zoom"`
	Debounce  time.Duration `yaml:"debounce"`
}

// Position returns the configured initial map center.
func (m MapConfig) Position() geo.Position {
	return geo.Position{Latitude: m.Latitude, Longitude: m.Longitude}
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme       string `yaml:"theme"`
	HistorySize int    `yaml:"history_size"` // remembered searches
}

// LookupConfig controls the nearby-points query.
type LookupConfig struct {
	RadiusMeters float64 `yaml:"radius_meters"` // used when the map reports no bounds
	Limit        int     `yaml:"limit"`
}

// GeocoderConfig selects and tunes the location search backend.
type GeocoderConfig struct {
	Provider     string        `yaml:"provider"` // nominatim | offline
	BaseURL      string        `yaml:"base_url"`
	Email        string        `yaml:"email"`         // sent to Nominatim per its usage policy
	CountryCodes string        `yaml:"country_codes"` // comma separated ISO 3166-1 codes
	RateLimit    float64       `yaml:"rate_limit"`    // requests per second
	CacheTTL     time.Duration `yaml:"cache_ttl"`
	FailureTTL   time.Duration `yaml:"failure_ttl"`
}

// DatabaseConfig holds SQLite connection settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Map: MapConfig{
			Latitude:  geo.DefaultPosition.Latitude,
			Longitude: geo.DefaultPosition.Longitude,
			Zoom:      geo.DefaultZoom,
			Debounce:  500 * time.Millisecond,
		},
		TUI: TUIConfig{
			Theme:       "tokyo-night",
			HistorySize: 50,
		},
		Lookup: LookupConfig{
			RadiusMeters: 3000,
			Limit:        50,
		},
		Geocoder: GeocoderConfig{
			Provider:     ProviderNominatim,
			BaseURL:      "https://nominatim.openstreetmap.org",
			CountryCodes: "pl",
			RateLimit:    1,
			CacheTTL:     30 * 24 * time.Hour,
			FailureTTL:   time.Hour,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5000,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir

			if cfg.PointsFile != "" && !filepath.IsAbs(cfg.PointsFile) {
				cfg.PointsFile = filepath.Join(filepath.Dir(configPath), cfg.PointsFile)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Map.Latitude == 0 && c.Map.Longitude == 0 {
		c.Map.Latitude = defaults.Map.Latitude
		c.Map.Longitude = defaults.Map.Longitude
	}
	if c.Map.Zoom == 0 {
		c.Map.Zoom = defaults.Map.Zoom
	}
	if c.Map.Debounce == 0 {
		c.Map.Debounce = defaults.Map.Debounce
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.TUI.HistorySize == 0 {
		c.TUI.HistorySize = defaults.TUI.HistorySize
	}
	if c.Lookup.RadiusMeters == 0 {
		c.Lookup.RadiusMeters = defaults.Lookup.RadiusMeters
	}
	if c.Lookup.Limit == 0 {
		c.Lookup.Limit = defaults.Lookup.Limit
	}
	if c.Geocoder.Provider == "" {
		c.Geocoder.Provider = defaults.Geocoder.Provider
	}
	if c.Geocoder.BaseURL == "" {
		c.Geocoder.BaseURL = defaults.Geocoder.BaseURL
	}
	if c.Geocoder.RateLimit == 0 {
		c.Geocoder.RateLimit = defaults.Geocoder.RateLimit
	}
	if c.Geocoder.CacheTTL == 0 {
		c.Geocoder.CacheTTL = defaults.Geocoder.CacheTTL
	}
	if c.Geocoder.FailureTTL == 0 {
		c.Geocoder.FailureTTL = defaults.Geocoder.FailureTTL
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if !c.Map.Position().Valid() {
		return fmt.Errorf("map position %s is out of range", c.Map.Position())
	}
	if c.Map.Zoom < 1 || c.Map.Zoom > 19 {
		return fmt.Errorf("map.zoom must be between 1 and 19, got %d", c.Map.Zoom)
	}
	if c.Map.Debounce < 0 {
		return fmt.Errorf("map.debounce cannot be negative")
	}

	if c.TUI.HistorySize < 0 {
		return fmt.Errorf("tui.history_size cannot be negative")
	}

	if c.Lookup.RadiusMeters < 0 {
		return fmt.Errorf("lookup.radius_meters cannot be negative")
	}
	if c.Lookup.Limit < 1 {
		return fmt.Errorf("lookup.limit must be at least 1")
	}

	switch c.Geocoder.Provider {
	case ProviderNominatim, ProviderOffline:
	default:
		return fmt.Errorf("geocoder.provider must be %q or %q, got %q", ProviderNominatim, ProviderOffline, c.Geocoder.Provider)
	}
	if c.Geocoder.RateLimit < 0 {
		return fmt.Errorf("geocoder.rate_limit cannot be negative")
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}

	return nil
}

// Countries returns the configured geocoder country filter as a list.
func (g GeocoderConfig) Countries() []string {
	var out []string
	for _, code := range strings.Split(g.CountryCodes, ",") {
		if code = strings.TrimSpace(strings.ToLower(code)); code != "" {
			out = append(out, code)
		}
	}
	return out
}

// DatabaseFile returns the path to the SQLite database.
func (c *Config) DatabaseFile() string {
	return filepath.Join(c.DataDir, "mappicker.db")
}

// HistoryFile returns the path to the search history file.
func (c *Config) HistoryFile() string {
	return filepath.Join(c.DataDir, "history.json")
}

// Save writes c to path as YAML, creating the parent directory. DataDir is not
// part of the file.
func Save(c Config, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	header := []byte("# mappicker configuration. Run 'mappicker config validate' after editing.\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
