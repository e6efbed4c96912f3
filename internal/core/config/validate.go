package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/mappicker/internal/core/styles"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// file accessibility, the geocoder endpoint and the theme name. The configPath
// argument specifies the config file location to validate (empty string skips
// the config file check). This calls Validate() first for basic structural
// validation.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateGeocoder(),
		criterio.Run("tui.theme", c.TUI.Theme, themeExists),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Geocoder.Provider == ProviderNominatim && c.Geocoder.Email == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Geocoder",
			Item:     "email",
			Message:  "nominatim usage policy asks for a contact email on bulk use",
		})
	}

	if c.Geocoder.Provider == ProviderOffline && c.PointsFile == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Geocoder",
			Item:     "provider",
			Message:  "offline geocoder only resolves places from points_file, which is not set",
		})
	}

	if c.Map.Debounce < 100*time.Millisecond {
		warnings = append(warnings, ValidationWarning{
			Category: "Map",
			Item:     "debounce",
			Message:  fmt.Sprintf("debounce of %s will query points on nearly every pan step", c.Map.Debounce),
		})
	}

	return warnings
}

// validateFileAccess checks config file, data directory and points dataset.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("points_file", c.PointsFile, isReadableFile),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

func isReadableFile(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("cannot stat: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	return nil
}

func (c *Config) validateGeocoder() error {
	var errs criterio.FieldErrorsBuilder

	if c.Geocoder.Provider == ProviderNominatim {
		u, err := url.Parse(c.Geocoder.BaseURL)
		switch {
		case err != nil:
			errs = errs.Append("geocoder.base_url", fmt.Errorf("invalid url: %w", err))
		case u.Scheme != "http" && u.Scheme != "https":
			errs = errs.Append("geocoder.base_url", fmt.Errorf("scheme must be http or https, got %q", u.Scheme))
		case u.Host == "":
			errs = errs.Append("geocoder.base_url", fmt.Errorf("missing host"))
		}
	}

	for i, code := range c.Geocoder.Countries() {
		if len(code) != 2 {
			errs = errs.Append(fmt.Sprintf("geocoder.country_codes[%d]", i), fmt.Errorf("%q is not a two-letter country code", code))
		}
	}

	if c.Geocoder.FailureTTL > c.Geocoder.CacheTTL {
		errs = errs.Append("geocoder.failure_ttl", fmt.Errorf("must not exceed cache_ttl (%s)", c.Geocoder.CacheTTL))
	}

	return errs.ToError()
}

func themeExists(name string) error {
	names := styles.ThemeNames()
	if !slices.Contains(names, name) {
		return fmt.Errorf("unknown theme %q, available: %v", name, names)
	}
	return nil
}
