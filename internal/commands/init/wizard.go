// Package initcmd writes a first config file, asking for the few settings a
// new install usually changes.
package initcmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/colonyops/mappicker/internal/core/config"
	"github.com/colonyops/mappicker/internal/core/doctor"
	"github.com/colonyops/mappicker/internal/core/geo"
	"github.com/colonyops/mappicker/internal/core/styles"
	"github.com/colonyops/mappicker/internal/core/validate"
	"github.com/colonyops/mappicker/internal/printer"
)

// Answers are the settings the wizard asks for. Position is "lat, lon".
type Answers struct {
	Provider     string
	Email        string
	CountryCodes string
	PointsFile   string
	Position     string
	Theme        string
}

// DefaultAnswers returns answers matching config.DefaultConfig.
func DefaultAnswers() Answers {
	d := config.DefaultConfig()
	return Answers{
		Provider:     d.Geocoder.Provider,
		Email:        d.Geocoder.Email,
		CountryCodes: d.Geocoder.CountryCodes,
		Position:     FormatPosition(d.Map.Position()),
		Theme:        d.TUI.Theme,
	}
}

// Prompter asks the user questions. The huh implementation is used outside
// tests.
type Prompter interface {
	Confirm(title, description string) (bool, error)
	Ask(a *Answers) error
}

// WizardOptions configures the init wizard.
type WizardOptions struct {
	ConfigPath string
	DataDir    string
	Yes        bool // accept answers without prompting
	Force      bool // overwrite an existing config without asking
	Answers    Answers
}

// Wizard runs the interactive setup.
type Wizard struct {
	opts     WizardOptions
	prompter Prompter
}

// NewWizard creates a wizard. A nil prompter uses huh forms.
func NewWizard(opts WizardOptions, prompter Prompter) *Wizard {
	if prompter == nil {
		prompter = HuhPrompter{}
	}
	return &Wizard{opts: opts, prompter: prompter}
}

// Run asks for settings, writes the config and checks the resulting paths.
func (w *Wizard) Run(ctx context.Context) error {
	p := printer.Ctx(ctx)

	exists := ConfigExists(w.opts.ConfigPath)
	if exists && !w.opts.Force {
		if w.opts.Yes {
			return fmt.Errorf("config already exists at %s, pass --force to overwrite", w.opts.ConfigPath)
		}
		overwrite, err := w.prompter.Confirm("Config file already exists",
			w.opts.ConfigPath+"\nOverwrite it? The current file is kept as .bak")
		if errors.Is(err, huh.ErrUserAborted) || (err == nil && !overwrite) {
			p.Infof("Init cancelled")
			return nil
		}
		if err != nil {
			return fmt.Errorf("confirm overwrite: %w", err)
		}
	}

	answers := w.opts.Answers
	if !w.opts.Yes {
		if err := w.prompter.Ask(&answers); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				p.Infof("Init cancelled")
				return nil
			}
			return fmt.Errorf("prompt: %w", err)
		}
	}

	cfg, err := GenerateConfig(answers)
	if err != nil {
		return err
	}

	if exists {
		backup, err := BackupConfig(w.opts.ConfigPath)
		if err != nil {
			return err
		}
		if backup != "" {
			p.Infof("Backed up existing config to %s", backup)
		}
	}

	if err := config.Save(cfg, w.opts.ConfigPath); err != nil {
		return err
	}
	p.Successf("Wrote %s", w.opts.ConfigPath)

	result := doctor.NewPathsCheck(w.opts.ConfigPath, w.opts.DataDir, cfg.PointsFile).Run(ctx)
	for _, item := range result.Items {
		switch item.Status {
		case doctor.StatusFail:
			p.Errorf("%s: %s", item.Label, item.Detail)
		case doctor.StatusWarn:
			p.Warnf("%s: %s", item.Label, item.Detail)
		}
	}

	if cfg.PointsFile == "" {
		p.Printf("Next: mappicker points import <file>")
	} else {
		p.Printf("Next: mappicker points import %s", cfg.PointsFile)
	}
	return nil
}

// GenerateConfig turns wizard answers into a config based on the defaults.
func GenerateConfig(a Answers) (config.Config, error) {
	cfg := config.DefaultConfig()

	switch a.Provider {
	case "":
	case config.ProviderNominatim, config.ProviderOffline:
		cfg.Geocoder.Provider = a.Provider
	default:
		return cfg, fmt.Errorf("unknown geocoder provider %q", a.Provider)
	}
	cfg.Geocoder.Email = strings.TrimSpace(a.Email)
	cfg.Geocoder.CountryCodes = normalizeCountryCodes(a.CountryCodes)

	if a.Position != "" {
		pos, err := ParsePosition(a.Position)
		if err != nil {
			return cfg, err
		}
		cfg.Map.Latitude = pos.Latitude
		cfg.Map.Longitude = pos.Longitude
	}

	if a.Theme != "" {
		if _, ok := styles.GetPalette(a.Theme); !ok {
			return cfg, fmt.Errorf("unknown theme %q (available: %s)", a.Theme, strings.Join(styles.ThemeNames(), ", "))
		}
		cfg.TUI.Theme = a.Theme
	}

	if path := strings.TrimSpace(a.PointsFile); path != "" {
		if err := checkPointsFile(path); err != nil {
			return cfg, err
		}
		abs, err := filepath.Abs(expandHome(path))
		if err != nil {
			return cfg, fmt.Errorf("points file: %w", err)
		}
		cfg.PointsFile = abs
	}

	return cfg, nil
}

// ParsePosition reads a "lat, lon" pair.
func ParsePosition(s string) (geo.Position, error) {
	lat, lon, ok := strings.Cut(s, ",")
	if !ok {
		return geo.Position{}, fmt.Errorf("position %q: want \"latitude, longitude\"", s)
	}
	latitude, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return geo.Position{}, fmt.Errorf("latitude %q: not a number", strings.TrimSpace(lat))
	}
	longitude, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return geo.Position{}, fmt.Errorf("longitude %q: not a number", strings.TrimSpace(lon))
	}

	pos := geo.Position{Latitude: latitude, Longitude: longitude}
	if err := validate.Position(pos); err != nil {
		return geo.Position{}, err
	}
	return pos, nil
}

// FormatPosition is the inverse of ParsePosition.
func FormatPosition(p geo.Position) string {
	return strconv.FormatFloat(p.Latitude, 'f', -1, 64) + ", " + strconv.FormatFloat(p.Longitude, 'f', -1, 64)
}

func checkPointsFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	info, err := os.Stat(expandHome(strings.TrimSpace(path)))
	if err != nil {
		return fmt.Errorf("points file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("points file: %s is a directory", path)
	}
	return nil
}

func normalizeCountryCodes(s string) string {
	var codes []string
	for _, code := range strings.Split(s, ",") {
		if code = strings.ToLower(strings.TrimSpace(code)); code != "" {
			codes = append(codes, code)
		}
	}
	return strings.Join(codes, ",")
}

func expandHome(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return path
}
