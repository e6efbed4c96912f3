package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/mappicker/internal/core/geo"
	"github.com/colonyops/mappicker/internal/core/logging"
	"github.com/colonyops/mappicker/internal/core/picker"
	"github.com/colonyops/mappicker/internal/core/styles"
	"github.com/colonyops/mappicker/internal/core/validate"
	"github.com/colonyops/mappicker/internal/data/dataset"
	"github.com/colonyops/mappicker/internal/metrics"
	"github.com/colonyops/mappicker/internal/printer"
	"github.com/colonyops/mappicker/internal/profiler"
	"github.com/colonyops/mappicker/internal/tui"
	"github.com/colonyops/mappicker/internal/tui/mapview"
	"github.com/colonyops/mappicker/pkg/iojson"
	"github.com/colonyops/mappicker/pkg/tmpl"
	"github.com/colonyops/mappicker/pkg/utils"
)

type PickCmd struct {
	flags *Flags
	app   *App

	lat, lon float64
	zoom     int
	theme    string
	format   string
}

// NewPickCmd creates a new pick command
func NewPickCmd(flags *Flags, app *App) *PickCmd {
	return &PickCmd{flags: flags, app: app}
}

// Flags returns the picker flags, registered on both the root and the pick command.
func (cmd *PickCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:        "lat",
			Usage:       "initial map latitude (defaults to map.latitude)",
			Destination: &cmd.lat,
		},
		&cli.Float64Flag{
			Name:        "lon",
			Usage:       "initial map longitude (defaults to map.longitude)",
			Destination: &cmd.lon,
		},
		&cli.IntFlag{
			Name:        "zoom",
			Usage:       "initial zoom level (0-19)",
			Destination: &cmd.zoom,
		},
		&cli.StringFlag{
			Name:        "theme",
			Usage:       "color theme (defaults to tui.theme)",
			Destination: &cmd.theme,
		},
		&cli.StringFlag{
			Name:        "format",
			Usage:       "print the chosen point with a Go template instead of JSON (e.g. '{{.Key}}')",
			Destination: &cmd.format,
		},
	}
}

// pickOutput is the data a --format template sees.
type pickOutput struct {
	geo.MapPoint
	Latitude  float64
	Longitude float64
}

func (cmd *PickCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "pick",
		Usage:     "Pick a point on the map",
		UsageText: "mappicker pick [--lat N --lon N] [--zoom N] [--format TEMPLATE]",
		Description: `Opens the interactive map. Pan with the arrow keys or hjkl, zoom with +/-,
search a location with /, and choose a point from the list or with tab/space.

Confirming a point prints it as JSON on stdout, or through --format, which
sees the point fields plus Latitude and Longitude. Leaving without a choice
exits with status 1.`,
		Flags:  cmd.Flags(),
		Action: cmd.run,
	})
	return app
}

// Run executes the picker. Exported for use as default command.
func (cmd *PickCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

// options resolves the initial view and theme. isSet reports whether a flag
// was given on the command line, so an explicit --lat 0 or --zoom 0 is kept.
func (cmd *PickCmd) options(isSet func(name string) bool) (geo.Position, int, error) {
	cfg := cmd.app.Config

	pos := cfg.Map.Position()
	if isSet("lat") {
		pos.Latitude = cmd.lat
	}
	if isSet("lon") {
		pos.Longitude = cmd.lon
	}
	if err := validate.Position(pos); err != nil {
		return geo.Position{}, 0, fmt.Errorf("initial position: %w", err)
	}

	zoom := cfg.Map.Zoom
	if isSet("zoom") {
		zoom = cmd.zoom
	}
	if zoom < mapview.MinZoom || zoom > mapview.MaxZoom {
		return geo.Position{}, 0, fmt.Errorf("zoom must be between %d and %d, got %d", mapview.MinZoom, mapview.MaxZoom, zoom)
	}

	if cmd.theme != "" {
		if _, ok := styles.GetPalette(cmd.theme); !ok {
			return geo.Position{}, 0, fmt.Errorf("unknown theme %q, available: %v", cmd.theme, styles.ThemeNames())
		}
	}

	return pos, zoom, nil
}

func (cmd *PickCmd) run(ctx context.Context, c *cli.Command) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stderr.Fd())) {
		return errors.New("mappicker pick needs an interactive terminal; use 'mappicker points ls' for scripts")
	}

	pos, zoom, err := cmd.options(c.IsSet)
	if err != nil {
		return err
	}

	var output *tmpl.Template
	if cmd.format != "" {
		if output, err = tmpl.Parse(cmd.format); err != nil {
			return fmt.Errorf("--format: %w", err)
		}
	}

	logger := logging.Component("pick")

	// The TUI draws on stderr, so status lines wait until it exits.
	out := utils.NewHoldWriter(os.Stderr)
	out.Hold()
	defer func() { _ = out.Release() }()
	ctx = printer.NewContext(ctx, printer.New(out))

	if cmd.flags.DebugPort > 0 {
		stop, err := startDebugServer(ctx, cmd.flags.DebugPort)
		if err != nil {
			return err
		}
		defer stop()
	}

	theme := cmd.theme
	if theme == "" {
		theme = cmd.app.Config.TUI.Theme
	}

	var chosen *geo.MapPoint
	p, err := picker.New(picker.Options{
		InitialPosition:  &pos,
		InitialZoom:      &zoom,
		Theme:            theme,
		DebounceDelay:    cmd.app.Config.Map.Debounce,
		OnPointConfirmed: func(pt geo.MapPoint) { chosen = &pt },
		Lookup:           cmd.app.Points,
		Geocoder:         cmd.app.Geocoder,
	})
	if err != nil {
		return err
	}
	defer p.Close()

	if path := cmd.app.Config.PointsFile; path != "" {
		stop, err := cmd.watchDataset(ctx, path, p)
		if err != nil {
			return err
		}
		defer stop()
	}

	m := tui.New(tui.Options{
		Picker:      p,
		Canvas:      mapview.New(pos, zoom),
		Context:     ctx,
		History:     cmd.app.History,
		HistorySize: cmd.app.Config.TUI.HistorySize,
	})
	defer m.Close()

	// Stdout is reserved for the result.
	if _, err := tea.NewProgram(m, tea.WithOutput(os.Stderr)).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	if chosen == nil {
		logger.Info().Msg("picker closed without a choice")
		return cli.Exit("", 1)
	}

	if output == nil {
		return iojson.Write(chosen)
	}

	text, err := output.Execute(pickOutput{
		MapPoint:  *chosen,
		Latitude:  chosen.Geocode[0],
		Longitude: chosen.Geocode[1],
	})
	if err != nil {
		return fmt.Errorf("--format: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, text)
	return err
}

// watchDataset imports the points file and re-imports it whenever it changes.
func (cmd *PickCmd) watchDataset(ctx context.Context, path string, p *picker.Picker) (func(), error) {
	logger := logging.Component("pick")

	n, err := dataset.Import(ctx, cmd.app.Points, path)
	if err != nil {
		return nil, fmt.Errorf("import points file: %w", err)
	}
	logger.Info().Str("path", path).Int("points", n).Msg("points file imported")
	out := printer.Ctx(ctx)
	out.Infof("loaded %d %s from %s", n, plural(n, "point", "points"), path)

	w, err := dataset.NewWatcher(path, func(ctx context.Context) error {
		n, err := dataset.Import(ctx, cmd.app.Points, path)
		if err != nil {
			return err
		}
		logger.Info().Int("points", n).Msg("points file reloaded")
		out.Infof("reloaded %d %s from %s", n, plural(n, "point", "points"), path)
		p.Refresh()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("watch points file: %w", err)
	}

	return func() {
		if err := w.Close(); err != nil {
			logger.Warn().Err(err).Msg("close points watcher")
		}
	}, nil
}

func startDebugServer(ctx context.Context, port int) (func(), error) {
	srv := profiler.New(port, metrics.Registry)
	if err := srv.Start(ctx); err != nil {
		return nil, fmt.Errorf("start debug server: %w", err)
	}

	log.Info().
		Str("pprof", fmt.Sprintf("http://%s/debug/pprof/", srv.Addr())).
		Str("metrics", fmt.Sprintf("http://%s/metrics", srv.Addr())).
		Msg("debug endpoints available")
	printer.Ctx(ctx).Infof("debug server listened on http://%s", srv.Addr())

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown debug server")
		}
	}, nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
