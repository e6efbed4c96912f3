package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/mappicker/internal/commands"
	"github.com/colonyops/mappicker/internal/core/config"
	"github.com/colonyops/mappicker/internal/core/logging"
	"github.com/colonyops/mappicker/internal/core/styles"
	"github.com/colonyops/mappicker/internal/printer"
	"github.com/colonyops/mappicker/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() falls back
	// to runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

// subcommand returns the name of the invoked subcommand, if any.
func subcommand(c *cli.Command) string {
	return c.Args().First()
}

// needsApp reports whether the invoked command works on the database.
func needsApp(c *cli.Command) bool {
	switch subcommand(c) {
	case "config", "init":
		return false
	}
	return true
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		app       = &commands.App{}
	)

	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "mappicker",
		Usage:     "Pick a point of interest on a terminal map",
		UsageText: "mappicker [global options] [command [command options]]",
		Description: `mappicker shows points (parcel lockers, pickup points, shops) on a map in
your terminal. Pan and zoom around, search for a place, and confirm a point to
print it as JSON.

Run 'mappicker' with no arguments to open the picker.
Run 'mappicker init' to write a config file.
Run 'mappicker points import points.yaml' to load a dataset first.`,
		Version: build(),
		Flags:   flags.Global(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file so the TUI owns the terminal.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "mappicker.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile, logging.ContextHook{})
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			ctx = printer.NewContext(ctx, printer.New(os.Stderr))

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				// init replaces a broken config, so it starts from defaults.
				if subcommand(c) != "init" {
					return ctx, fmt.Errorf("load config: %w", err)
				}
				log.Warn().Err(err).Msg("existing config is invalid, init will replace it")
				defaults := config.DefaultConfig()
				defaults.DataDir = flags.DataDir
				cfg = &defaults
			}
			flags.Config = cfg

			// Validation ensures the name is valid.
			palette, _ := styles.GetPalette(cfg.TUI.Theme)
			styles.SetTheme(palette)

			if !needsApp(c) {
				return ctx, nil
			}

			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return ctx, fmt.Errorf("create data dir: %w", err)
			}
			if err := app.Open(ctx, cfg); err != nil {
				return ctx, err
			}

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if err := app.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close database")
				return err
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	pickCmd := commands.NewPickCmd(flags, app)

	root = pickCmd.Register(root)
	root = commands.NewPointsCmd(flags, app).Register(root)
	root = commands.NewGeocodeCmd(flags, app).Register(root)
	root = commands.NewHistoryCmd(flags, app).Register(root)
	root = commands.NewDoctorCmd(flags, app).Register(root)
	root = commands.NewConfigValidateCmd(flags).Register(root)
	root = commands.NewInitCmd(flags).Register(root)

	// Picker flags also work without the subcommand.
	root.Flags = append(root.Flags, pickCmd.Flags()...)

	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'mappicker --help' for usage", c.Args().First())
		}
		return pickCmd.Run(ctx, c)
	}

	exitCode := 0
	if err := root.Run(ctx, os.Args); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		exitCode = 1
	}

	os.Exit(exitCode)
}
