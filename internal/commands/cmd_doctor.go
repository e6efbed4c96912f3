package commands

import (
	"context"
	"fmt"
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/mappicker/internal/core/config"
	"github.com/colonyops/mappicker/internal/core/doctor"
	"github.com/colonyops/mappicker/internal/core/styles"
	"github.com/colonyops/mappicker/internal/geocoding/nominatim"
	"github.com/colonyops/mappicker/pkg/iojson"
)

type DoctorCmd struct {
	flags   *Flags
	app     *App
	format  string
	offline bool
}

func NewDoctorCmd(flags *Flags, app *App) *DoctorCmd {
	return &DoctorCmd{flags: flags, app: app}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your mappicker setup",
		UsageText:   "mappicker doctor [options]",
		Description: "Checks files, the point database, the geocoder and the terminal.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "offline",
				Usage:       "skip the geocoder network check",
				Destination: &cmd.offline,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) checks() []doctor.Check {
	cfg := cmd.app.Config

	var ping func(ctx context.Context) error
	if cfg.Geocoder.Provider == config.ProviderNominatim && !cmd.offline {
		client := nominatim.NewClient(cfg.Geocoder.BaseURL, cfg.Geocoder.Email)
		ping = func(ctx context.Context) error {
			_, err := client.Status(ctx)
			return err
		}
	}

	return []doctor.Check{
		doctor.NewPathsCheck(cmd.flags.ConfigPath, cfg.DataDir, cfg.PointsFile),
		doctor.NewStorageCheck(cmd.app.Points).WithSchema(cmd.app.DB.SchemaVersion),
		doctor.NewGeocoderCheck(cfg.Geocoder.Provider, ping),
		doctor.NewTerminalCheck(),
	}
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	results := doctor.RunAll(ctx, cmd.checks())
	passed, warned, failed := doctor.Summary(results)

	if cmd.format == "json" {
		out := struct {
			Healthy bool            `json:"healthy"`
			Summary summaryJSON     `json:"summary"`
			Checks  []doctor.Result `json:"checks"`
		}{
			Healthy: failed == 0,
			Summary: summaryJSON{Passed: passed, Warned: warned, Failed: failed},
			Checks:  results,
		}
		if err := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, out); err != nil {
			return err
		}
	} else {
		cmd.printText(c, results, passed, warned, failed)
	}

	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

type summaryJSON struct {
	Passed int `json:"passed"`
	Warned int `json:"warned"`
	Failed int `json:"failed"`
}

func (cmd *DoctorCmd) printText(c *cli.Command, results []doctor.Result, passed, warned, failed int) {
	w := c.Root().ErrWriter
	muted := lipgloss.NewStyle().Foreground(styles.ColorMuted)
	success := lipgloss.NewStyle().Foreground(styles.ColorSuccess)
	warning := lipgloss.NewStyle().Foreground(styles.ColorWarning)
	failure := lipgloss.NewStyle().Foreground(styles.ColorError)

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, styles.CommandHeaderStyle.Render("mappicker doctor"))
	_, _ = fmt.Fprintln(w, styles.DividerStyle.Render(strings.Repeat("─", 40)))
	_, _ = fmt.Fprintln(w)

	for _, result := range results {
		_, _ = fmt.Fprintln(w, styles.PointNameStyle.Bold(true).Render(result.Name))

		for _, item := range result.Items {
			var detail string
			if item.Detail != "" {
				detail = " " + muted.Render(item.Detail)
			}

			var icon string
			switch item.Status {
			case doctor.StatusPass:
				icon = success.Render("✔")
			case doctor.StatusWarn:
				icon = warning.Render("●")
			case doctor.StatusFail:
				icon = failure.Render("✘")
			}

			_, _ = fmt.Fprintf(w, "  %s %s%s\n", icon, item.Label, detail)
		}

		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintf(w, "%s  %s  %s\n",
		success.Render(fmt.Sprintf("%d passed", passed)),
		warning.Render(fmt.Sprintf("%d warnings", warned)),
		failure.Render(fmt.Sprintf("%d failed", failed)),
	)
}
