package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/mappicker/internal/core/logging"
	"github.com/colonyops/mappicker/internal/geocoding"
	"github.com/colonyops/mappicker/pkg/iojson"
)

type GeocodeCmd struct {
	flags *Flags
	app   *App
	json  bool
}

func NewGeocodeCmd(flags *Flags, app *App) *GeocodeCmd {
	return &GeocodeCmd{flags: flags, app: app}
}

func (cmd *GeocodeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "geocode",
		Usage:     "Resolve a location name to coordinates",
		UsageText: "mappicker geocode [--json] <text...>",
		Description: `Resolves text the same way the picker's search box does: dataset places
first, then the geocode cache, then the configured provider.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.json,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *GeocodeCmd) run(ctx context.Context, c *cli.Command) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return errors.New("usage: mappicker geocode <text...>")
	}

	ctx = logging.WithQuery(ctx, query)
	pos, err := cmd.app.Geocoder.Geocode(ctx, query)
	if err != nil {
		if cmd.json {
			_ = iojson.WriteErrorTo(c.Root().ErrWriter, err.Error(), map[string]any{
				"query":     query,
				"not_found": errors.Is(err, geocoding.ErrNoResults),
			})
			return cli.Exit("", 1)
		}
		if errors.Is(err, geocoding.ErrNoResults) {
			return fmt.Errorf("location %q not found", query)
		}
		return err
	}

	if cmd.json {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, map[string]any{
			"query":    query,
			"position": pos,
		})
	}

	_, err = fmt.Fprintf(c.Root().Writer, "%.6f %.6f\n", pos.Latitude, pos.Longitude)
	return err
}
