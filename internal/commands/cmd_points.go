package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/mappicker/internal/core/geo"
	"github.com/colonyops/mappicker/internal/data/dataset"
	"github.com/colonyops/mappicker/internal/data/stores"
	"github.com/colonyops/mappicker/internal/printer"
	"github.com/colonyops/mappicker/pkg/iojson"
)

type PointsCmd struct {
	flags *Flags
	app   *App

	input iojson.FileReader

	lat, lon float64
	radius   float64
	limit    int
	json     bool
}

// NewPointsCmd creates the points command group.
func NewPointsCmd(flags *Flags, app *App) *PointsCmd {
	return &PointsCmd{flags: flags, app: app}
}

func (cmd *PointsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "points",
		Usage: "Manage the point dataset",
		Commands: []*cli.Command{
			cmd.importCmd(),
			cmd.lsCmd(),
		},
	})
	return app
}

func (cmd *PointsCmd) importCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Replace all points with a YAML dataset",
		UsageText: "mappicker points import [file] | mappicker points import < points.yaml",
		Description: `Loads a dataset of points and named places into the database, replacing
what was there. Points without a key are given a random one.

The dataset is read from the file argument, the --file flag, or stdin.`,
		Flags:  []cli.Flag{cmd.input.Flag()},
		Action: cmd.runImport,
	}
}

func (cmd *PointsCmd) runImport(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	var (
		ds     *dataset.Dataset
		source string
		err    error
	)
	if path := c.Args().First(); path != "" {
		source = path
		ds, err = dataset.Load(path)
	} else {
		source = cmd.input.Source()
		var data []byte
		if data, err = cmd.input.Read(); err == nil {
			ds, err = dataset.Parse(data)
		}
	}
	if err != nil {
		return err
	}

	n, err := ds.Apply(ctx, cmd.app.Points)
	if err != nil {
		return err
	}

	p.Successf("imported %d points and %d places from %s", n, len(ds.Places), source)
	return nil
}

func (cmd *PointsCmd) lsCmd() *cli.Command {
	return &cli.Command{
		Name:      "ls",
		Usage:     "List points near a position",
		UsageText: "mappicker points ls --lat N --lon N [--radius M] [--json]",
		Description: `Runs the same lookup the picker uses when the map has no size yet:
points within the radius, nearest first.`,
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:        "lat",
				Usage:       "latitude (defaults to map.latitude)",
				Destination: &cmd.lat,
			},
			&cli.Float64Flag{
				Name:        "lon",
				Usage:       "longitude (defaults to map.longitude)",
				Destination: &cmd.lon,
			},
			&cli.Float64Flag{
				Name:        "radius",
				Usage:       "search radius in meters (defaults to lookup.radius_meters)",
				Destination: &cmd.radius,
			},
			&cli.IntFlag{
				Name:        "limit",
				Usage:       "maximum number of points (defaults to lookup.limit)",
				Destination: &cmd.limit,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.json,
			},
		},
		Action: cmd.runLs,
	}
}

// pointResult is a point with its distance from the query position.
type pointResult struct {
	geo.MapPoint
	DistanceMeters float64 `json:"distance_meters"`
}

func (cmd *PointsCmd) runLs(ctx context.Context, c *cli.Command) error {
	cfg := cmd.app.Config

	pos := cfg.Map.Position()
	if cmd.lat != 0 || cmd.lon != 0 {
		pos = geo.Position{Latitude: cmd.lat, Longitude: cmd.lon}
	}
	if !pos.Valid() {
		return fmt.Errorf("position %s is out of range", pos)
	}

	opts := stores.PointStoreOptions{RadiusMeters: cfg.Lookup.RadiusMeters, Limit: cfg.Lookup.Limit}
	if cmd.radius > 0 {
		opts.RadiusMeters = cmd.radius
	}
	if cmd.limit > 0 {
		opts.Limit = cmd.limit
	}

	points, err := stores.NewPointStore(cmd.app.DB, opts).LookupPoints(ctx, pos, geo.Bounds{})
	if err != nil {
		if cmd.json {
			_ = iojson.WriteError(err.Error(), map[string]any{"position": pos})
		}
		return fmt.Errorf("lookup points: %w", err)
	}

	results := make([]pointResult, len(points))
	for i, pt := range points {
		results[i] = pointResult{MapPoint: pt, DistanceMeters: geo.Distance(pos, pt.Position())}
	}

	if cmd.json {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, results)
	}

	if len(results) == 0 {
		printer.Ctx(ctx).Infof("no points within %.0fm of %s", opts.RadiusMeters, pos)
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "KEY\tSERVICE\tNAME\tDISTANCE")
	for _, r := range results {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Key, r.Service, r.Name, formatDistance(r.DistanceMeters))
	}
	return w.Flush()
}

func formatDistance(m float64) string {
	if m < 1000 {
		return fmt.Sprintf("%.0fm", m)
	}
	return fmt.Sprintf("%.1fkm", m/1000)
}
