package commands

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	initcmd "github.com/colonyops/mappicker/internal/commands/init"
	"github.com/colonyops/mappicker/internal/printer"
	"github.com/colonyops/mappicker/pkg/iojson"
)

// confirm asks a yes/no question on the terminal. Tests replace it.
var confirm = func(title, description string) (bool, error) {
	return initcmd.HuhPrompter{}.Confirm(title, description)
}

type HistoryCmd struct {
	flags *Flags
	app   *App
	json  bool
	yes   bool
}

func NewHistoryCmd(flags *Flags, app *App) *HistoryCmd {
	return &HistoryCmd{flags: flags, app: app}
}

func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "history",
		Usage: "Show or clear remembered location searches",
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List remembered searches, newest first",
				UsageText: "mappicker history ls [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON",
						Destination: &cmd.json,
					},
				},
				Action: cmd.runLs,
			},
			{
				Name:      "clear",
				Usage:     "Forget all remembered searches",
				UsageText: "mappicker history clear [--yes]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "yes",
						Aliases:     []string{"y"},
						Usage:       "skip the confirmation prompt",
						Destination: &cmd.yes,
					},
				},
				Action: cmd.runClear,
			},
		},
	})
	return app
}

func (cmd *HistoryCmd) runLs(ctx context.Context, c *cli.Command) error {
	entries, err := cmd.app.History.List(ctx)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	if cmd.json {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, entries)
	}

	if len(entries) == 0 {
		printer.Ctx(ctx).Infof("no searches yet")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tQUERY\tPOSITION")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", e.Timestamp.Local().Format("2006-01-02 15:04"), e.Query, e.Position)
	}
	return w.Flush()
}

func (cmd *HistoryCmd) runClear(ctx context.Context, _ *cli.Command) error {
	if !cmd.yes {
		ok, err := confirm("Clear search history?", "Remembered searches can not be restored")
		if errors.Is(err, huh.ErrUserAborted) || (err == nil && !ok) {
			printer.Ctx(ctx).Infof("History kept")
			return nil
		}
		if err != nil {
			return fmt.Errorf("confirm clear: %w", err)
		}
	}

	if err := cmd.app.History.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	printer.Ctx(ctx).Successf("Search history cleared")
	return nil
}
