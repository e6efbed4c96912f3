package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	initcmd "github.com/colonyops/mappicker/internal/commands/init"
)

type InitCmd struct {
	flags    *Flags
	yes      bool
	force    bool
	answers  initcmd.Answers
	prompter initcmd.Prompter // nil uses huh
}

func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags, answers: initcmd.DefaultAnswers()}
}

func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Write a config file with an interactive wizard",
		UsageText: "mappicker init [options]",
		Description: `Sets up mappicker for first-time use.

The wizard asks for the location search provider, the points file, where the
map opens and the color theme, then writes them to the config file.

Flags pre-fill the answers. Use --yes to accept them without prompts.
Use --force to overwrite an existing config.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "accept answers without prompting",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "overwrite existing configuration",
				Destination: &cmd.force,
			},
			&cli.StringFlag{
				Name:        "provider",
				Usage:       "location search provider (nominatim, offline)",
				Value:       cmd.answers.Provider,
				Destination: &cmd.answers.Provider,
			},
			&cli.StringFlag{
				Name:        "email",
				Usage:       "contact email sent to Nominatim",
				Destination: &cmd.answers.Email,
			},
			&cli.StringFlag{
				Name:        "country-codes",
				Usage:       "comma-separated ISO codes that limit search results",
				Value:       cmd.answers.CountryCodes,
				Destination: &cmd.answers.CountryCodes,
			},
			&cli.StringFlag{
				Name:        "points-file",
				Usage:       "YAML dataset to import and watch",
				Destination: &cmd.answers.PointsFile,
			},
			&cli.StringFlag{
				Name:        "position",
				Usage:       "where the map opens, as \"lat, lon\"",
				Value:       cmd.answers.Position,
				Destination: &cmd.answers.Position,
			},
			&cli.StringFlag{
				Name:        "theme",
				Usage:       "color theme",
				Value:       cmd.answers.Theme,
				Destination: &cmd.answers.Theme,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *InitCmd) run(ctx context.Context, _ *cli.Command) error {
	wizard := initcmd.NewWizard(initcmd.WizardOptions{
		ConfigPath: cmd.flags.ConfigPath,
		DataDir:    cmd.flags.DataDir,
		Yes:        cmd.yes,
		Force:      cmd.force,
		Answers:    cmd.answers,
	}, cmd.prompter)
	return wizard.Run(ctx)
}
