// Command docgen generates CLI reference documentation from the mappicker
// command definitions. Output is written to docs/cli-reference.md.
package main

import (
	"fmt"
	"os"

	docs "github.com/urfave/cli-docs/v3"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/mappicker/internal/commands"
)

func main() {
	flags := &commands.Flags{}
	app := &commands.App{}

	root := &cli.Command{
		Name:      "mappicker",
		Usage:     "Pick a point of interest on a terminal map",
		UsageText: "mappicker [global options] [command [command options]]",
		Description: `mappicker shows points (parcel lockers, pickup points, shops) on a map in
your terminal. Pan and zoom around, search for a place, and confirm a point to
print it as JSON.

Run 'mappicker' with no arguments to open the picker.`,
		Flags: flags.Global(),
	}

	pickCmd := commands.NewPickCmd(flags, app)
	root.Flags = append(root.Flags, pickCmd.Flags()...)

	root = pickCmd.Register(root)
	root = commands.NewPointsCmd(flags, app).Register(root)
	root = commands.NewGeocodeCmd(flags, app).Register(root)
	root = commands.NewHistoryCmd(flags, app).Register(root)
	root = commands.NewDoctorCmd(flags, app).Register(root)
	root = commands.NewConfigValidateCmd(flags).Register(root)
	root = commands.NewInitCmd(flags).Register(root)

	md, err := docs.ToMarkdown(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating docs: %v\n", err)
		os.Exit(1)
	}

	outPath := "docs/cli-reference.md"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outPath)
}
