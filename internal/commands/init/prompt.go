package initcmd

import (
	"github.com/charmbracelet/huh"

	"github.com/colonyops/mappicker/internal/core/config"
	"github.com/colonyops/mappicker/internal/core/styles"
)

// HuhPrompter asks through huh forms on the terminal.
type HuhPrompter struct{}

func (HuhPrompter) Confirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Value(&ok),
		),
	).WithTheme(styles.FormTheme()).Run()
	return ok, err
}

func (HuhPrompter) Ask(a *Answers) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Location search").
				Description("nominatim asks OpenStreetMap, offline only matches names in your points").
				Options(huh.NewOptions(config.ProviderNominatim, config.ProviderOffline)...).
				Value(&a.Provider),
			huh.NewInput().
				Title("Contact email").
				Description("Sent with Nominatim requests. Leave empty to skip").
				Value(&a.Email),
			huh.NewInput().
				Title("Country codes").
				Description("Comma-separated ISO codes that limit search results").
				Value(&a.CountryCodes),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Points file").
				Description("YAML dataset to import. Leave empty to set it later").
				Validate(checkPointsFile).
				Value(&a.PointsFile),
			huh.NewInput().
				Title("Start position").
				Description("latitude, longitude").
				Validate(func(s string) error {
					_, err := ParsePosition(s)
					return err
				}).
				Value(&a.Position),
			huh.NewSelect[string]().
				Title("Theme").
				Options(huh.NewOptions(styles.ThemeNames()...)...).
				Value(&a.Theme),
		),
	).WithTheme(styles.FormTheme()).Run()
}
