package styles

import (
	"image/color"

	"github.com/charmbracelet/huh"
	lipglossv1 "github.com/charmbracelet/lipgloss"
)

// FormTheme returns a huh theme built from the active palette. huh still
// renders with lipgloss v1, so palette colors are passed as hex strings.
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()

	primary := v1Color(ColorPrimary)
	secondary := v1Color(ColorSecondary)
	fg := v1Color(ColorForeground)
	muted := v1Color(ColorMuted)
	success := v1Color(ColorSuccess)
	failure := v1Color(ColorError)

	t.Focused.Base = t.Focused.Base.BorderForeground(muted)
	t.Focused.Title = t.Focused.Title.Foreground(primary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(muted)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(failure)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(failure)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(secondary)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(success)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Foreground(fg).Background(primary)
	t.Focused.BlurredButton = t.Focused.BlurredButton.Foreground(muted)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(secondary)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(primary)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Focused.Base.BorderStyle(lipglossv1.HiddenBorder())

	return t
}

func v1Color(c color.Color) lipglossv1.TerminalColor {
	if hex := colorHexPtr(c); hex != nil {
		return lipglossv1.Color(*hex)
	}
	return lipglossv1.NoColor{}
}
