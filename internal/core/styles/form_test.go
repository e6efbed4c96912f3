package styles

import (
	"testing"

	lipglossv1 "github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormTheme_FollowsPalette(t *testing.T) {
	t.Cleanup(func() { SetTheme(themes[DefaultTheme]) })

	for _, name := range ThemeNames() {
		t.Run(name, func(t *testing.T) {
			palette, ok := GetPalette(name)
			require.True(t, ok)
			SetTheme(palette)

			theme := FormTheme()
			require.NotNil(t, theme)

			primary := colorHexPtr(palette.Primary)
			require.NotNil(t, primary)
			assert.Equal(t, lipglossv1.Color(*primary), theme.Focused.Title.GetForeground())
			assert.Equal(t, theme.Focused.Title.GetForeground(), theme.Blurred.Title.GetForeground())
		})
	}
}
