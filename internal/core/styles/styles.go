// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported colors of the active palette.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color

	// ColorGrid is the faint map graticule, halfway between background and muted.
	ColorGrid color.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	CommandStyle       lipgloss.Style
	DividerStyle       lipgloss.Style

	// Map canvas.
	MapBorderStyle       lipgloss.Style
	MapGridStyle         lipgloss.Style
	MapCenterStyle       lipgloss.Style
	MarkerStyle          lipgloss.Style
	MarkerHighlightStyle lipgloss.Style
	MarkerFocusedStyle   lipgloss.Style
	ClusterStyle         lipgloss.Style
	MapStatusStyle       lipgloss.Style

	// Sidebar.
	SidebarStyle        lipgloss.Style
	SidebarTitleStyle   lipgloss.Style
	SearchStyle         lipgloss.Style
	SearchFocusedStyle  lipgloss.Style
	ListItemStyle       lipgloss.Style
	ListItemCursorStyle lipgloss.Style
	ServiceStyle        lipgloss.Style
	PointNameStyle      lipgloss.Style
	DescriptionStyle    lipgloss.Style
	NoticeStyle         lipgloss.Style
	ButtonStyle         lipgloss.Style
	ButtonPrimaryStyle  lipgloss.Style
	HelpStyle           lipgloss.Style

	// Toasts.
	ToastStyle      lipgloss.Style
	ToastErrorStyle lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error
	ColorGrid = Blend(p.Background, p.Muted, 0.5)

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	CommandStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	MapBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted)
	MapGridStyle = lipgloss.NewStyle().Foreground(ColorGrid)
	MapCenterStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	MarkerStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	MarkerHighlightStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	MarkerFocusedStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorWarning)
	ClusterStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)
	MapStatusStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	SidebarStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSurface).
		Padding(0, 1)
	SidebarTitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	SearchStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorMuted).
		PaddingLeft(1)
	SearchFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorPrimary).
		PaddingLeft(1)
	ListItemStyle = lipgloss.NewStyle().PaddingLeft(1)
	ListItemCursorStyle = lipgloss.NewStyle().
		PaddingLeft(1).
		Background(ColorSurface)
	ServiceStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)
	PointNameStyle = lipgloss.NewStyle().Foreground(ColorForeground)
	DescriptionStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	NoticeStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)
	ButtonStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorSurface).
		Foreground(ColorMuted)
	ButtonPrimaryStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorPrimary).
		Foreground(ColorBackground).
		Bold(true)
	HelpStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	ToastStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted).
		Foreground(ColorForeground).
		Padding(0, 1)
	ToastErrorStyle = ToastStyle.
		BorderForeground(ColorError).
		Foreground(ColorError)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
