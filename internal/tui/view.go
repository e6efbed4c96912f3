package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/mappicker/internal/core/geo"
	"github.com/colonyops/mappicker/internal/core/picker"
	"github.com/colonyops/mappicker/internal/core/styles"
)

// linesPerItem is the height of one list entry: title, description, gap.
const linesPerItem = 3

type layout struct {
	mapWidth, bodyHeight      int
	canvasWidth, canvasHeight int
	sidebarWidth              int
	sidebarInner              int // content width inside border and padding
	sidebarInnerHeight        int
}

func (m Model) layout() layout {
	w, h := m.width, m.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	sidebar := max(minSidebarWidth, min(maxSidebarWidth, w/3))
	if w < 2*minSidebarWidth {
		sidebar = w / 2
	}

	bodyHeight := max(h-1, 3) // help line
	mapWidth := w - sidebar

	return layout{
		mapWidth:           mapWidth,
		bodyHeight:         bodyHeight,
		canvasWidth:        max(mapWidth-2, 0),   // border
		canvasHeight:       max(bodyHeight-3, 0), // border + status line
		sidebarWidth:       sidebar,
		sidebarInner:       max(sidebar-4, 1),
		sidebarInnerHeight: max(bodyHeight-2, 1),
	}
}

// View renders the map, the sidebar and the help footer.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	l := m.layout()

	mapPane := styles.MapBorderStyle.Render(m.canvas.Render(m.placed, m.focusKey))
	left := lipgloss.JoinVertical(lipgloss.Left, mapPane, m.renderStatus(l.mapWidth))
	left = m.toastView.Overlay(left, l.mapWidth, l.bodyHeight)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, m.renderSidebar(l))
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderHelp(m.width))
}

func (m Model) renderStatus(width int) string {
	vs := m.state.View
	parts := []string{
		fmt.Sprintf("%.4f, %.4f", vs.Position.Latitude, vs.Position.Longitude),
		fmt.Sprintf("z%d", vs.Zoom),
		pluralize(len(m.state.Points), "point"),
	}
	if len(m.placed) < len(m.state.Points) {
		parts = append(parts, fmt.Sprintf("%d on map", len(m.placed)))
	}

	status := " " + strings.Join(parts, " · ")
	if m.state.Loading || m.searching {
		status += " " + m.spinner.View()
	}
	return styles.MapStatusStyle.Render(ansi.Truncate(status, width, styles.IconLoading))
}

func (m Model) renderSidebar(l layout) string {
	searchStyle := styles.SearchStyle
	if m.search.Focused() {
		searchStyle = styles.SearchFocusedStyle
	}
	header := []string{searchStyle.Render(m.search.View()), ""}

	if m.state.Notice != "" {
		header = append(header, styles.NoticeStyle.Render(m.state.Notice), "")
	}

	var body string
	remaining := l.sidebarInnerHeight - lipgloss.Height(strings.Join(header, "\n"))
	if point, ok := m.state.Selected(); ok {
		body = m.renderDetail(point, l.sidebarInner, remaining)
	} else {
		body = m.renderList(l.sidebarInner, remaining)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, strings.Join(header, "\n"), body)
	inner := lipgloss.NewStyle().
		Width(l.sidebarInner).
		Height(l.sidebarInnerHeight).
		MaxHeight(l.sidebarInnerHeight).
		Render(content)
	return styles.SidebarStyle.Render(inner)
}

func (m Model) renderList(width, height int) string {
	points := m.state.Points
	if len(points) == 0 {
		msg := "No points in this area"
		if m.state.Loading {
			msg = "Loading points " + styles.IconLoading
		}
		return styles.DescriptionStyle.Render(msg)
	}

	title := styles.SidebarTitleStyle.Render(pluralize(len(points), "point"))
	visible := max((height-2)/linesPerItem, 1)
	offset := max(0, m.cursor-visible+1)
	end := min(len(points), offset+visible)

	lines := []string{title, ""}
	for i := offset; i < end; i++ {
		lines = append(lines, m.renderListItem(points[i], i == m.cursor, width))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderListItem(p geo.MapPoint, selected bool, width int) string {
	style := styles.ListItemStyle
	if selected {
		style = styles.ListItemCursorStyle
	}
	inner := max(width-1, 1) // item padding

	title := p.Name
	if p.Service != "" {
		title = styles.ServiceStyle.Render(p.Service) + " " + styles.PointNameStyle.Render(p.Name)
	}
	if p.Key == m.focusKey {
		title = styles.MarkerFocusedStyle.Render(styles.IconMarker) + " " + title
	}

	desc := firstLine(p.Description)
	item := ansi.Truncate(title, inner, styles.IconLoading) + "\n" +
		styles.DescriptionStyle.Render(ansi.Truncate(desc, inner, styles.IconLoading))

	return style.Width(width).Render(item) + "\n"
}

func (m Model) renderDetail(p geo.MapPoint, width, height int) string {
	lines := []string{}
	if p.Service != "" {
		lines = append(lines, styles.ServiceStyle.Render(p.Service))
	}
	lines = append(lines,
		styles.SidebarTitleStyle.Render(ansi.Truncate(p.Name, width, styles.IconLoading)),
		styles.DescriptionStyle.Render(fmt.Sprintf("%s %.5f, %.5f", styles.IconPin, p.Geocode[0], p.Geocode[1])),
		"",
	)

	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.ButtonStyle.Render("esc back"),
		" ",
		styles.ButtonPrimaryStyle.Render("enter confirm"),
	)

	header := strings.Join(lines, "\n")
	m.detail.SetHeight(max(height-lipgloss.Height(header)-2, 1))

	return lipgloss.JoinVertical(lipgloss.Left, header, m.detail.View(), "", buttons)
}

func (m Model) renderHelp(width int) string {
	var bindings []key.Binding
	switch {
	case m.search.Focused():
		bindings = m.keys.searchHelp()
	case isDetail(m.state.Sidebar):
		bindings = m.keys.detailHelp()
	default:
		bindings = m.keys.browsingHelp()
	}

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}

	line := " " + strings.Join(parts, " • ")
	if width > 0 {
		line = ansi.Truncate(line, width, "")
	}
	return styles.HelpStyle.Render(line)
}

func isDetail(s picker.Sidebar) bool {
	_, ok := s.(picker.Detail)
	return ok
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
