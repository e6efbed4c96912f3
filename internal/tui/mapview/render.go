package mapview

import (
	"math"
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/mappicker/internal/core/picker"
	"github.com/colonyops/mappicker/internal/core/styles"
)

const (
	gridEveryCols = 8
	gridEveryRows = 4
)

type glyphKind int

const (
	kindBlank glyphKind = iota
	kindGrid
	kindCenter
	kindMarker
	kindHighlight
	kindFocused
	kindCluster
)

func (k glyphKind) style() lipgloss.Style {
	switch k {
	case kindGrid:
		return styles.MapGridStyle
	case kindCenter:
		return styles.MapCenterStyle
	case kindMarker:
		return styles.MarkerStyle
	case kindHighlight:
		return styles.MarkerHighlightStyle
	case kindFocused:
		return styles.MarkerFocusedStyle
	case kindCluster:
		return styles.ClusterStyle
	default:
		return lipgloss.NewStyle()
	}
}

type glyph struct {
	text string
	kind glyphKind
}

// cellMarkers collects what lands in one cell.
type cellMarkers struct {
	count       int
	highlighted bool
	focused     bool
}

// Render draws the map grid, the center cross and the placed markers.
// focusedKey marks the marker under keyboard focus. A cell holding several
// markers shows their count unless one of them is focused or highlighted.
func (c *Canvas) Render(placed []Placed, focusedKey string) string {
	c.mu.Lock()
	width, height := c.width, c.height
	left, top := c.originLocked()
	c.mu.Unlock()

	if width == 0 || height == 0 {
		return ""
	}

	cells := make(map[Cell]*cellMarkers, len(placed))
	for _, p := range placed {
		cm := cells[p.Cell]
		if cm == nil {
			cm = &cellMarkers{}
			cells[p.Cell] = cm
		}
		cm.count++
		cm.highlighted = cm.highlighted || p.Icon == picker.IconHighlighted
		cm.focused = cm.focused || (focusedKey != "" && p.Point.Key == focusedKey)
	}

	firstCol := int(math.Floor(left / cellWidthPx))
	firstRow := int(math.Floor(top / cellHeightPx))
	center := Cell{Col: width / 2, Row: height / 2}

	var sb strings.Builder
	for row := range height {
		if row > 0 {
			sb.WriteByte('\n')
		}

		var run strings.Builder
		runKind := kindBlank
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runKind == kindBlank {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(runKind.style().Render(run.String()))
			}
			run.Reset()
		}

		for col := range width {
			g := gridGlyph(firstCol+col, firstRow+row)
			cell := Cell{Col: col, Row: row}
			if cell == center {
				g = glyph{text: styles.IconMapCenter, kind: kindCenter}
			}
			if cm, ok := cells[cell]; ok {
				g = markerGlyph(cm)
			}

			if g.kind != runKind {
				flush()
				runKind = g.kind
			}
			run.WriteString(g.text)
		}
		flush()
	}

	return sb.String()
}

func markerGlyph(cm *cellMarkers) glyph {
	switch {
	case cm.focused:
		return glyph{text: styles.IconMarkerSelected, kind: kindFocused}
	case cm.highlighted:
		return glyph{text: styles.IconMarkerSelected, kind: kindHighlight}
	case cm.count > 1:
		return glyph{text: styles.ClusterLabel(cm.count), kind: kindCluster}
	default:
		return glyph{text: styles.IconMarker, kind: kindMarker}
	}
}

// gridGlyph draws a graticule anchored to world cells so it moves with panning.
func gridGlyph(worldCol, worldRow int) glyph {
	v := mod(worldCol, gridEveryCols) == 0
	h := mod(worldRow, gridEveryRows) == 0
	switch {
	case v && h:
		return glyph{text: "┼", kind: kindGrid}
	case v:
		return glyph{text: "│", kind: kindGrid}
	case h:
		return glyph{text: "─", kind: kindGrid}
	default:
		return glyph{text: " ", kind: kindBlank}
	}
}

func mod(a, b int) int {
	return ((a % b) + b) % b
}
