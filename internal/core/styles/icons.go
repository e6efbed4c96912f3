package styles

// Marker glyphs drawn on the map canvas.
var (
	IconMarker         = "●"
	IconMarkerSelected = "◉"
	IconMapCenter      = "+"
	IconCluster        = "◎" // prefix for cluster counts that do not fit in one cell
)

// Sidebar icons
var (
	IconSearch  = "⌕"
	IconPin     = "📍"
	IconLoading = "…"
)

// ClusterLabel returns the label for n markers in one cell. Counts above 9
// do not fit a single cell.
func ClusterLabel(n int) string {
	if n > 9 {
		return IconCluster
	}
	return string(rune('0' + n))
}

// Toast icons
var (
	IconToastInfo  = "ℹ"
	IconToastError = "✗"
)
