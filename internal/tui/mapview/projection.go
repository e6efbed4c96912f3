package mapview

import (
	"math"

	"github.com/colonyops/mappicker/internal/core/geo"
)

const (
	tileSize = 256.0

	// Terminal cells are roughly twice as tall as they are wide.
	cellWidthPx  = 8.0
	cellHeightPx = 16.0

	// MaxLatitude is the web mercator latitude limit.
	MaxLatitude = 85.05112878

	MinZoom = 0
	MaxZoom = 19
)

// worldSize is the width and height of the whole map in pixels at zoom z.
func worldSize(zoom int) float64 {
	return tileSize * math.Exp2(float64(zoom))
}

// project converts a position to world pixel coordinates at zoom.
func project(p geo.Position, zoom int) (x, y float64) {
	w := worldSize(zoom)
	lat := clampLat(p.Latitude) * math.Pi / 180

	x = (p.Longitude + 180) / 360 * w
	y = (1 - math.Log(math.Tan(lat)+1/math.Cos(lat))/math.Pi) / 2 * w
	return x, y
}

// unproject converts world pixel coordinates at zoom back to a position.
// Longitude wraps into [-180, 180); latitude is clamped to the mercator limit.
func unproject(x, y float64, zoom int) geo.Position {
	w := worldSize(zoom)

	lon := x/w*360 - 180
	lat := math.Atan(math.Sinh(math.Pi*(1-2*y/w))) * 180 / math.Pi

	return geo.Position{Latitude: clampLat(lat), Longitude: wrapLon(lon)}
}

func clampLat(lat float64) float64 {
	return math.Max(-MaxLatitude, math.Min(MaxLatitude, lat))
}

func clampZoom(z int) int {
	return max(MinZoom, min(MaxZoom, z))
}

func wrapLon(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}
