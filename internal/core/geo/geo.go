// Package geo holds the value types shared by the picker, its collaborators
// and the map canvas.
package geo

import "fmt"

// DefaultPosition is the map center used when none is configured.
var DefaultPosition = Position{Latitude: 52.22, Longitude: 21.02}

// DefaultZoom is the zoom level used when none is configured.
const DefaultZoom = 13

// Position is a WGS 84 coordinate.
type Position struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

func (p Position) String() string {
	return fmt.Sprintf("%.5f,%.5f", p.Latitude, p.Longitude)
}

// Valid reports whether the coordinate is inside the WGS 84 range.
func (p Position) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// Bounds is the visible viewport rectangle. The zero value means "unknown".
type Bounds struct {
	NorthEast Position `json:"northEast"`
	SouthWest Position `json:"southWest"`
}

// IsZero reports whether the bounds are absent.
func (b Bounds) IsZero() bool {
	return b == Bounds{}
}

// Contains reports whether p lies inside the rectangle, edges included.
func (b Bounds) Contains(p Position) bool {
	if b.IsZero() {
		return false
	}
	return p.Latitude <= b.NorthEast.Latitude &&
		p.Latitude >= b.SouthWest.Latitude &&
		p.Longitude <= b.NorthEast.Longitude &&
		p.Longitude >= b.SouthWest.Longitude
}

// Center returns the midpoint of the rectangle.
func (b Bounds) Center() Position {
	return Position{
		Latitude:  (b.NorthEast.Latitude + b.SouthWest.Latitude) / 2,
		Longitude: (b.NorthEast.Longitude + b.SouthWest.Longitude) / 2,
	}
}

// MapPoint is one selectable location returned by a point lookup.
type MapPoint struct {
	Key         string     `json:"key" yaml:"key"`
	Type        string     `json:"type" yaml:"type"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Service     string     `json:"service" yaml:"service"`
	Geocode     [2]float64 `json:"geocode" yaml:"geocode"` // [latitude, longitude]
}

// Position returns the point's geocode as a Position.
func (p MapPoint) Position() Position {
	return Position{Latitude: p.Geocode[0], Longitude: p.Geocode[1]}
}

// ViewState is a consistent snapshot of the map viewport.
type ViewState struct {
	Position Position `json:"position"`
	Bounds   Bounds   `json:"bounds"`
	Zoom     int      `json:"zoom"`
}
