package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBounds_Contains(t *testing.T) {
	b := Bounds{
		NorthEast: Position{Latitude: 52.3, Longitude: 21.1},
		SouthWest: Position{Latitude: 52.1, Longitude: 20.9},
	}

	tests := []struct {
		name string
		p    Position
		want bool
	}{
		{name: "inside", p: Position{Latitude: 52.2, Longitude: 21.0}, want: true},
		{name: "on edge", p: Position{Latitude: 52.3, Longitude: 21.1}, want: true},
		{name: "north of", p: Position{Latitude: 52.31, Longitude: 21.0}, want: false},
		{name: "west of", p: Position{Latitude: 52.2, Longitude: 20.8}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Contains(tt.p))
		})
	}

	assert.False(t, Bounds{}.Contains(Position{}), "absent bounds contain nothing")
}

func TestDistance(t *testing.T) {
	warsaw := Position{Latitude: 52.2297, Longitude: 21.0122}
	krakow := Position{Latitude: 50.0647, Longitude: 19.9450}

	assert.InDelta(t, 252000, Distance(warsaw, krakow), 2000)
	assert.InDelta(t, 0, Distance(warsaw, warsaw), 0.001)
}

func TestBoundsAround(t *testing.T) {
	center := DefaultPosition
	b := BoundsAround(center, 1000)

	assert.True(t, b.Contains(center))
	assert.InDelta(t, center.Latitude, b.Center().Latitude, 1e-9)
	assert.InDelta(t, 1000, Distance(center, Position{Latitude: b.NorthEast.Latitude, Longitude: center.Longitude}), 10)
}

func TestMapPoint_Position(t *testing.T) {
	p := MapPoint{Key: "WAW01", Geocode: [2]float64{52.1, 21.2}}
	assert.Equal(t, Position{Latitude: 52.1, Longitude: 21.2}, p.Position())
}
