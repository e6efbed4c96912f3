package geo

import "math"

const earthRadiusMeters = 6371000.0

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b Position) float64 {
	dLat := toRad(b.Latitude - a.Latitude)
	dLon := toRad(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Latitude))*math.Cos(toRad(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// BoundsAround returns a rectangle that encloses the circle of radiusMeters
// around center. It is a prefilter; use Distance for the exact test.
func BoundsAround(center Position, radiusMeters float64) Bounds {
	latDelta := radiusMeters / 111320.0
	lonDelta := radiusMeters / (111320.0 * math.Cos(toRad(center.Latitude)))

	return Bounds{
		NorthEast: Position{Latitude: center.Latitude + latDelta, Longitude: center.Longitude + lonDelta},
		SouthWest: Position{Latitude: center.Latitude - latDelta, Longitude: center.Longitude - lonDelta},
	}
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
