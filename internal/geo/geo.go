// Package geo provides the great-circle distance used for proximity
// filtering on the marketplace.
package geo

import "math"

// earthRadiusKm is the spherical-earth approximation radius.
const earthRadiusKm = 6371

// DistanceKm returns the haversine distance in kilometres between two
// coordinates. It is symmetric and returns 0 for identical points.
// Out-of-range coordinates are not validated.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
