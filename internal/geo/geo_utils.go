// Package geo — geo_utils contains pure geographic computation helpers.
package geo

import (
	"math"

	"cabfare/internal/types"
)

const earthRadiusKm = 6371.0

// fallbackSpeedKmh is the assumed average speed when the router is down and
// duration has to be derived from straight-line distance.
const fallbackSpeedKmh = 30.0

// HaversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func HaversineKm(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// FallbackMetrics derives route metrics from straight-line distance,
// assuming 30 km/h. Used only when the router fails.
func FallbackMetrics(origin, dest types.Point) RouteMetrics {
	km := HaversineKm(origin, dest)
	return RouteMetrics{
		DistanceKm:      km,
		DurationMinutes: km / fallbackSpeedKmh * 60,
	}
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
