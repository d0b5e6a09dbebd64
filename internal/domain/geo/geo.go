// Package geo contains pure geographic computation helpers.
package geo

import "math"

const earthRadiusKm = 6371.0

// Point is a WGS84 coordinate pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Estimate is a trip distance/duration estimate and the source it came from.
type Estimate struct {
	DistanceKm  float64 `json:"distance_km"`
	DurationMin float64 `json:"duration_min"`
	Source      string  `json:"source"`
}

const (
	// SourceDistanceMatrix marks an estimate from the live routing service.
	SourceDistanceMatrix = "distance_matrix"
	// SourceHaversine marks a locally computed great-circle fallback.
	SourceHaversine = "haversine"
)

// HaversineKm returns the great-circle distance in kilometres between two
// points.
func HaversineKm(a, b Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// FallbackEstimate builds an estimate from the haversine distance, rounded
// to 2 decimal places. Duration assumes 3 minutes per kilometre, an average
// city-speed heuristic rather than a measured value.
func FallbackEstimate(a, b Point) Estimate {
	km := math.Round(HaversineKm(a, b)*100) / 100
	return Estimate{
		DistanceKm:  km,
		DurationMin: km * 3,
		Source:      SourceHaversine,
	}
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
