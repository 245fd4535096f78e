package geo

import "math"

const earthRadiusKm = 6371.0

// Coordinates represents a latitude/longitude pair in degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DistanceKm returns the great-circle distance between two points in
// kilometers, using the Haversine formula.
func DistanceKm(from, to Coordinates) float64 {
	dLat := degreesToRadians(to.Latitude - from.Latitude)
	dLon := degreesToRadians(to.Longitude - from.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(from.Latitude))*math.Cos(degreesToRadians(to.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
