package proximity

import (
	"math"

	"github.com/jakechorley/trainer-directory/pkg/core/model"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances
const EarthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between a and b using the Haversine formula
func DistanceKm(a, b model.GeoPoint) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// roundKm rounds to two decimals
func roundKm(km float64) float64 {
	return math.Round(km*100) / 100
}
