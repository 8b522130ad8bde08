// Package geo provides geodesic distance utilities for place recommendations.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// Distance computes the great-circle distance in kilometers between two
// coordinates given in decimal degrees, using the haversine formula.
//
// The function is pure and total: it performs no validation of its inputs.
// Callers are responsible for rejecting NaN or out-of-range coordinates
// before calling (see the validate package).
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// FormatDistance renders a distance in kilometers as a human-readable label.
// Values under 1 km render as rounded whole meters ("850 m"); larger values
// render with one decimal ("2.3 km").
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%d m", int(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.1f km", km)
}
