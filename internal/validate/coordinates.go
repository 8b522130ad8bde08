// Package validate provides centralized input validation for the MoodPlaces
// API. Validation happens at the request boundary so that the pure
// distance and ranking code never has to handle malformed input.
package validate

import (
	"errors"
	"fmt"
	"math"
)

// Coordinate validation errors
var (
	ErrNonNumericCoordinate = errors.New("coordinate is not a finite number")
	ErrLatitudeOutOfRange   = errors.New("latitude must be between -90 and 90")
	ErrLongitudeOutOfRange  = errors.New("longitude must be between -180 and 180")
)

// Coordinates validates a latitude/longitude pair in decimal degrees.
// NaN and infinite values are rejected before range checks so that a
// malformed JSON number never reaches the distance function.
func Coordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		return fmt.Errorf("latitude: %w", ErrNonNumericCoordinate)
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) {
		return fmt.Errorf("longitude: %w", ErrNonNumericCoordinate)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: got %f", ErrLatitudeOutOfRange, lat)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("%w: got %f", ErrLongitudeOutOfRange, lng)
	}
	return nil
}
