// Package recommend implements the place recommendation ranking pipeline:
// distance annotation, hard filters, composite scoring, sorting, and the
// fallback sample that keeps responses non-empty.
package recommend

import "math"

// Weights defines the weights for the composite match score components.
//
// The default formula is tuned for nearby-place discovery:
// - Rating (40%): prioritizes well-reviewed venues
// - Distance (30%): favors closer venues; beyond 10 km contributes zero
// - Open (20%): strongly prefers venues that are open right now
// - Price (10%): nudges toward budget-friendly tiers without dominating
//
// Formula: score = (rating/5)*0.4 + (1 - min(d,10)/10)*0.3 + open*0.2 + price*0.1,
// scaled to 0-100.
type Weights struct {
	Rating   float64 // Rating weight (default: 0.4)
	Distance float64 // Distance/proximity weight (default: 0.3)
	Open     float64 // Open-now weight (default: 0.2)
	Price    float64 // Price affordability weight (default: 0.1)
}

// DefaultWeights returns the default composite score weights.
var DefaultWeights = Weights{
	Rating:   0.4,
	Distance: 0.3,
	Open:     0.2,
	Price:    0.1,
}

// distanceCap is the distance in kilometers beyond which the distance
// component contributes zero.
const distanceCap = 10.0

// RatingComponent normalizes a 0-5 rating into [0, 1].
// An absent rating contributes 0.
func RatingComponent(rating float64) float64 {
	return rating / 5
}

// DistanceComponent maps a distance in kilometers into [0, 1], closer is
// higher. Distances at or beyond the cap contribute zero.
func DistanceComponent(km float64) float64 {
	capped := math.Min(km, distanceCap)
	return math.Max(0, 1-capped/distanceCap)
}

// PriceComponent maps a price tier (symbol count) into [0, 1.2] favoring
// cheaper tiers: max(0, 1.2 - 0.3*tier). A tier of 0 means the price is
// unknown and contributes a neutral 0.5.
func PriceComponent(tier int) float64 {
	if tier == 0 {
		return 0.5
	}
	return math.Max(0, 1.2-0.3*float64(tier))
}

// CompositeScore computes the 0-100 match score for a place from its
// component values. The personalization boost is only applied when
// personalization is enabled for the request; the crowd penalty always
// applies. The result is clamped to [0, 100] and rounded to the nearest
// integer.
func CompositeScore(
	rating float64,
	distanceKm float64,
	open bool,
	priceTier int,
	weights Weights,
	boost int,
	penalty int,
	personalized bool,
) int {
	openComponent := 0.0
	if open {
		openComponent = 1.0
	}

	score := RatingComponent(rating)*weights.Rating +
		DistanceComponent(distanceKm)*weights.Distance +
		openComponent*weights.Open +
		PriceComponent(priceTier)*weights.Price

	score *= 100

	if personalized {
		score += float64(boost)
	}
	score += float64(penalty)

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(math.Round(score))
}
