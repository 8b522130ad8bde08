package recommend

import (
	"math"
	"testing"
)

// TestDistanceComponent tests the proximity component curve.
func TestDistanceComponent(t *testing.T) {
	tests := []struct {
		name     string
		km       float64
		expected float64
	}{
		{"zero distance is maximal", 0, 1.0},
		{"half the cap", 5, 0.5},
		{"at the cap", 10, 0.0},
		{"beyond the cap contributes zero", 25, 0.0},
		{"sentinel distance contributes zero", SentinelDistanceKm, 0.0},
		{"one km", 1, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceComponent(tt.km)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}
}

// TestPriceComponent tests the price affordability component.
func TestPriceComponent(t *testing.T) {
	tests := []struct {
		name     string
		tier     int
		expected float64
	}{
		{"unknown price is neutral", 0, 0.5},
		{"cheapest tier", 1, 0.9},
		{"second tier", 2, 0.6},
		{"third tier", 3, 0.3},
		{"most expensive tier", 4, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceComponent(tt.tier)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}
}

// TestCompositeScore tests the weighted composite and its clamping.
func TestCompositeScore(t *testing.T) {
	tests := []struct {
		name         string
		rating       float64
		distanceKm   float64
		open         bool
		priceTier    int
		boost        int
		penalty      int
		personalized bool
		expected     int
	}{
		{
			// 1.0*0.4 + 1.0*0.3 + 1*0.2 + 0.9*0.1 = 0.99 -> 99
			name:   "best case known price",
			rating: 5, distanceKm: 0, open: true, priceTier: 1,
			expected: 99,
		},
		{
			// 0 + 0 + 0 + 0.5*0.1 = 0.05 -> 5
			name:   "worst case unknown price",
			rating: 0, distanceKm: 15, open: false, priceTier: 0,
			expected: 5,
		},
		{
			// 0.94*0.4 + 0.9*0.3 + 0.2 + 0.06 = 0.906 -> 91
			name:   "typical cafe",
			rating: 4.7, distanceKm: 1, open: true, priceTier: 2,
			expected: 91,
		},
		{
			name:   "penalty clamps at zero",
			rating: 0, distanceKm: 15, open: false, priceTier: 4,
			penalty:  -10,
			expected: 0,
		},
		{
			name:   "boost ignored when personalization disabled",
			rating: 0, distanceKm: 15, open: false, priceTier: 0,
			boost: 40, personalized: false,
			expected: 5,
		},
		{
			name:   "boost applied when personalization enabled",
			rating: 0, distanceKm: 15, open: false, priceTier: 0,
			boost: 40, personalized: true,
			expected: 45,
		},
		{
			name:   "boost clamps at one hundred",
			rating: 5, distanceKm: 0, open: true, priceTier: 1,
			boost: 50, personalized: true,
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompositeScore(tt.rating, tt.distanceKm, tt.open, tt.priceTier,
				DefaultWeights, tt.boost, tt.penalty, tt.personalized)
			if got != tt.expected {
				t.Errorf("expected score %d, got %d", tt.expected, got)
			}
			if got < 0 || got > 100 {
				t.Errorf("score %d outside [0,100]", got)
			}
		})
	}
}

// TestDefaultWeights_SumToOne verifies the default weights are a convex blend.
func TestDefaultWeights_SumToOne(t *testing.T) {
	sum := DefaultWeights.Rating + DefaultWeights.Distance + DefaultWeights.Open + DefaultWeights.Price
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("default weights sum to %f, expected 1.0", sum)
	}
}
