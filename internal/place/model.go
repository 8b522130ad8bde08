// Package place provides the place catalog model and data sources for the
// MoodPlaces recommendation pipeline.
package place

// Place represents a candidate venue in the catalog.
//
// Catalog entries are immutable: sources hand out copies, and nothing in the
// pipeline mutates a stored entry. Rating and OpenNow are pointers because
// both may be unknown: an absent rating is treated as 0 when filtering and
// renders as "N/A" in rationales, and a place with unknown open status is
// treated as open.
type Place struct {
	ID               string   `json:"placeId"`
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
	Rating           *float64 `json:"rating,omitempty"`
	UserRatingsTotal int      `json:"userRatingsTotal"`
	OpenNow          *bool    `json:"openNow,omitempty"`
	PriceLevel       string   `json:"priceLevel,omitempty"`
	Types            []string `json:"types,omitempty"`
	PhotoURL         string   `json:"photoUrl,omitempty"`
}

// Clone returns a deep copy of the place so callers can never mutate a
// catalog entry through a returned snapshot.
func (p Place) Clone() Place {
	c := p
	if p.Rating != nil {
		r := *p.Rating
		c.Rating = &r
	}
	if p.OpenNow != nil {
		o := *p.OpenNow
		c.OpenNow = &o
	}
	if p.Types != nil {
		c.Types = make([]string, len(p.Types))
		copy(c.Types, p.Types)
	}
	return c
}

// IsOpen reports whether the place should be treated as open.
// Unknown open status counts as open; only an explicit closed flag does not.
func (p Place) IsOpen() bool {
	return p.OpenNow == nil || *p.OpenNow
}

// RatingOrZero returns the rating, treating an absent rating as 0.
func (p Place) RatingOrZero() float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// PriceTier returns the ordinal price tier encoded by the price level
// symbol count (0 when price is unknown).
func (p Place) PriceTier() int {
	return len(p.PriceLevel)
}
