package recommend

import "moodplaces/internal/place"

// SortKey selects the ordering of the result list.
type SortKey string

// Supported sort keys. Unknown keys fall back to match-score ordering.
const (
	SortByDistance SortKey = "distance"
	SortByRating   SortKey = "rating"
	SortByMatch    SortKey = "match"
)

// Default request values.
const (
	DefaultRadiusMeters = 5000.0
	DefaultSortKey      = SortByDistance
)

// Request is the validated input to a single recommendation computation.
// The HTTP layer owns JSON-shape concerns (missing fields, defaults); by
// the time a Request reaches the pipeline every field is populated.
type Request struct {
	Latitude     float64
	Longitude    float64
	Mood         string
	RadiusMeters float64
	SortBy       SortKey
	PriceCeiling int // 0 = no ceiling, otherwise 1-4
	OpenNow      bool
	Keyword      string
	MinRating    *float64
	PlaceType    string

	// Personalized is derived from the caller's saved-places list: any
	// saved place enables the personalization boost. The list contents
	// are not otherwise consulted in this version.
	Personalized bool
}

// Recommendation is a catalog place annotated with the request-scoped
// derived fields. It is a snapshot; mutating it never affects the catalog.
type Recommendation struct {
	place.Place

	Distance     float64 `json:"distance"`
	DistanceText string  `json:"distanceText"`
	Mood         string  `json:"mood"`
	MatchScore   int     `json:"matchScore"`
	Why          string  `json:"why"`

	// Carried scoring adjustments, always zero in this version. Boost is
	// gated on Request.Personalized; see the pipeline documentation.
	PersonalizationBoost int `json:"personalizationBoost"`
	CrowdPenalty         int `json:"crowdPenalty"`
}

// Result is the outcome of a successful recommendation computation.
type Result struct {
	Places       []Recommendation
	TotalResults int
	Mood         string

	// Fallback is true when the primary pipeline produced no results (or
	// faulted) and the places are a bounded catalog sample instead.
	Fallback bool
}
