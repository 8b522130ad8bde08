package recommend

import (
	"context"
	"errors"
	"testing"

	"moodplaces/internal/place"
)

// failingSource always errors, simulating an unavailable upstream provider.
type failingSource struct{}

func (failingSource) ListAll(ctx context.Context) ([]place.Place, error) {
	return nil, errors.New("provider unreachable")
}

// panickingSource panics instead of returning, simulating a faulty provider
// integration.
type panickingSource struct{}

func (panickingSource) ListAll(ctx context.Context) ([]place.Place, error) {
	panic("provider client fault")
}

func newTestRecommender(t *testing.T, cfg Config) *Recommender {
	t.Helper()
	return NewRecommender(place.NewStockSource(), cfg)
}

func baseRequest() Request {
	return Request{
		Latitude:     37.7749,
		Longitude:    -122.4194,
		Mood:         "work",
		RadiusMeters: 5000,
		SortBy:       SortByDistance,
		OpenNow:      true,
	}
}

// TestRecommend_DefaultRequest exercises the stock-catalog happy path.
func TestRecommend_DefaultRequest(t *testing.T) {
	r := newTestRecommender(t, Config{DemoRelocate: true})

	result, err := r.Recommend(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	if len(result.Places) < 1 || len(result.Places) > 12 {
		t.Fatalf("expected between 1 and 12 places, got %d", len(result.Places))
	}
	if result.TotalResults != len(result.Places) {
		t.Errorf("totalResults %d does not match places length %d", result.TotalResults, len(result.Places))
	}
	if result.Mood != "work" {
		t.Errorf("expected mood echoed back, got %q", result.Mood)
	}
	if result.Fallback {
		t.Error("happy path should not be a fallback response")
	}

	// Radius property: every non-fallback place is inside the radius.
	for _, p := range result.Places {
		if p.Distance*1000 > 5000 {
			t.Errorf("place %s at %.0f m exceeds 5000 m radius", p.ID, p.Distance*1000)
		}
	}

	// Distance sort: non-decreasing.
	for i := 1; i < len(result.Places); i++ {
		if result.Places[i].Distance < result.Places[i-1].Distance {
			t.Errorf("distances not non-decreasing at index %d", i)
		}
	}

	// Derived fields are populated.
	for _, p := range result.Places {
		if p.DistanceText == "" {
			t.Errorf("place %s missing distance label", p.ID)
		}
		if p.Why == "" {
			t.Errorf("place %s missing rationale", p.ID)
		}
		if p.MatchScore < 0 || p.MatchScore > 100 {
			t.Errorf("place %s score %d outside [0,100]", p.ID, p.MatchScore)
		}
		if p.PersonalizationBoost != 0 || p.CrowdPenalty != 0 {
			t.Errorf("place %s has non-zero scoring adjustments", p.ID)
		}
	}
}

// TestRecommend_InvalidInput covers the 4xx-equivalent validation failures.
func TestRecommend_InvalidInput(t *testing.T) {
	r := newTestRecommender(t, Config{DemoRelocate: true})

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"missing mood", func(req *Request) { req.Mood = "" }},
		{"whitespace mood", func(req *Request) { req.Mood = "   " }},
		{"latitude out of range", func(req *Request) { req.Latitude = 91 }},
		{"longitude out of range", func(req *Request) { req.Longitude = -200 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			tt.mutate(&req)

			result, err := r.Recommend(context.Background(), req)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("expected ErrInvalidRequest, got %v", err)
			}
			if result != nil {
				t.Error("invalid request must not return data")
			}
		})
	}
}

// TestRecommend_RatingFloor verifies the minimum rating filter.
func TestRecommend_RatingFloor(t *testing.T) {
	r := newTestRecommender(t, Config{DemoRelocate: true})

	floor := 4.8
	req := baseRequest()
	req.MinRating = &floor

	result, err := r.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if result.Fallback {
		t.Fatal("stock catalog has entries rated >= 4.8; should not fall back")
	}
	for _, p := range result.Places {
		if p.RatingOrZero() < floor {
			t.Errorf("place %s rated %.1f below floor %.1f", p.ID, p.RatingOrZero(), floor)
		}
	}
}

// TestRecommend_KeywordFilter verifies case-insensitive substring matching
// over name and address.
func TestRecommend_KeywordFilter(t *testing.T) {
	r := newTestRecommender(t, Config{DemoRelocate: true})

	req := baseRequest()
	req.Keyword = "TACO"

	result, err := r.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if result.Fallback {
		t.Fatal("keyword matches a stock place; should not fall back")
	}
	if len(result.Places) != 1 || result.Places[0].Name != "Speedy Tacos" {
		t.Errorf("expected only Speedy Tacos, got %d places", len(result.Places))
	}
}

// TestRecommend_CategoryFilter verifies the place type filter matches tags
// by substring.
func TestRecommend_CategoryFilter(t *testing.T) {
	r := newTestRecommender(t, Config{DemoRelocate: true})

	req := baseRequest()
	req.PlaceType = "cafe"

	result, err := r.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	for _, p := range result.Places {
		found := false
		for _, tag := range p.Types {
			if tag == "cafe" {
				found = true
			}
		}
		if !found {
			t.Errorf("place %s has no cafe tag: %v", p.ID, p.Types)
		}
	}
}

// TestRecommend_PriceCeiling verifies the ordinal price filter.
func TestRecommend_PriceCeiling(t *testing.T) {
	r := newTestRecommender(t, Config{DemoRelocate: true})

	req := baseRequest()
	req.PriceCeiling = 1

	result, err := r.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if result.Fallback {
		t.Fatal("stock catalog has single-dollar entries; should not fall back")
	}
	for _, p := range result.Places {
		if p.PriceTier() > 1 {
			t.Errorf("place %s price tier %d exceeds ceiling 1", p.ID, p.PriceTier())
		}
	}
}

// TestRecommend_OpenNowFilter verifies explicitly closed places are dropped
// while unknown status is treated as open.
func TestRecommend_OpenNowFilter(t *testing.T) {
	closed := false
	catalog := []place.Place{
		{ID: "closed", Name: "Shuttered Diner", Latitude: 37.7749, Longitude: -122.4194, OpenNow: &closed},
		{ID: "unknown", Name: "Mystery Cafe", Latitude: 37.7750, Longitude: -122.4195},
	}
	r := NewRecommender(place.NewMemorySource(catalog), Config{})

	req := baseRequest()
	req.OpenNow = true

	result, err := r.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if result.Fallback {
		t.Fatal("unknown-status place should survive the open-now filter")
	}
	if len(result.Places) != 1 || result.Places[0].ID != "unknown" {
		t.Errorf("expected only the unknown-status place, got %+v", result.Places)
	}
}

// TestRecommend_SortByRating verifies rating-descending order.
func TestRecommend_SortByRating(t *testing.T) {
	r := newTestRecommender(t, Config{DemoRelocate: true})

	req := baseRequest()
	req.SortBy = SortByRating

	result, err := r.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	for i := 1; i < len(result.Places); i++ {
		if result.Places[i].RatingOrZero() > result.Places[i-1].RatingOrZero() {
			t.Errorf("ratings not non-increasing at index %d", i)
		}
	}
}

// TestRecommend_SortByMatch verifies score-descending order and that score
// ties preserve the distance-ascending pre-sort order.
func TestRecommend_SortByMatch(t *testing.T) {
	r := newTestRecommender(t, Config{DemoRelocate: true})

	req := baseRequest()
	req.SortBy = SortByMatch

	result, err := r.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	for i := 1; i < len(result.Places); i++ {
		prev, cur := result.Places[i-1], result.Places[i]
		if cur.MatchScore > prev.MatchScore {
			t.Errorf("scores not non-increasing at index %d", i)
		}
		if cur.MatchScore == prev.MatchScore && cur.Distance < prev.Distance {
			t.Errorf("tie at index %d not in distance order", i)
		}
	}
}

// TestRecommend_UnknownSortKeyFallsBackToScore verifies the general
// pipeline default for unrecognized sort keys.
func TestRecommend_UnknownSortKeyFallsBackToScore(t *testing.T) {
	r := newTestRecommender(t, Config{DemoRelocate: true})

	req := baseRequest()
	req.SortBy = SortKey("popularity")

	result, err := r.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	for i := 1; i < len(result.Places); i++ {
		if result.Places[i].MatchScore > result.Places[i-1].MatchScore {
			t.Errorf("scores not non-increasing at index %d", i)
		}
	}
}

// TestRecommend_Truncation verifies the result cap.
func TestRecommend_Truncation(t *testing.T) {
	var catalog []place.Place
	for i := 0; i < 50; i++ {
		catalog = append(catalog, place.Place{
			ID:        string(rune('a' + i%26)),
			Name:      "Venue",
			Latitude:  37.7749,
			Longitude: -122.4194,
		})
	}
	r := NewRecommender(place.NewMemorySource(catalog), Config{})

	result, err := r.Recommend(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(result.Places) != DefaultMaxResults {
		t.Errorf("expected %d places after truncation, got %d", DefaultMaxResults, len(result.Places))
	}
}

// TestRecommend_BackfillWhenFiltersEliminateEverything verifies the caller
// never sees an empty success when the catalog is non-empty.
func TestRecommend_BackfillWhenFiltersEliminateEverything(t *testing.T) {
	r := newTestRecommender(t, Config{DemoRelocate: true})

	req := baseRequest()
	req.Keyword = "no such venue anywhere"

	result, err := r.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if !result.Fallback {
		t.Fatal("expected a fallback response")
	}
	if len(result.Places) != DefaultSampleSize {
		t.Errorf("expected %d sample places, got %d", DefaultSampleSize, len(result.Places))
	}
	for _, p := range result.Places {
		if p.MatchScore != 50 {
			t.Errorf("fallback place %s expected neutral score 50, got %d", p.ID, p.MatchScore)
		}
		if p.Why != FallbackRationale {
			t.Errorf("fallback place %s has rationale %q", p.ID, p.Why)
		}
	}
}

// TestRecommend_BackfillOutOfRadius verifies the radius filter triggers
// backfill when the catalog is genuinely far away.
func TestRecommend_BackfillOutOfRadius(t *testing.T) {
	// Relocation disabled: the stock catalog stays in San Francisco while
	// the requester is in London.
	r := newTestRecommender(t, Config{})

	req := baseRequest()
	req.Latitude = 51.5074
	req.Longitude = -0.1278

	result, err := r.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if !result.Fallback {
		t.Fatal("expected fallback when nothing is in radius")
	}
	if len(result.Places) == 0 {
		t.Fatal("fallback returned no places")
	}
}

// TestRecommend_SourceUnavailable verifies sample data is served instead
// of a hard error when the source fails.
func TestRecommend_SourceUnavailable(t *testing.T) {
	r := NewRecommender(failingSource{}, Config{})

	result, err := r.Recommend(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("expected soft degradation, got error: %v", err)
	}
	if !result.Fallback {
		t.Fatal("expected fallback response")
	}
	if len(result.Places) != DefaultSampleSize {
		t.Errorf("expected %d sample places, got %d", DefaultSampleSize, len(result.Places))
	}
}

// TestRecommend_PanickingSource verifies a panic anywhere inside the
// pipeline degrades to the catalog sample instead of a hard error.
func TestRecommend_PanickingSource(t *testing.T) {
	r := NewRecommender(panickingSource{}, Config{})

	result, err := r.Recommend(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("expected soft degradation, got error: %v", err)
	}
	if !result.Fallback {
		t.Fatal("expected fallback response")
	}
	if len(result.Places) != DefaultSampleSize {
		t.Errorf("expected %d sample places, got %d", DefaultSampleSize, len(result.Places))
	}
	for _, p := range result.Places {
		if p.Why != FallbackRationale {
			t.Errorf("fallback place %s has rationale %q", p.ID, p.Why)
		}
	}
}

// TestRecommend_FilterFaultDegradesToDistanceSort verifies a fault inside
// the filter stage yields the distance-sorted unfiltered candidates rather
// than an error or the catalog sample.
func TestRecommend_FilterFaultDegradesToDistanceSort(t *testing.T) {
	r := newTestRecommender(t, Config{DemoRelocate: true})
	r.score = func(rating, distanceKm float64, open bool, priceTier int, weights Weights, boost, penalty int, personalized bool) int {
		panic("scoring fault")
	}

	req := baseRequest()
	req.SortBy = SortByMatch
	req.Keyword = "taco"

	result, err := r.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("expected soft degradation, got error: %v", err)
	}
	if result.Fallback {
		t.Fatal("filter fault should not produce a catalog-sample response")
	}
	if len(result.Places) <= 1 {
		t.Fatalf("expected the unfiltered candidate set, got %d places", len(result.Places))
	}
	for i := 1; i < len(result.Places); i++ {
		if result.Places[i].Distance < result.Places[i-1].Distance {
			t.Errorf("degraded output not distance-ascending at index %d", i)
		}
	}
}

// TestRecommend_RatingTiesKeepDistanceOrder verifies equal-rating places
// stay in distance-ascending order under the rating sort.
func TestRecommend_RatingTiesKeepDistanceOrder(t *testing.T) {
	rating := 4.5
	catalog := []place.Place{
		{ID: "far", Name: "Far Cafe", Latitude: 37.7930, Longitude: -122.4194, Rating: &rating},
		{ID: "near", Name: "Near Cafe", Latitude: 37.7758, Longitude: -122.4194, Rating: &rating},
		{ID: "mid", Name: "Mid Cafe", Latitude: 37.7840, Longitude: -122.4194, Rating: &rating},
	}
	r := NewRecommender(place.NewMemorySource(catalog), Config{})

	req := baseRequest()
	req.SortBy = SortByRating

	result, err := r.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(result.Places) != 3 {
		t.Fatalf("expected all 3 places, got %d", len(result.Places))
	}
	want := []string{"near", "mid", "far"}
	for i, id := range want {
		if result.Places[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, result.Places[i].ID)
		}
	}
}

// TestRecommend_MalformedStoredCoordinate verifies a catalog entry with a
// broken coordinate gets the sentinel distance instead of being discarded.
func TestRecommend_MalformedStoredCoordinate(t *testing.T) {
	catalog := []place.Place{
		{ID: "good", Name: "Nearby Bar", Latitude: 37.7749, Longitude: -122.4194},
		{ID: "broken", Name: "Lost Venue", Latitude: 400, Longitude: -122.4194},
	}
	r := NewRecommender(place.NewMemorySource(catalog), Config{})

	// A radius wide enough to keep the sentinel distance in range.
	req := baseRequest()
	req.RadiusMeters = 1_000_000_000

	result, err := r.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(result.Places) != 2 {
		t.Fatalf("expected both places kept, got %d", len(result.Places))
	}

	last := result.Places[len(result.Places)-1]
	if last.ID != "broken" {
		t.Fatalf("expected the broken entry sorted last, got %s", last.ID)
	}
	if last.Distance != SentinelDistanceKm {
		t.Errorf("expected sentinel distance %v, got %v", SentinelDistanceKm, last.Distance)
	}
	if last.DistanceText != UnknownDistanceLabel {
		t.Errorf("expected %q label, got %q", UnknownDistanceLabel, last.DistanceText)
	}
}

// TestRecommend_DefaultsApplied verifies radius and sort key defaults.
func TestRecommend_DefaultsApplied(t *testing.T) {
	r := newTestRecommender(t, Config{DemoRelocate: true})

	req := baseRequest()
	req.RadiusMeters = 0
	req.SortBy = ""

	result, err := r.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(result.Places) == 0 {
		t.Fatal("expected places with defaulted radius and sort key")
	}
	for i := 1; i < len(result.Places); i++ {
		if result.Places[i].Distance < result.Places[i-1].Distance {
			t.Errorf("default sort should be distance-ascending; violated at index %d", i)
		}
	}
}
