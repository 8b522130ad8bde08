package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"moodplaces/internal/geo"
	"moodplaces/internal/place"
	"moodplaces/internal/tracing"
	"moodplaces/internal/validate"
)

// Pipeline boundary errors.
var (
	// ErrInvalidRequest indicates a missing or malformed required field.
	// The caller surfaces it as a 4xx with no data.
	ErrInvalidRequest = errors.New("invalid recommendation request")

	// ErrFatal indicates even fallback construction failed. The caller
	// surfaces it as a 500 with an empty result.
	ErrFatal = errors.New("recommendation fallback failed")
)

// Pipeline constants.
const (
	// SentinelDistanceKm is assigned when a per-place distance computation
	// fails; the place is kept rather than discarded.
	SentinelDistanceKm = 999.0

	// UnknownDistanceLabel is the distance label for sentinel distances.
	UnknownDistanceLabel = "Unknown"

	// DefaultMaxResults caps the result list.
	DefaultMaxResults = 20

	// DefaultSampleSize bounds the fallback catalog sample.
	DefaultSampleSize = 10

	// fallbackScore is the neutral match score for fallback entries.
	fallbackScore = 50
)

// Fallback reasons for metrics.
const (
	reasonEmptyResult       = "empty_result"
	reasonFilterFault       = "filter_fault"
	reasonPipelineFault     = "pipeline_fault"
	reasonSourceUnavailable = "source_unavailable"
)

// Config configures a Recommender. Zero values fall back to defaults.
type Config struct {
	// Weights for the composite score; zero value uses DefaultWeights.
	Weights Weights

	// MaxResults caps the result list (default 20).
	MaxResults int

	// SampleSize bounds the fallback sample (default 10).
	SampleSize int

	// DemoRelocate projects catalog entries around the requester so the
	// demo catalog always has in-radius candidates. Disable when the
	// source returns genuinely nearby places.
	DemoRelocate bool

	// Metrics is optional; nil records nothing.
	Metrics *Metrics

	// Logger is optional; nil uses slog.Default().
	Logger *slog.Logger
}

// Recommender runs the recommendation ranking pipeline over a place source.
// It is stateless per request and safe for concurrent use.
type Recommender struct {
	source     place.Source
	weights    Weights
	maxResults int
	sampleSize int
	relocate   bool
	metrics    *Metrics
	logger     *slog.Logger

	// score computes the composite match score. Defaults to CompositeScore;
	// a seam for fault-injection in tests.
	score scoreFunc
}

type scoreFunc func(rating, distanceKm float64, open bool, priceTier int, weights Weights, boost, penalty int, personalized bool) int

// NewRecommender creates a Recommender over the given source.
func NewRecommender(source place.Source, cfg Config) *Recommender {
	weights := cfg.Weights
	if weights == (Weights{}) {
		weights = DefaultWeights
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	sampleSize := cfg.SampleSize
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Recommender{
		source:     source,
		weights:    weights,
		maxResults: maxResults,
		sampleSize: sampleSize,
		relocate:   cfg.DemoRelocate,
		metrics:    cfg.Metrics,
		logger:     logger,
		score:      CompositeScore,
	}
}

// Recommend runs the full pipeline for one request.
//
// Failure semantics: invalid input returns ErrInvalidRequest and no data.
// Everything else degrades: per-place distance failures get sentinel
// values, filter faults fall back to distance-sorted unfiltered output, an
// unavailable or panicking stage yields the bounded stock-catalog sample.
// ErrFatal is returned only when even that sample cannot be built, so a
// non-nil error other than ErrInvalidRequest maps to a 500 and everything
// else to a 200.
func (r *Recommender) Recommend(ctx context.Context, req Request) (result *Result, err error) {
	ctx, endSpan := tracing.StartSpan(ctx, "recommend_places")
	defer func() { endSpan(err) }()

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.ErrorContext(ctx, "recommendation pipeline panicked, serving sample data", "panic", rec)
			fb, fbErr := r.recoverFallback(req)
			if fbErr != nil {
				r.logger.ErrorContext(ctx, "fallback construction failed", "error", fbErr)
				result = nil
				err = fmt.Errorf("%w: %v", ErrFatal, rec)
				return
			}
			r.metrics.IncFallback(reasonPipelineFault)
			result = fb
			err = nil
		}
	}()

	start := time.Now()

	if err := validate.Coordinates(req.Latitude, req.Longitude); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	mood, err := validate.Mood(req.Mood)
	if err != nil {
		return nil, fmt.Errorf("%w: mood: %v", ErrInvalidRequest, err)
	}
	req.Mood = mood
	keyword, err := validate.Keyword(req.Keyword)
	if err != nil {
		return nil, fmt.Errorf("%w: keyword: %v", ErrInvalidRequest, err)
	}
	req.Keyword = keyword
	if req.RadiusMeters <= 0 {
		req.RadiusMeters = DefaultRadiusMeters
	}
	if req.SortBy == "" {
		req.SortBy = DefaultSortKey
	}

	candidates, err := r.source.ListAll(ctx)
	if err != nil {
		// UpstreamUnavailable: degrade to sample data, never a hard error.
		r.logger.WarnContext(ctx, "place source unavailable, serving sample data", "error", err)
		r.metrics.IncFallback(reasonSourceUnavailable)
		tracing.AddEvent(ctx, "sample_data_served", attribute.String("reason", reasonSourceUnavailable))
		return r.fallbackResult(req, place.StockCatalog()), nil
	}

	if r.relocate {
		candidates = place.ProjectAround(candidates, req.Latitude, req.Longitude, req.RadiusMeters)
	}

	annotated := r.annotateDistances(req, candidates)

	// Radius filter, then distance-ascending pre-sort. The pre-sort fixes
	// the relative order that later stable sorts preserve on ties.
	inRadius := annotated[:0]
	for _, rec := range annotated {
		if rec.Distance*1000 <= req.RadiusMeters {
			inRadius = append(inRadius, rec)
		}
	}
	sortByDistance(inRadius)

	ranked := r.filterAndSort(ctx, inRadius, req)

	if len(ranked) > r.maxResults {
		ranked = ranked[:r.maxResults]
	}

	fallback := false
	if len(ranked) == 0 && len(candidates) > 0 {
		r.metrics.IncFallback(reasonEmptyResult)
		tracing.AddEvent(ctx, "sample_data_served", attribute.String("reason", reasonEmptyResult))
		fb := r.fallbackResult(req, r.samplePlaces(ctx))
		ranked = fb.Places
		fallback = true
	}

	r.metrics.ObserveRecommendation(string(req.SortBy), time.Since(start).Seconds(), len(ranked))
	tracing.SetAttributes(ctx,
		attribute.String("recommend.sort_by", string(req.SortBy)),
		attribute.Int("recommend.results", len(ranked)),
		attribute.Bool("recommend.fallback", fallback),
	)

	return &Result{
		Places:       ranked,
		TotalResults: len(ranked),
		Mood:         req.Mood,
		Fallback:     fallback,
	}, nil
}

// annotateDistances computes the requester distance for every candidate.
// A place whose stored coordinate is malformed is kept with the sentinel
// distance instead of being discarded.
func (r *Recommender) annotateDistances(req Request, candidates []place.Place) []Recommendation {
	annotated := make([]Recommendation, 0, len(candidates))
	for _, p := range candidates {
		rec := Recommendation{Place: p, Mood: req.Mood}

		if err := validate.Coordinates(p.Latitude, p.Longitude); err != nil {
			rec.Distance = SentinelDistanceKm
			rec.DistanceText = UnknownDistanceLabel
		} else {
			d := geo.Distance(req.Latitude, req.Longitude, p.Latitude, p.Longitude)
			if math.IsNaN(d) {
				rec.Distance = SentinelDistanceKm
				rec.DistanceText = UnknownDistanceLabel
			} else {
				rec.Distance = d
				rec.DistanceText = geo.FormatDistance(d)
			}
		}

		annotated = append(annotated, rec)
	}
	return annotated
}

// filterAndSort applies the hard filters, scores survivors, and sorts by
// the requested key. An unexpected fault inside this stage never aborts
// the request: it degrades to the distance-sorted unfiltered input.
func (r *Recommender) filterAndSort(ctx context.Context, places []Recommendation, req Request) (out []Recommendation) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.ErrorContext(ctx, "filter stage faulted, falling back to distance sort", "panic", rec)
			r.metrics.IncFallback(reasonFilterFault)
			fallback := make([]Recommendation, len(places))
			copy(fallback, places)
			sortByDistance(fallback)
			out = fallback
		}
	}()

	filtered := make([]Recommendation, len(places))
	copy(filtered, places)

	// Keyword: case-insensitive substring over name and address.
	if q := strings.ToLower(req.Keyword); q != "" {
		kept := filtered[:0]
		for _, rec := range filtered {
			if strings.Contains(strings.ToLower(rec.Name), q) ||
				strings.Contains(strings.ToLower(rec.Address), q) {
				kept = append(kept, rec)
			}
		}
		filtered = kept
	}

	// Rating floor: absent rating counts as 0.
	if req.MinRating != nil {
		kept := filtered[:0]
		for _, rec := range filtered {
			if rec.RatingOrZero() >= *req.MinRating {
				kept = append(kept, rec)
			}
		}
		filtered = kept
	}

	// Category: at least one tag containing the filter, case-insensitive.
	if pt := strings.ToLower(strings.TrimSpace(req.PlaceType)); pt != "" {
		kept := filtered[:0]
		for _, rec := range filtered {
			for _, tag := range rec.Types {
				if strings.Contains(strings.ToLower(tag), pt) {
					kept = append(kept, rec)
					break
				}
			}
		}
		filtered = kept
	}

	// Price ceiling: price tier (symbol count) must not exceed it.
	if req.PriceCeiling > 0 {
		kept := filtered[:0]
		for _, rec := range filtered {
			if rec.PriceTier() <= req.PriceCeiling {
				kept = append(kept, rec)
			}
		}
		filtered = kept
	}

	// Open now: drop only places explicitly marked closed.
	if req.OpenNow {
		kept := filtered[:0]
		for _, rec := range filtered {
			if rec.IsOpen() {
				kept = append(kept, rec)
			}
		}
		filtered = kept
	}

	// Score survivors.
	for i := range filtered {
		filtered[i].Why = Rationale(filtered[i].Place, filtered[i].DistanceText)
		filtered[i].MatchScore = r.score(
			filtered[i].RatingOrZero(),
			filtered[i].Distance,
			filtered[i].IsOpen(),
			filtered[i].PriceTier(),
			r.weights,
			filtered[i].PersonalizationBoost,
			filtered[i].CrowdPenalty,
			req.Personalized,
		)
	}

	// Sort. All sorts are stable so ties preserve the distance-ascending
	// pre-sort order.
	switch req.SortBy {
	case SortByRating:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].RatingOrZero() > filtered[j].RatingOrZero()
		})
	case SortByDistance:
		sortByDistance(filtered)
	case SortByMatch:
		sortByScore(filtered)
	default:
		sortByScore(filtered)
	}

	return filtered
}

// recoverFallback builds the stock-catalog sample after a pipeline panic.
// Fallback construction runs under its own recover so a second fault
// surfaces as an error instead of escaping the boundary.
func (r *Recommender) recoverFallback(req Request) (result *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = fmt.Errorf("fallback construction panicked: %v", rec)
		}
	}()
	return r.fallbackResult(req, place.StockCatalog()), nil
}

// samplePlaces fetches a fresh catalog snapshot for fallback construction,
// degrading to the stock catalog if the source is unavailable.
func (r *Recommender) samplePlaces(ctx context.Context) []place.Place {
	sample, err := r.source.ListAll(ctx)
	if err != nil || len(sample) == 0 {
		return place.StockCatalog()
	}
	return sample
}

// fallbackResult builds the bounded catalog sample: the first sampleSize
// entries annotated with distance, a neutral score, and a generic
// rationale. Used for both the empty-result backfill and upstream faults.
func (r *Recommender) fallbackResult(req Request, sample []place.Place) *Result {
	if len(sample) > r.sampleSize {
		sample = sample[:r.sampleSize]
	}

	places := r.annotateDistances(req, sample)
	for i := range places {
		places[i].MatchScore = fallbackScore
		places[i].Why = FallbackRationale
	}

	return &Result{
		Places:       places,
		TotalResults: len(places),
		Mood:         req.Mood,
		Fallback:     true,
	}
}

func sortByDistance(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Distance < recs[j].Distance
	})
}

func sortByScore(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].MatchScore > recs[j].MatchScore
	})
}
