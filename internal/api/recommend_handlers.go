package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"moodplaces/internal/middleware"
	"moodplaces/internal/recommend"
)

// Response messages for the recommendation endpoint. The wire shape is
// fixed: every response, success or failure, is {places, totalResults,
// mood, message} so clients parse uniformly.
const (
	MsgFetched         = "Recommendations fetched successfully"
	MsgSampleData      = "Using sample data"
	MsgMissingFields   = "Latitude, longitude, and mood are required"
	MsgInvalidCoords   = "Invalid location coordinates"
	MsgInvalidBody     = "Invalid request body"
	MsgFatal           = "Unable to fetch recommendations. Please try again later."
)

// RecommendHandlers holds dependencies for the recommendation endpoint.
type RecommendHandlers struct {
	recommender *recommend.Recommender
}

// NewRecommendHandlers creates a new RecommendHandlers instance.
func NewRecommendHandlers(recommender *recommend.Recommender) *RecommendHandlers {
	return &RecommendHandlers{recommender: recommender}
}

// RecommendationRequest is the JSON request body for
// POST /api/places/recommendations. Latitude, longitude, and mood are
// required; pointers distinguish absent fields from zero values.
type RecommendationRequest struct {
	Latitude    *float64          `json:"latitude"`
	Longitude   *float64          `json:"longitude"`
	Mood        string            `json:"mood"`
	Radius      *float64          `json:"radius"`
	SortBy      string            `json:"sortBy"`
	PriceRange  string            `json:"priceRange"`
	OpenNow     *bool             `json:"openNow"`
	SavedPlaces []json.RawMessage `json:"savedPlaces"`
	Keyword     string            `json:"keyword"`
	MinRating   *float64          `json:"minRating"`
	PlaceType   string            `json:"placeType"`
}

// RecommendationResponse is the JSON response body for the recommendation
// endpoint. Places is never null: an empty result marshals as [].
type RecommendationResponse struct {
	Places       []recommend.Recommendation `json:"places"`
	TotalResults int                        `json:"totalResults"`
	Mood         string                     `json:"mood,omitempty"`
	Message      string                     `json:"message"`
}

// Recommendations handles POST /api/places/recommendations.
//
// Status mapping: 200 for every successfully built result, including
// fallback sample data; 400 when latitude, longitude, or mood is missing
// or the coordinates are malformed; 500 only when even fallback
// construction fails.
func (h *RecommendHandlers) Recommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	var body RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeRecommendation(w, r, http.StatusBadRequest, RecommendationResponse{
			Places:  []recommend.Recommendation{},
			Message: MsgInvalidBody,
		})
		return
	}

	if body.Latitude == nil || body.Longitude == nil || strings.TrimSpace(body.Mood) == "" {
		writeRecommendation(w, r, http.StatusBadRequest, RecommendationResponse{
			Places:  []recommend.Recommendation{},
			Message: MsgMissingFields,
		})
		return
	}

	req := recommend.Request{
		Latitude:     *body.Latitude,
		Longitude:    *body.Longitude,
		Mood:         body.Mood,
		RadiusMeters: recommend.DefaultRadiusMeters,
		SortBy:       recommend.DefaultSortKey,
		PriceCeiling: parsePriceCeiling(body.PriceRange),
		OpenNow:      true,
		Keyword:      body.Keyword,
		MinRating:    body.MinRating,
		PlaceType:    body.PlaceType,
		Personalized: len(body.SavedPlaces) > 0,
	}
	if body.Radius != nil && *body.Radius > 0 {
		req.RadiusMeters = *body.Radius
	}
	if body.SortBy != "" {
		req.SortBy = recommend.SortKey(body.SortBy)
	}
	if body.OpenNow != nil {
		req.OpenNow = *body.OpenNow
	}

	result, err := h.recommender.Recommend(r.Context(), req)
	if err != nil {
		if errors.Is(err, recommend.ErrInvalidRequest) {
			writeRecommendation(w, r, http.StatusBadRequest, RecommendationResponse{
				Places:  []recommend.Recommendation{},
				Message: MsgInvalidCoords,
			})
			return
		}
		slog.ErrorContext(r.Context(), "recommendation request failed", "error", err)
		writeRecommendation(w, r, http.StatusInternalServerError, RecommendationResponse{
			Places:  []recommend.Recommendation{},
			Message: MsgFatal,
		})
		return
	}

	message := MsgFetched
	if result.Fallback {
		message = MsgSampleData
	}
	writeRecommendation(w, r, http.StatusOK, RecommendationResponse{
		Places:       result.Places,
		TotalResults: result.TotalResults,
		Mood:         result.Mood,
		Message:      message,
	})
}

// parsePriceCeiling converts the wire price range (digit "1".."4") to the
// ordinal ceiling. Absent or unparseable values mean no ceiling.
func parsePriceCeiling(priceRange string) int {
	if priceRange == "" {
		return 0
	}
	ceiling, err := strconv.Atoi(priceRange)
	if err != nil || ceiling < 1 || ceiling > 4 {
		return 0
	}
	return ceiling
}

// writeRecommendation writes a recommendation response, flowing the error
// code into the logging middleware for non-200 statuses.
func writeRecommendation(w http.ResponseWriter, r *http.Request, status int, resp RecommendationResponse) {
	if resp.Places == nil {
		resp.Places = []recommend.Recommendation{}
	}

	switch {
	case status >= 500:
		middleware.UpdateResponseContext(w, middleware.SetErrorCode(r.Context(), ErrCodeInternal))
	case status >= 400:
		middleware.UpdateResponseContext(w, middleware.SetErrorCode(r.Context(), ErrCodeValidation))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode recommendation response", "error", err)
	}
}
