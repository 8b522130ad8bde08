package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		// Static routes pass through untouched.
		{"/", "/"},
		{"/api/health", "/api/health"},
		{"/api/places/recommendations", "/api/places/recommendations"},
		{"/health", "/health"},
		{"/livez", "/livez"},
		{"/ready", "/ready"},
		{"/metrics", "/metrics"},

		// Place lookups collapse to a single pattern.
		{"/api/places/place_1", "/api/places/{id}"},
		{"/api/places/550e8400-e29b-41d4-a716-446655440000", "/api/places/{id}"},

		// Edge cases.
		{"/api/places/", "/api/places/"},
		{"/api/places/place_1/extra", "/api/places/place_1/extra"},
		{"/unknown/path", "/unknown/path"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

// Every distinct place ID must land on one metric series.
func TestNormalizePath_BoundedCardinality(t *testing.T) {
	ids := []string{"place_1", "place_2", "999", "550e8400-e29b-41d4-a716-446655440000", "abc-def-ghi"}

	seen := make(map[string]bool)
	for _, id := range ids {
		got := normalizePath("/api/places/" + id)
		if got != "/api/places/{id}" {
			t.Errorf("normalizePath(/api/places/%s) = %q, want /api/places/{id}", id, got)
		}
		seen[got] = true
	}
	if len(seen) != 1 {
		t.Errorf("expected one series for place lookups, got %d: %v", len(seen), seen)
	}
}
