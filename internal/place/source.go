package place

import "context"

// Source supplies the candidate place catalog for a recommendation request.
// Implementations must return snapshots the caller may freely mutate; the
// ranking pipeline annotates and re-orders the returned slice in place.
type Source interface {
	// ListAll returns the full candidate catalog.
	ListAll(ctx context.Context) ([]Place, error)
}

// MemorySource is an in-memory Source backed by a fixed catalog.
// Used for the demo catalog and for testing.
type MemorySource struct {
	places []Place
}

// NewMemorySource creates a MemorySource over the given places.
// The input slice is copied so later mutation by the caller has no effect.
func NewMemorySource(places []Place) *MemorySource {
	copied := make([]Place, len(places))
	for i, p := range places {
		copied[i] = p.Clone()
	}
	return &MemorySource{places: copied}
}

// NewStockSource creates a MemorySource over the built-in demo catalog.
func NewStockSource() *MemorySource {
	return &MemorySource{places: StockCatalog()}
}

// ListAll returns a deep copy of the catalog.
func (s *MemorySource) ListAll(ctx context.Context) ([]Place, error) {
	out := make([]Place, len(s.places))
	for i, p := range s.places {
		out[i] = p.Clone()
	}
	return out, nil
}
