package recommend

import (
	"fmt"

	"moodplaces/internal/place"
)

// FallbackRationale is the generic justification attached to fallback
// sample entries.
const FallbackRationale = "Sample place recommendation"

// Rationale produces a one-sentence human-readable justification for a
// recommendation from its rating, distance label, and open status.
// An absent rating renders as "N/A". Deterministic for fixed inputs.
func Rationale(p place.Place, distanceText string) string {
	rating := "N/A"
	if p.Rating != nil {
		rating = fmt.Sprintf("%.1f", *p.Rating)
	}

	// Unlike filtering, the rationale only claims "currently open" for an
	// explicit open flag, never for unknown status.
	open := ""
	if p.OpenNow != nil && *p.OpenNow {
		open = ", currently open"
	}

	return fmt.Sprintf("Recommended because it is rated %s ⭐, %s away%s.", rating, distanceText, open)
}
