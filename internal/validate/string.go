package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// String validation errors
var (
	ErrStringTooLong = errors.New("string is too long")
	ErrEmpty         = errors.New("string is empty")
)

// StringConstraints defines validation constraints for a free-form string.
type StringConstraints struct {
	MaxLength  int  // Maximum length in runes (0 = no maximum)
	AllowEmpty bool // Whether empty strings are allowed
	TrimSpace  bool // Whether to trim whitespace before validation
	Truncate   bool // Cut over-long input to MaxLength runes instead of failing
}

// String validates a string against the given constraints.
// Returns the validated (and optionally trimmed) string and an error if
// validation fails.
func String(s string, constraints StringConstraints) (string, error) {
	if constraints.TrimSpace {
		s = strings.TrimSpace(s)
	}

	if s == "" {
		if !constraints.AllowEmpty {
			return "", ErrEmpty
		}
		return s, nil
	}

	// Rune count, not byte count
	length := utf8.RuneCountInString(s)
	if constraints.MaxLength > 0 && length > constraints.MaxLength {
		if !constraints.Truncate {
			return "", fmt.Errorf("%w: got %d chars, maximum is %d", ErrStringTooLong, length, constraints.MaxLength)
		}
		s = string([]rune(s)[:constraints.MaxLength])
		if constraints.TrimSpace {
			s = strings.TrimSpace(s)
		}
	}

	return s, nil
}

// Mood normalizes a caller-supplied mood label. Moods are free-form, so any
// non-empty label is accepted; overly long labels are truncated rather than
// rejected to keep log and response payloads sane.
func Mood(s string) (string, error) {
	return String(s, StringConstraints{
		MaxLength: 64,
		TrimSpace: true,
		Truncate:  true,
	})
}

// Keyword normalizes an optional free-text search keyword. Never fails:
// empty is fine, over-long input is truncated.
func Keyword(s string) (string, error) {
	return String(s, StringConstraints{
		MaxLength:  128,
		AllowEmpty: true,
		TrimSpace:  true,
		Truncate:   true,
	})
}
