package xmlfeed

import (
	"strconv"
	"strings"
)

// The feed is known to be imperfect: individual fields may be missing,
// empty, or malformed. Extraction therefore never fails a record; a
// field that cannot be read comes back as its absent value instead.

// Text returns the trimmed field text, empty when the field was absent.
func Text(s string) string {
	return strings.TrimSpace(s)
}

// OptionalInt converts a field to an integer. ok is false for an empty
// or malformed field.
func OptionalInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// OptionalFloat converts a field to a float, accepting a decimal comma
// in place of the decimal point. ok is false for an empty or malformed
// field.
func OptionalFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
