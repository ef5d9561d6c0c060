package provider

import (
	"strconv"
	"strings"
)

// ParseScore extracts an integer score from the text of a results cell.
//
// The site renders plain integers, sometimes padded or with a trailing
// marker (e.g. "65 (P)"), and exported CSVs may carry floats such as
// "65.0" after a round trip through a spreadsheet. Anything else is
// reported with ok=false.
func ParseScore(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if i := strings.IndexAny(s, " (*"); i > 0 {
		s = s[:i]
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 && f == float64(int(f)) {
		return int(f), true
	}
	return 0, false
}

// ParseYear parses a season year such as "2023" or "2023.0".
func ParseYear(raw string) (int, bool) {
	n, ok := ParseScore(raw)
	if !ok || n < 1900 || n > 2999 {
		return 0, false
	}
	return n, true
}
