// Package label holds the text clean-up shared by the label parsers.
package label

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	spaceRe = regexp.MustCompile(`\s+`)

	quoteFolder = strings.NewReplacer(
		"“", `"`, "”", `"`, "„", `"`, "″", `"`,
		"‘", "'", "’", "'",
	)
)

// Upper composes the text to NFC, trims it and upper-cases it. Composing
// first keeps "Ñ" a single rune whatever form the page used, so the
// character classes in the rule tables match it.
func Upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(norm.NFC.String(s)))
}

// Collapse replaces every run of whitespace with one space and trims.
func Collapse(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// FoldQuotes turns typographic quotes into ASCII ones and squeezes doubled
// double quotes.
func FoldQuotes(s string) string {
	s = quoteFolder.Replace(s)
	for strings.Contains(s, `""`) {
		s = strings.ReplaceAll(s, `""`, `"`)
	}
	return s
}

// ContainsAny reports whether s contains any of the substrings.
func ContainsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// FirstZone returns the first of SUR, CENTRO, NORTE, OESTE contained in s.
func FirstZone(s string) (string, bool) {
	for _, z := range []string{"SUR", "CENTRO", "NORTE", "OESTE"} {
		if strings.Contains(s, z) {
			return z, true
		}
	}
	return "", false
}

// IsZone reports whether s is exactly one of the four geographic zones.
func IsZone(s string) bool {
	switch s {
	case "SUR", "CENTRO", "NORTE", "OESTE":
		return true
	}
	return false
}

// Submatch runs re against s and returns the capture groups (without the
// full match) when it matched.
func Submatch(re *regexp.Regexp, s string) ([]string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}
	return m[1:], true
}

// WordAfter returns the first whitespace-separated token after marker, as
// in "1" for marker "CONFERENCIA" in "CONFERENCIA 1 OCTAVOS DE FINAL".
func WordAfter(s, marker string) (string, bool) {
	_, rest, ok := strings.Cut(s, marker)
	if !ok {
		return "", false
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}
