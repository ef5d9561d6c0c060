// Package jornada parses the matchday headings printed above each fixture
// table, such as "SEMIFINAL Jornada 1 - 10/12/2023".
package jornada

import (
	"regexp"
	"strings"

	"github.com/albapepper/febamba-data/internal/label"
)

var (
	roundRe    = regexp.MustCompile(`CUARTOS DE FINAL|SEMIFINAL|FINAL`)
	matchdayRe = regexp.MustCompile(`JORNADA\s*(\d+)`)
)

// Heading is a parsed matchday heading. Fields the heading does not carry
// are empty, never zero.
type Heading struct {
	Round    string `json:"ronda"`
	Matchday string `json:"jornada"`
	Date     string `json:"fecha"`
}

// Parse splits the heading on its first hyphen into the round/matchday part
// and the date.
func Parse(heading string) Heading {
	info, date, _ := strings.Cut(label.Upper(heading), "-")

	var h Heading
	h.Date = strings.TrimSpace(date)
	info = strings.TrimSpace(info)
	h.Round = roundRe.FindString(info)
	if g, ok := label.Submatch(matchdayRe, info); ok {
		h.Matchday = g[0]
	}
	return h
}
