// Package provider defines the canonical match records every source
// normalizes into. Source adapters (gesdeportiva pages, CSV exports) output
// RawMatch; the normalizer turns those into Match; standings, ranking and
// the seed runner only ever see Match.
package provider

import "strings"

// Sentinels written when no rule produced a value. Phase, round and zone
// use the feminine form, level and group the masculine one, matching the
// labels the historical exports carry.
const (
	UnknownF = "Desconocida"
	Unknown  = "Desconocido"
)

// Canonical phase names.
const (
	PhaseRegular   = "Fase Regular"
	PhasePlayoff   = "Playoff"
	PhaseFinalFour = "FINAL FOUR"
)

// Zone and level values that carry meaning across years.
const (
	ZoneNorte         = "NORTE"
	ZoneSur           = "SUR"
	ZoneCentro        = "CENTRO"
	ZoneOeste         = "OESTE"
	Interconferencia  = "INTERCONFERENCIA"
	GroupUnico        = "UNICO"
	LevelNivelacion   = "NIVELACION"
	CategoryJuveniles = "JUVENILES"
	CategoryMini      = "MINI"
	CategoryPremini   = "PREMINI"
)

// Zones lists the four geographic zones in the order the parsers probe them.
var Zones = []string{ZoneSur, ZoneCentro, ZoneNorte, ZoneOeste}

// IsUnknown reports whether v is one of the sentinels, empty, or the legacy
// "Desc" placeholder older exports contain.
func IsUnknown(v string) bool {
	switch strings.TrimSpace(v) {
	case "", Unknown, UnknownF, "Desc", "DESCONOCIDO", "DESCONOCIDA":
		return true
	}
	return false
}

// Or returns v unless it is unknown, in which case fallback.
func Or(v, fallback string) string {
	if IsUnknown(v) {
		return fallback
	}
	return v
}

// IsPresentationOnly reports whether a category scores by presentation
// (MINI, PREMINI) rather than by result.
func IsPresentationOnly(category string) bool {
	c := strings.ToUpper(strings.TrimSpace(category))
	return c == CategoryMini || c == CategoryPremini
}

// RawMatch is one fixture exactly as captured from the results site.
type RawMatch struct {
	Year          int    `json:"anio"`
	Category      string `json:"categoria"`
	PhaseLabel    string `json:"fase"`
	GroupLabel    string `json:"grupo"`
	MatchdayLabel string `json:"jornada"`
	Local         string `json:"local"`
	LocalScore    string `json:"ptsL"`
	Visitor       string `json:"visitante"`
	VisitorScore  string `json:"ptsV"`
}

// Played reports whether both scores were filled in by the site.
func (m RawMatch) Played() bool {
	return strings.TrimSpace(m.LocalScore) != "" && strings.TrimSpace(m.VisitorScore) != ""
}

// Match is the normalized fixture record.
type Match struct {
	Year         int    `json:"anio"`
	Category     string `json:"categoria"`
	Phase        string `json:"fase"`
	Round        string `json:"ronda"`
	Level        string `json:"nivel"`
	Zone         string `json:"zona"`
	Group        string `json:"grupo"`
	Matchday     string `json:"jornada"`
	Date         string `json:"fecha"`
	Local        string `json:"local"`
	LocalScore   int    `json:"ptsL"`
	Visitor      string `json:"visitante"`
	VisitorScore int    `json:"ptsV"`
	// ScoreValid is false when either raw score could not be parsed; the
	// integer scores are zero in that case.
	ScoreValid bool `json:"-"`
}

// BracketKey identifies a pairing by canonical names, local first.
func BracketKey(local, visitor string) string {
	return local + "-" + visitor
}

// Key returns the match's bracket key.
func (m Match) Key() string {
	return BracketKey(m.Local, m.Visitor)
}
