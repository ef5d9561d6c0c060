// Package rounds infers the bracket round of playoff and Final Four
// fixtures, which the results site never labels, from the matchday number
// and from the historical bracket tables.
package rounds

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/albapepper/febamba-data/internal/label"
	"github.com/albapepper/febamba-data/internal/provider"
	"github.com/albapepper/febamba-data/internal/refdata"
	"github.com/albapepper/febamba-data/internal/teams"
)

// Round names produced by inference.
const (
	Quarterfinal = "CUARTOS DE FINAL"
	Semifinal    = "SEMIFINAL"
	Final        = "FINAL"
)

// Query describes one fixture as far as inference needs it. Level and Zone
// are the reconciled values; PhaseLabel is the raw phase dropdown text.
type Query struct {
	Year       int
	Category   string
	Level      string
	Zone       string
	Matchday   string
	Phase      string
	PhaseLabel string
	Local      string
	Visitor    string
}

// Inference is what the engine could establish. Round is empty when the
// fixture is covered by a rule but no round could be derived.
type Inference struct {
	Round string `json:"ronda,omitempty"`
	Level string `json:"nivel,omitempty"`
	Key   string `json:"llave"`
}

type bracketID struct {
	year     int
	category string
}

// bracket holds the canonical keys of one (year, category), mapped to the
// level each pairing was played at.
type bracket struct {
	semis  map[string]string
	finals map[string]string
}

// Engine answers inference queries. It is immutable after New and safe for
// concurrent use.
type Engine struct {
	teams      *teams.Normalizer
	ladder     []string
	structures []refdata.PlayoffStructure
	playoff    map[int]string
	finalFour  map[int]string
	brackets   map[bracketID]bracket
	refYear    int

	playoffYears  map[int]bool
	keyOnlyYears  map[int]bool
	lookupYears   map[int]bool
	quarterLabels map[int]string
}

// New builds an engine. Bracket pairs are split and normalized here, once,
// so lookups compare canonical keys.
func New(r refdata.Rounds, b refdata.Brackets, n *teams.Normalizer) (*Engine, error) {
	e := &Engine{
		teams:         n,
		ladder:        r.Ladder,
		structures:    r.Structures,
		playoff:       r.PlayoffByMatchday,
		finalFour:     r.FinalFourByMatchday,
		brackets:      make(map[bracketID]bracket),
		refYear:       b.ReferenceYear,
		playoffYears:  yearSet(r.PlayoffYears),
		keyOnlyYears:  yearSet(r.KeyOnlyYears),
		lookupYears:   yearSet(r.FinalFourLookupYears),
		quarterLabels: make(map[int]string, len(r.QuarterfinalLabels)),
	}
	for _, q := range r.QuarterfinalLabels {
		e.quarterLabels[q.Year] = label.Upper(q.Label)
	}

	for _, t := range b.Tables {
		id := bracketID{t.Year, label.Upper(t.Category)}
		br, ok := e.brackets[id]
		if !ok {
			br = bracket{semis: map[string]string{}, finals: map[string]string{}}
			e.brackets[id] = br
		}
		dst := br.semis
		if t.Round == Final {
			dst = br.finals
		}
		for _, p := range t.Pairs {
			key, ok := n.SplitPair(p.Pair)
			if !ok {
				return nil, fmt.Errorf("bracket %d %s: pair %q has no separator", t.Year, t.Category, p.Pair)
			}
			dst[key] = p.Level
		}
	}
	return e, nil
}

func yearSet(years []int) map[int]bool {
	m := make(map[int]bool, len(years))
	for _, y := range years {
		m[y] = true
	}
	return m
}

// Applies reports whether q belongs to a phase inference handles: Playoff,
// the year's quarter-final label, or FINAL FOUR.
func (e *Engine) Applies(q Query) bool {
	return e.isQuarterLabel(q) || isPhase(q.Phase, provider.PhasePlayoff) || isPhase(q.Phase, provider.PhaseFinalFour)
}

func (e *Engine) isQuarterLabel(q Query) bool {
	want, ok := e.quarterLabels[q.Year]
	return ok && label.Collapse(label.Upper(q.PhaseLabel)) == want
}

func isPhase(phase, want string) bool {
	return strings.EqualFold(strings.TrimSpace(phase), want)
}

// Infer returns what can be established about q. The boolean is false when
// no rule covers the fixture at all; the caller then keeps its own values.
// When it is true, an empty Round is an inference miss.
func (e *Engine) Infer(q Query) (Inference, bool) {
	key := e.teams.Key(q.Local, q.Visitor)

	switch {
	case e.isQuarterLabel(q):
		return Inference{Round: byMatchday(e.playoff, q.Matchday), Level: q.Level, Key: key}, true

	case isPhase(q.Phase, provider.PhasePlayoff):
		switch {
		case e.keyOnlyYears[q.Year]:
			return Inference{Level: q.Level, Key: key}, true
		case e.playoffYears[q.Year]:
			return Inference{Round: byMatchday(e.playoff, q.Matchday), Level: q.Level, Key: key}, true
		case e.hasStructures(q.Year):
			return Inference{Round: e.structureRound(q), Level: q.Level, Key: key}, true
		}

	case isPhase(q.Phase, provider.PhaseFinalFour):
		if q.Year == e.refYear {
			return e.finalFourReference(q, key)
		}
		if e.lookupYears[q.Year] {
			return e.finalFourLookup(q, key)
		}
	}
	return Inference{}, false
}

// finalFourReference searches the year's own tables, semifinals first. A
// pairing missing from both is not inferred.
func (e *Engine) finalFourReference(q Query, key string) (Inference, bool) {
	br := e.brackets[bracketID{q.Year, label.Upper(q.Category)}]
	if lvl, ok := br.semis[key]; ok {
		return Inference{Round: Semifinal, Level: lvl, Key: key}, true
	}
	if lvl, ok := br.finals[key]; ok {
		return Inference{Round: Final, Level: lvl, Key: key}, true
	}
	return Inference{}, false
}

// finalFourLookup matches the pairing against the reference year's tables
// and otherwise maps the matchday. A non-numeric matchday yields nothing.
func (e *Engine) finalFourLookup(q Query, key string) (Inference, bool) {
	j, ok := matchday(q.Matchday)
	if !ok {
		return Inference{}, false
	}
	br := e.brackets[bracketID{e.refYear, label.Upper(q.Category)}]
	if _, ok := br.semis[key]; ok {
		return Inference{Round: Semifinal, Key: key}, true
	}
	if _, ok := br.finals[key]; ok {
		return Inference{Round: Final, Key: key}, true
	}
	return Inference{Round: e.finalFour[j], Key: key}, true
}

func (e *Engine) hasStructures(year int) bool {
	for _, s := range e.structures {
		if s.Year == year {
			return true
		}
	}
	return false
}

// structureRound finds the structure for q, preferring one that names q's
// zone over a zone-agnostic one, and maps the matchday onto the ladder.
func (e *Engine) structureRound(q Query) string {
	j, ok := matchday(q.Matchday)
	if !ok {
		return ""
	}
	cat, lvl, zone := label.Upper(q.Category), label.Upper(q.Level), label.Upper(q.Zone)

	var fallback *refdata.PlayoffStructure
	for i := range e.structures {
		s := &e.structures[i]
		if s.Year != q.Year || label.Upper(s.Category) != cat || !containsLevel(s.Levels, lvl) {
			continue
		}
		if s.Zone == "" {
			if fallback == nil {
				fallback = s
			}
			continue
		}
		if label.Upper(s.Zone) == zone {
			return e.slotRound(s.Slots, j)
		}
	}
	if fallback == nil {
		return ""
	}
	return e.slotRound(fallback.Slots, j)
}

// slotRound maps matchday j through slots read from the start of the
// ladder: slot 0 is the first round, whatever the bracket length.
func (e *Engine) slotRound(slots [][]int, j int) string {
	for i, slot := range slots {
		if i >= len(e.ladder) {
			break
		}
		for _, d := range slot {
			if d == j {
				return e.ladder[i]
			}
		}
	}
	return ""
}

func containsLevel(levels []string, lvl string) bool {
	for _, l := range levels {
		if label.Upper(l) == lvl {
			return true
		}
	}
	return false
}

func byMatchday(m map[int]string, raw string) string {
	j, ok := matchday(raw)
	if !ok {
		return ""
	}
	return m[j]
}

// matchday parses a matchday made only of digits.
func matchday(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	j, err := strconv.Atoi(raw)
	return j, err == nil
}
