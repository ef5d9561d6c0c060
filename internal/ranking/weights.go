package ranking

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/albapepper/febamba-data/internal/provider"
	"github.com/albapepper/febamba-data/internal/refdata"
)

// DefaultOpponentFactor scales the rank-position gap in the opponent
// adjustment when the weights table does not set one.
var DefaultOpponentFactor = decimal.RequireFromString("1.5")

// Weights resolves the four multipliers of a match from the weights table.
// Lookups are case-insensitive.
type Weights struct {
	table    refdata.Weights
	excluded map[string]bool
}

// NewWeights indexes a weights table.
func NewWeights(t refdata.Weights) Weights {
	w := Weights{table: t, excluded: make(map[string]bool, len(t.ExcludedCategories))}
	for _, c := range t.ExcludedCategories {
		w.excluded[key(c)] = true
	}
	return w
}

func key(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

// SeasonOrder returns the chronological season chain.
func (w Weights) SeasonOrder() []int {
	return append([]int(nil), w.table.SeasonOrder...)
}

// OpponentFactor returns the configured factor or DefaultOpponentFactor.
func (w Weights) OpponentFactor() decimal.Decimal {
	if w.table.OpponentFactor.IsZero() {
		return DefaultOpponentFactor
	}
	return w.table.OpponentFactor
}

// Excluded reports whether a category is left out of the ranking.
func (w Weights) Excluded(category string) bool {
	return w.excluded[key(category)]
}

// Year returns the weight of a season; ok is false for seasons the table
// does not know.
func (w Weights) Year(year int) (decimal.Decimal, bool) {
	v, ok := w.table.Year[year]
	return v, ok
}

// Phase returns the phase weight. Inter-conference levels use their own
// phase table first; unknown phases get the default.
func (w Weights) Phase(phase, level string) decimal.Decimal {
	p := key(phase)
	if strings.HasPrefix(key(level), provider.Interconferencia) {
		if v, ok := w.table.PhaseInterconference[p]; ok {
			return v
		}
	}
	if v, ok := w.table.Phase[p]; ok {
		return v
	}
	return w.table.PhaseDefault
}

// Round returns the round weight, preferring the year's override.
func (w Weights) Round(year int, round string) decimal.Decimal {
	r := key(round)
	if v, ok := w.table.RoundByYear[year][r]; ok {
		return v
	}
	if v, ok := w.table.Round[r]; ok {
		return v
	}
	return w.table.RoundDefault
}

// Level returns the level weight.
func (w Weights) Level(level string) decimal.Decimal {
	if v, ok := w.table.Level[key(level)]; ok {
		return v
	}
	return w.table.LevelDefault
}
