// Package ranking computes the weighted multi-season strength ranking.
//
// Every match is worth base points by score margin plus an adjustment for
// the opponent's position in the previous cumulative ranking, scaled by the
// year, phase, round and level weights. Seasons are scored in chain order
// because each one needs its predecessor's ranking.
package ranking

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/albapepper/febamba-data/internal/provider"
	"github.com/albapepper/febamba-data/internal/report"
)

// ErrUnknownSeason is returned for a season missing from the weights table.
var ErrUnknownSeason = errors.New("unknown season")

// Row is one team's total.
type Row struct {
	Team   string          `json:"equipo"`
	Points decimal.Decimal `json:"puntos"`
}

// Ranking is an ordered list of totals. Operations never modify their
// receiver; they return new slices.
type Ranking []Row

// Clone returns an independent copy.
func (r Ranking) Clone() Ranking {
	if r == nil {
		return nil
	}
	out := make(Ranking, len(r))
	copy(out, r)
	return out
}

// Sorted returns a copy ordered by points descending, ties by team name.
func (r Ranking) Sorted() Ranking {
	out := r.Clone()
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Points.Cmp(out[j].Points); c != 0 {
			return c > 0
		}
		return out[i].Team < out[j].Team
	})
	return out
}

// Plus returns the sorted sum of r and other, team by team.
func (r Ranking) Plus(other Ranking) Ranking {
	totals := make(map[string]decimal.Decimal, len(r)+len(other))
	for _, rows := range []Ranking{r, other} {
		for _, row := range rows {
			totals[row.Team] = totals[row.Team].Add(row.Points)
		}
	}
	return fromTotals(totals)
}

// Points returns a team's total.
func (r Ranking) Points(team string) (decimal.Decimal, bool) {
	for _, row := range r {
		if row.Team == team {
			return row.Points, true
		}
	}
	return decimal.Zero, false
}

func fromTotals(totals map[string]decimal.Decimal) Ranking {
	out := make(Ranking, 0, len(totals))
	for team, pts := range totals {
		out = append(out, Row{Team: team, Points: pts})
	}
	return out.Sorted()
}

// --------------------------------------------------------------------------
// Base points and opponent adjustment
// --------------------------------------------------------------------------

// BasePoints returns the margin-based points of each side. A 20-0 or 0-20
// forfeit is worth 700 to the side that showed up, 0-0 is worth nothing and
// a scored draw splits 500/500.
func BasePoints(l, v int) (local, visitor int) {
	switch {
	case l == 20 && v == 0:
		return 700, 0
	case l == 0 && v == 20:
		return 0, 700
	case l == v && l == 0:
		return 0, 0
	case l == v:
		return 500, 500
	}
	win, lose := bucket(l - v)
	if l > v {
		return win, lose
	}
	return lose, win
}

func bucket(margin int) (win, lose int) {
	if margin < 0 {
		margin = -margin
	}
	switch {
	case margin >= 20:
		return 750, 250
	case margin >= 10:
		return 700, 300
	}
	return 650, 350
}

// reference answers rank-position queries against a previous ranking.
type reference struct {
	pos    map[string]int
	avg    decimal.Decimal
	factor decimal.Decimal
}

func newReference(prev Ranking, factor decimal.Decimal) reference {
	ref := reference{pos: make(map[string]int, len(prev)), factor: factor}
	for i, row := range prev {
		if _, ok := ref.pos[row.Team]; !ok {
			ref.pos[row.Team] = i + 1
		}
	}
	ref.avg = decimal.NewFromInt(int64(len(prev) + 1)).Div(decimal.NewFromInt(2))
	return ref
}

// adjust returns factor × (avg − position of opponent). Opponents missing
// from the ranking sit at avg; an empty ranking yields zero.
func (ref reference) adjust(opponent string) decimal.Decimal {
	if len(ref.pos) == 0 {
		return decimal.Zero
	}
	pos, ok := ref.pos[opponent]
	if !ok {
		return decimal.Zero
	}
	return ref.factor.Mul(ref.avg.Sub(decimal.NewFromInt(int64(pos))))
}

// OpponentAdjustment returns the adjustment for playing opponent given the
// previous cumulative ranking, with DefaultOpponentFactor.
func OpponentAdjustment(prev Ranking, opponent string) decimal.Decimal {
	return newReference(prev, DefaultOpponentFactor).adjust(opponent)
}

// --------------------------------------------------------------------------
// Season scoring
// --------------------------------------------------------------------------

// Scored is one match with its computed columns.
type Scored struct {
	provider.Match

	BPLocal    int
	BPVisitor  int
	ORPLocal   decimal.Decimal
	ORPVisitor decimal.Decimal

	YearWeight  decimal.Decimal
	PhaseWeight decimal.Decimal
	RoundWeight decimal.Decimal
	LevelWeight decimal.Decimal

	LocalTotal   decimal.Decimal
	VisitorTotal decimal.Decimal
}

// Season is the scored output of one year.
type Season struct {
	Year    int
	Matches []Scored
	// Ranking holds this season's totals only.
	Ranking Ranking
	// Cumulative is the running sum through this season.
	Cumulative Ranking
}

// Scorer scores seasons against a weights table.
type Scorer struct {
	weights Weights
	logger  *slog.Logger
}

// NewScorer returns a scorer. A nil logger falls back to slog.Default.
func NewScorer(w Weights, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{weights: w, logger: logger}
}

// Weights returns the scorer's weights.
func (s *Scorer) Weights() Weights { return s.weights }

// ScoreSeason scores the matches of one year against prev, the cumulative
// ranking through the previous season (empty for the first season).
// Matches of other years and of excluded categories are ignored. A match
// with an unparsed score gets zero base points and is reported to rep.
// The returned season's Cumulative is left unset.
func (s *Scorer) ScoreSeason(year int, matches []provider.Match, prev Ranking, rep *report.Report) (Season, error) {
	yw, ok := s.weights.Year(year)
	if !ok {
		return Season{}, fmt.Errorf("score season %d: %w", year, ErrUnknownSeason)
	}
	ref := newReference(prev, s.weights.OpponentFactor())

	season := Season{Year: year}
	totals := make(map[string]decimal.Decimal)
	for _, m := range matches {
		if m.Year != year || s.weights.Excluded(m.Category) {
			continue
		}
		sc := Scored{
			Match:       m,
			ORPLocal:    ref.adjust(m.Visitor),
			ORPVisitor:  ref.adjust(m.Local),
			YearWeight:  yw,
			PhaseWeight: s.weights.Phase(m.Phase, m.Level),
			RoundWeight: s.weights.Round(year, m.Round),
			LevelWeight: s.weights.Level(m.Level),
		}
		if m.ScoreValid {
			sc.BPLocal, sc.BPVisitor = BasePoints(m.LocalScore, m.VisitorScore)
		} else if rep != nil {
			rep.Add(report.Entry{
				Kind:     report.MalformedScore,
				Year:     year,
				Category: m.Category,
				Field:    "ptsL/ptsV",
				Input:    m.Key(),
				Detail:   "base points set to 0",
			})
		}

		mult := sc.YearWeight.Mul(sc.PhaseWeight).Mul(sc.RoundWeight).Mul(sc.LevelWeight)
		sc.LocalTotal = mult.Mul(decimal.NewFromInt(int64(sc.BPLocal)).Add(sc.ORPLocal))
		sc.VisitorTotal = mult.Mul(decimal.NewFromInt(int64(sc.BPVisitor)).Add(sc.ORPVisitor))

		totals[m.Local] = totals[m.Local].Add(sc.LocalTotal)
		totals[m.Visitor] = totals[m.Visitor].Add(sc.VisitorTotal)
		season.Matches = append(season.Matches, sc)
	}
	season.Ranking = fromTotals(totals)

	s.logger.Info("scored season",
		"year", year,
		"matches", len(season.Matches),
		"teams", len(season.Ranking),
		"reference_teams", len(prev),
	)
	return season, nil
}
