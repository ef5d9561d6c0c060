// Package standings builds league tables from normalized matches.
package standings

import (
	"sort"

	"github.com/albapepper/febamba-data/internal/provider"
)

// Row is one team's line in a table.
type Row struct {
	Team          string `json:"equipo"`
	Played        int    `json:"pj"`
	Won           int    `json:"pg"`
	Lost          int    `json:"pp"`
	NoShows       int    `json:"np"`
	PointsFor     int    `json:"pf"`
	PointsAgainst int    `json:"pc"`
	Points        int    `json:"puntos"`
}

// Diff returns the point differential.
func (r Row) Diff() int { return r.PointsFor - r.PointsAgainst }

// --------------------------------------------------------------------------
// Policies
// --------------------------------------------------------------------------

// Policy awards table points for one result.
type Policy interface {
	Name() string
	Points(category string, local, visitor int) (l, v int)
}

// Forfeit scores the site records for a no-show.
const (
	ForfeitWin  = 20
	ForfeitLoss = 0
)

func forfeitLocal(l, v int) bool   { return l == ForfeitWin && v == ForfeitLoss }
func forfeitVisitor(l, v int) bool { return l == ForfeitLoss && v == ForfeitWin }

// LeaguePolicy is the youth league table: 2 for a win, 1 for a loss and 0
// for a no-show. MINI and PREMINI score one point per presentation.
type LeaguePolicy struct{}

func (LeaguePolicy) Name() string { return "league" }

func (LeaguePolicy) Points(category string, l, v int) (int, int) {
	if provider.IsPresentationOnly(category) {
		switch {
		case forfeitLocal(l, v):
			return 1, 0
		case forfeitVisitor(l, v):
			return 0, 1
		case l == 0 && v == 0:
			return 0, 0
		}
		return 1, 1
	}
	switch {
	case forfeitLocal(l, v):
		return 2, 0
	case forfeitVisitor(l, v):
		return 0, 2
	case l > v:
		return 2, 1
	case l < v:
		return 1, 2
	case l == 0:
		return 0, 0
	}
	return 1, 1
}

// WinLossPolicy awards 1 for a win and nothing otherwise.
type WinLossPolicy struct{}

func (WinLossPolicy) Name() string { return "winloss" }

func (WinLossPolicy) Points(_ string, l, v int) (int, int) {
	switch {
	case l > v:
		return 1, 0
	case l < v:
		return 0, 1
	}
	return 0, 0
}

// PolicyByName returns the policy registered under name.
func PolicyByName(name string) (Policy, bool) {
	switch name {
	case "", "league":
		return LeaguePolicy{}, true
	case "winloss":
		return WinLossPolicy{}, true
	}
	return nil, false
}

// --------------------------------------------------------------------------
// Aggregation
// --------------------------------------------------------------------------

// Options tunes Aggregate.
type Options struct {
	// PresentationRecords makes presentation-only categories count only
	// no-shows in the W/L columns, as the general zone table does.
	PresentationRecords bool
}

// MatchPoints returns the points each side of m earns under p.
func MatchPoints(m provider.Match, p Policy) (local, visitor int) {
	return p.Points(m.Category, m.LocalScore, m.VisitorScore)
}

// Aggregate folds matches into one row per team, sorted. Matches whose
// scores did not parse are left out.
func Aggregate(matches []provider.Match, p Policy, opts Options) []Row {
	index := make(map[string]int)
	var rows []Row
	row := func(team string) *Row {
		i, ok := index[team]
		if !ok {
			i = len(rows)
			index[team] = i
			rows = append(rows, Row{Team: team})
		}
		return &rows[i]
	}

	for _, m := range matches {
		if !m.ScoreValid {
			continue
		}
		lp, vp := MatchPoints(m, p)
		presentation := opts.PresentationRecords && provider.IsPresentationOnly(m.Category)
		tally(row(m.Local), m.LocalScore, m.VisitorScore, lp, presentation)
		tally(row(m.Visitor), m.VisitorScore, m.LocalScore, vp, presentation)
	}
	Sort(rows)
	return rows
}

func tally(r *Row, own, rival, points int, presentation bool) {
	r.Played++
	r.PointsFor += own
	r.PointsAgainst += rival
	r.Points += points
	switch {
	case own == ForfeitLoss && rival == ForfeitWin:
		r.NoShows++
	case presentation:
	case own > rival:
		r.Won++
	case own < rival:
		r.Lost++
	}
}

// Sort orders rows by points, then differential, then points for, all
// descending. Remaining ties keep their order.
func Sort(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Diff() != b.Diff() {
			return a.Diff() > b.Diff()
		}
		return a.PointsFor > b.PointsFor
	})
}
