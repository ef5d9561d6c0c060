package ranking

import (
	"errors"
	"fmt"

	"github.com/albapepper/febamba-data/internal/provider"
	"github.com/albapepper/febamba-data/internal/report"
)

// ErrMissingPredecessor is returned when a season is scored before the
// season it depends on.
var ErrMissingPredecessor = errors.New("missing predecessor ranking")

// SequenceError names the season that could not be scored and the
// predecessor it is waiting for.
type SequenceError struct {
	Season      int
	Predecessor int
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("season %d: %v %d", e.Season, ErrMissingPredecessor, e.Predecessor)
}

func (e *SequenceError) Unwrap() error { return ErrMissingPredecessor }

// Chain is the season accumulator: the order seasons must be scored in,
// the next expected season and the cumulative ranking so far. It is a
// value; Next returns a new chain and never changes the receiver.
type Chain struct {
	scorer     *Scorer
	order      []int
	next       int
	cumulative Ranking
}

// NewChain starts a chain at the first season of the scorer's order.
func NewChain(s *Scorer) Chain {
	return Chain{scorer: s, order: s.Weights().SeasonOrder()}
}

// Resume starts a chain at season from, given the cumulative ranking
// through its predecessor. Resuming past the first season without a
// ranking is a *SequenceError.
func Resume(s *Scorer, from int, prev Ranking) (Chain, error) {
	c := NewChain(s)
	idx := c.index(from)
	if idx < 0 {
		return Chain{}, fmt.Errorf("resume at %d: %w", from, ErrUnknownSeason)
	}
	if idx > 0 && len(prev) == 0 {
		return Chain{}, &SequenceError{Season: from, Predecessor: c.order[idx-1]}
	}
	c.next = idx
	c.cumulative = prev.Sorted()
	return c, nil
}

func (c Chain) index(year int) int {
	for i, y := range c.order {
		if y == year {
			return i
		}
	}
	return -1
}

// Expected returns the season Next accepts; ok is false once the chain is
// complete.
func (c Chain) Expected() (int, bool) {
	if c.next >= len(c.order) {
		return 0, false
	}
	return c.order[c.next], true
}

// Done returns the seasons already folded in.
func (c Chain) Done() []int {
	return append([]int(nil), c.order[:c.next]...)
}

// Cumulative returns a copy of the running ranking.
func (c Chain) Cumulative() Ranking { return c.cumulative.Clone() }

// Next scores year and returns the advanced chain. year must be the
// expected season; scoring ahead of a missing one is a *SequenceError.
func (c Chain) Next(year int, matches []provider.Match, rep *report.Report) (Chain, Season, error) {
	idx := c.index(year)
	switch {
	case idx < 0:
		return c, Season{}, fmt.Errorf("next %d: %w", year, ErrUnknownSeason)
	case idx > c.next:
		return c, Season{}, &SequenceError{Season: year, Predecessor: c.order[idx-1]}
	case idx < c.next:
		return c, Season{}, fmt.Errorf("next %d: season already scored", year)
	}

	season, err := c.scorer.ScoreSeason(year, matches, c.cumulative, rep)
	if err != nil {
		return c, Season{}, err
	}
	season.Cumulative = c.cumulative.Plus(season.Ranking)

	out := Chain{
		scorer:     c.scorer,
		order:      c.order,
		next:       c.next + 1,
		cumulative: season.Cumulative.Clone(),
	}
	return out, season, nil
}

// Fold scores every remaining season in order. It stops at the first
// season without matches: the seasons after it lack their predecessor, so
// a *SequenceError is returned together with the seasons already scored and
// recorded in rep.
func (c Chain) Fold(bySeason map[int][]provider.Match, rep *report.Report) (Chain, []Season, error) {
	var out []Season
	for {
		year, ok := c.Expected()
		if !ok {
			return c, out, nil
		}
		matches, ok := bySeason[year]
		if !ok {
			if later, pending := c.pendingAfter(year, bySeason); pending {
				err := &SequenceError{Season: later, Predecessor: year}
				if rep != nil {
					rep.Add(report.Entry{
						Kind:   report.SequenceError,
						Year:   later,
						Field:  "season",
						Input:  fmt.Sprint(year),
						Detail: err.Error(),
					})
				}
				return c, out, err
			}
			return c, out, nil
		}

		next, season, err := c.Next(year, matches, rep)
		if err != nil {
			return c, out, err
		}
		c = next
		out = append(out, season)
	}
}

// pendingAfter returns the first season after year that has matches.
func (c Chain) pendingAfter(year int, bySeason map[int][]provider.Match) (int, bool) {
	for _, y := range c.order[c.index(year)+1:] {
		if _, ok := bySeason[y]; ok {
			return y, true
		}
	}
	return 0, false
}

// GroupBySeason splits matches by year.
func GroupBySeason(matches []provider.Match) map[int][]provider.Match {
	out := make(map[int][]provider.Match)
	for _, m := range matches {
		out[m.Year] = append(out[m.Year], m)
	}
	return out
}
