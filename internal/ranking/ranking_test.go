package ranking

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/febamba-data/internal/csvio"
	"github.com/albapepper/febamba-data/internal/provider"
	"github.com/albapepper/febamba-data/internal/refdata"
	"github.com/albapepper/febamba-data/internal/report"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func dec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func flatWeights() refdata.Weights {
	one := decimal.NewFromInt(1)
	return refdata.Weights{
		Version:            "test",
		SeasonOrder:        []int{2019, 2022, 2023},
		ExcludedCategories: []string{"MINI", "PREMINI"},
		OpponentFactor:     decimal.RequireFromString("1.5"),
		Year:               map[int]decimal.Decimal{2019: one, 2022: one, 2023: one},
		Phase:              map[string]decimal.Decimal{"FASE REGULAR": one},
		PhaseDefault:       one,
		Round:              map[string]decimal.Decimal{"1RA FASE": one},
		RoundDefault:       one,
		Level:              map[string]decimal.Decimal{"1": one},
		LevelDefault:       one,
	}
}

func game(year int, cat, local string, l int, visitor string, v int) provider.Match {
	return provider.Match{
		Year:         year,
		Category:     cat,
		Phase:        provider.PhaseRegular,
		Round:        "1ra Fase",
		Level:        "1",
		Local:        local,
		LocalScore:   l,
		Visitor:      visitor,
		VisitorScore: v,
		ScoreValid:   true,
	}
}

func TestBasePoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		l, v         int
		wantL, wantV int
	}{
		{80, 60, 750, 250},
		{60, 85, 250, 750},
		{70, 60, 700, 300},
		{61, 79, 300, 700},
		{55, 46, 650, 350},
		{40, 41, 350, 650},
		{20, 0, 700, 0},
		{0, 20, 0, 700},
		{0, 0, 0, 0},
		{50, 50, 500, 500},
		{22, 0, 750, 250},
	}
	for _, tt := range tests {
		l, v := BasePoints(tt.l, tt.v)
		assert.Equal(t, tt.wantL, l, "%d-%d", tt.l, tt.v)
		assert.Equal(t, tt.wantV, v, "%d-%d", tt.l, tt.v)
	}
}

func TestOpponentAdjustment(t *testing.T) {
	t.Parallel()

	prev := make(Ranking, 10)
	for i := range prev {
		prev[i] = Row{Team: string(rune('A' + i)), Points: decimal.NewFromInt(int64(100 - i))}
	}

	dec(t, "6.75", OpponentAdjustment(prev, "A"))
	dec(t, "-6.75", OpponentAdjustment(prev, "J"))
	dec(t, "0", OpponentAdjustment(prev, "NEW TEAM"))
	dec(t, "0", OpponentAdjustment(nil, "A"))
}

func TestWeightsFromReferenceData(t *testing.T) {
	t.Parallel()

	set, err := refdata.Default()
	require.NoError(t, err)
	w := NewWeights(set.Weights)

	dec(t, "0.75", w.Phase("Playoff", "1"))
	dec(t, "1.00", w.Phase("Playoff", "INTERCONFERENCIA A"))
	dec(t, "1.00", w.Phase("FINAL FOUR", "2"))
	dec(t, "0.65", w.Phase(provider.UnknownF, "1"))

	dec(t, "1.20", w.Round(2022, "2da Fase"))
	dec(t, "1.10", w.Round(2025, "2da Fase"))
	dec(t, "1.50", w.Round(2024, "Final"))
	dec(t, "1.00", w.Round(2024, provider.UnknownF))

	dec(t, "1.30", w.Level("Interconferencia"))
	dec(t, "1.00", w.Level(provider.Unknown))

	yw, ok := w.Year(2019)
	require.True(t, ok)
	dec(t, "0.60", yw)
	_, ok = w.Year(2020)
	assert.False(t, ok)

	assert.True(t, w.Excluded("mini"))
	assert.False(t, w.Excluded("CADETES"))
}

func TestScoreSeason(t *testing.T) {
	t.Parallel()

	set, err := refdata.Default()
	require.NoError(t, err)
	s := NewScorer(NewWeights(set.Weights), quiet)

	var rep report.Report
	bad := game(2025, "CADETES", "ALFA", 0, "GAMMA", 0)
	bad.ScoreValid = false
	season, err := s.ScoreSeason(2025, []provider.Match{
		game(2025, "CADETES", "ALFA", 70, "BETA", 50),
		game(2025, "MINI", "ALFA", 70, "BETA", 50),
		game(2024, "CADETES", "ALFA", 70, "BETA", 50),
		bad,
	}, nil, &rep)
	require.NoError(t, err)

	require.Len(t, season.Matches, 2)
	first := season.Matches[0]
	assert.Equal(t, 750, first.BPLocal)
	assert.Equal(t, 250, first.BPVisitor)
	// 1.00 year × 0.65 regular × 1.00 first round × 1.15 level 1.
	dec(t, "560.625", first.LocalTotal)
	dec(t, "186.875", first.VisitorTotal)

	assert.Zero(t, season.Matches[1].BPLocal)
	assert.Equal(t, 1, rep.Count(report.MalformedScore))

	require.Len(t, season.Ranking, 3)
	assert.Equal(t, "ALFA", season.Ranking[0].Team)
	assert.Equal(t, "BETA", season.Ranking[1].Team)
	assert.Equal(t, "GAMMA", season.Ranking[2].Team)
	dec(t, "0", season.Ranking[2].Points)

	_, err = s.ScoreSeason(2020, nil, nil, nil)
	assert.ErrorIs(t, err, ErrUnknownSeason)
}

func TestMalformedScoreKeepsAdjustment(t *testing.T) {
	t.Parallel()

	s := NewScorer(NewWeights(flatWeights()), quiet)
	prev := Ranking{{Team: "ALFA", Points: decimal.NewFromInt(10)}, {Team: "BETA", Points: decimal.NewFromInt(5)}}
	bad := game(2022, "CADETES", "BETA", 0, "ALFA", 0)
	bad.ScoreValid = false

	season, err := s.ScoreSeason(2022, []provider.Match{bad}, prev, nil)
	require.NoError(t, err)
	require.Len(t, season.Matches, 1)
	dec(t, "0.75", season.Matches[0].LocalTotal)
	dec(t, "-0.75", season.Matches[0].VisitorTotal)
}

func TestChain(t *testing.T) {
	t.Parallel()

	s := NewScorer(NewWeights(flatWeights()), quiet)
	start := NewChain(s)

	_, _, err := start.Next(2022, nil, nil)
	var seqErr *SequenceError
	require.True(t, errors.As(err, &seqErr))
	assert.Equal(t, SequenceError{Season: 2022, Predecessor: 2019}, *seqErr)
	assert.ErrorIs(t, err, ErrMissingPredecessor)

	c1, s2019, err := start.Next(2019, []provider.Match{game(2019, "CADETES", "ALFA", 70, "BETA", 50)}, nil)
	require.NoError(t, err)
	dec(t, "0", s2019.Matches[0].ORPLocal)

	c2, s2022, err := c1.Next(2022, []provider.Match{game(2022, "CADETES", "ALFA", 60, "BETA", 55)}, nil)
	require.NoError(t, err)

	// Previous ranking ALFA 1st, BETA 2nd: avg 1.5.
	dec(t, "-0.75", s2022.Matches[0].ORPLocal)
	dec(t, "0.75", s2022.Matches[0].ORPVisitor)

	alfa, _ := s2022.Cumulative.Points("ALFA")
	beta, _ := s2022.Cumulative.Points("BETA")
	dec(t, "1399.25", alfa)
	dec(t, "600.75", beta)

	// Earlier values are untouched.
	next, ok := start.Expected()
	require.True(t, ok)
	assert.Equal(t, 2019, next)
	assert.Empty(t, start.Cumulative())
	alfa, _ = s2019.Cumulative.Points("ALFA")
	dec(t, "750", alfa)
	alfa, _ = c1.Cumulative().Points("ALFA")
	dec(t, "750", alfa)

	assert.Equal(t, []int{2019, 2022}, c2.Done())
	_, _, err = c2.Next(2019, nil, nil)
	assert.Error(t, err)
}

func TestResume(t *testing.T) {
	t.Parallel()

	s := NewScorer(NewWeights(flatWeights()), quiet)

	_, err := Resume(s, 2022, nil)
	assert.ErrorIs(t, err, ErrMissingPredecessor)

	_, err = Resume(s, 2021, nil)
	assert.ErrorIs(t, err, ErrUnknownSeason)

	c, err := Resume(s, 2022, Ranking{{Team: "BETA", Points: decimal.NewFromInt(1)}, {Team: "ALFA", Points: decimal.NewFromInt(9)}})
	require.NoError(t, err)
	next, _ := c.Expected()
	assert.Equal(t, 2022, next)
	assert.Equal(t, "ALFA", c.Cumulative()[0].Team)
}

func TestFoldStopsAtGap(t *testing.T) {
	t.Parallel()

	s := NewScorer(NewWeights(flatWeights()), quiet)
	var rep report.Report
	seasons := GroupBySeason([]provider.Match{
		game(2019, "CADETES", "ALFA", 70, "BETA", 50),
		game(2023, "CADETES", "ALFA", 70, "BETA", 50),
	})

	c, done, err := NewChain(s).Fold(seasons, &rep)
	var seqErr *SequenceError
	require.True(t, errors.As(err, &seqErr))
	assert.Equal(t, 2023, seqErr.Season)
	assert.Equal(t, 2022, seqErr.Predecessor)
	require.Len(t, done, 1)
	assert.Equal(t, 2019, done[0].Year)
	assert.Equal(t, []int{2019}, c.Done())
	assert.Equal(t, 1, rep.Count(report.SequenceError))
}

func TestFoldAll(t *testing.T) {
	t.Parallel()

	s := NewScorer(NewWeights(flatWeights()), quiet)
	seasons := GroupBySeason([]provider.Match{
		game(2019, "CADETES", "ALFA", 70, "BETA", 50),
		game(2022, "CADETES", "BETA", 70, "ALFA", 50),
	})
	c, done, err := NewChain(s).Fold(seasons, nil)
	require.NoError(t, err)
	assert.Len(t, done, 2)
	assert.Equal(t, []int{2019, 2022}, c.Done())
}

func TestSortedTiesByName(t *testing.T) {
	t.Parallel()

	r := Ranking{
		{Team: "GAMMA", Points: decimal.NewFromInt(5)},
		{Team: "BETA", Points: decimal.NewFromInt(5)},
		{Team: "ALFA", Points: decimal.NewFromInt(1)},
	}
	sorted := r.Sorted()
	assert.Equal(t, "BETA", sorted[0].Team)
	assert.Equal(t, "GAMMA", sorted[1].Team)
	assert.Equal(t, "GAMMA", r[0].Team)
}

func TestRankingCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), CumulativeFile(2019, 2022))
	assert.Equal(t, "ranking_acumulado_2019-2022.csv", filepath.Base(path))
	in := Ranking{
		{Team: "ALFA", Points: decimal.RequireFromString("1399.25")},
		{Team: "BETA", Points: decimal.RequireFromString("600.75")},
	}
	require.NoError(t, WriteRanking(path, in))

	tb, err := csvio.ReadFile(path)
	require.NoError(t, err)
	out, err := ReadRanking(tb)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "ALFA", out[0].Team)
	dec(t, "1399.25", out[0].Points)

	tb, err = csvio.Read(strings.NewReader("Equipo;Puntos\nBETA;12,5\nALFA;20\n"))
	require.NoError(t, err)
	out, err = ReadRanking(tb)
	require.NoError(t, err)
	dec(t, "12.5", out[1].Points)
}
