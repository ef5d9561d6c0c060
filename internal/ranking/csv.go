package ranking

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/albapepper/febamba-data/internal/csvio"
)

// Places rendered for points and adjustments.
const pointsPlaces = 2

// MatchHeader extends the normalized layout with the computed columns.
var MatchHeader = append(append([]string(nil), csvio.MatchHeader...),
	"BP_LOCAL", "BP_VISITA", "ORP_LOCAL", "ORP_VISITA",
	"peso_anio", "peso_fase", "peso_ronda", "peso_nivel",
	"LocalSuma", "VisitaSuma",
)

// SeasonFile is the per-season match output name.
func SeasonFile(year int) string { return fmt.Sprintf("partidos_ranking_%d.csv", year) }

// RankingFile is the per-season ranking output name.
func RankingFile(year int) string { return fmt.Sprintf("ranking_%d.csv", year) }

// CumulativeFile is the cumulative ranking output name for a season range.
func CumulativeFile(first, last int) string {
	return fmt.Sprintf("ranking_acumulado_%d-%d.csv", first, last)
}

// WriteRanking writes Equipo,Puntos rows.
func WriteRanking(path string, r Ranking) error {
	return csvio.CreateFile(path, ',', func(w *csvio.Writer) error {
		if err := w.Write([]string{"Equipo", "Puntos"}); err != nil {
			return err
		}
		for _, row := range r {
			if err := w.Write([]string{row.Team, row.Points.StringFixed(pointsPlaces)}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteMatches writes the scored matches of a season.
func WriteMatches(path string, scored []Scored) error {
	return csvio.CreateFile(path, ',', func(w *csvio.Writer) error {
		if err := w.Write(MatchHeader); err != nil {
			return err
		}
		for _, s := range scored {
			rec := append(csvio.MatchRecord(s.Match),
				strconv.Itoa(s.BPLocal),
				strconv.Itoa(s.BPVisitor),
				s.ORPLocal.StringFixed(pointsPlaces),
				s.ORPVisitor.StringFixed(pointsPlaces),
				s.YearWeight.String(),
				s.PhaseWeight.String(),
				s.RoundWeight.String(),
				s.LevelWeight.String(),
				s.LocalTotal.StringFixed(pointsPlaces),
				s.VisitorTotal.StringFixed(pointsPlaces),
			)
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteSeason writes the match, season and cumulative files of a scored
// season under dir. first is the first season of the chain.
func WriteSeason(dir string, first int, s Season) error {
	if err := WriteMatches(filepath.Join(dir, SeasonFile(s.Year)), s.Matches); err != nil {
		return err
	}
	if err := WriteRanking(filepath.Join(dir, RankingFile(s.Year)), s.Ranking); err != nil {
		return err
	}
	return WriteRanking(filepath.Join(dir, CumulativeFile(first, s.Year)), s.Cumulative)
}

// ReadRanking decodes an Equipo/Puntos table. A ';'-delimited file may
// use a decimal comma.
func ReadRanking(t *csvio.Table) (Ranking, error) {
	if err := t.Require("Equipo", "Puntos"); err != nil {
		return nil, err
	}
	out := make(Ranking, 0, len(t.Rows))
	for i, row := range t.Rows {
		raw := t.Get(row, "Puntos")
		if t.Comma == ';' {
			raw = strings.ReplaceAll(raw, ",", ".")
		}
		pts, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, &csvio.RowError{Line: i + 2, Err: fmt.Errorf("bad Puntos %q: %w", raw, err)}
		}
		out = append(out, Row{Team: t.Get(row, "Equipo"), Points: pts})
	}
	return out.Sorted(), nil
}
