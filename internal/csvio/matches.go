package csvio

import (
	"fmt"
	"strconv"

	"github.com/albapepper/febamba-data/internal/provider"
)

// Column layouts of the two match exports.
var (
	MatchHeader = []string{
		"anio", "categoria", "fase", "ronda", "nivel", "zona", "grupo",
		"jornada", "fecha", "local", "ptsL", "visitante", "ptsV",
	}
	RawHeader = []string{
		"anio", "categoria", "fase", "grupo", "jornada", "local", "ptsL", "visitante", "ptsV",
	}
)

// RowError locates a row that could not be decoded. Line counts the header
// as line 1.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

func (t *Table) year(row []string, line int) (int, error) {
	raw := t.Get(row, "anio")
	y, ok := provider.ParseYear(raw)
	if !ok {
		return 0, &RowError{Line: line, Err: fmt.Errorf("bad anio %q", raw)}
	}
	return y, nil
}

// Matches decodes a normalized match export. Unparseable scores are kept
// with ScoreValid false; an unparseable year fails the whole file.
func (t *Table) Matches() ([]provider.Match, error) {
	if err := t.Require("anio", "categoria", "local", "ptsL", "visitante", "ptsV"); err != nil {
		return nil, err
	}
	out := make([]provider.Match, 0, len(t.Rows))
	for i, row := range t.Rows {
		y, err := t.year(row, i+2)
		if err != nil {
			return nil, err
		}
		m := provider.Match{
			Year:     y,
			Category: t.Get(row, "categoria"),
			Phase:    t.Get(row, "fase"),
			Round:    t.Get(row, "ronda"),
			Level:    t.Get(row, "nivel"),
			Zone:     t.Get(row, "zona"),
			Group:    t.Get(row, "grupo"),
			Matchday: t.Get(row, "jornada"),
			Date:     t.Get(row, "fecha"),
			Local:    t.Get(row, "local"),
			Visitor:  t.Get(row, "visitante"),
		}
		l, lok := provider.ParseScore(t.Get(row, "ptsL"))
		v, vok := provider.ParseScore(t.Get(row, "ptsV"))
		if lok && vok {
			m.LocalScore, m.VisitorScore, m.ScoreValid = l, v, true
		}
		out = append(out, m)
	}
	return out, nil
}

// RawMatches decodes a raw label export.
func (t *Table) RawMatches() ([]provider.RawMatch, error) {
	if err := t.Require(RawHeader...); err != nil {
		return nil, err
	}
	out := make([]provider.RawMatch, 0, len(t.Rows))
	for i, row := range t.Rows {
		y, err := t.year(row, i+2)
		if err != nil {
			return nil, err
		}
		out = append(out, provider.RawMatch{
			Year:          y,
			Category:      t.Get(row, "categoria"),
			PhaseLabel:    t.Get(row, "fase"),
			GroupLabel:    t.Get(row, "grupo"),
			MatchdayLabel: t.Get(row, "jornada"),
			Local:         t.Get(row, "local"),
			LocalScore:    t.Get(row, "ptsL"),
			Visitor:       t.Get(row, "visitante"),
			VisitorScore:  t.Get(row, "ptsV"),
		})
	}
	return out, nil
}

// MatchRecord renders m in MatchHeader order.
func MatchRecord(m provider.Match) []string {
	l, v := "", ""
	if m.ScoreValid {
		l, v = strconv.Itoa(m.LocalScore), strconv.Itoa(m.VisitorScore)
	}
	return []string{
		strconv.Itoa(m.Year), m.Category, m.Phase, m.Round, m.Level, m.Zone, m.Group,
		m.Matchday, m.Date, m.Local, l, m.Visitor, v,
	}
}

// RawRecord renders m in RawHeader order.
func RawRecord(m provider.RawMatch) []string {
	return []string{
		strconv.Itoa(m.Year), m.Category, m.PhaseLabel, m.GroupLabel, m.MatchdayLabel,
		m.Local, m.LocalScore, m.Visitor, m.VisitorScore,
	}
}

// WriteMatches writes a normalized export with the ';' delimiter.
func WriteMatches(path string, matches []provider.Match) error {
	return CreateFile(path, ';', func(w *Writer) error {
		if err := w.Write(MatchHeader); err != nil {
			return err
		}
		for _, m := range matches {
			if err := w.Write(MatchRecord(m)); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteRawMatches writes a raw label export with the ';' delimiter.
func WriteRawMatches(path string, raws []provider.RawMatch) error {
	return CreateFile(path, ';', func(w *Writer) error {
		if err := w.Write(RawHeader); err != nil {
			return err
		}
		for _, m := range raws {
			if err := w.Write(RawRecord(m)); err != nil {
				return err
			}
		}
		return nil
	})
}
