package normalize

import (
	"fmt"
	"strings"

	"github.com/albapepper/febamba-data/internal/csvio"
	"github.com/albapepper/febamba-data/internal/provider"
	"github.com/albapepper/febamba-data/internal/report"
)

// StructureRow is one distinct (year, phase label, group label) of the
// site, with the categories it appears under.
type StructureRow struct {
	Year       int
	Phase      string
	Group      string
	Categories []string
}

// Audit runs the phase and group parsers over every structure row and
// returns the rows that leave fase, ronda, nivel or zona unresolved.
func (n *Normalizer) Audit(rows []StructureRow) []report.LabelMiss {
	var misses []report.LabelMiss
	for _, row := range rows {
		ph := n.phases.Parse(row.Year, row.Phase)
		gr := n.groups.Parse(row.Year, row.Phase, row.Group)

		var missing []string
		for _, f := range []struct{ name, v string }{
			{"fase", ph.Phase},
			{"ronda", ph.Round},
			{"nivel", provider.Or(ph.Level, gr.Level)},
			{"zona", provider.Or(ph.Zone, gr.Zone)},
		} {
			if provider.IsUnknown(f.v) {
				missing = append(missing, f.name)
			}
		}
		if len(missing) == 0 {
			continue
		}
		n.logger.Debug("label audit miss", "year", row.Year, "phase", row.Phase, "group", row.Group, "missing", missing)
		misses = append(misses, report.LabelMiss{
			Year:       row.Year,
			Phase:      row.Phase,
			Group:      row.Group,
			Categories: row.Categories,
			Missing:    missing,
		})
	}
	return misses
}

// ReadStructure decodes an Anio,Fase,Grupo,Categorias export. Categories
// are comma separated.
func ReadStructure(t *csvio.Table) ([]StructureRow, error) {
	if err := t.Require("anio", "fase", "grupo"); err != nil {
		return nil, err
	}
	rows := make([]StructureRow, 0, len(t.Rows))
	for i, rec := range t.Rows {
		year, ok := provider.ParseYear(t.Get(rec, "anio"))
		if !ok {
			return nil, &csvio.RowError{Line: i + 2, Err: fmt.Errorf("bad anio %q", t.Get(rec, "anio"))}
		}
		var cats []string
		for _, c := range strings.Split(t.Get(rec, "categorias"), ",") {
			if c = strings.TrimSpace(c); c != "" {
				cats = append(cats, c)
			}
		}
		rows = append(rows, StructureRow{
			Year:       year,
			Phase:      t.Get(rec, "fase"),
			Group:      t.Get(rec, "grupo"),
			Categories: cats,
		})
	}
	return rows, nil
}
