package standings

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/albapepper/febamba-data/internal/provider"
)

// Scope says which slice of a season a table covers.
type Scope string

const (
	ScopeGroup   Scope = "group"
	ScopeZone    Scope = "zone"
	ScopeGeneral Scope = "general"
)

// Table is one sorted standings table. Category is empty for the general
// table and Group is empty for zone-wide tables.
type Table struct {
	Scope    Scope  `json:"scope"`
	Year     int    `json:"anio"`
	Category string `json:"categoria,omitempty"`
	Zone     string `json:"zona"`
	Group    string `json:"grupo,omitempty"`
	Rows     []Row  `json:"rows"`
}

// Path returns the table's location under an output root:
// <anio>/<zona>/<grupo>/<cat>/tabla.csv, <anio>/<zona>/<cat>/tabla.csv or
// <anio>/<zona>/tabla_general.csv.
func (t Table) Path(root string) string {
	dir := filepath.Join(root, strconv.Itoa(t.Year), segment(t.Zone))
	switch t.Scope {
	case ScopeGroup:
		return filepath.Join(dir, segment(t.Group), segment(t.Category), "tabla.csv")
	case ScopeZone:
		return filepath.Join(dir, segment(t.Category), "tabla.csv")
	}
	return filepath.Join(dir, "tabla_general.csv")
}

func segment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return provider.Unknown
	}
	return strings.NewReplacer("/", "-", `\`, "-").Replace(s)
}

type scopeKey struct {
	year                  int
	category, zone, group string
}

// Build computes every table of a set of matches: one per (category, zone,
// group), one per (category, zone) and a general table per zone across
// categories. JUVENILES is left out of the general tables. Tables come
// back ordered by scope, zone, group and category.
func Build(matches []provider.Match, p Policy) []Table {
	groups := make(map[scopeKey][]provider.Match)
	zones := make(map[scopeKey][]provider.Match)
	general := make(map[scopeKey][]provider.Match)

	for _, m := range matches {
		gk := scopeKey{m.Year, m.Category, m.Zone, m.Group}
		groups[gk] = append(groups[gk], m)

		zk := scopeKey{year: m.Year, category: m.Category, zone: m.Zone}
		zones[zk] = append(zones[zk], m)

		if strings.EqualFold(m.Category, provider.CategoryJuveniles) {
			continue
		}
		ak := scopeKey{year: m.Year, zone: m.Zone}
		general[ak] = append(general[ak], m)
	}

	var out []Table
	out = append(out, tables(ScopeGroup, groups, p, Options{})...)
	out = append(out, tables(ScopeZone, zones, p, Options{})...)
	out = append(out, tables(ScopeGeneral, general, p, Options{PresentationRecords: true})...)
	return out
}

func tables(scope Scope, byKey map[scopeKey][]provider.Match, p Policy, opts Options) []Table {
	keys := make([]scopeKey, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.year != b.year {
			return a.year < b.year
		}
		if a.zone != b.zone {
			return a.zone < b.zone
		}
		if a.group != b.group {
			return a.group < b.group
		}
		return a.category < b.category
	})

	out := make([]Table, 0, len(keys))
	for _, k := range keys {
		out = append(out, Table{
			Scope:    scope,
			Year:     k.year,
			Category: k.category,
			Zone:     k.zone,
			Group:    k.group,
			Rows:     Aggregate(byKey[k], p, opts),
		})
	}
	return out
}

// --------------------------------------------------------------------------
// CSV output
// --------------------------------------------------------------------------

var header = []string{"EQUIPO", "PJ", "PG", "PP", "NP", "PF", "PC", "DP", "puntos"}

// WriteCSV writes rows as EQUIPO,PJ,PG,PP,NP,PF,PC,DP,puntos.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Team,
			strconv.Itoa(r.Played),
			strconv.Itoa(r.Won),
			strconv.Itoa(r.Lost),
			strconv.Itoa(r.NoShows),
			strconv.Itoa(r.PointsFor),
			strconv.Itoa(r.PointsAgainst),
			strconv.Itoa(r.Diff()),
			strconv.Itoa(r.Points),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDir writes every table to its Path under root, creating directories
// as needed, and returns the number of files written.
func WriteDir(root string, tables []Table) (int, error) {
	for i, t := range tables {
		path := t.Path(root)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return i, fmt.Errorf("create %s: %w", filepath.Dir(path), err)
		}
		f, err := os.Create(path)
		if err != nil {
			return i, fmt.Errorf("create %s: %w", path, err)
		}
		if err := WriteCSV(f, t.Rows); err != nil {
			f.Close()
			return i, fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return i, fmt.Errorf("close %s: %w", path, err)
		}
	}
	return len(tables), nil
}
