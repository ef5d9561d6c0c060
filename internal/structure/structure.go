// Package structure summarizes how a season's regular phase was laid out:
// which teams played in each round, level, zone and group.
package structure

import (
	"sort"
	"strconv"
	"strings"

	"github.com/albapepper/febamba-data/internal/csvio"
	"github.com/albapepper/febamba-data/internal/provider"
)

// Entry is one (year, round, level, zone, group) cell of the layout.
type Entry struct {
	Year  int      `json:"anio"`
	Round string   `json:"ronda"`
	Level string   `json:"nivel"`
	Zone  string   `json:"zona"`
	Group string   `json:"grupo"`
	Teams []string `json:"equipos"`
}

// Count returns the number of distinct teams.
func (e Entry) Count() int { return len(e.Teams) }

// Valid reports whether a match has a known fase, ronda, nivel and zona.
func Valid(m provider.Match) bool {
	for _, v := range []string{m.Phase, m.Round, m.Level, m.Zone} {
		if provider.IsUnknown(v) {
			return false
		}
	}
	return true
}

// Split separates matches that Valid accepts from those it rejects.
func Split(matches []provider.Match) (valid, invalid []provider.Match) {
	for _, m := range matches {
		if Valid(m) {
			valid = append(valid, m)
		} else {
			invalid = append(invalid, m)
		}
	}
	return valid, invalid
}

type cell struct {
	year                      int
	round, level, zone, group string
}

// Summarize groups the valid regular-phase matches by cell and lists the
// distinct teams of each, sorted. Entries are ordered by year, zone,
// level and group.
func Summarize(matches []provider.Match) []Entry {
	teams := make(map[cell]map[string]bool)
	for _, m := range matches {
		if m.Phase != provider.PhaseRegular || !Valid(m) {
			continue
		}
		c := cell{m.Year, m.Round, m.Level, m.Zone, m.Group}
		if teams[c] == nil {
			teams[c] = make(map[string]bool)
		}
		teams[c][m.Local] = true
		teams[c][m.Visitor] = true
	}

	out := make([]Entry, 0, len(teams))
	for c, set := range teams {
		e := Entry{Year: c.year, Round: c.round, Level: c.level, Zone: c.zone, Group: c.group}
		for t := range set {
			e.Teams = append(e.Teams, t)
		}
		sort.Strings(e.Teams)
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.Year != b.Year:
			return a.Year < b.Year
		case a.Zone != b.Zone:
			return a.Zone < b.Zone
		case a.Level != b.Level:
			return a.Level < b.Level
		case a.Group != b.Group:
			return a.Group < b.Group
		}
		return a.Round < b.Round
	})
	return out
}

// WriteSummary writes anio,ronda,nivel,zona,grupo,cantidad_tiras,equipos.
func WriteSummary(path string, entries []Entry) error {
	return csvio.CreateFile(path, ',', func(w *csvio.Writer) error {
		if err := w.Write([]string{"anio", "ronda", "nivel", "zona", "grupo", "cantidad_tiras", "equipos"}); err != nil {
			return err
		}
		for _, e := range entries {
			rec := []string{
				strconv.Itoa(e.Year), e.Round, e.Level, e.Zone, e.Group,
				strconv.Itoa(e.Count()), strings.Join(e.Teams, ", "),
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
