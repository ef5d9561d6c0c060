// Package gesdeportiva extracts fixtures from saved pages of the
// gesdeportiva results site (competicionescabb.gesdeportiva.es).
//
// A group page carries three dropdowns (DDLCategorias, DDLFases,
// DDLGrupos) with the current selection marked, and one table per matchday
// preceded by an h4 heading such as "SEMIFINAL - Jornada 2 - 12/10/2023".
// Pages are read from disk; fetching them is left to other tools.
package gesdeportiva

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/albapepper/febamba-data/internal/provider"
)

// Dropdown names.
const (
	SelectCategories = "DDLCategorias"
	SelectPhases     = "DDLFases"
	SelectGroups     = "DDLGrupos"
)

// ErrNoFixtures is returned for a page without a fixtures container.
var ErrNoFixtures = errors.New("no fixtures container")

// Option is one entry of a dropdown.
type Option struct {
	Value    string `json:"value"`
	Text     string `json:"text"`
	Selected bool   `json:"selected"`
}

// Fixture is one row of a matchday table, as printed.
type Fixture struct {
	Heading      string `json:"jornada"`
	Local        string `json:"local"`
	LocalScore   string `json:"ptsL"`
	VisitorScore string `json:"ptsV"`
	Visitor      string `json:"visitante"`
}

// Page is the content of one saved group page.
type Page struct {
	Categories []Option
	Phases     []Option
	Groups     []Option
	Fixtures   []Fixture
}

// Category returns the selected category label.
func (p *Page) Category() string { return selected(p.Categories) }

// Phase returns the selected phase label.
func (p *Page) Phase() string { return selected(p.Phases) }

// Group returns the selected group label; empty when the phase has no
// groups.
func (p *Page) Group() string { return selected(p.Groups) }

func selected(opts []Option) string {
	for _, o := range opts {
		if o.Selected {
			return o.Text
		}
	}
	return ""
}

// RawMatches returns every fixture of the page as a raw match of year.
// Unplayed fixtures are included; the normalizer skips them.
func (p *Page) RawMatches(year int) []provider.RawMatch {
	out := make([]provider.RawMatch, 0, len(p.Fixtures))
	for _, f := range p.Fixtures {
		out = append(out, provider.RawMatch{
			Year:          year,
			Category:      p.Category(),
			PhaseLabel:    p.Phase(),
			GroupLabel:    p.Group(),
			MatchdayLabel: f.Heading,
			Local:         f.Local,
			LocalScore:    f.LocalScore,
			Visitor:       f.Visitor,
			VisitorScore:  f.VisitorScore,
		})
	}
	return out
}

// ParsePage parses a saved group page.
func ParsePage(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	p := &Page{
		Categories: Options(doc, SelectCategories),
		Phases:     Options(doc, SelectPhases),
		Groups:     Options(doc, SelectGroups),
	}

	pane := doc.Find("div#ctl00_ContentPlaceHolder1_UpdatePanel1").First()
	if pane.Length() == 0 {
		pane = doc.Find("div#calendario").First()
	}
	if pane.Length() == 0 {
		return p, ErrNoFixtures
	}

	tables := pane.Find("table.tabla")
	if tables.Length() == 0 {
		tables = pane.Find("table")
	}

	var heading string
	tables.Each(func(_ int, table *goquery.Selection) {
		if h := table.PrevAllFiltered("h4").First(); h.Length() > 0 {
			heading = cellText(h)
		}
		table.Find("tr").Slice(1, goquery.ToEnd).Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 4 {
				return
			}
			p.Fixtures = append(p.Fixtures, Fixture{
				Heading:      heading,
				Local:        cellText(cells.Eq(0)),
				LocalScore:   cellText(cells.Eq(1)),
				VisitorScore: cellText(cells.Eq(2)),
				Visitor:      cellText(cells.Eq(3)),
			})
		})
	})
	return p, nil
}

// Options returns the real entries of a dropdown, skipping the "0" and
// "Seleccionar..." placeholders.
func Options(doc *goquery.Document, name string) []Option {
	var out []Option
	doc.Find(fmt.Sprintf("select[name=%q] option", name)).Each(func(_ int, s *goquery.Selection) {
		value, _ := s.Attr("value")
		text := cellText(s)
		if value == "" || value == "0" || strings.Contains(text, "Seleccionar") {
			return
		}
		_, sel := s.Attr("selected")
		out = append(out, Option{Value: value, Text: text, Selected: sel})
	})
	return out
}

func cellText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
