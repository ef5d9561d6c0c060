// Package group parses the labels of the results site's "Grupos" dropdown.
// What a group label means depends on the phase it sits under, so each
// year's rules select on the phase text and extract from the group text.
package group

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/albapepper/febamba-data/internal/label"
	"github.com/albapepper/febamba-data/internal/provider"
)

// Result holds the level, zone and group a group label yields.
type Result struct {
	Level string `json:"nivel"`
	Zone  string `json:"zona"`
	Group string `json:"grupo"`
	Rule  string `json:"rule,omitempty"`
}

// Matched reports whether a rule claimed the label.
func (r Result) Matched() bool { return r.Rule != "" }

// Unmatched returns a result with every field at its sentinel.
func Unmatched() Result {
	return Result{Level: provider.Unknown, Zone: provider.UnknownF, Group: provider.Unknown}
}

// Rule selects on the cleaned phase text and extracts from the cleaned
// group text.
type Rule struct {
	Name  string
	Match func(phase string) bool
	Apply func(phase, group string, r *Result)
}

// RuleSet is the ordered rule list of one year. Base, when set, replaces
// Unmatched as the starting point, including for labels no rule claims.
type RuleSet struct {
	Year  int
	Base  *Result
	Rules []Rule
}

func (rs RuleSet) start() Result {
	if rs.Base != nil {
		return *rs.Base
	}
	return Unmatched()
}

// Parser dispatches to the rule set of the label's year.
type Parser struct {
	sets   map[int]RuleSet
	logger *slog.Logger
}

// New returns a parser with the built-in rule sets registered.
func New(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Parser{sets: make(map[int]RuleSet), logger: logger}
	for _, rs := range []RuleSet{rules2019(), rules2022(), rules2023(), rules2024(), rules2025()} {
		p.Register(rs)
	}
	return p
}

// Register adds or replaces the rule set of rs.Year.
func (p *Parser) Register(rs RuleSet) { p.sets[rs.Year] = rs }

// Years returns the years with a registered rule set, ascending.
func (p *Parser) Years() []int {
	years := make([]int, 0, len(p.sets))
	for y := range p.sets {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Parse returns the level, zone and group carried by groupText under
// phaseText. An empty group label yields sentinels; a year without rules
// keeps the upper-cased label as the group.
func (p *Parser) Parse(year int, phaseText, groupText string) (res Result) {
	groupClean := Clean(groupText)
	if groupClean == "" {
		return Unmatched()
	}
	rs, ok := p.sets[year]
	if !ok {
		res = Unmatched()
		res.Group = groupClean
		return res
	}
	phaseClean := label.Collapse(label.Upper(phaseText))

	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("group rule panicked",
				"year", year, "phase", phaseText, "group", groupText, "panic", rec)
			res = rs.start()
			res.Rule = ""
		}
	}()

	res = rs.start()
	for _, rule := range rs.Rules {
		if !rule.Match(phaseClean) {
			continue
		}
		rule.Apply(phaseClean, groupClean, &res)
		res.Rule = rule.Name
		return res
	}
	return res
}

// Clean upper-cases a group label, folds typographic and doubled quotes to
// a single ASCII double quote and collapses whitespace.
func Clean(s string) string {
	return label.Collapse(label.FoldQuotes(label.Upper(s)))
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func has(subs ...string) func(string) bool {
	return func(t string) bool { return label.ContainsAny(t, subs...) }
}

func hasAll(subs ...string) func(string) bool {
	return func(t string) bool {
		for _, s := range subs {
			if !strings.Contains(t, s) {
				return false
			}
		}
		return true
	}
}

func mustRe(expr string) *regexp.Regexp { return regexp.MustCompile(expr) }

// capture copies the capture groups of re into dst in order and reports
// whether re matched.
func capture(re *regexp.Regexp, s string, dst ...*string) bool {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	for i, d := range dst {
		if d != nil {
			*d = m[i+1]
		}
	}
	return true
}

func orUnico(g string) string {
	if g == "" {
		return provider.GroupUnico
	}
	return g
}
