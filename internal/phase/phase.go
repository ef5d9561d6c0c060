// Package phase parses the phase labels of the results site's "Fases"
// dropdown into the canonical {fase, ronda, nivel, zona, grupo} tuple.
//
// The labels have no stable grammar: each season's administrators wrote them
// differently, with typos. Every year therefore owns an ordered rule set;
// the first rule whose predicate holds assigns the fields it knows and the
// rest stay at the sentinels.
package phase

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/albapepper/febamba-data/internal/label"
	"github.com/albapepper/febamba-data/internal/provider"
)

// Canonical round names produced by the phase rules.
const (
	RoundFirst    = "1ra Fase"
	RoundSecond   = "2da Fase"
	RoundThird    = "3ra Fase"
	RoundEighths  = "Octavos de Final"
	RoundQuarters = "Cuartos de Final"
	RoundSemi     = "Semifinal"
	RoundFinal    = "Final"
	RoundEstimulo = "Estimulo"
	RoundPlayIn   = "Play In"
	RoundCopa     = "Copa Febamba"
)

// Result is the outcome of parsing one label.
type Result struct {
	Phase string `json:"fase"`
	Round string `json:"ronda"`
	Level string `json:"nivel"`
	Zone  string `json:"zona"`
	Group string `json:"grupo"`

	// Rule names the rule that matched; empty when none did.
	Rule string `json:"rule,omitempty"`
}

// Matched reports whether a rule claimed the label.
func (r Result) Matched() bool { return r.Rule != "" }

// Missing lists the fields of fase, ronda, nivel, zona still at a sentinel.
func (r Result) Missing() []string {
	var out []string
	for _, f := range []struct{ name, v string }{
		{"fase", r.Phase}, {"ronda", r.Round}, {"nivel", r.Level}, {"zona", r.Zone},
	} {
		if provider.IsUnknown(f.v) {
			out = append(out, f.name)
		}
	}
	return out
}

// Unmatched returns a result with every field at its sentinel.
func Unmatched() Result {
	return Result{
		Phase: provider.UnknownF,
		Round: provider.UnknownF,
		Level: provider.Unknown,
		Zone:  provider.UnknownF,
		Group: provider.Unknown,
	}
}

func (r *Result) set(phase, round string) {
	r.Phase = phase
	if round != "" {
		r.Round = round
	}
}

func (r *Result) interconference() {
	r.Level = provider.Interconferencia
	r.Zone = provider.Interconferencia
}

// Rule is one (predicate, extractor) pair. Both receive the cleaned label.
type Rule struct {
	Name  string
	Match func(text string) bool
	Apply func(text string, r *Result)
}

// Fixup rewrites a known typo before the rules run.
type Fixup struct {
	Pattern *regexp.Regexp
	Replace string
}

// RuleSet is the ordered rule list of one tournament year.
type RuleSet struct {
	Year   int
	Fixups []Fixup
	Rules  []Rule
}

func (rs RuleSet) clean(text string) string {
	t := label.Collapse(label.Upper(text))
	for _, f := range rs.Fixups {
		t = f.Pattern.ReplaceAllString(t, f.Replace)
	}
	return t
}

// Parser dispatches labels to the rule set of their year.
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
func (p *Parser) Register(rs RuleSet) {
	p.sets[rs.Year] = rs
}

// Years returns the years with a registered rule set, ascending.
func (p *Parser) Years() []int {
	years := make([]int, 0, len(p.sets))
	for y := range p.sets {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Parse returns the canonical tuple for a phase label. Labels of years
// without a rule set, labels no rule claims and rules that panic all yield
// Unmatched; a panic is logged and never propagated.
func (p *Parser) Parse(year int, text string) (res Result) {
	rs, ok := p.sets[year]
	if !ok {
		return Unmatched()
	}
	cleaned := rs.clean(text)

	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("phase rule panicked", "year", year, "label", text, "panic", rec)
			res = Unmatched()
		}
	}()

	res = Unmatched()
	for _, rule := range rs.Rules {
		if !rule.Match(cleaned) {
			continue
		}
		rule.Apply(cleaned, &res)
		res.Rule = rule.Name
		return res
	}
	return res
}

// --------------------------------------------------------------------------
// Predicate helpers
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

func is(s string) func(string) bool {
	return func(t string) bool { return t == s }
}

func not(pred func(string) bool) func(string) bool {
	return func(t string) bool { return !pred(t) }
}

func and(preds ...func(string) bool) func(string) bool {
	return func(t string) bool {
		for _, p := range preds {
			if !p(t) {
				return false
			}
		}
		return true
	}
}

// assign returns an extractor setting fixed values; empty strings are
// left untouched.
func assign(phase, round, level, zone string) func(string, *Result) {
	return func(_ string, r *Result) {
		r.set(phase, round)
		if level != "" {
			r.Level = level
		}
		if zone != "" {
			r.Zone = zone
		}
	}
}

func mustRe(expr string) *regexp.Regexp { return regexp.MustCompile(expr) }
