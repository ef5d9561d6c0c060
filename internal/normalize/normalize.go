// Package normalize turns raw fixtures into canonical match records: it
// runs the phase, group and matchday parsers, reconciles their fields,
// infers bracket rounds and normalizes team names, reporting every field it
// could not resolve.
package normalize

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/albapepper/febamba-data/internal/group"
	"github.com/albapepper/febamba-data/internal/jornada"
	"github.com/albapepper/febamba-data/internal/phase"
	"github.com/albapepper/febamba-data/internal/provider"
	"github.com/albapepper/febamba-data/internal/refdata"
	"github.com/albapepper/febamba-data/internal/report"
	"github.com/albapepper/febamba-data/internal/rounds"
	"github.com/albapepper/febamba-data/internal/teams"
)

// Outcome is what happened to one raw row.
type Outcome string

const (
	Kept            Outcome = "kept"
	SkippedCategory Outcome = "skipped_category"
	Unplayed        Outcome = "unplayed"
	DroppedPlayoff  Outcome = "dropped_playoff"
)

// Recorder observes row outcomes and reported problems.
type Recorder interface {
	Row(year int, outcome Outcome)
	Problem(kind report.Kind)
}

type nopRecorder struct{}

func (nopRecorder) Row(int, Outcome)    {}
func (nopRecorder) Problem(report.Kind) {}

// Stats counts row outcomes of one batch.
type Stats struct {
	Read            int `json:"read"`
	Kept            int `json:"kept"`
	SkippedCategory int `json:"skipped_category"`
	Unplayed        int `json:"unplayed"`
	DroppedPlayoff  int `json:"dropped_playoff"`
}

func (s *Stats) add(o Outcome) {
	s.Read++
	switch o {
	case Kept:
		s.Kept++
	case SkippedCategory:
		s.SkippedCategory++
	case Unplayed:
		s.Unplayed++
	case DroppedPlayoff:
		s.DroppedPlayoff++
	}
}

// String returns a one-line summary for logs.
func (s Stats) String() string {
	return fmt.Sprintf("read=%d kept=%d skipped_category=%d unplayed=%d dropped_playoff=%d",
		s.Read, s.Kept, s.SkippedCategory, s.Unplayed, s.DroppedPlayoff)
}

// Result is the outcome of a batch.
type Result struct {
	Matches []provider.Match
	Report  *report.Report
	Stats   Stats
}

// Normalizer holds the parsers and reference tables. It keeps no per-batch
// state and may be shared.
type Normalizer struct {
	phases     *phase.Parser
	groups     *group.Parser
	rounds     *rounds.Engine
	teams      *teams.Normalizer
	categories *teams.Categories
	logger     *slog.Logger
	recorder   Recorder
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithRecorder sets the outcome recorder.
func WithRecorder(r Recorder) Option {
	return func(n *Normalizer) { n.recorder = r }
}

// New builds a normalizer from the reference set.
func New(set *refdata.Set, logger *slog.Logger, opts ...Option) (*Normalizer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tn := teams.NewNormalizer(set.Teams.Aliases)
	engine, err := rounds.New(set.Rounds, set.Brackets, tn)
	if err != nil {
		return nil, fmt.Errorf("build round inference: %w", err)
	}
	n := &Normalizer{
		phases:     phase.New(logger),
		groups:     group.New(logger),
		rounds:     engine,
		teams:      tn,
		categories: teams.NewCategories(set.Categories.Names, set.Categories.Skip),
		logger:     logger,
		recorder:   nopRecorder{},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Teams returns the team-name normalizer.
func (n *Normalizer) Teams() *teams.Normalizer { return n.teams }

// Normalize converts a batch. Rows are independent: a problem in one row is
// reported and never stops the batch.
func (n *Normalizer) Normalize(raws []provider.RawMatch) Result {
	res := Result{Report: &report.Report{}}
	for _, raw := range raws {
		m, outcome := n.Match(raw, res.Report)
		res.Stats.add(outcome)
		n.recorder.Row(raw.Year, outcome)
		if outcome == Kept {
			res.Matches = append(res.Matches, m)
		}
	}
	for _, e := range res.Report.Entries() {
		n.recorder.Problem(e.Kind)
	}
	n.logger.Info("normalized matches", "stats", res.Stats.String(), "report", res.Report.Summary())
	return res
}

// Match normalizes one row, appending its problems to rep. The returned
// match is only meaningful when the outcome is Kept.
func (n *Normalizer) Match(raw provider.RawMatch, rep *report.Report) (provider.Match, Outcome) {
	category := n.categories.Canonical(raw.Category)
	if n.categories.Skip(category) {
		return provider.Match{}, SkippedCategory
	}
	if !raw.Played() {
		return provider.Match{}, Unplayed
	}

	ph := n.phases.Parse(raw.Year, raw.PhaseLabel)
	gr := n.groups.Parse(raw.Year, raw.PhaseLabel, raw.GroupLabel)
	hd := jornada.Parse(raw.MatchdayLabel)

	if ph.Phase == provider.PhasePlayoff && provider.IsPresentationOnly(category) {
		return provider.Match{}, DroppedPlayoff
	}

	zone := provider.Or(ph.Zone, gr.Zone)
	q := rounds.Query{
		Year:       raw.Year,
		Category:   category,
		Level:      provider.Or(ph.Level, gr.Level),
		Zone:       zone,
		Matchday:   hd.Matchday,
		Phase:      ph.Phase,
		PhaseLabel: raw.PhaseLabel,
		Local:      raw.Local,
		Visitor:    raw.Visitor,
	}
	inf, inferred := n.rounds.Infer(q)

	m := provider.Match{
		Year:     raw.Year,
		Category: category,
		Phase:    ph.Phase,
		Round:    reconcileRound(ph.Round, hd.Round, inf.Round),
		Level:    q.Level,
		Zone:     orSentinel(zone, provider.UnknownF),
		Group:    orSentinel(provider.Or(ph.Group, gr.Group), provider.Unknown),
		Matchday: hd.Matchday,
		Date:     hd.Date,
		Local:    n.teams.Normalize(raw.Local),
		Visitor:  n.teams.Normalize(raw.Visitor),
	}
	if inferred && !provider.IsUnknown(inf.Level) {
		m.Level = inf.Level
	}
	m.Level = orSentinel(m.Level, provider.Unknown)
	if inferred && inf.Key != "" && (ph.Phase == provider.PhasePlayoff || ph.Phase == provider.PhaseFinalFour) {
		m.Group = inf.Key
	}

	n.scores(raw, &m, rep)
	n.misses(raw, m, ph, inferred, rep)
	return m, Kept
}

// reconcileRound prefers the phase's round, then the heading's, then the
// inferred one.
func reconcileRound(fromPhase, fromHeading, inferred string) string {
	if !provider.IsUnknown(fromPhase) {
		return fromPhase
	}
	if fromHeading != "" {
		return fromHeading
	}
	return orSentinel(inferred, provider.UnknownF)
}

func orSentinel(v, sentinel string) string {
	if provider.IsUnknown(v) {
		return sentinel
	}
	return v
}

func (n *Normalizer) scores(raw provider.RawMatch, m *provider.Match, rep *report.Report) {
	l, okL := provider.ParseScore(raw.LocalScore)
	v, okV := provider.ParseScore(raw.VisitorScore)
	m.ScoreValid = okL && okV
	if !m.ScoreValid {
		rep.Add(report.Entry{
			Kind:     report.MalformedScore,
			Year:     raw.Year,
			Category: m.Category,
			Field:    "ptsL/ptsV",
			Input:    raw.LocalScore + "/" + raw.VisitorScore,
			Detail:   m.Key(),
		})
		n.logger.Debug("malformed score", "year", raw.Year, "match", m.Key(),
			"ptsL", raw.LocalScore, "ptsV", raw.VisitorScore)
		return
	}
	m.LocalScore, m.VisitorScore = l, v
}

func (n *Normalizer) misses(raw provider.RawMatch, m provider.Match, ph phase.Result, inferred bool, rep *report.Report) {
	input := raw.PhaseLabel + " | " + raw.GroupLabel
	for _, f := range []struct{ name, v string }{
		{"fase", m.Phase}, {"ronda", m.Round}, {"nivel", m.Level}, {"zona", m.Zone},
	} {
		if !provider.IsUnknown(f.v) {
			continue
		}
		rep.Add(report.Entry{
			Kind:     report.ParseMiss,
			Year:     raw.Year,
			Category: m.Category,
			Field:    f.name,
			Input:    input,
			Detail:   ruleDetail(ph),
		})
	}
	if inferred && provider.IsUnknown(m.Round) {
		rep.Add(report.Entry{
			Kind:     report.InferenceMiss,
			Year:     raw.Year,
			Category: m.Category,
			Field:    "ronda",
			Input:    strings.TrimSpace(raw.MatchdayLabel),
			Detail:   fmt.Sprintf("%s nivel=%s zona=%s llave=%s", m.Phase, m.Level, m.Zone, m.Key()),
		})
		n.logger.Debug("round not inferred", "year", raw.Year, "category", m.Category,
			"level", m.Level, "zone", m.Zone, "matchday", m.Matchday)
	}
}

func ruleDetail(ph phase.Result) string {
	if ph.Matched() {
		return "rule " + ph.Rule
	}
	return "no rule matched"
}

// Renormalize re-applies the team aliases to already normalized matches,
// for exports produced before an alias was added. Groups holding the old
// bracket key get the new one.
func (n *Normalizer) Renormalize(matches []provider.Match) []provider.Match {
	out := make([]provider.Match, len(matches))
	for i, m := range matches {
		oldKey := m.Key()
		m.Local = n.teams.Normalize(m.Local)
		m.Visitor = n.teams.Normalize(m.Visitor)
		if m.Group == oldKey {
			m.Group = m.Key()
		}
		out[i] = m
	}
	return out
}
