package seed

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/albapepper/febamba-data/internal/provider"
	"github.com/albapepper/febamba-data/internal/ranking"
	"github.com/albapepper/febamba-data/internal/report"
	"github.com/albapepper/febamba-data/internal/standings"
)

// Batch is everything one pipeline run produced.
type Batch struct {
	Command     string
	Versions    map[string]string
	Matches     []provider.Match
	Report      *report.Report
	Standings   []standings.Table
	Seasons     []ranking.Season
	FirstSeason int
}

// Load runs the full load flow: run -> matches -> misses -> standings ->
// rankings. Row failures are collected in the result; only a failure to
// open the run aborts.
func Load(ctx context.Context, db Execer, b Batch, logger *slog.Logger) SeedResult {
	var result SeedResult

	runID, err := StartRun(ctx, db, b.Command, b.Versions)
	if err != nil {
		result.AddErrorf("%v", err)
		return result
	}
	logger.Info("Load started", "run", runID, "command", b.Command)

	// 1. Matches
	for i, m := range b.Matches {
		if err := UpsertMatch(ctx, db, runID, m); err != nil {
			result.AddErrorf("upsert match %d %s: %v", m.Year, m.Key(), err)
		} else {
			result.MatchesUpserted++
		}
		if (i+1)%500 == 0 {
			logger.Info("Match load progress", "processed", i+1)
		}
	}
	logger.Info("Matches done", "count", result.MatchesUpserted)

	// 2. Parse misses
	if b.Report != nil {
		for _, e := range b.Report.Entries() {
			if err := InsertMiss(ctx, db, runID, e); err != nil {
				result.AddErrorf("insert miss %s %q: %v", e.Kind, e.Input, err)
			} else {
				result.MissesInserted++
			}
		}
		logger.Info("Parse misses done", "count", result.MissesInserted)
	}

	// 3. Standings
	for _, t := range b.Standings {
		for i, r := range t.Rows {
			if err := UpsertStanding(ctx, db, t, i+1, r); err != nil {
				result.AddErrorf("upsert standing %d/%s/%s: %v", t.Year, t.Scope, r.Team, err)
			} else {
				result.StandingsUpserted++
			}
		}
	}
	if len(b.Standings) > 0 {
		logger.Info("Standings done", "tables", len(b.Standings), "rows", result.StandingsUpserted)
	}

	// 4. Rankings, per season and cumulative
	for _, s := range b.Seasons {
		result.Add(loadRanking(ctx, db, runID, s.Year, b.FirstSeason, KindSeason, s.Ranking))
		result.Add(loadRanking(ctx, db, runID, s.Year, b.FirstSeason, KindCumulative, s.Cumulative))
	}
	if len(b.Seasons) > 0 {
		logger.Info("Rankings done", "seasons", len(b.Seasons), "rows", result.RankingsUpserted)
	}

	if err := FinishRun(ctx, db, runID, result.Summary()); err != nil {
		result.AddErrorf("finish run %s: %v", runID, err)
	}
	logger.Info("Load complete", "run", runID, "summary", result.Summary())
	return result
}

func loadRanking(ctx context.Context, db Execer, runID uuid.UUID, season, first int, kind string, r ranking.Ranking) SeedResult {
	var result SeedResult
	for i, row := range r.Sorted() {
		if err := UpsertRanking(ctx, db, runID, season, first, kind, i+1, row); err != nil {
			result.AddErrorf("upsert ranking %d/%s/%s: %v", season, kind, row.Team, err)
		} else {
			result.RankingsUpserted++
		}
	}
	return result
}
