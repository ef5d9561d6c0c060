package seed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/albapepper/febamba-data/internal/provider"
	"github.com/albapepper/febamba-data/internal/ranking"
	"github.com/albapepper/febamba-data/internal/report"
	"github.com/albapepper/febamba-data/internal/standings"
)

// Execer is the part of pgxpool.Pool the loaders use.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Table names, matching migrations/sql.
const (
	RunsTable      = "ingest_runs"
	MatchesTable   = "matches"
	MissesTable    = "parse_misses"
	StandingsTable = "standings"
	RankingsTable  = "rankings"
)

// StartRun records a new ingest run and returns its id.
func StartRun(ctx context.Context, db Execer, command string, versions map[string]string) (uuid.UUID, error) {
	id := uuid.New()
	meta, err := json.Marshal(versions)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode refdata versions: %w", err)
	}
	_, err = db.Exec(ctx, `
		INSERT INTO `+RunsTable+` (id, command, refdata_versions)
		VALUES ($1, $2, $3)`,
		id, command, meta,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("start run: %w", err)
	}
	return id, nil
}

// FinishRun stamps a run's completion and summary.
func FinishRun(ctx context.Context, db Execer, id uuid.UUID, summary string) error {
	_, err := db.Exec(ctx, `
		UPDATE `+RunsTable+` SET finished_at = NOW(), summary = $2 WHERE id = $1`,
		id, summary,
	)
	return err
}

// UpsertMatch writes a normalized match. Unparsed scores are stored as
// NULL.
func UpsertMatch(ctx context.Context, db Execer, runID uuid.UUID, m provider.Match) error {
	var local, visitor *int
	if m.ScoreValid {
		local, visitor = &m.LocalScore, &m.VisitorScore
	}
	_, err := db.Exec(ctx, `
		INSERT INTO `+MatchesTable+` (
			anio, categoria, fase, ronda, nivel, zona, grupo, jornada, fecha,
			local, pts_local, visitante, pts_visitante, run_id
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (anio, categoria, fase, ronda, nivel, zona, grupo, jornada, local, visitante) DO UPDATE SET
			fecha = EXCLUDED.fecha,
			pts_local = EXCLUDED.pts_local,
			pts_visitante = EXCLUDED.pts_visitante,
			run_id = EXCLUDED.run_id,
			updated_at = NOW()`,
		m.Year, m.Category, m.Phase, m.Round, m.Level, m.Zone, m.Group, m.Matchday, m.Date,
		m.Local, local, m.Visitor, visitor, runID,
	)
	return err
}

// InsertMiss writes one report entry.
func InsertMiss(ctx context.Context, db Execer, runID uuid.UUID, e report.Entry) error {
	_, err := db.Exec(ctx, `
		INSERT INTO `+MissesTable+` (run_id, anio, categoria, tipo, campo, entrada, detalle)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		runID, e.Year, e.Category, string(e.Kind), e.Field, e.Input, e.Detail,
	)
	return err
}

// UpsertStanding writes one row of a standings table at position pos.
func UpsertStanding(ctx context.Context, db Execer, t standings.Table, pos int, r standings.Row) error {
	_, err := db.Exec(ctx, `
		INSERT INTO `+StandingsTable+` (
			anio, scope, categoria, zona, grupo, posicion, equipo,
			pj, pg, pp, np, pf, pc, puntos
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (anio, scope, categoria, zona, grupo, equipo) DO UPDATE SET
			posicion = EXCLUDED.posicion,
			pj = EXCLUDED.pj,
			pg = EXCLUDED.pg,
			pp = EXCLUDED.pp,
			np = EXCLUDED.np,
			pf = EXCLUDED.pf,
			pc = EXCLUDED.pc,
			puntos = EXCLUDED.puntos`,
		t.Year, string(t.Scope), t.Category, t.Zone, t.Group, pos, r.Team,
		r.Played, r.Won, r.Lost, r.NoShows, r.PointsFor, r.PointsAgainst, r.Points,
	)
	return err
}

// Ranking kinds stored in the rankings table.
const (
	KindSeason     = "season"
	KindCumulative = "cumulative"
)

// UpsertRanking writes one ranking row at position pos.
func UpsertRanking(ctx context.Context, db Execer, runID uuid.UUID, season, first int, kind string, pos int, r ranking.Row) error {
	_, err := db.Exec(ctx, `
		INSERT INTO `+RankingsTable+` (season, kind, first_season, posicion, equipo, puntos, run_id)
		VALUES ($1,$2,$3,$4,$5,$6::numeric,$7)
		ON CONFLICT (season, kind, equipo) DO UPDATE SET
			first_season = EXCLUDED.first_season,
			posicion = EXCLUDED.posicion,
			puntos = EXCLUDED.puntos,
			run_id = EXCLUDED.run_id`,
		season, kind, first, pos, r.Team, r.Points.String(), runID,
	)
	return err
}
