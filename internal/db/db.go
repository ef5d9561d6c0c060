// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/febamba-data/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, StmtHealthCheck).Scan(&n)
}

// Prepared statement names.
const (
	StmtHealthCheck     = "health_check"
	StmtMatches         = "api_matches"
	StmtMisses          = "api_parse_misses"
	StmtStandings       = "api_standings"
	StmtRankings        = "api_rankings"
	StmtRankingLatest   = "api_ranking_latest"
	StmtAvailableSeason = "api_available_seasons"
)

// Statements maps every prepared statement name to its SQL. Read
// statements return one JSON document so handlers can pass it through.
var Statements = map[string]string{
	// Health
	StmtHealthCheck: "SELECT 1",

	// API: matches by season, optionally by category
	StmtMatches: `SELECT coalesce(json_agg(row_to_json(m) ORDER BY m.categoria, m.fase, m.zona, m.grupo, m.jornada, m.id), '[]')
		FROM (SELECT id, anio, categoria, fase, ronda, nivel, zona, grupo, jornada, fecha,
		             local, pts_local, visitante, pts_visitante
		      FROM matches WHERE anio = $1 AND ($2 = '' OR categoria = $2)) m`,

	// API: parse misses of the latest run touching a season
	StmtMisses: `SELECT coalesce(json_agg(row_to_json(p) ORDER BY p.tipo, p.categoria, p.campo), '[]')
		FROM (SELECT anio, categoria, tipo, campo, entrada, detalle FROM parse_misses
		      WHERE anio = $1
		        AND run_id = (SELECT run_id FROM parse_misses WHERE anio = $1
		                      ORDER BY id DESC LIMIT 1)) p`,

	// API: standings tables
	StmtStandings: `SELECT coalesce(json_agg(row_to_json(s) ORDER BY s.scope, s.zona, s.grupo, s.categoria, s.posicion), '[]')
		FROM (SELECT anio, scope, categoria, zona, grupo, posicion, equipo, pj, pg, pp, np, pf, pc,
		             pf - pc AS dp, puntos
		      FROM standings
		      WHERE anio = $1 AND ($2 = '' OR categoria = $2) AND ($3 = '' OR zona = $3)
		        AND ($4 = '' OR grupo = $4)) s`,

	// API: rankings
	StmtRankings: `SELECT coalesce(json_agg(row_to_json(r) ORDER BY r.posicion), '[]')
		FROM (SELECT season, kind, first_season, posicion, equipo, puntos
		      FROM rankings WHERE season = $1 AND kind = $2) r`,

	StmtRankingLatest: `SELECT coalesce(json_agg(row_to_json(r) ORDER BY r.posicion), '[]')
		FROM mv_ranking_latest r`,

	// API: seasons with data
	StmtAvailableSeason: `SELECT coalesce(json_agg(DISTINCT anio ORDER BY anio), '[]') FROM matches`,
}

// registerPreparedStatements registers all statements the API uses.
// Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	for name, sql := range Statements {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
