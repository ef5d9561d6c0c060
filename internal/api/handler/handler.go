// Package handler provides HTTP handlers for all API endpoints.
// Handlers query Postgres directly through prepared statements that return
// complete JSON; handlers pass raw bytes through.
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/albapepper/febamba-data/internal/api/respond"
	"github.com/albapepper/febamba-data/internal/cache"
	"github.com/albapepper/febamba-data/internal/config"
	"github.com/albapepper/febamba-data/internal/db"
)

// Querier is the part of pgxpool.Pool the handlers use.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	db     Querier
	cache  *cache.Cache
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Handler with shared dependencies.
func New(q Querier, c *cache.Cache, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		db:     q,
		cache:  c,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Root serves API info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "FEBAMBA Data API",
		"version": "1.0.0",
		"status":  "running",
		"endpoints": []string{
			"/api/v1/seasons",
			"/api/v1/matches",
			"/api/v1/misses",
			"/api/v1/standings",
			"/api/v1/rankings/latest",
			"/api/v1/rankings/{season}",
			"/metrics",
		},
	})
}

// HealthCheck returns basic health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	var n int
	if err := h.db.QueryRow(r.Context(), db.StmtHealthCheck).Scan(&n); err != nil {
		h.logger.Warn("Database health check failed", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": h.now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// serve answers from cache or runs a prepared statement and caches its JSON.
func (h *Handler) serve(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration, stmt string, args ...any) {
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	var raw []byte
	err := h.db.QueryRow(r.Context(), stmt, args...).Scan(&raw)
	switch {
	case errors.Is(err, pgx.ErrNoRows) || (err == nil && raw == nil):
		respond.WriteError(w, http.StatusNotFound, respond.CodeNotFound, "No data found")
		return
	case err != nil:
		h.logger.Error("Query failed", "statement", stmt, "error", err)
		respond.WriteError(w, http.StatusServiceUnavailable, respond.CodeUnavailable, "Query failed")
		return
	}

	etag := h.cache.Set(key, raw, ttl)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, raw, etag, ttl, false)
}

// seasonTTL caches closed seasons longer than the current one.
func (h *Handler) seasonTTL(year int) time.Duration {
	if year < h.now().Year() {
		return cache.TTLHistorical
	}
	return h.cfg.CacheTTL
}

func (h *Handler) validYear(year int) error {
	latest := h.now().Year() + 1
	if year < 2000 || year > latest {
		return fmt.Errorf("year must be between 2000 and %d", latest)
	}
	return nil
}
