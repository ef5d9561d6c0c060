package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/febamba-data/internal/api/respond"
	"github.com/albapepper/febamba-data/internal/cache"
	"github.com/albapepper/febamba-data/internal/db"
)

// Ranking kinds accepted by GetRanking.
const (
	KindSeason     = "season"
	KindCumulative = "cumulative"
)

// GetSeasons returns the seasons that have matches loaded.
func (h *Handler) GetSeasons(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "seasons", h.cfg.CacheTTL, db.StmtAvailableSeason)
}

// GetMatches returns the normalized matches of a season, optionally of
// one category.
func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(w, r.URL.Query().Get("year"))
	if !ok {
		return
	}
	category := upperParam(r, "category")

	key := fmt.Sprintf("matches:%d:%s", year, category)
	h.serve(w, r, key, h.seasonTTL(year), db.StmtMatches, year, category)
}

// GetMisses returns the parse misses of the latest run for a season.
func (h *Handler) GetMisses(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(w, r.URL.Query().Get("year"))
	if !ok {
		return
	}
	h.serve(w, r, fmt.Sprintf("misses:%d", year), h.cfg.CacheTTL, db.StmtMisses, year)
}

// GetStandings returns standings tables filtered by category, zone and
// group. Empty filters match everything.
func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearParam(w, r.URL.Query().Get("year"))
	if !ok {
		return
	}
	category := upperParam(r, "category")
	zone := upperParam(r, "zone")
	group := upperParam(r, "group")

	key := fmt.Sprintf("standings:%d:%s:%s:%s", year, category, zone, group)
	h.serve(w, r, key, h.seasonTTL(year), db.StmtStandings, year, category, zone, group)
}

// GetRanking returns a season's ranking, or the cumulative ranking through
// that season with kind=cumulative.
func (h *Handler) GetRanking(w http.ResponseWriter, r *http.Request) {
	season, ok := h.yearParam(w, chi.URLParam(r, "season"))
	if !ok {
		return
	}
	kind := strings.ToLower(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = KindSeason
	}
	if kind != KindSeason && kind != KindCumulative {
		respond.WriteError(w, http.StatusBadRequest, respond.CodeInvalidParam,
			"kind must be 'season' or 'cumulative'")
		return
	}

	key := fmt.Sprintf("ranking:%d:%s", season, kind)
	h.serve(w, r, key, h.seasonTTL(season), db.StmtRankings, season, kind)
}

// GetLatestRanking returns the most recent cumulative ranking from the
// mv_ranking_latest view.
func (h *Handler) GetLatestRanking(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "ranking:latest", cache.TTLLatest, db.StmtRankingLatest)
}

func (h *Handler) yearParam(w http.ResponseWriter, raw string) (int, bool) {
	if raw == "" {
		respond.WriteError(w, http.StatusBadRequest, respond.CodeMissingParam, "year is required")
		return 0, false
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, respond.CodeInvalidParam, "year must be an integer")
		return 0, false
	}
	if err := h.validYear(year); err != nil {
		respond.WriteError(w, http.StatusBadRequest, respond.CodeInvalidParam, err.Error())
		return 0, false
	}
	return year, true
}

func upperParam(r *http.Request, name string) string {
	return strings.ToUpper(strings.TrimSpace(r.URL.Query().Get(name)))
}
