package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"github.com/albapepper/febamba-data/internal/api/handler"
	"github.com/albapepper/febamba-data/internal/cache"
	"github.com/albapepper/febamba-data/internal/config"
	"github.com/albapepper/febamba-data/internal/metrics"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(q handler.Querier, appCache *cache.Cache, m *metrics.Metrics, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(m.Middleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(q, appCache, cfg, logger)

	// --- Routes ---

	r.Get("/", h.Root)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/seasons", h.GetSeasons)
		r.Get("/matches", h.GetMatches)
		r.Get("/misses", h.GetMisses)
		r.Get("/standings", h.GetStandings)
		r.Get("/rankings/latest", h.GetLatestRanking)
		r.Get("/rankings/{season}", h.GetRanking)
	})

	return r
}
