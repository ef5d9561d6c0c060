// Package maintenance runs database housekeeping: refreshing the ranking
// view after loads and, for the API, on a ticker.
package maintenance

import (
	"context"
	"log/slog"
	"time"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	RefreshInterval time.Duration // Materialized view refresh
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		RefreshInterval: 1 * time.Hour,
	}
}

// Start launches the configured tickers. Blocks until ctx is cancelled.
// Intended to be called with `go`.
func Start(ctx context.Context, db Execer, cfg Config, logger *slog.Logger) {
	if cfg.RefreshInterval <= 0 {
		logger.Info("Maintenance disabled")
		return
	}
	logger.Info("Maintenance ticker started", "refresh", cfg.RefreshInterval)

	t := time.NewTicker(cfg.RefreshInterval)
	defer t.Stop()
	runLoop(ctx, t.C, func() {
		if err := RefreshMaterializedViews(ctx, db, logger); err != nil {
			logger.Error("Scheduled refresh failed", "error", err)
		}
	})
	logger.Info("Maintenance ticker stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}
