// Command ingest is the FEBAMBA data pipeline CLI.
//
// Usage:
//
//	febamba-ingest extract --pages pages/2024 --year 2024 --out raw_2024.csv
//	febamba-ingest normalize --in raw.csv --out partidos.csv --misses misses.csv
//	febamba-ingest standings --in partidos.csv --out tablas --year 2025
//	febamba-ingest ranking --in partidos.csv --out ranking
//	febamba-ingest migrate up
//	febamba-ingest load --matches partidos.csv --rankings ranking
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/febamba-data/internal/config"
	"github.com/albapepper/febamba-data/internal/metrics"
	"github.com/albapepper/febamba-data/internal/refdata"
	"github.com/albapepper/febamba-data/internal/report"
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "febamba-ingest",
		Short:         "FEBAMBA tournament data pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(extractCmd())
	root.AddCommand(normalizeCmd())
	root.AddCommand(renormalizeCmd())
	root.AddCommand(auditCmd())
	root.AddCommand(standingsCmd())
	root.AddCommand(rankingCmd())
	root.AddCommand(structureCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(loadCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// env is what every command receives from runBatch.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	refs    *refdata.Set
	metrics *metrics.Metrics
}

// record counts every report entry as a problem metric.
func (e *env) record(rep *report.Report) {
	for _, entry := range rep.Entries() {
		e.metrics.Problem(entry.Kind)
	}
}

// runBatch handles config loading, reference data, metrics export and
// context cancellation. Commands that need Postgres connect inside fn.
func runBatch(command string, fn func(ctx context.Context, e *env) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	refs, err := refdata.Load(cfg.RefdataDir)
	if err != nil {
		return fmt.Errorf("load reference data: %w", err)
	}
	logger.Debug("Reference data loaded", "versions", refs.Versions(), "override", cfg.RefdataDir)

	e := &env{cfg: cfg, logger: logger, refs: refs, metrics: metrics.New()}
	start := time.Now()
	if err := fn(ctx, e); err != nil {
		return err
	}

	e.metrics.MarkRun(command, time.Now())
	if err := e.metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
		logger.Warn("Failed to write metrics textfile", "path", cfg.MetricsTextfile, "error", err)
	}
	logger.Info("Command finished", "command", command, "duration", time.Since(start).Round(time.Millisecond))
	return nil
}

// writeFile creates path and hands it to fn.
func writeFile(path string, fn func(f *os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
