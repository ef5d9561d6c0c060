package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/albapepper/febamba-data/internal/config"
	"github.com/albapepper/febamba-data/internal/csvio"
	"github.com/albapepper/febamba-data/internal/db"
	"github.com/albapepper/febamba-data/internal/maintenance"
	"github.com/albapepper/febamba-data/internal/migrations"
	"github.com/albapepper/febamba-data/internal/ranking"
	"github.com/albapepper/febamba-data/internal/report"
	"github.com/albapepper/febamba-data/internal/seed"
	"github.com/albapepper/febamba-data/internal/standings"
)

// --------------------------------------------------------------------------
// migrate command
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrator("migrate", func(ctx context.Context, mg *migrations.Migrator, e *env) error {
				return mg.Up()
			})
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrator("migrate", func(ctx context.Context, mg *migrations.Migrator, e *env) error {
				return mg.Down(steps)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrator("migrate", func(ctx context.Context, mg *migrations.Migrator, e *env) error {
				v, dirty, ok, err := mg.Version()
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", v, dirty)
				return nil
			})
		},
	})
	return cmd
}

func runMigrator(command string, fn func(ctx context.Context, mg *migrations.Migrator, e *env) error) error {
	return runBatch(command, func(ctx context.Context, e *env) error {
		if err := e.cfg.RequireDatabase(); err != nil {
			return err
		}
		mg, err := migrations.New(e.cfg.DatabaseURL, e.logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := mg.Close(); err != nil {
				e.logger.Warn("Failed to close migrator", "error", err)
			}
		}()
		return fn(ctx, mg, e)
	})
}

// --------------------------------------------------------------------------
// load command
// --------------------------------------------------------------------------

func loadCmd() *cobra.Command {
	var matchesPath, rankingsDir string
	var standingsYear int
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load matches, standings and rankings into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrator("load", func(ctx context.Context, mg *migrations.Migrator, e *env) error {
				if err := mg.Up(); err != nil {
					return err
				}
				return runLoad(ctx, e, matchesPath, rankingsDir, standingsYear)
			})
		},
	}
	cmd.Flags().StringVar(&matchesPath, "matches", "", "Normalized CSV input")
	cmd.Flags().StringVar(&rankingsDir, "rankings", "", "Ranking output directory (empty = score from the matches)")
	cmd.Flags().IntVar(&standingsYear, "standings-year", 0, "Only build standings for this season (0 = all)")
	cmd.MarkFlagRequired("matches")
	return cmd
}

func runLoad(ctx context.Context, e *env, matchesPath, rankingsDir string, standingsYear int) error {
	matches, err := readMatches(matchesPath)
	if err != nil {
		return err
	}

	scorer := ranking.NewScorer(ranking.NewWeights(e.refs.Weights), e.logger)
	order := scorer.Weights().SeasonOrder()
	rep := &report.Report{}

	var seasons []ranking.Season
	if rankingsDir != "" {
		seasons, err = readSeasons(rankingsDir, order)
		if err != nil {
			return err
		}
	} else {
		_, seasons, err = ranking.NewChain(scorer).Fold(ranking.GroupBySeason(matches), rep)
		var seqErr *ranking.SequenceError
		if err != nil && !errors.As(err, &seqErr) {
			return err
		}
		if err != nil {
			e.logger.Warn("Ranking chain stopped early", "error", err, "seasons", len(seasons))
		}
	}
	e.record(rep)

	pool, err := connect(ctx, e.cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	result := seed.Load(ctx, pool, seed.Batch{
		Command:     "load",
		Versions:    e.refs.Versions(),
		Matches:     matches,
		Report:      rep,
		Standings:   standings.Build(filterYear(matches, standingsYear), standings.LeaguePolicy{}),
		Seasons:     seasons,
		FirstSeason: order[0],
	}, e.logger)
	for _, msg := range result.Errors {
		e.logger.Error("load error", "error", msg)
	}

	if err := maintenance.RefreshMaterializedViews(ctx, pool, e.logger); err != nil {
		return err
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("load finished with %d errors", len(result.Errors))
	}
	return nil
}

func connect(ctx context.Context, cfg *config.Config) (*db.Pool, error) {
	pool, err := db.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return pool, nil
}

// readSeasons reads the season and cumulative rankings written by the
// ranking command, stopping at the first season without files.
func readSeasons(dir string, order []int) ([]ranking.Season, error) {
	var out []ranking.Season
	for _, year := range order {
		season, err := readRanking(filepath.Join(dir, ranking.RankingFile(year)))
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		if err != nil {
			return nil, err
		}
		cumulative, err := readRanking(filepath.Join(dir, ranking.CumulativeFile(order[0], year)))
		if err != nil {
			return nil, err
		}
		out = append(out, ranking.Season{Year: year, Ranking: season, Cumulative: cumulative})
	}
	return out, nil
}

func readRanking(path string) (ranking.Ranking, error) {
	tbl, err := csvio.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := ranking.ReadRanking(tbl)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}
