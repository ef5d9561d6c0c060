package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/albapepper/febamba-data/internal/csvio"
	"github.com/albapepper/febamba-data/internal/normalize"
	"github.com/albapepper/febamba-data/internal/provider"
	"github.com/albapepper/febamba-data/internal/provider/gesdeportiva"
	"github.com/albapepper/febamba-data/internal/ranking"
	"github.com/albapepper/febamba-data/internal/report"
	"github.com/albapepper/febamba-data/internal/standings"
	"github.com/albapepper/febamba-data/internal/structure"
)

// Output file names under --out directories.
const (
	structureFile = "estructura_fase_regular.csv"
	invalidFile   = "partidos_invalidos.csv"
)

// --------------------------------------------------------------------------
// extract
// --------------------------------------------------------------------------

func extractCmd() *cobra.Command {
	var pages, out string
	var year int
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract raw fixtures from saved group pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch("extract", func(ctx context.Context, e *env) error {
				if url, ok := e.refs.Tournaments.URL(year); ok {
					e.logger.Info("Extracting tournament", "year", year, "source", url)
				}
				res, err := gesdeportiva.NewExtractor(e.logger).ExtractDir(pages, year)
				if err != nil {
					return err
				}
				if err := csvio.WriteRawMatches(out, res.Matches); err != nil {
					return err
				}
				e.logger.Info("Raw fixtures written", "path", out, "rows", len(res.Matches), "skipped_pages", len(res.Skipped))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&pages, "pages", "", "Directory of saved group pages")
	cmd.Flags().IntVar(&year, "year", 0, "Tournament year")
	cmd.Flags().StringVar(&out, "out", "", "Raw CSV output path")
	cmd.MarkFlagRequired("pages")
	cmd.MarkFlagRequired("year")
	cmd.MarkFlagRequired("out")
	return cmd
}

// --------------------------------------------------------------------------
// normalize / renormalize / audit
// --------------------------------------------------------------------------

func normalizeCmd() *cobra.Command {
	var in, out, misses string
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize raw fixtures into canonical matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch("normalize", func(ctx context.Context, e *env) error {
				tbl, err := csvio.ReadFile(in)
				if err != nil {
					return err
				}
				raws, err := tbl.RawMatches()
				if err != nil {
					return fmt.Errorf("%s: %w", in, err)
				}
				e.logger.Info("Raw fixtures read", "path", in, "rows", len(raws), "encoding", tbl.Encoding)

				n, err := normalize.New(e.refs, e.logger, normalize.WithRecorder(e.metrics))
				if err != nil {
					return err
				}
				res := n.Normalize(raws)
				if err := csvio.WriteMatches(out, res.Matches); err != nil {
					return err
				}
				if misses != "" {
					if err := writeFile(misses, func(f *os.File) error { return res.Report.WriteCSV(f) }); err != nil {
						return err
					}
				}
				e.logger.Info("Matches normalized",
					"path", out, "stats", res.Stats.String(), "problems", res.Report.Summary())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Raw CSV input")
	cmd.Flags().StringVar(&out, "out", "", "Normalized CSV output")
	cmd.Flags().StringVar(&misses, "misses", "", "Problem report CSV output (optional)")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("out")
	return cmd
}

func renormalizeCmd() *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "renormalize",
		Short: "Re-apply team aliases to a normalized CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch("renormalize", func(ctx context.Context, e *env) error {
				matches, err := readMatches(in)
				if err != nil {
					return err
				}
				n, err := normalize.New(e.refs, e.logger)
				if err != nil {
					return err
				}
				if err := csvio.WriteMatches(out, n.Renormalize(matches)); err != nil {
					return err
				}
				e.logger.Info("Teams renormalized", "path", out, "rows", len(matches), "aliases", n.Teams().Len())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Normalized CSV input")
	cmd.Flags().StringVar(&out, "out", "", "Normalized CSV output")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("out")
	return cmd
}

func auditCmd() *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Report phase and group labels the parsers cannot resolve",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch("audit", func(ctx context.Context, e *env) error {
				tbl, err := csvio.ReadFile(in)
				if err != nil {
					return err
				}
				rows, err := normalize.ReadStructure(tbl)
				if err != nil {
					return fmt.Errorf("%s: %w", in, err)
				}
				n, err := normalize.New(e.refs, e.logger)
				if err != nil {
					return err
				}
				misses := n.Audit(rows)
				if err := writeFile(out, func(f *os.File) error { return report.WriteLabelAudit(f, misses) }); err != nil {
					return err
				}
				e.logger.Info("Label audit written", "path", out, "labels", len(rows), "misses", len(misses))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Structure CSV (Anio,Fase,Grupo,Categorias)")
	cmd.Flags().StringVar(&out, "out", "", "Audit CSV output")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("out")
	return cmd
}

// --------------------------------------------------------------------------
// standings / ranking / structure
// --------------------------------------------------------------------------

func standingsCmd() *cobra.Command {
	var in, out, policy string
	var year int
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Build group, zone and general league tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch("standings", func(ctx context.Context, e *env) error {
				p, ok := standings.PolicyByName(policy)
				if !ok {
					return fmt.Errorf("unknown policy %q", policy)
				}
				matches, err := readMatches(in)
				if err != nil {
					return err
				}
				tables := standings.Build(filterYear(matches, year), p)
				n, err := standings.WriteDir(out, tables)
				if err != nil {
					return err
				}
				e.logger.Info("Standings written", "dir", out, "policy", p.Name(), "tables", n)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Normalized CSV input")
	cmd.Flags().StringVar(&out, "out", "", "Output directory")
	cmd.Flags().IntVar(&year, "year", 0, "Only this season (0 = all)")
	cmd.Flags().StringVar(&policy, "policy", "league", "Points policy (league, winloss)")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("out")
	return cmd
}

func rankingCmd() *cobra.Command {
	var in, out, prev, misses string
	var from int
	cmd := &cobra.Command{
		Use:   "ranking",
		Short: "Score seasons into the weighted historical ranking",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch("ranking", func(ctx context.Context, e *env) error {
				matches, err := readMatches(in)
				if err != nil {
					return err
				}
				scorer := ranking.NewScorer(ranking.NewWeights(e.refs.Weights), e.logger)
				chain, err := startChain(scorer, from, prev)
				if err != nil {
					return err
				}

				rep := &report.Report{}
				_, seasons, foldErr := chain.Fold(ranking.GroupBySeason(matches), rep)
				first := scorer.Weights().SeasonOrder()[0]
				for _, s := range seasons {
					if err := ranking.WriteSeason(out, first, s); err != nil {
						return err
					}
					e.metrics.Season("scored")
					e.logger.Info("Season written", "season", s.Year, "teams", len(s.Ranking))
				}
				e.record(rep)
				if misses != "" {
					if err := writeFile(misses, func(f *os.File) error { return rep.WriteCSV(f) }); err != nil {
						return err
					}
				}

				var seqErr *ranking.SequenceError
				if errors.As(foldErr, &seqErr) {
					e.metrics.Season("aborted")
				}
				return foldErr
			})
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Normalized CSV input")
	cmd.Flags().StringVar(&out, "out", "", "Output directory")
	cmd.Flags().IntVar(&from, "from", 0, "Resume at this season")
	cmd.Flags().StringVar(&prev, "prev", "", "Cumulative ranking CSV through the season before --from")
	cmd.Flags().StringVar(&misses, "misses", "", "Problem report CSV output (optional)")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("out")
	return cmd
}

// startChain starts at the first season, or resumes at from with the
// ranking read from prev.
func startChain(s *ranking.Scorer, from int, prev string) (ranking.Chain, error) {
	if from == 0 {
		return ranking.NewChain(s), nil
	}
	var reference ranking.Ranking
	if prev != "" {
		tbl, err := csvio.ReadFile(prev)
		if err != nil {
			return ranking.Chain{}, err
		}
		if reference, err = ranking.ReadRanking(tbl); err != nil {
			return ranking.Chain{}, fmt.Errorf("%s: %w", prev, err)
		}
	}
	return ranking.Resume(s, from, reference)
}

func structureCmd() *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "structure",
		Short: "Summarize regular-phase groups and list invalid matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch("structure", func(ctx context.Context, e *env) error {
				matches, err := readMatches(in)
				if err != nil {
					return err
				}
				valid, invalid := structure.Split(matches)
				entries := structure.Summarize(valid)
				if err := structure.WriteSummary(filepath.Join(out, structureFile), entries); err != nil {
					return err
				}
				if err := csvio.WriteMatches(filepath.Join(out, invalidFile), invalid); err != nil {
					return err
				}
				e.logger.Info("Structure written", "dir", out, "groups", len(entries), "invalid", len(invalid))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Normalized CSV input")
	cmd.Flags().StringVar(&out, "out", "", "Output directory")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("out")
	return cmd
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func readMatches(path string) ([]provider.Match, error) {
	tbl, err := csvio.ReadFile(path)
	if err != nil {
		return nil, err
	}
	matches, err := tbl.Matches()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return matches, nil
}

func filterYear(matches []provider.Match, year int) []provider.Match {
	if year == 0 {
		return matches
	}
	var out []provider.Match
	for _, m := range matches {
		if m.Year == year {
			out = append(out, m)
		}
	}
	return out
}
