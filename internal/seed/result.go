// Package seed loads normalized matches, parse misses, standings and
// rankings into Postgres.
package seed

import "fmt"

// SeedResult tracks counts and errors from a load.
type SeedResult struct {
	MatchesUpserted   int
	MissesInserted    int
	StandingsUpserted int
	RankingsUpserted  int
	Errors            []string
}

// Add merges another SeedResult into this one.
func (r *SeedResult) Add(other SeedResult) {
	r.MatchesUpserted += other.MatchesUpserted
	r.MissesInserted += other.MissesInserted
	r.StandingsUpserted += other.StandingsUpserted
	r.RankingsUpserted += other.RankingsUpserted
	r.Errors = append(r.Errors, other.Errors...)
}

// AddError records an error message.
func (r *SeedResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddErrorf records a formatted error message.
func (r *SeedResult) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the load.
func (r *SeedResult) Summary() string {
	return fmt.Sprintf(
		"matches=%d misses=%d standings=%d rankings=%d errors=%d",
		r.MatchesUpserted, r.MissesInserted,
		r.StandingsUpserted, r.RankingsUpserted,
		len(r.Errors),
	)
}
