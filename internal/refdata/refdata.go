// Package refdata loads the versioned reference tables the normalizer and
// scorers depend on: team aliases, category names, historical Final Four
// brackets, playoff matchday structures, ranking weights and the tournament
// registry.
//
// The tables ship embedded from data/*.json. A directory holding files with
// the same names can replace any of them at startup (REFDATA_DIR).
package refdata

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

//go:embed data/*.json
var embedded embed.FS

// File names inside the data directory.
const (
	TeamsFile       = "teams.json"
	CategoriesFile  = "categories.json"
	BracketsFile    = "brackets.json"
	RoundsFile      = "rounds.json"
	WeightsFile     = "weights.json"
	TournamentsFile = "tournaments.json"
)

// ErrAliasChain is returned when a canonical team name is itself an alias
// of another name, which would make normalization non-idempotent.
var ErrAliasChain = errors.New("alias chain")

// --------------------------------------------------------------------------
// Table shapes
// --------------------------------------------------------------------------

type TeamAliases struct {
	Version string            `json:"version" validate:"required"`
	Aliases map[string]string `json:"aliases" validate:"dive,keys,required,endkeys,required"`
}

type Categories struct {
	Version string            `json:"version" validate:"required"`
	Names   map[string]string `json:"names" validate:"min=1,dive,keys,required,endkeys,required"`
	Skip    []string          `json:"skip" validate:"dive,required"`
}

type BracketPair struct {
	Level string `json:"level" validate:"required"`
	Pair  string `json:"pair" validate:"required,contains=-"`
}

type BracketTable struct {
	Year     int           `json:"year" validate:"required,gte=2000"`
	Category string        `json:"category" validate:"required"`
	Round    string        `json:"round" validate:"required,oneof=SEMIFINAL FINAL"`
	Pairs    []BracketPair `json:"pairs" validate:"min=1,dive"`
}

type Brackets struct {
	Version       string         `json:"version" validate:"required"`
	ReferenceYear int            `json:"reference_year" validate:"required,gte=2000"`
	Tables        []BracketTable `json:"tables" validate:"min=1,dive"`
}

// PlayoffStructure maps matchdays onto ladder slots for one
// (year, category, levels, zone) combination. An empty Zone applies to any
// zone not covered by a more specific entry. An empty slot never matches.
type PlayoffStructure struct {
	Year     int      `json:"year" validate:"required,gte=2000"`
	Category string   `json:"category" validate:"required"`
	Levels   []string `json:"levels" validate:"min=1,dive,required"`
	Zone     string   `json:"zone"`
	Slots    [][]int  `json:"slots" validate:"min=1,max=4"`
}

type QuarterfinalLabel struct {
	Year  int    `json:"year" validate:"required"`
	Label string `json:"label" validate:"required"`
}

type Rounds struct {
	Version              string              `json:"version" validate:"required"`
	Ladder               []string            `json:"ladder" validate:"len=4,dive,required"`
	Structures           []PlayoffStructure  `json:"structures" validate:"dive"`
	PlayoffByMatchday    map[int]string      `json:"playoff_by_matchday" validate:"min=1"`
	FinalFourByMatchday  map[int]string      `json:"final_four_by_matchday" validate:"min=1"`
	PlayoffYears         []int               `json:"playoff_years"`
	KeyOnlyYears         []int               `json:"key_only_years"`
	FinalFourLookupYears []int               `json:"final_four_lookup_years"`
	QuarterfinalLabels   []QuarterfinalLabel `json:"quarterfinal_labels" validate:"dive"`
}

type Weights struct {
	Version              string                             `json:"version" validate:"required"`
	SeasonOrder          []int                              `json:"season_order" validate:"min=1"`
	ExcludedCategories   []string                           `json:"excluded_categories"`
	OpponentFactor       decimal.Decimal                    `json:"opponent_factor"`
	Year                 map[int]decimal.Decimal            `json:"year" validate:"min=1"`
	Phase                map[string]decimal.Decimal         `json:"phase" validate:"min=1"`
	PhaseInterconference map[string]decimal.Decimal         `json:"phase_interconference"`
	PhaseDefault         decimal.Decimal                    `json:"phase_default"`
	Round                map[string]decimal.Decimal         `json:"round" validate:"min=1"`
	RoundByYear          map[int]map[string]decimal.Decimal `json:"round_by_year"`
	RoundDefault         decimal.Decimal                    `json:"round_default"`
	Level                map[string]decimal.Decimal         `json:"level" validate:"min=1"`
	LevelDefault         decimal.Decimal                    `json:"level_default"`
}

type Tournament struct {
	Year int    `json:"year" validate:"required,gte=2000"`
	ID   int    `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type Tournaments struct {
	Version     string       `json:"version" validate:"required"`
	BaseURL     string       `json:"base_url" validate:"required,url"`
	Tournaments []Tournament `json:"tournaments" validate:"min=1,dive"`
}

// URL returns the competition page of a tournament.
func (t Tournaments) URL(year int) (string, bool) {
	for _, tr := range t.Tournaments {
		if tr.Year == year {
			return fmt.Sprintf("%scompeticion.aspx?competencia=%d", t.BaseURL, tr.ID), true
		}
	}
	return "", false
}

// Set is every reference table, loaded once at startup.
type Set struct {
	Teams       TeamAliases
	Categories  Categories
	Brackets    Brackets
	Rounds      Rounds
	Weights     Weights
	Tournaments Tournaments
}

// Versions returns the version string of every table, keyed by file name.
func (s *Set) Versions() map[string]string {
	return map[string]string{
		TeamsFile:       s.Teams.Version,
		CategoriesFile:  s.Categories.Version,
		BracketsFile:    s.Brackets.Version,
		RoundsFile:      s.Rounds.Version,
		WeightsFile:     s.Weights.Version,
		TournamentsFile: s.Tournaments.Version,
	}
}

// --------------------------------------------------------------------------
// Loading
// --------------------------------------------------------------------------

// Default loads the embedded tables.
func Default() (*Set, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub, nil)
}

// Load loads the embedded tables, replacing each one for which dir holds a
// file of the same name. An empty dir means embedded only.
func Load(dir string) (*Set, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return LoadFS(sub, nil)
	}
	return LoadFS(sub, os.DirFS(dir))
}

// LoadFS decodes and validates every table from base, preferring override
// when it has the file.
func LoadFS(base, override fs.FS) (*Set, error) {
	var s Set
	files := []struct {
		name string
		dst  any
	}{
		{TeamsFile, &s.Teams},
		{CategoriesFile, &s.Categories},
		{BracketsFile, &s.Brackets},
		{RoundsFile, &s.Rounds},
		{WeightsFile, &s.Weights},
		{TournamentsFile, &s.Tournaments},
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	for _, f := range files {
		raw, err := readFile(base, override, f.name)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.name, err)
		}
		if err := v.Struct(f.dst); err != nil {
			return nil, fmt.Errorf("validate %s: %w", f.name, err)
		}
	}

	if err := checkAliases(s.Teams.Aliases); err != nil {
		return nil, fmt.Errorf("validate %s: %w", TeamsFile, err)
	}
	for i, st := range s.Rounds.Structures {
		if last := st.Slots[len(st.Slots)-1]; len(last) == 0 {
			return nil, fmt.Errorf("validate %s: structure %d: last slot is empty", RoundsFile, i)
		}
	}
	return &s, nil
}

func readFile(base, override fs.FS, name string) ([]byte, error) {
	if override != nil {
		raw, err := fs.ReadFile(override, name)
		if err == nil {
			return raw, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
	}
	raw, err := fs.ReadFile(base, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return raw, nil
}

// checkAliases rejects keys that are not in lookup form and canonical names
// that are themselves aliases of something else.
func checkAliases(aliases map[string]string) error {
	for alias, canonical := range aliases {
		if alias != strings.ToUpper(strings.TrimSpace(alias)) {
			return fmt.Errorf("alias %q is not trimmed upper-case", alias)
		}
		if canonical != strings.ToUpper(strings.TrimSpace(canonical)) {
			return fmt.Errorf("canonical %q is not trimmed upper-case", canonical)
		}
		if next, ok := aliases[canonical]; ok && next != canonical {
			return fmt.Errorf("%w: %q -> %q -> %q", ErrAliasChain, alias, canonical, next)
		}
	}
	return nil
}
