// Package teams maps the team and category names the results site prints to
// canonical names.
package teams

import (
	"strings"

	"github.com/albapepper/febamba-data/internal/label"
	"github.com/albapepper/febamba-data/internal/provider"
)

// Normalizer maps raw team names to canonical names through an alias table.
type Normalizer struct {
	aliases map[string]string
}

// NewNormalizer builds a normalizer over alias → canonical pairs. Keys are
// expected in lookup form (trimmed, upper-case); the table is copied.
func NewNormalizer(aliases map[string]string) *Normalizer {
	m := make(map[string]string, len(aliases))
	for k, v := range aliases {
		m[label.Upper(k)] = label.Upper(v)
	}
	return &Normalizer{aliases: m}
}

// Normalize trims and upper-cases raw and returns its canonical name. Names
// missing from the table pass through in that form, so correct names that
// were never aliased keep working.
func (n *Normalizer) Normalize(raw string) string {
	key := label.Upper(raw)
	if canonical, ok := n.aliases[key]; ok {
		return canonical
	}
	return key
}

// Key returns the bracket key of a pairing, normalizing both sides.
func (n *Normalizer) Key(local, visitor string) string {
	return provider.BracketKey(n.Normalize(local), n.Normalize(visitor))
}

// SplitPair normalizes a "TEAM A-TEAM B" pair as written in the bracket
// tables. It splits on the first hyphen only, so the visitor side may
// itself contain hyphens.
func (n *Normalizer) SplitPair(pair string) (string, bool) {
	a, b, ok := strings.Cut(pair, "-")
	if !ok {
		return "", false
	}
	return n.Key(a, b), true
}

// Len returns the number of aliases.
func (n *Normalizer) Len() int { return len(n.aliases) }

// Categories maps the category labels of the site's dropdown to canonical
// category names.
type Categories struct {
	exact  map[string]string
	folded map[string]string
	skip   map[string]bool
}

// NewCategories builds the category map. skip lists canonical categories
// that ingestion ignores.
func NewCategories(names map[string]string, skip []string) *Categories {
	c := &Categories{
		exact:  make(map[string]string, len(names)),
		folded: make(map[string]string, len(names)),
		skip:   make(map[string]bool, len(skip)),
	}
	for k, v := range names {
		c.exact[strings.TrimSpace(k)] = v
		c.folded[strings.ToLower(strings.TrimSpace(k))] = v
	}
	for _, s := range skip {
		c.skip[label.Upper(s)] = true
	}
	return c
}

// Canonical looks raw up exactly, then case-insensitively, and otherwise
// returns it trimmed and upper-cased.
func (c *Categories) Canonical(raw string) string {
	r := strings.TrimSpace(raw)
	if v, ok := c.exact[r]; ok {
		return v
	}
	if v, ok := c.folded[strings.ToLower(r)]; ok {
		return v
	}
	return label.Upper(r)
}

// Skip reports whether matches of category are not ingested.
func (c *Categories) Skip(category string) bool {
	return c.skip[label.Upper(category)]
}
