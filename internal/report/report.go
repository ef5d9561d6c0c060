// Package report accumulates the non-fatal problems found while
// normalizing and scoring matches, so they can be audited as a table
// instead of scraped from logs.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Kind classifies an entry.
type Kind string

const (
	// ParseMiss: a phase or group label matched no rule.
	ParseMiss Kind = "ParseMiss"
	// MalformedScore: a score was not an integer; base points were zeroed.
	MalformedScore Kind = "MalformedScore"
	// InferenceMiss: a bracket round could not be inferred.
	InferenceMiss Kind = "InferenceMiss"
	// SequenceError: a season was scored without its predecessor ranking.
	SequenceError Kind = "SequenceError"
)

// Entry is one reported problem.
type Entry struct {
	Kind     Kind   `json:"kind"`
	Year     int    `json:"anio"`
	Category string `json:"categoria,omitempty"`
	Field    string `json:"campo,omitempty"`
	Input    string `json:"entrada,omitempty"`
	Detail   string `json:"detalle,omitempty"`
}

// Report is an append-only list of entries. The zero value is ready to use.
type Report struct {
	entries []Entry
}

// Add records an entry.
func (r *Report) Add(e Entry) {
	r.entries = append(r.entries, e)
}

// Addf records an entry whose detail is formatted.
func (r *Report) Addf(kind Kind, year int, field, input, format string, args ...any) {
	r.entries = append(r.entries, Entry{
		Kind:   kind,
		Year:   year,
		Field:  field,
		Input:  input,
		Detail: fmt.Sprintf(format, args...),
	})
}

// Merge appends every entry of other.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.entries = append(r.entries, other.entries...)
}

// Entries returns a copy of the recorded entries in insertion order.
func (r *Report) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of entries.
func (r *Report) Len() int { return len(r.entries) }

// Count returns the number of entries of one kind.
func (r *Report) Count(kind Kind) int {
	n := 0
	for _, e := range r.entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Summary returns a one-line count per kind.
func (r *Report) Summary() string {
	return fmt.Sprintf("parse_misses=%d malformed_scores=%d inference_misses=%d sequence_errors=%d",
		r.Count(ParseMiss), r.Count(MalformedScore), r.Count(InferenceMiss), r.Count(SequenceError))
}

// WriteCSV writes every entry as ANIO,CATEGORIA,TIPO,CAMPO,ENTRADA,DETALLE.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ANIO", "CATEGORIA", "TIPO", "CAMPO", "ENTRADA", "DETALLE"}); err != nil {
		return err
	}
	for _, e := range r.entries {
		rec := []string{strconv.Itoa(e.Year), e.Category, string(e.Kind), e.Field, e.Input, e.Detail}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// LabelMiss is one distinct (year, phase label, group label) combination
// that left fields unresolved, with the categories it was seen in.
type LabelMiss struct {
	Year       int
	Phase      string
	Group      string
	Categories []string
	Missing    []string
}

// Result renders the legacy RESULTADO column.
func (m LabelMiss) Result() string {
	return "Faltan: " + strings.Join(m.Missing, ", ")
}

// WriteLabelAudit writes misses in the ANIO,FASE_REC,GRUPO_REC,CATEGORIAS,
// RESULTADO layout operators use to extend the rule tables.
func WriteLabelAudit(w io.Writer, misses []LabelMiss) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ANIO", "FASE_REC", "GRUPO_REC", "CATEGORIAS", "RESULTADO"}); err != nil {
		return err
	}
	for _, m := range misses {
		cats := append([]string(nil), m.Categories...)
		sort.Strings(cats)
		rec := []string{strconv.Itoa(m.Year), m.Phase, m.Group, strings.Join(cats, ", "), m.Result()}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
