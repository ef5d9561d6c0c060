// Package csvio reads and writes the CSV files the pipeline exchanges.
//
// Files come from several tools: the scraper wrote UTF-8 with a BOM, older
// exports went through Excel and are Windows-1252, and the delimiter is
// ';' or ','. Read detects both so the rest of the module only ever sees
// decoded strings.
package csvio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names reported by Decode.
const (
	UTF8        = "utf-8"
	UTF8BOM     = "utf-8-bom"
	Windows1252 = "windows-1252"
)

// ErrNoHeader is returned for an empty file.
var ErrNoHeader = errors.New("csv has no header")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode returns raw as UTF-8 text and the encoding it was found in.
func Decode(raw []byte) ([]byte, string, error) {
	if bytes.HasPrefix(raw, utf8BOM) {
		out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), raw)
		if err != nil {
			return nil, "", fmt.Errorf("decode utf-8: %w", err)
		}
		return out, UTF8BOM, nil
	}
	if utf8.Valid(raw) {
		return raw, UTF8, nil
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, "", fmt.Errorf("decode windows-1252: %w", err)
	}
	return out, Windows1252, nil
}

// DetectDelimiter picks ';' or ',' from a header line, preferring ';' on
// a tie.
func DetectDelimiter(header string) rune {
	if strings.Count(header, ",") > strings.Count(header, ";") {
		return ','
	}
	return ';'
}

// Table is a decoded CSV file.
type Table struct {
	Header   []string
	Rows     [][]string
	Comma    rune
	Encoding string

	index map[string]int
}

// Read decodes and parses a whole CSV stream.
func Read(r io.Reader) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	text, enc, err := Decode(raw)
	if err != nil {
		return nil, err
	}

	firstLine, _, _ := bytes.Cut(text, []byte("\n"))
	comma := DetectDelimiter(string(firstLine))

	cr := csv.NewReader(bytes.NewReader(text))
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	t := &Table{Header: records[0], Rows: records[1:], Comma: comma, Encoding: enc}
	t.index = make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		t.index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return t, nil
}

// ReadFile opens and reads path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Has reports whether the header has every column, case-insensitively.
func (t *Table) Has(cols ...string) bool {
	for _, c := range cols {
		if _, ok := t.index[strings.ToLower(c)]; !ok {
			return false
		}
	}
	return true
}

// Require returns an error naming the first missing column.
func (t *Table) Require(cols ...string) error {
	for _, c := range cols {
		if !t.Has(c) {
			return fmt.Errorf("missing column %q", c)
		}
	}
	return nil
}

// Get returns the trimmed value of column col in row, or "" when the row
// is short or the column absent.
func (t *Table) Get(row []string, col string) string {
	i, ok := t.index[strings.ToLower(col)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Writer wraps csv.Writer with the module's conventions.
type Writer struct {
	cw *csv.Writer
}

// NewWriter returns a writer using comma as delimiter.
func NewWriter(w io.Writer, comma rune) *Writer {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	return &Writer{cw: cw}
}

// Write writes one record.
func (w *Writer) Write(rec []string) error { return w.cw.Write(rec) }

// Close flushes and returns any write error.
func (w *Writer) Close() error {
	w.cw.Flush()
	return w.cw.Error()
}

// CreateFile creates path and its directory, calls fn with a writer and
// closes everything.
func CreateFile(path string, comma rune, fn func(*Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := NewWriter(f, comma)
	if err := fn(w); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
