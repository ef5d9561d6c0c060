package gesdeportiva

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/albapepper/febamba-data/internal/provider"
)

// ErrNoCompetition is returned for the site's "not found" page.
var ErrNoCompetition = errors.New("competition not found")

const missingTitle = "Error al cargar la información"

// Competition is the header of a competition page.
type Competition struct {
	Federation string `json:"federacion,omitempty"`
	Tournament string `json:"torneo"`
}

// ParseCompetition reads the federation and tournament titles of a
// competition page.
func ParseCompetition(r io.Reader) (Competition, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Competition{}, fmt.Errorf("parse competition: %w", err)
	}
	if cellText(doc.Find("div.tituloPagina").First()) == missingTitle {
		return Competition{}, ErrNoCompetition
	}
	c := Competition{
		Federation: cellText(doc.Find("span#LTituloDelegacion").First()),
		Tournament: cellText(doc.Find("span#LTituloCompeticion").First()),
	}
	if c.Tournament == "" {
		return c, ErrNoCompetition
	}
	return c, nil
}

// Extractor turns a directory of saved group pages into raw matches.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor returns an extractor. A nil logger falls back to
// slog.Default.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// ExtractResult holds the matches of a directory and the pages that could
// not be used.
type ExtractResult struct {
	Matches []provider.RawMatch
	Pages   int
	Skipped []string
}

// ExtractDir parses every .html and .htm file under dir, in path order,
// and returns their fixtures as raw matches of year. Pages without a
// fixtures container are logged and skipped.
func (e *Extractor) ExtractDir(dir string, year int) (*ExtractResult, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !d.IsDir() && (ext == ".html" || ext == ".htm") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(paths)

	res := &ExtractResult{}
	for _, path := range paths {
		page, err := e.parseFile(path)
		if errors.Is(err, ErrNoFixtures) {
			e.logger.Warn("page has no fixtures", "path", path)
			res.Skipped = append(res.Skipped, path)
			continue
		}
		if err != nil {
			return nil, err
		}
		res.Pages++
		res.Matches = append(res.Matches, page.RawMatches(year)...)
		e.logger.Debug("extracted page",
			"path", path,
			"category", page.Category(),
			"phase", page.Phase(),
			"group", page.Group(),
			"fixtures", len(page.Fixtures),
		)
	}

	e.logger.Info("extracted pages", "dir", dir, "year", year, "pages", res.Pages, "matches", len(res.Matches), "skipped", len(res.Skipped))
	return res, nil
}

func (e *Extractor) parseFile(path string) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	page, err := ParsePage(f)
	if err != nil && !errors.Is(err, ErrNoFixtures) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return page, err
}
