package gesdeportiva

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/febamba-data/internal/provider"
)

func openFixture(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", name))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestParsePage(t *testing.T) {
	t.Parallel()

	p, err := ParsePage(openFixture(t, "pages/cadetes_playoff_n1.html"))
	require.NoError(t, err)

	assert.Equal(t, "Cadetes", p.Category())
	assert.Equal(t, "PLAYOFF NIVEL 1", p.Phase())
	assert.Equal(t, "ZONA NORTE", p.Group())
	assert.Len(t, p.Categories, 3)
	assert.Equal(t, Option{Value: "6", Text: "FASE REGULAR CONFERENCIA NORTE 1"}, p.Phases[0])

	require.Len(t, p.Fixtures, 4)
	assert.Equal(t, Fixture{
		Heading:      "Jornada 1 - 05/10/2023",
		Local:        "PINOCHO",
		LocalScore:   "65",
		VisitorScore: "60",
		Visitor:      "EL TALAR",
	}, p.Fixtures[0])
	assert.Equal(t, "SEMIFINAL - Jornada 2 - 12/10/2023", p.Fixtures[2].Heading)
	assert.Empty(t, p.Fixtures[3].LocalScore)
}

func TestPageRawMatches(t *testing.T) {
	t.Parallel()

	p, err := ParsePage(openFixture(t, "pages/cadetes_playoff_n1.html"))
	require.NoError(t, err)

	raws := p.RawMatches(2023)
	require.Len(t, raws, 4)
	assert.Equal(t, provider.RawMatch{
		Year:          2023,
		Category:      "Cadetes",
		PhaseLabel:    "PLAYOFF NIVEL 1",
		GroupLabel:    "ZONA NORTE",
		MatchdayLabel: "SEMIFINAL - Jornada 2 - 12/10/2023",
		Local:         "PINOCHO",
		LocalScore:    "80",
		Visitor:       "Racing",
		VisitorScore:  "55",
	}, raws[2])
	assert.False(t, raws[3].Played())
}

func TestParsePageFallbacks(t *testing.T) {
	t.Parallel()

	html := `<div id="calendario"><h4>Jornada 3</h4><table>
		<tr><th>L</th></tr><tr><td>A</td><td>1</td><td>2</td><td>B</td></tr></table></div>`
	p, err := ParsePage(strings.NewReader(html))
	require.NoError(t, err)
	require.Len(t, p.Fixtures, 1)
	assert.Equal(t, "Jornada 3", p.Fixtures[0].Heading)
	assert.Empty(t, p.Group())

	_, err = ParsePage(openFixture(t, "pages/no_fixtures.html"))
	assert.ErrorIs(t, err, ErrNoFixtures)
}

func TestParseCompetition(t *testing.T) {
	t.Parallel()

	c, err := ParseCompetition(openFixture(t, "pages/cadetes_playoff_n1.html"))
	require.NoError(t, err)
	assert.Equal(t, Competition{
		Federation: "FEDERACION DE BASQUETBOL AREA METROPOLITANA",
		Tournament: "TORNEO FORMATIVAS 2023",
	}, c)

	_, err = ParseCompetition(openFixture(t, "missing_competition.html"))
	assert.ErrorIs(t, err, ErrNoCompetition)
}

func TestExtractDir(t *testing.T) {
	t.Parallel()

	e := NewExtractor(slog.New(slog.NewTextHandler(io.Discard, nil)))
	res, err := e.ExtractDir(filepath.Join("testdata", "pages"), 2023)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Pages)
	assert.Len(t, res.Matches, 4)
	assert.Equal(t, []string{filepath.Join("testdata", "pages", "no_fixtures.html")}, res.Skipped)

	_, err = e.ExtractDir(filepath.Join("testdata", "absent"), 2023)
	assert.Error(t, err)
}
