package csvio

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/febamba-data/internal/provider"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     []byte
		want    string
		wantEnc string
	}{
		{"plain utf-8", []byte("CAÑUELAS"), "CAÑUELAS", UTF8},
		{"utf-8 with bom", []byte("\xEF\xBB\xBFCAÑUELAS"), "CAÑUELAS", UTF8BOM},
		{"windows-1252", []byte("CA\xD1UELAS"), "CAÑUELAS", Windows1252},
		{"windows-1252 accents", []byte("EST\xCDMULO"), "ESTÍMULO", Windows1252},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, enc, err := Decode(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
			assert.Equal(t, tt.wantEnc, enc)
		})
	}
}

func TestDetectDelimiter(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ';', DetectDelimiter("anio;categoria;fase"))
	assert.Equal(t, ',', DetectDelimiter("Equipo,Puntos"))
	assert.Equal(t, ';', DetectDelimiter("Equipo"))
}

func TestReadMatches(t *testing.T) {
	t.Parallel()

	in := "\xEF\xBB\xBFanio;categoria;fase;ronda;nivel;zona;grupo;jornada;fecha;local;ptsL;visitante;ptsV\n" +
		"2023.0;CADETES;Playoff;Semifinal;1;NORTE;A;2;12/10;PINOCHO;65;EL TALAR;60\n" +
		"2023;CADETES;Playoff;Final;1;NORTE;A;3;19/10;PINOCHO;;EL TALAR;x\n"
	tb, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, UTF8BOM, tb.Encoding)
	assert.Equal(t, ';', tb.Comma)

	matches, err := tb.Matches()
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, provider.Match{
		Year: 2023, Category: "CADETES", Phase: "Playoff", Round: "Semifinal", Level: "1",
		Zone: "NORTE", Group: "A", Matchday: "2", Date: "12/10",
		Local: "PINOCHO", LocalScore: 65, Visitor: "EL TALAR", VisitorScore: 60, ScoreValid: true,
	}, matches[0])
	assert.False(t, matches[1].ScoreValid)
	assert.Zero(t, matches[1].LocalScore)
}

func TestReadMatchesBadYear(t *testing.T) {
	t.Parallel()

	in := "anio,categoria,local,ptsL,visitante,ptsV\nCADETES,CADETES,A,1,B,2\n"
	tb, err := Read(strings.NewReader(in))
	require.NoError(t, err)

	_, err = tb.Matches()
	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 2, rowErr.Line)
}

func TestReadMissingColumn(t *testing.T) {
	t.Parallel()

	tb, err := Read(strings.NewReader("anio;categoria\n2023;CADETES\n"))
	require.NoError(t, err)
	_, err = tb.RawMatches()
	assert.ErrorContains(t, err, "fase")

	_, err = Read(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestMatchesRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "partidos.csv")
	in := []provider.Match{
		{Year: 2024, Category: "MINI", Phase: "Fase Regular", Round: "1ra Fase", Level: "2", Zone: "SUR",
			Group: "B", Local: "CAÑUELAS FC", LocalScore: 20, Visitor: "EL TALAR", VisitorScore: 0, ScoreValid: true},
		{Year: 2024, Category: "MINI", Local: "A", Visitor: "B"},
	}
	require.NoError(t, WriteMatches(path, in))

	tb, err := ReadFile(path)
	require.NoError(t, err)
	got, err := tb.Matches()
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestRawMatchesRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "raw.csv")
	in := []provider.RawMatch{{
		Year: 2022, Category: "Cadetes", PhaseLabel: "PLAYOFF NIVEL 1", GroupLabel: "ZONA A",
		MatchdayLabel: "Jornada 2 - 01/10/2022", Local: "Racing", LocalScore: "70",
		Visitor: "Sp. Escobar", VisitorScore: "61",
	}}
	require.NoError(t, WriteRawMatches(path, in))

	tb, err := ReadFile(path)
	require.NoError(t, err)
	got, err := tb.RawMatches()
	require.NoError(t, err)
	assert.Equal(t, in, got)
}
