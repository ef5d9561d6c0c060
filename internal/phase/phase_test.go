package phase

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/febamba-data/internal/provider"
)

const (
	uF = provider.UnknownF
	uM = provider.Unknown
	ic = provider.Interconferencia
)

func newTestParser() *Parser {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestParse(t *testing.T) {
	t.Parallel()

	p := newTestParser()
	tests := []struct {
		year int
		in   string

		phase, round, level, zone, group string
	}{
		// 2019
		{2019, "Sur 1ra Fase", provider.PhaseRegular, RoundFirst, uM, "SUR", uM},
		{2019, "FINAL INTERCONFERENCIAS 1", provider.PhaseFinalFour, RoundFinal, "1", ic, uM},
		{2019, "FINALES INTERCONFERENCIAS 2", provider.PhaseFinalFour, RoundSemi, "2", ic, uM},
		{2019, "FINAL INTERCONFERENCIAS", provider.PhasePlayoff, RoundFinal, ic, ic, uM},
		{2019, "CONFERENCIA SUR 2 2DA FASE", provider.PhaseRegular, RoundSecond, "2", "SUR", uM},
		{2019, "CONFERENCIA 3 SUR 2DA FASE", provider.PhaseRegular, RoundSecond, "3", "SUR", uM},
		{2019, "CONFERENCIA 3 SUR FINAL", provider.PhaseRegular, RoundThird, "3", "SUR", uM},
		{2019, "CONFERENCIA SUR 2 FINAL", provider.PhaseRegular, RoundThird, "2", "SUR", uM},
		{2019, "OCTAVOS DE FINAL", provider.PhasePlayoff, RoundEighths, ic, ic, uM},
		{2019, "CUARTOS DE FINAL CONF.1 NORTE", provider.PhasePlayoff, RoundQuarters, "1", "NORTE", uM},
		{2019, "CURTOS DE FINA CONF 1 NORTE", provider.PhasePlayoff, RoundQuarters, "1", "NORTE", uM},
		{2019, "CUARTOS DE FINA CONF 2 CENTRO", provider.PhasePlayoff, RoundQuarters, "2", "CENTRO", uM},
		{2019, "CUARTOS DE FINAL INTERCONFERENCIAS", provider.PhasePlayoff, RoundQuarters, ic, ic, uM},
		{2019, "SEMFINALES CONF 2 SUR", provider.PhasePlayoff, RoundSemi, "2", "SUR", uM},
		{2019, "DESEMPATE", provider.PhaseRegular, RoundSecond, ic, ic, uM},
		{2019, "ESTIMULO NORTE/CENTRO", provider.PhaseRegular, RoundEstimulo, "3", "CENTRO", uM},
		{2019, "Estimulo Norte/Centro", provider.PhaseRegular, RoundEstimulo, "3", "CENTRO", uM},
		{2019, "ESTIMULO OESTE", provider.PhaseRegular, RoundEstimulo, "3", "OESTE", uM},
		{2019, "ESTIMULO CENTRO", provider.PhaseRegular, RoundEstimulo, "3", "CENTRO", uM},
		{2019, "FINAL CONFERENCIA 1 NORTE", provider.PhasePlayoff, RoundFinal, "1", "NORTE", uM},

		// 2022
		{2022, "Fase de Clasificacion 2", provider.PhaseRegular, RoundFirst, "2", uF, uM},
		{2022, "CUARTOS NIVEL 3", provider.PhasePlayoff, uF, "3", "CENTRO", uM},
		{2022, "ANEXO NIVEL 3", provider.PhaseRegular, RoundSecond, "3", "CENTRO", uM},
		{2022, "NIVEL 1", provider.PhaseRegular, RoundSecond, "1", uF, uM},
		{2022, "INTERCONFERENCIAS", provider.PhaseRegular, RoundSecond, ic, ic, uM},
		{2022, "PLAY OFF", provider.PhasePlayoff, uF, uM, uF, uM},
		{2022, "FINAL FOUR", provider.PhaseFinalFour, uF, uM, uF, uM},

		// 2023
		{2023, "FASE REGULAR", provider.PhaseRegular, RoundFirst, uM, uF, uM},
		{2023, "CONFERENCIA 1 OCTAVOS DE FINAL", provider.PhasePlayoff, RoundEighths, "1", uF, uM},
		{2023, "OCTAVOS DE FINAL INTERCONFERENCIA", provider.PhasePlayoff, RoundEighths, ic, ic, uM},
		{2023, "CUARTOS DE FINAL - NORTE 2", provider.PhasePlayoff, uF, "2", "NORTE", uM},
		{2023, "CUARTOS DE FINAL 2 CENTRO", provider.PhasePlayoff, uF, "2", "CENTRO", uM},
		{2023, "CUARTOS DE FINAL 0ESTE 3", provider.PhasePlayoff, uF, "3", "OESTE", uM},
		{2023, "CUARTOS DE FINAL CONFERENCIA 2 SUR", provider.PhasePlayoff, uF, "2", "SUR", uM},
		{2023, "CUARTOS DE FINAL NIVEL 2 SUR", provider.PhasePlayoff, uF, "2", "SUR", uM},
		{2023, "SEMIFINAL 3 SUR", provider.PhasePlayoff, RoundSemi, "3", "SUR", uM},
		{2023, "CONFERENCIA 3 SUR A", provider.PhaseRegular, RoundSecond, "3", "SUR", "A"},
		{2023, "CONFERENCIA SUR 3 B", provider.PhaseRegular, RoundSecond, "3", "SUR", "B"},
		{2023, "CONFERENCIA 2 CENTRO", provider.PhaseRegular, RoundSecond, "2", "CENTRO", uM},
		{2023, "CONF 3 INTERZONALES", provider.PhaseRegular, RoundSecond, "3", "CENTRO", uM},

		// 2024
		{2024, "1er Etapa", provider.PhaseRegular, RoundFirst, uM, uF, uM},
		{2024, "1ER ETAPA 2DA FASE", provider.PhaseRegular, RoundSecond, uM, uF, uM},
		{2024, "FASE FINAL", provider.PhaseRegular, RoundThird, uM, uF, uM},
		{2024, "RECLASIFICACION NORTE", provider.PhaseRegular, RoundThird, "3", "NORTE", uM},
		{2024, "PLAY OFF INTERCONFERRENCIAS B", provider.PhasePlayoff, uF, "INTERCONFERENCIA B", ic, uM},
		{2024, "NIVEL 1 NORTE SEMIFINALES", provider.PhasePlayoff, uF, "1", "NORTE", uM},
		{2024, "PLAY IN NIVEL 2", provider.PhasePlayoff, RoundPlayIn, "2", uF, uM},
		{2024, "PLAY OFF-NIVEL 2", provider.PhasePlayoff, uF, "2", uF, uM},
		{2024, "PLAY OFF INTERCONFERENCIAS A", provider.PhasePlayoff, uF, "INTERCONFERENCIA A", ic, uM},
		{2024, "SEMIFIANL NIVEL 1 SUR", provider.PhasePlayoff, uF, "1", "SUR", uM},

		// 2025
		{2025, "1er Etapa - Copa", provider.PhaseRegular, RoundCopa, provider.LevelNivelacion, uF, uM},
	}
	for _, tt := range tests {
		got := p.Parse(tt.year, tt.in)
		want := Result{Phase: tt.phase, Round: tt.round, Level: tt.level, Zone: tt.zone, Group: tt.group, Rule: got.Rule}
		assert.Equal(t, want, got, "%d %q", tt.year, tt.in)
		assert.True(t, got.Matched(), "%d %q", tt.year, tt.in)
	}
}

func TestParseUnmatched(t *testing.T) {
	t.Parallel()

	p := newTestParser()
	for _, tc := range []struct {
		year int
		in   string
	}{
		{2019, "ZONA INEXISTENTE"},
		{2020, "FASE REGULAR"},
		{2023, ""},
	} {
		got := p.Parse(tc.year, tc.in)
		assert.Equal(t, Unmatched(), got)
		assert.False(t, got.Matched())
	}
}

func TestParseRecoversFromPanic(t *testing.T) {
	t.Parallel()

	p := newTestParser()
	p.Register(RuleSet{
		Year: 1999,
		Rules: []Rule{{
			Name:  "boom",
			Match: has("X"),
			Apply: func(string, *Result) { panic("bad rule") },
		}},
	})

	var got Result
	require.NotPanics(t, func() { got = p.Parse(1999, "X") })
	assert.Equal(t, Unmatched(), got)
}

func TestMissing(t *testing.T) {
	t.Parallel()

	p := newTestParser()
	assert.Equal(t, []string{"ronda", "nivel", "zona"}, p.Parse(2022, "PLAY OFF").Missing())
	assert.Empty(t, p.Parse(2019, "CONFERENCIA 3 SUR FINAL").Missing())
}

func TestYears(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{2019, 2022, 2023, 2024, 2025}, newTestParser().Years())
}

// Every phase label observed on the site must resolve to a known phase.
func TestObservedPhases(t *testing.T) {
	t.Parallel()

	f, err := os.Open("testdata/observed_phases.txt")
	require.NoError(t, err)
	defer f.Close()

	p := newTestParser()
	sc := bufio.NewScanner(f)
	n := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "|")
		require.Len(t, parts, 3, line)
		year, err := strconv.Atoi(parts[0])
		require.NoError(t, err, line)

		got := p.Parse(year, parts[1])
		assert.False(t, provider.IsUnknown(got.Phase), line)
		assert.Equal(t, parts[2], got.Phase, line)
		n++
	}
	require.NoError(t, sc.Err())
	assert.Greater(t, n, 50)
}
