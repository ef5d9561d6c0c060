package group

import (
	"io"
	"log/slog"
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
		year         int
		phase, group string

		level, zone, grp string
	}{
		{2019, "NORTE 1RA FASE", "CONFERENCIA NORTE 1 A", "1", "NORTE", "A"},
		{2019, "SUR 1RA FASE", "Conferencia Sur2B", "2", "SUR", "B"},
		{2019, "CONFERENCIA SUR 2 2DA FASE", "ZONA A SUR 2", "2", "SUR", "A"},
		{2019, "CONFERENCIA SUR 2 2DA FASE", "ZONA SUR A 2", "2", "SUR", "A"},
		{2019, "CONFERENCIA SUR 3 2DA FASE", "ZONA SUR 3", "3", "SUR", provider.GroupUnico},
		{2019, "CONFERENCIA 3 SUR 2DA FASE", "ZONA 3 SUR", "3", "SUR", provider.GroupUnico},
		{2019, "CONFERENCIA 3 SUR FINAL", "ZONA B", uM, uF, "B"},
		{2019, "INTERCONFERENCIAS", "ZONA C", ic, ic, "C"},

		{2022, "FASE DE CLASIFICACION 1", "SUR 1A", "1", "SUR", "A"},
		{2022, "FASE DE CLASIFICACION 2", "NORTE 2", "2", "NORTE", provider.GroupUnico},
		{2022, "NIVEL 2", "SUR UNICA", uM, "SUR", provider.GroupUnico},
		{2022, "NIVEL 2", "CENTRO ZONA B", uM, "CENTRO", "B"},
		{2022, "INTERCONFERENCIAS", "ZONA A", ic, ic, "A"},
		{2022, "PLAY OFF", "CENTRO 1", "1", "CENTRO", uM},
		{2022, "PLAY OFF", "INTERCONFERENCIA", ic, ic, uM},
		{2022, "FINAL FOUR", "FINAL FOUR", uM, ic, uM},

		{2023, "FASE REGULAR", `NORTE 1"A"`, "1", "NORTE", "A"},
		{2023, "FASE REGULAR", "SUR", uM, "SUR", provider.GroupUnico},
		{2023, "CONFERENCIA 3", "CENTRO A", "3", "CENTRO", "A"},
		{2023, "CONFERENCIA 2", "NORTE1A", "1", "NORTE", "A"},
		{2023, "CONFERENCIA 2", "CENTRO2", "2", "CENTRO", provider.GroupUnico},
		{2023, "CONFERENCIA 2", "0ESTE", "2", "OESTE", provider.GroupUnico},
		{2023, "CONFERENCIA 1 OCTAVOS DE FINAL", "CENTRO 1", "1", "CENTRO", provider.GroupUnico},
		{2023, "CONFERENCIA 1 OCTAVOS DE FINAL", "SUR", "1", "SUR", provider.GroupUnico},
		{2023, "INTERCONFERENCIAS", "ZONA B", uM, uF, "B"},

		{2024, "RECLASIFICACION FLEX", "NORTE “1”", "3", "NORTE", "A"},
		{2024, "FASE FINAL", `RECLASIFICACION FLEX SUR "B"`, "3", "SUR", "B"},
		{2024, "FASE FINAL", `INTERCONFERENCIAS A ZONA ""B""`, "INTERCONFERENCIA A", ic, "B"},
		{2024, "FASE FINAL", `NIVEL 1 NORTE "A"`, "1", "NORTE", "A"},
		{2024, "FASE FINAL", "NIVEL 2 OESTE UNICA", "2", "OESTE", provider.GroupUnico},
		{2024, "1ER ETAPA", "NIVEL 2 SUR LFF B", "2", "SUR", "B"},
		{2024, "1ER ETAPA 2DA FASE", "NIVEL 1 CENTRO A-B", "1", "CENTRO", "A-B"},
		{2024, "1ER ETAPA 2DA FASE", "NIVEL 3 NORTE C", "3", "NORTE", "C"},
		{2024, "1ER ETAPA 2DA FASE", "NIVEL 2 SUR", "2", "SUR", "A-B"},
		{2024, "PLAY OFF", "INTERCONFERENCIA B ZONA “A”", "INTERCONFERENCIA B", ic, "A"},
		{2024, "PLAY IN NIVEL 2", "NIVEL 2 CENTRO", "2", "CENTRO", uM},
		{2024, "PLAY OFF", "0ESTE A", uM, "OESTE", "A"},
		{2024, "PLAY OFF", "CENTRO/NORTE A-B", uM, "CENTRO-NORTE", "A-B"},

		{2025, "1ER ETAPA", "CENTRO OESTE 4", provider.LevelNivelacion, "CENTRO OESTE", "4"},
		{2025, "1ER ETAPA", "SUR 6", provider.LevelNivelacion, "SUR", "6"},
	}
	for _, tt := range tests {
		got := p.Parse(tt.year, tt.phase, tt.group)
		assert.Equal(t, Result{Level: tt.level, Zone: tt.zone, Group: tt.grp, Rule: got.Rule}, got,
			"%d %q / %q", tt.year, tt.phase, tt.group)
		assert.True(t, got.Matched(), "%d %q / %q", tt.year, tt.phase, tt.group)
	}
}

func TestParseEdges(t *testing.T) {
	t.Parallel()

	p := newTestParser()

	t.Run("empty group", func(t *testing.T) {
		assert.Equal(t, Unmatched(), p.Parse(2023, "FASE REGULAR", "  "))
	})
	t.Run("unknown year keeps the label", func(t *testing.T) {
		got := p.Parse(2021, "FASE", " zona a ")
		assert.Equal(t, Result{Level: uM, Zone: uF, Group: "ZONA A"}, got)
	})
	t.Run("2025 base level without a rule", func(t *testing.T) {
		got := p.Parse(2025, "OTRA COSA", "SUR 6")
		assert.Equal(t, provider.LevelNivelacion, got.Level)
		assert.False(t, got.Matched())
	})
	t.Run("no rule for phase", func(t *testing.T) {
		assert.Equal(t, Unmatched(), p.Parse(2022, "ALGO", "SUR 1A"))
	})
}

func TestParseRecoversFromPanic(t *testing.T) {
	t.Parallel()

	p := newTestParser()
	p.Register(RuleSet{Year: 1999, Rules: []Rule{{
		Name:  "boom",
		Match: has("X"),
		Apply: func(string, string, *Result) { panic("bad rule") },
	}}})

	var got Result
	require.NotPanics(t, func() { got = p.Parse(1999, "X", "ZONA A") })
	assert.Equal(t, Unmatched(), got)
}

func TestClean(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `NORTE "A"`, Clean("  norte   “A”  "))
	assert.Equal(t, `ZONA "B"`, Clean(`zona ""B""`))
}
