package phase

import (
	"github.com/albapepper/febamba-data/internal/label"
	"github.com/albapepper/febamba-data/internal/provider"
)

// QuarterfinalsLevel3 is the one 2022 label that names a playoff round the
// site otherwise leaves to the matchday.
const QuarterfinalsLevel3 = "CUARTOS NIVEL 3"

var (
	clasificacionLevel = mustRe(`CLASIFICACION\s*(\d+)`)
	nivelLevel         = mustRe(`NIVEL\s*(\d+)`)
)

func rules2022() RuleSet {
	return RuleSet{
		Year: 2022,
		Rules: []Rule{
			{
				Name:  "2022/clasificacion",
				Match: has("FASE DE CLASIFICACION", "FASE CLASIFICACION"),
				Apply: func(t string, r *Result) {
					r.set(provider.PhaseRegular, RoundFirst)
					if g, ok := label.Submatch(clasificacionLevel, t); ok {
						r.Level = g[0]
					}
				},
			},
			{"2022/cuartos-nivel-3", is(QuarterfinalsLevel3),
				assign(provider.PhasePlayoff, "", "3", provider.ZoneCentro)},
			{
				Name:  "2022/anexo",
				Match: has("ANEXO NIVEL"),
				Apply: func(t string, r *Result) {
					r.set(provider.PhaseRegular, RoundSecond)
					r.Zone = provider.ZoneCentro
					if g, ok := label.Submatch(nivelLevel, t); ok {
						r.Level = g[0]
					}
				},
			},
			{
				Name:  "2022/nivel",
				Match: and(has("NIVEL"), not(has("FASE"))),
				Apply: func(t string, r *Result) {
					r.set(provider.PhaseRegular, RoundSecond)
					if g, ok := label.Submatch(nivelLevel, t); ok {
						r.Level = g[0]
					}
				},
			},
			{"2022/interconferencias", has("INTERCONFERENCIAS"),
				assign(provider.PhaseRegular, RoundSecond, provider.Interconferencia, provider.Interconferencia)},
			{"2022/play-off", has("PLAY OFF"), assign(provider.PhasePlayoff, "", "", "")},
			{"2022/final-four", has("FINAL FOUR"), assign(provider.PhaseFinalFour, "", "", "")},
		},
	}
}
