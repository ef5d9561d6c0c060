package phase

import (
	"strings"

	"github.com/albapepper/febamba-data/internal/provider"
)

func rules2024() RuleSet {
	return RuleSet{
		Year: 2024,
		Rules: []Rule{
			{"2024/1er-etapa", and(has("1ER ETAPA"), not(has("2DA"))),
				assign(provider.PhaseRegular, RoundFirst, "", "")},
			{"2024/1er-etapa-2da-fase", has("1ER ETAPA 2DA FASE"),
				assign(provider.PhaseRegular, RoundSecond, "", "")},
			{"2024/fase-final", has("FASE FINAL"),
				assign(provider.PhaseRegular, RoundThird, "", "")},
			{
				Name:  "2024/reclasificacion",
				Match: has("RECLASIFICACION"),
				Apply: func(t string, r *Result) {
					r.set(provider.PhaseRegular, RoundThird)
					r.Level = "3"
					if strings.Contains(t, provider.ZoneNorte) {
						r.Zone = provider.ZoneNorte
					}
				},
			},
			{"2024/interconferencias-b", has("INTERCONFERRENCIAS B"),
				assign(provider.PhasePlayoff, "", "INTERCONFERENCIA B", provider.Interconferencia)},
			{"2024/nivel-1-norte-semis", is("NIVEL 1 NORTE SEMIFINALES"),
				assign(provider.PhasePlayoff, "", "1", provider.ZoneNorte)},
			{
				Name:  "2024/play-in",
				Match: has("PLAY IN"),
				Apply: func(t string, r *Result) {
					r.set(provider.PhasePlayoff, RoundPlayIn)
					if strings.Contains(t, "NIVEL 2") {
						r.Level = "2"
					}
				},
			},
			{
				Name:  "2024/play-off",
				Match: has("PLAY OFF"),
				Apply: func(t string, r *Result) {
					r.set(provider.PhasePlayoff, "")
					if strings.Contains(t, "-NIVEL 2") {
						r.Level = "2"
					}
					if strings.Contains(t, "NIVEL 1") {
						r.Level = "1"
					}
					if strings.Contains(t, "INTERCONFERENCIAS A") {
						r.Level = "INTERCONFERENCIA A"
						r.Zone = provider.Interconferencia
					}
				},
			},
			{"2024/semifianl-nivel-1-sur", is("SEMIFIANL NIVEL 1 SUR"),
				assign(provider.PhasePlayoff, "", "1", provider.ZoneSur)},
			{"2024/semifinal", has("SEMIFINAL"), assign(provider.PhasePlayoff, "", "", "")},
		},
	}
}

func rules2025() RuleSet {
	return RuleSet{
		Year: 2025,
		Rules: []Rule{
			{"2025/1er-etapa", has("1ER ETAPA"),
				assign(provider.PhaseRegular, RoundCopa, provider.LevelNivelacion, "")},
		},
	}
}
