package group

import (
	"strings"

	"github.com/albapepper/febamba-data/internal/provider"
)

var (
	g2022Clasificacion = mustRe(`([\p{L}\p{N}_]+)\s*(\d)([A-Z])?`)
	g2022NivelZona     = mustRe(`([\p{L}\p{N}_]+)\s*ZONA\s+([A-Z]+)`)
	g2022PlayOff       = mustRe(`([A-Z]+)\s+(\d)`)
)

func rules2022() RuleSet {
	return RuleSet{
		Year: 2022,
		Rules: []Rule{
			{
				// SUR 1A, NORTE 2
				Name:  "2022/clasificacion",
				Match: has("CLASIFICACION"),
				Apply: func(_, g string, r *Result) {
					var grp string
					if capture(g2022Clasificacion, g, &r.Zone, &r.Level, &grp) {
						r.Group = orUnico(grp)
					}
				},
			},
			{
				Name:  "2022/nivel",
				Match: has("NIVEL"),
				Apply: func(_, g string, r *Result) {
					if g == "SUR UNICA" || g == "ZONA UNICA" {
						r.Zone, r.Group = provider.ZoneSur, provider.GroupUnico
						return
					}
					capture(g2022NivelZona, g, &r.Zone, &r.Group)
				},
			},
			{
				Name:  "2022/interconferencias",
				Match: has("INTERCONFERENCIAS"),
				Apply: func(_, g string, r *Result) {
					if capture(zonaLetter, g, &r.Group) {
						r.Level, r.Zone = provider.Interconferencia, provider.Interconferencia
					}
				},
			},
			{
				Name:  "2022/play-off",
				Match: has("PLAY OFF"),
				Apply: func(_, g string, r *Result) {
					if strings.Contains(g, provider.Interconferencia) {
						r.Level, r.Zone = provider.Interconferencia, provider.Interconferencia
						return
					}
					capture(g2022PlayOff, g, &r.Zone, &r.Level)
				},
			},
			{
				Name:  "2022/final-four",
				Match: has("FINAL FOUR"),
				Apply: func(_, _ string, r *Result) { r.Zone = provider.Interconferencia },
			},
		},
	}
}
