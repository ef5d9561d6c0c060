package group

import (
	"strings"

	"github.com/albapepper/febamba-data/internal/provider"
)

var (
	g2024FlexPhase   = mustRe(`([A-Z]+)\s*['"]?([A-Z\d])['"]?`)
	g2024FlexGroup   = mustRe(`RECLASIFICACION FLEX ([A-ZÑÁÉÍÓÚÜ\-]+)\s+['"]?([A-Z])['"]?$`)
	g2024Interconf   = mustRe(`INTERCONFER+ENCIAS?\s*([A-B])\s*ZONA\s*"?([A-Z])"?`)
	g2024Nivel       = mustRe(`NIVEL\s*(\d)\s*([A-ZÑÁÉÍÓÚÜ\-]+)\s*(?:LFF)?\s*"?([A-Z])"?$`)
	g2024NivelUnica  = mustRe(`NIVEL\s*(\d)\s*([\p{L}\p{N}_]+)\s*UNICA`)
	g2024PairGroup   = mustRe(`NIVEL\s*(\d)\s*([A-ZÑ\-]+)\s*([A-Z])-([A-Z])`)
	g2024EndsLetter  = mustRe(`\b"?[A-Z]"?\b$`)
	g2024NivelLetter = mustRe(`NIVEL\s*(\d)\s+([A-ZÑ\-]+)\s+"?([A-Z])"?$`)
	g2024NivelBare   = mustRe(`NIVEL\s*(\d)\s*([A-ZÑ\-]+)(?:\s*LFF)?`)
	g2024PlayIC      = mustRe(`INTERCONFERENCIAS?\s*([AB])`)
	g2024PlayZona    = mustRe(`ZONA\s*['"]?([A-Z])['"]?`)
	g2024PlayNivel   = mustRe(`NIVEL\s*(\d)\s*([A-ZÑ\-]+)`)
	g2024PlayZone    = mustRe(`([A-ZÑÁÉÍÓÚÜ\-]+)\s+([A-Z](?:-[A-Z])?)`)

	playZoneFixer = strings.NewReplacer(
		"0ESTE", "OESTE",
		"CENTROB", "CENTRO-NORTE",
		"B/NORTE", "CENTRO-NORTE",
		"/", "-",
	)
)

func rules2024() RuleSet {
	return RuleSet{
		Year: 2024,
		Rules: []Rule{
			{
				// NORTE "A", SUR 2
				Name:  "2024/reclasificacion-flex",
				Match: has("RECLASIFICACION FLEX"),
				Apply: func(_, g string, r *Result) {
					r.Level = "3"
					var grp string
					if capture(g2024FlexPhase, g, &r.Zone, &grp) {
						r.Group = numberedGroup(grp)
					}
				},
			},
			{
				Name:  "2024/fase-final",
				Match: has("FASE FINAL"),
				Apply: func(_, g string, r *Result) {
					switch {
					case strings.Contains(g, "RECLASIFICACION FLEX"):
						r.Level = "3"
						capture(g2024FlexGroup, g, &r.Zone, &r.Group)
					case strings.Contains(g, provider.Interconferencia):
						var tier string
						if capture(g2024Interconf, g, &tier, &r.Group) {
							r.Level = provider.Interconferencia + " " + tier
							r.Zone = provider.Interconferencia
						}
					case capture(g2024Nivel, g, &r.Level, &r.Zone, &r.Group):
					case strings.Contains(g, "UNICA"):
						if capture(g2024NivelUnica, g, &r.Level, &r.Zone) {
							r.Group = provider.GroupUnico
						}
					}
				},
			},
			{
				Name:  "2024/1er-etapa-2da-fase",
				Match: hasAll("1ER ETAPA", "2DA"),
				Apply: func(_, g string, r *Result) {
					var a, b string
					switch {
					case capture(g2024PairGroup, g, &r.Level, &r.Zone, &a, &b):
						r.Group = a + "-" + b
					case g2024EndsLetter.MatchString(g):
						capture(g2024NivelLetter, g, &r.Level, &r.Zone, &r.Group)
					case capture(g2024NivelBare, g, &r.Level, &r.Zone):
						r.Group = "A-B"
					}
				},
			},
			{
				Name:  "2024/1er-etapa",
				Match: has("1ER ETAPA"),
				Apply: func(_, g string, r *Result) {
					capture(g2024Nivel, g, &r.Level, &r.Zone, &r.Group)
				},
			},
			{
				Name:  "2024/play",
				Match: has("PLAY OFF", "PLAY IN"),
				Apply: func(_, g string, r *Result) {
					var tier string
					switch {
					case capture(g2024PlayIC, g, &tier):
						r.Level = provider.Interconferencia + " " + tier
						r.Zone = provider.Interconferencia
						capture(g2024PlayZona, g, &r.Group)
					case capture(g2024PlayNivel, g, &r.Level, &r.Zone):
					default:
						capture(g2024PlayZone, playZoneFixer.Replace(g), &r.Zone, &r.Group)
					}
				},
			},
		},
	}
}

// numberedGroup maps the numeric group names some labels use to letters.
func numberedGroup(g string) string {
	switch g {
	case "1":
		return "A"
	case "2":
		return "B"
	}
	return g
}
