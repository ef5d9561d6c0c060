package group

import "github.com/albapepper/febamba-data/internal/provider"

var (
	g2019Conference = mustRe(`CONFERENCIA\s+([A-Z]+)\s*(\d)\s*([A-Z])`)

	g2019GroupZoneLevel = mustRe(`^ZONA\s+([A-Z])\s+([A-Z]+)\s+(\d)`)
	g2019ZoneGroupLevel = mustRe(`^ZONA\s+([A-Z]+)\s+([A-Z])\s+(\d)`)
	g2019ZoneLevel      = mustRe(`^ZONA\s+([A-Z]+)\s+(\d)`)
	g2019LevelZone      = mustRe(`ZONA\s+(\d)\s+([A-Z]+)`)

	zonaLetter = mustRe(`ZONA\s+([A-Z])`)
)

func rules2019() RuleSet {
	return RuleSet{
		Year: 2019,
		Rules: []Rule{
			{
				// CONFERENCIA NORTE 1 A, CONFERENCIA NORTE1A
				Name:  "2019/1ra-fase",
				Match: has("1RA FASE"),
				Apply: func(_, g string, r *Result) {
					capture(g2019Conference, g, &r.Zone, &r.Level, &r.Group)
				},
			},
			{
				Name:  "2019/conferencia-2da-fase",
				Match: hasAll("CONFERENCIA", "2DA FASE"),
				Apply: func(_, g string, r *Result) {
					switch {
					case capture(g2019GroupZoneLevel, g, &r.Group, &r.Zone, &r.Level):
					case capture(g2019ZoneGroupLevel, g, &r.Zone, &r.Group, &r.Level):
					case capture(g2019ZoneLevel, g, &r.Zone, &r.Level):
						r.Group = provider.GroupUnico
					case capture(g2019LevelZone, g, &r.Level, &r.Zone):
						r.Group = provider.GroupUnico
					}
				},
			},
			{
				Name:  "2019/conferencia-final",
				Match: hasAll("CONFERENCIA", "FINAL"),
				Apply: func(_, g string, r *Result) {
					capture(zonaLetter, g, &r.Group)
				},
			},
			{
				Name:  "2019/interconferencia",
				Match: has("INTERCONFERENCIA"),
				Apply: func(_, g string, r *Result) {
					if capture(zonaLetter, g, &r.Group) {
						r.Level, r.Zone = provider.Interconferencia, provider.Interconferencia
					}
				},
			},
		},
	}
}
