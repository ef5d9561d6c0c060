package phase

import (
	"strings"

	"github.com/albapepper/febamba-data/internal/label"
	"github.com/albapepper/febamba-data/internal/provider"
)

var (
	conf2019ZoneLevel = mustRe(`CONFERENCIA\s+([A-Z]+)\s+(\d+)`)
	conf2019LevelZone = mustRe(`CONFERENCIA\s+(\d+)\s+([A-Z]+)`)
	conf2019Level     = mustRe(`CONFERENCIA\s+(\d+)`)

	final2019LevelZone = mustRe(`CONFERENCIA\s+(\d)\s+([A-Z]+)\s+FINAL`)
	final2019ZoneLevel = mustRe(`CONFERENCIA\s+([A-Z]+)\s+(\d)\s+FINAL`)

	confShort = mustRe(`CONF\s*(\d)`)
)

func rules2019() RuleSet {
	return RuleSet{
		Year: 2019,
		Fixups: []Fixup{
			{mustRe(`CURTOS`), "CUARTOS"},
			{mustRe(`CUARTOS DE FINA\b`), "CUARTOS DE FINAL"},
			{mustRe(`SEMFINALES`), "SEMIFINALES"},
		},
		Rules: []Rule{
			{
				Name:  "2019/zona-1ra-fase",
				Match: has("SUR 1RA FASE", "CENTRO 1RA FASE", "NORTE 1RA FASE", "OESTE 1RA FASE"),
				Apply: func(t string, r *Result) {
					r.set(provider.PhaseRegular, RoundFirst)
					if z, ok := label.FirstZone(t); ok {
						r.Zone = z
					}
				},
			},
			{"2019/final-interconf-1", is("FINAL INTERCONFERENCIAS 1"),
				assign(provider.PhaseFinalFour, RoundFinal, "1", provider.Interconferencia)},
			{"2019/final-interconf-2", is("FINAL INTERCONFERENCIA 2"),
				assign(provider.PhaseFinalFour, RoundFinal, "2", provider.Interconferencia)},
			{"2019/semis-interconf-2", is("FINALES INTERCONFERENCIAS 2"),
				assign(provider.PhaseFinalFour, RoundSemi, "2", provider.Interconferencia)},
			{"2019/semis-interconf-1", is("FINALES INTERCONFERENCIAS 1"),
				assign(provider.PhaseFinalFour, RoundSemi, "1", provider.Interconferencia)},
			{"2019/final-interconf-playoff", is("FINAL INTERCONFERENCIAS"),
				assign(provider.PhasePlayoff, RoundFinal, provider.Interconferencia, provider.Interconferencia)},
			{
				Name:  "2019/conferencia-2da-fase",
				Match: hasAll("CONFERENCIA", "2DA FASE"),
				Apply: func(t string, r *Result) {
					r.set(provider.PhaseRegular, RoundSecond)
					if g, ok := label.Submatch(conf2019ZoneLevel, t); ok {
						r.Zone, r.Level = g[0], g[1]
					} else if g, ok := label.Submatch(conf2019LevelZone, t); ok {
						r.Level, r.Zone = g[0], g[1]
					} else if g, ok := label.Submatch(conf2019Level, t); ok {
						r.Level = g[0]
					}
				},
			},
			{
				Name: "2019/conferencia-final",
				Match: and(
					hasAll("CONFERENCIA", "FINAL"),
					not(has("FINAL CONFERENCIA", "FINAL INTERCONFERENCIA", "FINALES INTERCONFERENCIAS", "FINAL INTERONFERENCIAS")),
				),
				Apply: func(t string, r *Result) {
					r.set(provider.PhaseRegular, RoundThird)
					if g, ok := label.Submatch(final2019LevelZone, t); ok {
						r.Level, r.Zone = g[0], g[1]
					} else if g, ok := label.Submatch(final2019ZoneLevel, t); ok {
						r.Zone, r.Level = g[0], g[1]
					}
				},
			},
			{
				Name:  "2019/octavos",
				Match: has("OCTAVOS DE FINAL"),
				Apply: func(t string, r *Result) {
					r.set(provider.PhasePlayoff, RoundEighths)
					if t == "OCTAVOS DE FINAL" {
						r.interconference()
						return
					}
					r.Level, r.Zone = levelZone2019(t)
				},
			},
			{
				Name:  "2019/cuartos",
				Match: has("CUARTOS DE FINAL"),
				Apply: func(t string, r *Result) {
					r.set(provider.PhasePlayoff, RoundQuarters)
					if strings.Contains(t, "INTERCONFERENCIAS") {
						r.interconference()
						return
					}
					r.Level, r.Zone = levelZone2019(t)
				},
			},
			{
				Name:  "2019/semifinales",
				Match: has("SEMIFINALES"),
				Apply: func(t string, r *Result) {
					r.set(provider.PhasePlayoff, RoundSemi)
					r.Level, r.Zone = levelZone2019(t)
				},
			},
			{"2019/interconferencia", has("INTERCONFERENCIA"),
				assign(provider.PhaseRegular, RoundSecond, provider.Interconferencia, provider.Interconferencia)},
			{"2019/desempate", has("DESEMPATE"),
				assign(provider.PhaseRegular, RoundSecond, provider.Interconferencia, provider.Interconferencia)},
			{
				Name:  "2019/estimulo",
				Match: has("ESTIMULO"),
				Apply: func(t string, r *Result) {
					r.set(provider.PhaseRegular, RoundEstimulo)
					r.Level = "3"
					// A shared NORTE/CENTRO group is filed under CENTRO.
					switch {
					case strings.Contains(t, "CENTRO"):
						r.Zone = provider.ZoneCentro
					case strings.Contains(t, "OESTE"):
						r.Zone = provider.ZoneOeste
					}
				},
			},
			{
				Name:  "2019/final-conferencia",
				Match: has("FINAL CONFERENCIA"),
				Apply: func(t string, r *Result) {
					r.set(provider.PhasePlayoff, RoundFinal)
					r.Level, r.Zone = levelZone2019(t)
				},
			},
		},
	}
}

// levelZone2019 reads the conference tier and zone out of a 2019 playoff
// label such as "CUARTOS DE FINAL CONF.1 NORTE".
func levelZone2019(text string) (level, zone string) {
	t := strings.ReplaceAll(text, ".", "")
	t = confShort.ReplaceAllString(t, "CONF ${1}")

	if g, ok := label.Submatch(confShort, t); ok {
		level = g[0]
	} else if strings.Contains(t, "CONF") {
		level = "1"
	}
	zone, _ = label.FirstZone(t)

	if (level == "" || zone == "") && strings.Contains(t, provider.Interconferencia) {
		return provider.Interconferencia, provider.Interconferencia
	}
	if level == "" {
		level = provider.Unknown
	}
	if zone == "" {
		zone = provider.UnknownF
	}
	return level, zone
}
