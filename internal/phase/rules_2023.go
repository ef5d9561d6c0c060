package phase

import (
	"regexp"
	"strings"

	"github.com/albapepper/febamba-data/internal/label"
	"github.com/albapepper/febamba-data/internal/provider"
)

var (
	quartersZoneLevel = mustRe(`CUARTOS DE FINAL\s*-?\s*([A-Z]+)\s*(\d)`)
	quartersLevelZone = mustRe(`CUARTOS DE FINAL\s*-?\s*(\d)\s*([A-Z]+)`)
	quartersZone      = mustRe(`CUARTOS DE FINAL\s*-?\s*([A-Z]+)`)
	quartersLevel     = mustRe(`CUARTOS DE FINAL\s*-?\s*(\d)`)
	looseDigit        = mustRe(`\b(\d)\b`)

	conf2023Level     = mustRe(`CONFERENCIA\s*(\d+)`)
	conf2023LevelZone = mustRe(`CONFERENCIA\s*\d+\s+([A-Z]+)\s+([A-Z])\b`)
	conf2023ZoneGroup = mustRe(`CONFERENCIA\s+([A-Z]+)\s+(\d+)\s+([A-Z])\b`)
	conf2023AfterNum  = mustRe(`CONFERENCIA\s*\d+\s+([A-Z]+)`)
	conf2023BeforeNum = mustRe(`CONFERENCIA\s+([A-Z]+)\s+\d+`)
)

func rules2023() RuleSet {
	return RuleSet{
		Year:   2023,
		Fixups: []Fixup{{mustRe(`0ESTE`), "OESTE"}},
		Rules: []Rule{
			{"2023/fase-regular", is("FASE REGULAR"), assign(provider.PhaseRegular, RoundFirst, "", "")},
			{
				Name:  "2023/octavos",
				Match: has("OCTAVOS DE FINAL"),
				Apply: func(t string, r *Result) {
					r.set(provider.PhasePlayoff, RoundEighths)
					if strings.Contains(t, provider.Interconferencia) {
						r.interconference()
						return
					}
					for _, lvl := range []string{"1", "2", "3"} {
						if strings.Contains(t, lvl) {
							r.Level = lvl
							return
						}
					}
				},
			},
			{Name: "2023/cuartos", Match: has("CUARTOS DE FINAL"), Apply: quarters2023},
			{
				Name:  "2023/semifinal",
				Match: has("SEMIFINAL"),
				Apply: func(t string, r *Result) {
					r.set(provider.PhasePlayoff, RoundSemi)
					if strings.Contains(t, "3 SUR") {
						r.Level, r.Zone = "3", provider.ZoneSur
					}
				},
			},
			{"2023/interconferencias", has("INTERCONFERENCIAS"),
				assign(provider.PhaseRegular, RoundSecond, provider.Interconferencia, provider.Interconferencia)},
			{
				Name:  "2023/conferencia",
				Match: has("CONFERENCIA"),
				Apply: func(t string, r *Result) {
					r.set(provider.PhaseRegular, RoundSecond)
					if g, ok := label.Submatch(conf2023Level, t); ok {
						r.Level = g[0]
					}
					switch {
					case matchInto(conf2023LevelZone, t, &r.Zone, &r.Group):
					case matchInto(conf2023ZoneGroup, t, &r.Zone, &r.Level, &r.Group):
					case matchInto(conf2023AfterNum, t, &r.Zone):
					case matchInto(conf2023BeforeNum, t, &r.Zone):
					}
				},
			},
			{"2023/interzonales", has("CONF 3 INTERZONALES"),
				assign(provider.PhaseRegular, RoundSecond, "3", provider.ZoneCentro)},
		},
	}
}

// quarters2023 handles the 2023 quarter-final labels. The round is left to
// the matchday since the same label covers every leg.
func quarters2023(t string, r *Result) {
	r.set(provider.PhasePlayoff, "")
	if strings.Contains(t, provider.Interconferencia) {
		r.interconference()
		return
	}
	if strings.Contains(t, "CONFERENCIA") {
		r.Level, r.Zone = levelZone2023(t)
		return
	}

	if g, ok := label.Submatch(quartersZoneLevel, t); ok && zone2023(g[0]) != "" {
		r.Zone, r.Level = zone2023(g[0]), g[1]
	} else if g, ok := label.Submatch(quartersLevelZone, t); ok && zone2023(g[1]) != "" {
		r.Level, r.Zone = g[0], zone2023(g[1])
	} else if g, ok := label.Submatch(quartersZone, t); ok && zone2023(g[0]) != "" {
		r.Zone = zone2023(g[0])
	} else if g, ok := label.Submatch(quartersLevel, t); ok {
		r.Level = g[0]
	}

	if provider.IsUnknown(r.Level) {
		if g, ok := label.Submatch(looseDigit, t); ok {
			r.Level = g[0]
		}
	}
	if provider.IsUnknown(r.Zone) {
		if z, ok := label.FirstZone(t); ok {
			r.Zone = z
		}
	}
}

// zone2023 corrects the truncated spellings of OESTE and returns "" for
// words that are not a zone.
func zone2023(word string) string {
	switch word {
	case "ESTE", "O":
		return provider.ZoneOeste
	}
	if label.IsZone(word) {
		return word
	}
	return ""
}

func levelZone2023(text string) (level, zone string) {
	t := strings.NewReplacer(".", " ", "-", " ").Replace(text)
	t = label.Collapse(t)
	if strings.Contains(t, provider.Interconferencia) {
		return provider.Interconferencia, provider.Interconferencia
	}

	level, zone = provider.Unknown, provider.UnknownF
	if g, ok := label.Submatch(looseDigit, t); ok {
		level = g[0]
	}
	if z, ok := label.FirstZone(t); ok {
		zone = z
	}
	return level, zone
}

// matchInto copies the capture groups of re into dst in order.
func matchInto(re *regexp.Regexp, s string, dst ...*string) bool {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	for i, d := range dst {
		*d = m[i+1]
	}
	return true
}
