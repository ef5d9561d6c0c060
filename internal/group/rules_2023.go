package group

import (
	"strings"

	"github.com/albapepper/febamba-data/internal/label"
	"github.com/albapepper/febamba-data/internal/provider"
)

var (
	g2023Regular   = mustRe(`(\p{L}+)\s*(\d)?"?([A-Z])?"?`)
	g2023Loose     = mustRe(`^([A-Z]+)\s*(\d*)\s*([A-Z]?)`)
	g2023Glued     = mustRe(`^([A-Z]+)(\d)([A-Z])$`)
	g2023GluedBare = mustRe(`^([A-Z]+)(\d)$`)
	digits         = mustRe(`^\d+$`)
)

func rules2023() RuleSet {
	return RuleSet{
		Year: 2023,
		Rules: []Rule{
			{
				Name:  "2023/interconferencias",
				Match: func(p string) bool { return p == "INTERCONFERENCIAS" },
				Apply: func(_, g string, r *Result) {
					capture(zonaLetter, g, &r.Group)
				},
			},
			{
				// NORTE 1"A", SUR
				Name:  "2023/fase-regular",
				Match: has("FASE REGULAR"),
				Apply: func(_, g string, r *Result) {
					var lvl, grp string
					if capture(g2023Regular, g, &r.Zone, &lvl, &grp) {
						r.Level = provider.Or(lvl, provider.Unknown)
						r.Group = orUnico(grp)
					}
				},
			},
			{
				Name:  "2023/conferencia",
				Match: has("CONFERENCIA"),
				Apply: conference2023,
			},
		},
	}
}

func conference2023(phase, g string, r *Result) {
	g = strings.ReplaceAll(g, "0ESTE", "OESTE")
	g = strings.ReplaceAll(g, `"`, "")

	phaseLevel := provider.Unknown
	if w, ok := label.WordAfter(phase, "CONFERENCIA"); ok && digits.MatchString(w) {
		phaseLevel = w
	}

	if strings.Contains(phase, "OCTAVOS DE FINAL") {
		zone := g
		if g == "CENTRO 1" {
			zone = provider.ZoneCentro
		}
		if label.IsZone(zone) {
			r.Zone, r.Level, r.Group = zone, phaseLevel, provider.GroupUnico
		}
		return
	}

	// CENTRO A, OESTE, SUR 2 B
	var zone, lvl, grp string
	if capture(g2023Loose, g, &zone, &lvl, &grp) && label.IsZone(zone) {
		r.Zone = zone
		r.Level = phaseLevel
		if lvl != "" {
			r.Level = lvl
		}
		r.Group = orUnico(grp)
	}
	// NORTE1A, CENTRO2
	if capture(g2023Glued, g, &r.Zone, &r.Level, &r.Group) {
		return
	}
	if capture(g2023GluedBare, g, &r.Zone, &r.Level) {
		r.Group = provider.GroupUnico
	}
}
