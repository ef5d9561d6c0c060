package group

import (
	"strings"

	"github.com/albapepper/febamba-data/internal/provider"
)

// CENTRO OESTE 4, SUR 6
var g2025ZoneNumber = mustRe(`([A-ZÑ\s\-]+?)\s*(\d+)$`)

func rules2025() RuleSet {
	base := Unmatched()
	base.Level = provider.LevelNivelacion
	return RuleSet{
		Year: 2025,
		Base: &base,
		Rules: []Rule{
			{
				Name:  "2025/1er-etapa",
				Match: has("1ER ETAPA"),
				Apply: func(_, g string, r *Result) {
					var zone string
					if capture(g2025ZoneNumber, g, &zone, &r.Group) {
						r.Zone = strings.TrimSpace(zone)
					}
				},
			},
		},
	}
}
