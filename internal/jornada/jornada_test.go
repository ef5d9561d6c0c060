package jornada

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Heading
	}{
		{"SEMIFINAL Jornada 1 - 10/12/2023", Heading{Round: "SEMIFINAL", Matchday: "1", Date: "10/12/2023"}},
		{"Jornada 12 - 30/06/2019", Heading{Matchday: "12", Date: "30/06/2019"}},
		{"CUARTOS DE FINAL JORNADA 2", Heading{Round: "CUARTOS DE FINAL", Matchday: "2"}},
		{"Final Jornada3 - 01/11/2024 - Cancha 2", Heading{Round: "FINAL", Matchday: "3", Date: "01/11/2024 - CANCHA 2"}},
		{"  jornada 4-  ", Heading{Matchday: "4"}},
		{"Sin datos", Heading{}},
		{"", Heading{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Parse(tt.in), tt.in)
	}
}
