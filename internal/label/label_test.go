package label

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpper(t *testing.T) {
	t.Parallel()

	// "N" followed by a combining tilde composes to a single "Ñ".
	assert.Equal(t, "CAÑUELAS", Upper("  can\u0303uelas "))
	assert.Equal(t, "CAÑUELAS", Upper("cañuelas"))
}

func TestFoldQuotes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `NORTE 1"A"`, FoldQuotes(`NORTE 1“A”`))
	assert.Equal(t, `NIVEL 2 SUR "B"`, FoldQuotes(`NIVEL 2 SUR ""B""`))
	assert.Equal(t, "ZONA 'A'", FoldQuotes("ZONA ‘A’"))
}

func TestCollapse(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "CENTRO OESTE 4", Collapse("  CENTRO \t OESTE   4 "))
}

func TestFirstZone(t *testing.T) {
	t.Parallel()

	z, ok := FirstZone("CUARTOS DE FINAL CONF 1 NORTE")
	assert.True(t, ok)
	assert.Equal(t, "NORTE", z)

	_, ok = FirstZone("INTERCONFERENCIA")
	assert.False(t, ok)
}

func TestWordAfter(t *testing.T) {
	t.Parallel()

	w, ok := WordAfter("CONFERENCIA 1 OCTAVOS DE FINAL", "CONFERENCIA")
	assert.True(t, ok)
	assert.Equal(t, "1", w)

	_, ok = WordAfter("CONFERENCIA", "CONFERENCIA")
	assert.False(t, ok)
}

func TestSubmatch(t *testing.T) {
	t.Parallel()

	re := regexp.MustCompile(`ZONA\s+([A-Z])`)
	g, ok := Submatch(re, "ZONA B")
	assert.True(t, ok)
	assert.Equal(t, []string{"B"}, g)

	_, ok = Submatch(re, "UNICA")
	assert.False(t, ok)
}
