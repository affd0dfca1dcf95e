package specdsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/bplan/pkg/planerr"
)

func TestParseResourceFileSingleLine(t *testing.T) {
	entries, err := ParseResourceFile("(:resource rover0 0 10 1)")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, Entry{Name: "rover0", Min: 0, Max: 10, Delta: 1}, entries[0])
}

func TestParseFunctionFileMultipleStatementsAcrossLines(t *testing.T) {
	data := `
		(:function energy_rover0
		           0 100 10)

		(:function on(a,b) 0 1 1)
	`
	entries, err := ParseFunctionFile(data)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "energy_rover0", entries[0].Name)
	assert.Equal(t, "on(a,b)", entries[1].Name)
}

func TestParseDuplicateNameLastWins(t *testing.T) {
	data := "(:resource r 0 10 1) (:resource r 0 20 2)"
	entries, err := ParseResourceFile(data)
	require.NoError(t, err)
	require.Len(t, entries, 1, "duplicate NAME should collapse to one entry")
	assert.Equal(t, 20, entries[0].Max, "the last statement should win")
}

func TestParseRejectsWrongKeyword(t *testing.T) {
	_, err := ParseResourceFile("(:function r 0 10 1)")
	assert.ErrorIs(t, err, planerr.ErrSpecParse)
}

func TestParseRejectsNegativeBound(t *testing.T) {
	_, err := ParseResourceFile("(:resource r -1 10 1)")
	assert.ErrorIs(t, err, planerr.ErrSpecParse)
}

func TestParseRejectsMalformedStatement(t *testing.T) {
	_, err := ParseResourceFile("(:resource r 0 10)")
	assert.ErrorIs(t, err, planerr.ErrSpecParse)
}

func TestParseEmptyFile(t *testing.T) {
	entries, err := ParseResourceFile("")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTokenizeNestedParens(t *testing.T) {
	toks := tokenize("(:function on(a,b) 0 1 1)")
	want := []string{"(", ":function", "on(a,b)", "0", "1", "1", ")"}
	assert.Equal(t, want, toks)
}
