package bbt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/dnaenc/edesigner/internal/domain/bbt"
	"github.com/dnaenc/edesigner/internal/domain/param"
)

func TestRecord_TracksHistogramsAndExtent(t *testing.T) {
	p := &param.Params{FG: threeFG(false)}
	cat, err := bbt.BuildCatalogue(p, 10)
	require.NoError(t, err)

	b, _ := cat.Get(0)
	assert.Equal(t, 0, b.TotalCompounds())

	b.Record(5, false, "CCO")
	b.Record(7, true, "CCN")
	b.Record(5, false, "CCC")

	assert.Equal(t, 3, b.TotalCompounds())
	assert.Equal(t, 2, b.NCompounds[5])
	assert.Equal(t, 1, b.NCompounds[7])
	assert.Equal(t, 2, b.NInternal[5])
	assert.Equal(t, 1, b.NExternal[7])
	assert.Equal(t, 5, b.MinAtoms)
	assert.Equal(t, 7, b.MaxAtoms)
	assert.Equal(t, "CCO", b.SMILESExample, "first recorded compound is the representative example")
}

// TestProperty_EmptyBBTNeverProducesDesign documents the boundary case from
// §8: a BBT with sum n_compounds == 0 carries no compounds to draw from.
func TestProperty_EmptyBBTNeverProducesDesign(t *testing.T) {
	p := &param.Params{FG: threeFG(false)}
	cat, err := bbt.BuildCatalogue(p, 10)
	require.NoError(t, err)

	b, _ := cat.Get(0)
	assert.Equal(t, 0, b.TotalCompounds())
}

func TestMatchesLongVector_RejectsMismatchedLength(t *testing.T) {
	p := &param.Params{FG: threeFG(false)}
	cat, err := bbt.BuildCatalogue(p, 10)
	require.NoError(t, err)

	b, _ := cat.Get(0)
	assert.False(t, b.MatchesLongVector([]int{1, 2}))
}
