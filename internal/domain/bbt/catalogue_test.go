package bbt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/dnaenc/edesigner/internal/domain/bbt"
	"github.com/dnaenc/edesigner/internal/domain/param"
)

// threeFG builds a minimal FG table: 0=null, 1=A, 2=B, with an optional
// self-incompatibility between A and B.
func threeFG(aIncompatibleWithB bool) []param.FG {
	fgs := []param.FG{
		{Index: 0, Name: "null"},
		{Index: 1, Name: "A", Incompatible: map[int]bool{}},
		{Index: 2, Name: "B", Incompatible: map[int]bool{}},
	}
	if aIncompatibleWithB {
		fgs[1].Incompatible[2] = true
		fgs[2].Incompatible[1] = true
	}
	return fgs
}

func TestBuildCatalogue_EnumeratesSortedCompatibleTriples(t *testing.T) {
	p := &param.Params{FG: threeFG(false)}
	cat, err := bbt.BuildCatalogue(p, 10)
	require.NoError(t, err)

	// C(3+2,3) = 10 sorted triples over {0,1,2} of length 3, all compatible
	// since no self-incompatibility is declared.
	assert.Len(t, cat.BBTs, 10)

	idx, ok := cat.IndexOfTriple([3]int{0, 0, 0})
	require.True(t, ok)
	b, ok := cat.Get(idx)
	require.True(t, ok)
	assert.Equal(t, 0, b.Multi)
}

func TestBuildCatalogue_ExcludesSelfIncompatiblePairs(t *testing.T) {
	p := &param.Params{FG: threeFG(true)}
	cat, err := bbt.BuildCatalogue(p, 10)
	require.NoError(t, err)

	_, ok := cat.IndexOfTriple([3]int{0, 1, 2})
	assert.False(t, ok, "triple pairing incompatible FGs 1 and 2 must be excluded")
}

// TestProperty_AllPairsCompatible is Testable Property 1: for every BBT, all
// pairs of non-null FGs satisfy pairwise compatibility.
func TestProperty_AllPairsCompatible(t *testing.T) {
	p := &param.Params{FG: threeFG(true)}
	cat, err := bbt.BuildCatalogue(p, 10)
	require.NoError(t, err)

	for _, b := range cat.BBTs {
		for i := 0; i < 3; i++ {
			for j := i + 1; j < 3; j++ {
				fi, fj := b.Triple[i], b.Triple[j]
				if fi == param.NullFG || fj == param.NullFG {
					continue
				}
				assert.True(t, p.FG[fi].Compatible(fj),
					"BBT %v has incompatible FG pair (%d,%d)", b.Triple, fi, fj)
			}
		}
	}
}

func TestBuildCatalogue_LinksHeadpiece(t *testing.T) {
	p := &param.Params{
		FG:         threeFG(false),
		Headpieces: []param.Headpiece{{Index: 0, BBT: [3]int{0, 0, 1}, SMILES: "CN"}},
	}
	cat, err := bbt.BuildCatalogue(p, 10)
	require.NoError(t, err)

	idx, ok := cat.IndexOfTriple([3]int{0, 0, 1})
	require.True(t, ok)
	b, _ := cat.Get(idx)
	assert.True(t, b.IsHeadpiece())
	assert.Equal(t, 0, b.HeadpieceIndex)

	other, _ := cat.Get(0)
	assert.False(t, other.IsHeadpiece())
}

func TestBuildCatalogue_RejectsEmptyFGTable(t *testing.T) {
	_, err := bbt.BuildCatalogue(&param.Params{}, 10)
	require.Error(t, err)
}

func TestClassifyLongVector_MatchesOnMultiplicityAndVector(t *testing.T) {
	p := &param.Params{FG: threeFG(false)}
	cat, err := bbt.BuildCatalogue(p, 10)
	require.NoError(t, err)

	// Molecule with two A and one B: long vector [0,2,1], multiplicity 3.
	idx, ok := cat.ClassifyLongVector([]int{0, 2, 1}, 3)
	require.True(t, ok)
	b, _ := cat.Get(idx)
	assert.Equal(t, [3]int{1, 1, 2}, b.Triple)
}

func TestClassifyLongVector_NoMatch(t *testing.T) {
	p := &param.Params{FG: threeFG(false)}
	cat, err := bbt.BuildCatalogue(p, 10)
	require.NoError(t, err)

	// A vector of the wrong length can never match any BBT in the catalogue.
	_, ok := cat.ClassifyLongVector([]int{3, 0, 0, 0}, 0)
	assert.False(t, ok)
}
