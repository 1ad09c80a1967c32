package design_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnaenc/edesigner/internal/domain/bbt"
	"github.com/dnaenc/edesigner/internal/domain/design"
	"github.com/dnaenc/edesigner/internal/domain/param"
)

func twoFGParams() *param.Params {
	return &param.Params{
		FG: []param.FG{
			{Index: 0, Name: "null"},
			{Index: 1, Name: "A", AllowedEndExposed: true},
			{Index: 2, Name: "B", AllowedEndExposed: true},
		},
		Headpieces: []param.Headpiece{{Index: 0, BBT: [3]int{0, 0, 1}, SMILES: "hp"}},
		Global:     param.Global{HeadpieceNA: 1, MaxCycleNA: []int{10}, MaxNAAbsolute: 20},
	}
}

func TestNewInitialDesigns_OnePerHeadpiece(t *testing.T) {
	p := twoFGParams()
	cat, err := bbt.BuildCatalogue(p, 50)
	require.NoError(t, err)

	designs := design.NewInitialDesigns(p, cat, 1)
	require.Len(t, designs, 1)

	d := designs[0]
	assert.Equal(t, 0, d.NCycles)
	assert.Equal(t, []int{1}, d.FGs, "headpiece exposes FG A")
	assert.Equal(t, []int{design.HeadpieceSourceTag}, d.FGSources)
	assert.Equal(t, 1, d.MinNatoms)
	assert.Len(t, d.BBTs, 1)
}

func TestClone_IsIndependentOfOriginal(t *testing.T) {
	p := twoFGParams()
	cat, err := bbt.BuildCatalogue(p, 50)
	require.NoError(t, err)
	d := design.NewInitialDesigns(p, cat, 1)[0]

	c := d.Clone()
	c.FGs = append(c.FGs, 99)
	c.BBTs[0] = 99

	assert.NotEqual(t, d.FGs, c.FGs, "mutating the clone must not affect the original")
	assert.NotEqual(t, d.BBTs[0], c.BBTs[0])
}

func TestProperty_FGsAndFGSourcesStayParallel(t *testing.T) {
	p := twoFGParams()
	cat, err := bbt.BuildCatalogue(p, 50)
	require.NoError(t, err)
	d := design.NewInitialDesigns(p, cat, 1)[0]
	assert.Equal(t, len(d.FGs), len(d.FGSources))
}

func TestIsComplete(t *testing.T) {
	d := &design.Design{TotalCycles: 2, NCycles: 1}
	assert.False(t, d.IsComplete())
	d.NCycles = 2
	assert.True(t, d.IsComplete())
}
