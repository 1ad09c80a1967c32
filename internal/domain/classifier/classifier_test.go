package classifier_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/dnaenc/edesigner/internal/domain/bbt"
	"github.com/dnaenc/edesigner/internal/domain/classifier"
	"github.com/dnaenc/edesigner/internal/domain/param"
	"github.com/dnaenc/edesigner/internal/testutil"
)

func testParams() *param.Params {
	return &param.Params{
		FG: []param.FG{
			{Index: 0, Name: "null"},
			{Index: 1, Name: "A", QueryHandles: []string{"qA"}},
			{Index: 2, Name: "B", QueryHandles: []string{"qB"}},
		},
		AntiFG: []param.AntiFG{
			{Index: 0, Name: "azide", QueryHandles: []string{"qAzide"}},
		},
		Global: param.Global{
			NRawMax: 100,
			RRawMax: 100,
			AMin:    1,
			AMax:    100,
			RMax:    100,
		},
	}
}

func buildCatalogue(t *testing.T, p *param.Params) *bbt.Catalogue {
	t.Helper()
	cat, err := bbt.BuildCatalogue(p, 200)
	require.NoError(t, err)
	return cat
}

func TestClassifyBatch_AssignsToMatchingBBT(t *testing.T) {
	p := testParams()
	cat := buildCatalogue(t, p)
	chem := testutil.NewFakeChemTool()
	chem.Register("CCN", classifier.MoleculeProperties{CanonicalSMILES: "CCN", HeavyAtoms: 10, RotatableBonds: 1})
	chem.RegisterFG("CCN", "qA", 1)

	c := classifier.New(p, cat, chem, testutil.NewNopLogger())
	out := c.ClassifyBatch(context.Background(), "src1", true, []classifier.RawMolecule{{SMILES: "CCN", ID: "m1"}}, classifier.NewDedup())

	require.Len(t, out, 1)
	assert.Equal(t, "src1:m1", out[0].ID)
	assert.Equal(t, 10, out[0].EffectiveAtoms)

	idx, ok := cat.IndexOfTriple([3]int{0, 0, 1})
	require.True(t, ok)
	assert.Equal(t, idx, out[0].BBTIndex)
}

func TestClassifyBatch_DropsMoleculeWithAntiFG(t *testing.T) {
	p := testParams()
	cat := buildCatalogue(t, p)
	chem := testutil.NewFakeChemTool()
	chem.Register("CCN", classifier.MoleculeProperties{CanonicalSMILES: "CCN", HeavyAtoms: 10, RotatableBonds: 1})
	chem.RegisterFG("CCN", "qA", 1)
	chem.RegisterFG("CCN", "qAzide", 1)

	c := classifier.New(p, cat, chem, testutil.NewNopLogger())
	out := c.ClassifyBatch(context.Background(), "src1", true, []classifier.RawMolecule{{SMILES: "CCN", ID: "m1"}}, classifier.NewDedup())

	assert.Empty(t, out)
}

func TestClassifyBatch_DropsMoleculeWithRepeatedFG(t *testing.T) {
	p := testParams()
	cat := buildCatalogue(t, p)
	chem := testutil.NewFakeChemTool()
	chem.Register("CCCN", classifier.MoleculeProperties{CanonicalSMILES: "CCCN", HeavyAtoms: 10, RotatableBonds: 1})
	chem.RegisterFG("CCCN", "qA", 2) // FG A hit twice -> not distinct

	c := classifier.New(p, cat, chem, testutil.NewNopLogger())
	out := c.ClassifyBatch(context.Background(), "src1", true, []classifier.RawMolecule{{SMILES: "CCCN", ID: "m1"}}, classifier.NewDedup())

	assert.Empty(t, out)
}

func TestClassifyBatch_DropsOutOfRangeEffectiveAtoms(t *testing.T) {
	p := testParams()
	p.Global.AMax = 5
	cat := buildCatalogue(t, p)
	chem := testutil.NewFakeChemTool()
	chem.Register("CCN", classifier.MoleculeProperties{CanonicalSMILES: "CCN", HeavyAtoms: 10, RotatableBonds: 1})
	chem.RegisterFG("CCN", "qA", 1)

	c := classifier.New(p, cat, chem, testutil.NewNopLogger())
	out := c.ClassifyBatch(context.Background(), "src1", true, []classifier.RawMolecule{{SMILES: "CCN", ID: "m1"}}, classifier.NewDedup())

	assert.Empty(t, out)
}

func TestClassifyBatch_DropsUnparsableMolecule(t *testing.T) {
	p := testParams()
	cat := buildCatalogue(t, p)
	chem := testutil.NewFakeChemTool()
	chem.Unparsable["garbage"] = true

	c := classifier.New(p, cat, chem, testutil.NewNopLogger())
	out := c.ClassifyBatch(context.Background(), "src1", true, []classifier.RawMolecule{{SMILES: "garbage", ID: "m1"}}, classifier.NewDedup())

	assert.Empty(t, out)
}

func TestClassifyBatch_DedupKeepsFirstOccurrenceAcrossSources(t *testing.T) {
	p := testParams()
	cat := buildCatalogue(t, p)
	chem := testutil.NewFakeChemTool()
	chem.Register("CCN", classifier.MoleculeProperties{CanonicalSMILES: "CCN", HeavyAtoms: 10, RotatableBonds: 1})
	chem.RegisterFG("CCN", "qA", 1)

	dedup := classifier.NewDedup()
	c := classifier.New(p, cat, chem, testutil.NewNopLogger())

	first := c.ClassifyBatch(context.Background(), "src1", true, []classifier.RawMolecule{{SMILES: "CCN", ID: "m1"}}, dedup)
	second := c.ClassifyBatch(context.Background(), "src2", false, []classifier.RawMolecule{{SMILES: "CCN", ID: "m2"}}, dedup)

	assert.Len(t, first, 1)
	assert.Empty(t, second, "duplicate canonical SMILES from a later source must be dropped")
}

func TestClassifyBatch_CalcFGParticipatesInFGCount(t *testing.T) {
	p := testParams()
	p.FG = append(p.FG, param.FG{Index: 3, Name: "C"}) // no query handles; only derived
	p.CalcFG = []param.CalcFG{{Name: "C", Add: []string{"A", "B"}}}
	cat := buildCatalogue(t, p)

	chem := testutil.NewFakeChemTool()
	chem.Register("CCNCO", classifier.MoleculeProperties{CanonicalSMILES: "CCNCO", HeavyAtoms: 10, RotatableBonds: 1})
	chem.RegisterFG("CCNCO", "qA", 1)

	c := classifier.New(p, cat, chem, testutil.NewNopLogger())
	out := c.ClassifyBatch(context.Background(), "src1", true, []classifier.RawMolecule{{SMILES: "CCNCO", ID: "m1"}}, classifier.NewDedup())

	// calcFG C = A + B = 1 + 0 = 1, overwriting the zero direct count for C
	// (which has no query handles of its own), so total FG hits becomes 2:
	// one for A and one for the derived C.
	require.Len(t, out, 1)
}
