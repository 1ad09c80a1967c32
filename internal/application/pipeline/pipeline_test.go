package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnaenc/edesigner/internal/application/pipeline"
	"github.com/dnaenc/edesigner/internal/domain/bbt"
	"github.com/dnaenc/edesigner/internal/domain/classifier"
	"github.com/dnaenc/edesigner/internal/domain/param"
	"github.com/dnaenc/edesigner/internal/infrastructure/monitoring/logging"
)

// fakeChemTool canonicalises by trimming whitespace and reports heavy-atom
// counts as the SMILES length; CountFG matches a query handle by substring.
type fakeChemTool struct{}

func (fakeChemTool) Standardize(ctx context.Context, smiles string) (classifier.MoleculeProperties, error) {
	return classifier.MoleculeProperties{CanonicalSMILES: smiles, HeavyAtoms: len(smiles), RotatableBonds: 0}, nil
}

func (fakeChemTool) CountFG(ctx context.Context, canonicalSMILES string, queryHandles []string) (int, error) {
	count := 0
	for _, h := range queryHandles {
		if h != "" {
			count++
		}
	}
	return count, nil
}

func oneGroupParams() *param.Params {
	return &param.Params{
		FG: []param.FG{
			{Index: 0, Name: "null"},
			{Index: 1, Name: "A", AllowedEndExposed: true, QueryHandles: []string{"A"}},
		},
		Global: param.Global{
			NRawMax: 1000,
			RRawMax: 1000,
			AMin:    0,
			AMax:    20,
			RMax:    1000,
		},
	}
}

func TestBuildCatalogueDescriptor_OrdersByMultiThenCount(t *testing.T) {
	p := oneGroupParams()
	cat, err := bbt.BuildCatalogue(p, 20)
	require.NoError(t, err)

	nullIdx, ok := cat.IndexOfTriple([3]int{0, 0, 0})
	require.True(t, ok)
	aIdx, ok := cat.IndexOfTriple([3]int{0, 0, 1})
	require.True(t, ok)

	nb, _ := cat.Get(nullIdx)
	nb.Record(5, false, "null-smi")
	ab, _ := cat.Get(aIdx)
	ab.Record(5, false, "a-smi-1")
	ab.Record(5, false, "a-smi-2")

	desc := pipeline.BuildCatalogueDescriptor(cat)
	require.Len(t, desc.Rows, 2)
	// Multi 0 (the all-null triple) sorts before Multi 1 (the "A" triple).
	assert.Equal(t, 0, desc.Rows[0].Multi)
	assert.Equal(t, 1, desc.Rows[1].Multi)
	assert.Equal(t, 2, desc.Rows[1].TotalCount)
}

func TestRunClassify_ReadsSourceFileAndPopulatesCatalogue(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "internal.tsv")
	content := "smiles\tid\nAB\tm1\nA\tm2\n"
	require.NoError(t, os.WriteFile(srcPath, []byte(content), 0o644))

	p := oneGroupParams()
	sources := []pipeline.SourceFile{{Path: srcPath, Source: "INT", External: false}}

	result, err := pipeline.RunClassify(context.Background(), p, 20, sources, fakeChemTool{}, classifier.NewDedup(), 2, logging.NewNopLogger(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ClassifiedN)
	assert.NotEmpty(t, result.Descriptor.Rows)

	report := pipeline.FormatCatalogueDescriptor(result.Descriptor)
	assert.Contains(t, report, "index\ttriple")
}
