package testutil

import (
	"context"
	"strings"

	"github.com/dnaenc/edesigner/internal/domain/classifier"
)

// FakeChemTool is a deterministic, in-memory stand-in for a real
// cheminformatics toolkit. Molecule properties and FG hit counts are
// registered up front by test SMILES string rather than computed from
// structure, so classifier tests can exercise pruning/filter logic without
// a real chemistry engine.
type FakeChemTool struct {
	Properties map[string]classifier.MoleculeProperties
	// FGCounts maps a canonical SMILES to a query-handle -> count table.
	// CountFG sums the counts for every handle passed in.
	FGCounts map[string]map[string]int
	// Unparsable marks SMILES that Standardize should fail on.
	Unparsable map[string]bool
}

// NewFakeChemTool constructs an empty FakeChemTool ready for registration.
func NewFakeChemTool() *FakeChemTool {
	return &FakeChemTool{
		Properties: make(map[string]classifier.MoleculeProperties),
		FGCounts:   make(map[string]map[string]int),
		Unparsable: make(map[string]bool),
	}
}

// Register associates raw smiles with its canonicalised properties.
func (f *FakeChemTool) Register(smiles string, props classifier.MoleculeProperties) {
	f.Properties[smiles] = props
}

// RegisterFG records that canonicalSMILES matches queryHandle count times.
func (f *FakeChemTool) RegisterFG(canonicalSMILES, queryHandle string, count int) {
	table, ok := f.FGCounts[canonicalSMILES]
	if !ok {
		table = make(map[string]int)
		f.FGCounts[canonicalSMILES] = table
	}
	table[queryHandle] = count
}

func (f *FakeChemTool) Standardize(_ context.Context, smiles string) (classifier.MoleculeProperties, error) {
	if f.Unparsable[smiles] {
		return classifier.MoleculeProperties{}, errUnparsable{smiles}
	}
	props, ok := f.Properties[smiles]
	if !ok {
		// Unregistered SMILES standardise to themselves with zeroed
		// properties, so tests can exercise unexpected input paths.
		return classifier.MoleculeProperties{CanonicalSMILES: smiles}, nil
	}
	return props, nil
}

func (f *FakeChemTool) CountFG(_ context.Context, canonicalSMILES string, queryHandles []string) (int, error) {
	table := f.FGCounts[canonicalSMILES]
	total := 0
	for _, h := range queryHandles {
		total += table[h]
	}
	return total, nil
}

type errUnparsable struct{ smiles string }

func (e errUnparsable) Error() string {
	return "fake chemtool: cannot parse " + strings.TrimSpace(e.smiles)
}
