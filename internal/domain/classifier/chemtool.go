package classifier

import "context"

// MoleculeProperties is the subset of a molecule's computed physicochemical
// properties the classifier needs: its canonicalised structure plus the two
// coarse-filter descriptors (§4.2 step 1-2).
type MoleculeProperties struct {
	CanonicalSMILES string
	HeavyAtoms      int
	RotatableBonds  int
}

// ChemTool is the external cheminformatics collaborator the classifier
// delegates structure-level chemistry to: desalting/canonicalisation and
// functional-group substructure matching. A production implementation
// wraps a toolkit such as RDKit or a LillyMol pipeline; tests use a fake.
type ChemTool interface {
	// Standardize desalts and canonicalises smiles, returning its heavy-atom
	// and rotatable-bond counts alongside the canonical structure. An error
	// here means the individual molecule could not be parsed and must be
	// dropped, not that the run is fatal (§4.2 error semantics).
	Standardize(ctx context.Context, smiles string) (MoleculeProperties, error)

	// CountFG reports how many times a functional group matches the given
	// canonical SMILES, tested against one or more query handles.
	CountFG(ctx context.Context, canonicalSMILES string, queryHandles []string) (int, error)
}
