package param

import "strings"

// NullFG is the sentinel functional-group index denoting "no functional
// group" (the zero-padding value for BBT triples and reaction outputs).
const NullFG = 0

// FG is a functional group: the abstract chemical handle that may react.
// Index 0 is reserved for NullFG and is never looked up by name.
type FG struct {
	Index             int
	Name              string
	Incompatible      map[int]bool
	AtomDif           int
	ExcessRB          int
	AllowedEndExposed bool
	QueryHandles      []string
}

// Compatible reports whether FG other may co-exist with fg on the same
// molecule.
func (fg FG) Compatible(other int) bool {
	return !fg.Incompatible[other]
}

// AntiFG is a functional group whose presence, in any amount, disqualifies
// a molecule from classification.
type AntiFG struct {
	Index        int
	Name         string
	QueryHandles []string
}

// CalcFG is a derived functional-group count: fires iff every FG named in
// Add and Subtract was itself counted on the molecule; its value is the
// signed sum of those counts.
type CalcFG struct {
	Name     string
	Add      []string
	Subtract []string
}

// Rule is the shared shape of a Reaction and a Deprotection: a rewrite rule
// that consumes an ordered input pair of FGs and exposes an ordered output
// pair. Deprotections always carry Off == NullFG.
type Rule struct {
	Index       int
	On, Off     int
	Out1, Out2  int
	ExcludedOn  map[int]bool
	ExcludedOff map[int]bool
	AtomDif     int
	EnumGroupID int
	Production  bool
	EnumName    string
}

// Headpiece is a BBT marked as a synthesis anchor.
type Headpiece struct {
	Index  int
	BBT    [3]int
	SMILES string
}

// EnumGroup names a wet-lab-level grouping of detailed reactions or
// deprotections (the ER/ED tables), referenced from a Rule's EnumGroupID and
// surfaced in the LibDesign stream's enumeration-operation sequence.
type EnumGroup struct {
	ID   int
	Name string
}

// BBTLimit is one row of the building-block limits table: a cap on the
// number of building blocks of a specific BBT, where a zero Max means
// unlimited. The table is loaded into Params.Limits; the library validator
// does not read it, and its per-cycle caps come only from the classified
// compound counts.
type BBTLimit struct {
	BBTIndex int
	Max      int
}

// Global carries the engine-wide scalar parameters that are not naturally
// tabular: atom and rotatable-bond budgets, per-cycle caps, and the
// validator's percentile/minimum-count gates.
type Global struct {
	TotalCycles      int
	HeadpieceNA      int
	NRawMax          int
	RRawMax          int
	AMin             int
	AMax             int
	RMax             int
	MaxCycleNA       []int
	MaxNAAbsolute    int
	MaxScaffoldsNA   int
	MaxNAPercentile  int
	Percentile       float64
	MinCount         int
	DesignsInMemory  int
	IncludeDesigns   string // "PRODUCTION" or "BOTH"
}

// IncludeBoth reports whether non-production reactions/deprotections should
// also be considered during growth.
func (g Global) IncludeBoth() bool {
	return g.IncludeDesigns == "" || strings.EqualFold(g.IncludeDesigns, "BOTH")
}
