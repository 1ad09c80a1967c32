// Package library implements the coalescer and validator (§4.6): completed
// designs sharing a lib_id are bucketed into a LibDesign, which is then
// validated against the run's atom and count budgets.
package library

import (
	"github.com/dnaenc/edesigner/internal/domain/design"
	"github.com/dnaenc/edesigner/internal/domain/param"
)

// LibDesign is the coalesced equivalence class of every completed Design
// sharing a lib_id: same headpiece, same ordered enumeration operations, and
// same attachment topology.
type LibDesign struct {
	ID        int
	LibID     design.LibID
	DesignIDs []int

	NCycles   int
	BBTs      [][]int // per-cycle union of contributing BBT indices, insertion order
	Headpiece int

	ReactionEnumIDs []int
	DeprotEnumIDs   []int
	ScaffoldAtoms   int // sum of atom_dif over scaffold-inserting deprotections

	Eliminate bool

	// "All" counts: every classified compound, internal and external.
	NAll         int
	BestAllIndex []int
	AllLimits    []int
	AllBBTLimits [][]int

	// "Internal" counts: in-house compounds only (§4.6 supplement). Gates
	// elimination, mirroring the original's internal-driven validation.
	NInt         int
	BestIntIndex []int
	IntLimits    []int
	IntBBTLimits [][]int

	initialized bool
}

// NewLibDesign returns an empty LibDesign ready for UpdateLib.
func NewLibDesign() *LibDesign {
	return &LibDesign{}
}

// UpdateLib folds one completed design into the library, grounded on
// update_lib: the first design stamps the library's identity (lib_id,
// headpiece, enumeration sequences, scaffold atom total); every subsequent
// design only unions its per-cycle BBT into the existing cycle sets.
func (l *LibDesign) UpdateLib(d *design.Design, p *param.Params) {
	if !l.initialized {
		l.initialized = true
		l.LibID = d.LibID
		l.NCycles = d.TotalCycles
		l.Headpiece = d.BBTs[0]
		l.ReactionEnumIDs = append([]int(nil), d.LibID.ReactionEnumIDs...)
		l.DeprotEnumIDs = append([]int(nil), d.LibID.DeprotEnumIDs...)
		for _, i := range d.Deprotections {
			if p.Deprotections[i].AtomDif > 0 {
				l.ScaffoldAtoms += p.Deprotections[i].AtomDif
			}
		}
		l.BBTs = make([][]int, l.NCycles)
		for i := 0; i < l.NCycles; i++ {
			l.BBTs[i] = []int{d.BBTs[i+1]}
		}
	} else {
		for i := 0; i < l.NCycles; i++ {
			b := d.BBTs[i+1]
			if !containsInt(l.BBTs[i], b) {
				l.BBTs[i] = append(l.BBTs[i], b)
			}
		}
	}
	l.DesignIDs = append(l.DesignIDs, d.ID)
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
