// Package design implements the growth engine state machine (§4.3): a
// Design is a partial synthetic route that grows cycle by cycle, alternating
// an optional deprotection with a building-block coupling, under the
// pruning rules in couple.go and deprotect.go.
package design

import (
	"github.com/dnaenc/edesigner/internal/domain/bbt"
	"github.com/dnaenc/edesigner/internal/domain/param"
)

// HeadpieceSourceTag is the source tag carried by every FG exposed directly
// by the headpiece, before any cycle has run.
const HeadpieceSourceTag = 0

// Design is one partial (or completed) synthetic route. Every field mirrors
// §3's Design data model; slices are owned by this Design alone and must be
// copied (via Clone) before being handed to a mutating transition.
type Design struct {
	ID          int
	TotalCycles int
	NCycles     int

	BBTs          []int // length 1+NCycles; BBTs[0] is the headpiece BBT
	Reactions     []int // length NCycles; reaction index used at each cycle
	Deprotections []int // length NCycles; 0 means "no deprotection" at that boundary
	BTopology     []int // length NCycles; source tag of the FG consumed by each coupling
	DTopology     []int // length NCycles; source tag of the FG consumed by each deprotection slot

	NDeprotections     int
	NUnprDeprotections int

	FGs       []int // currently exposed FG multiset
	FGSources []int // FGs[i]'s source tag, parallel to FGs

	MinNatoms int

	LibID LibID
}

// NewInitialDesigns builds one initial Design per headpiece-linked BBT in
// the catalogue (§4.3 "Initial states").
func NewInitialDesigns(p *param.Params, catalogue *bbt.Catalogue, totalCycles int) []*Design {
	var out []*Design
	for _, b := range catalogue.BBTs {
		if !b.IsHeadpiece() {
			continue
		}
		fgs := nonZeroFGs(b.Triple)
		d := &Design{
			TotalCycles: totalCycles,
			BBTs:        []int{b.Index},
			FGs:         fgs,
			FGSources:   make([]int, len(fgs)), // zero-valued: HeadpieceSourceTag
			MinNatoms:   p.Global.HeadpieceNA,
		}
		out = append(out, d)
	}
	return out
}

// Clone returns a deep copy of d: every slice field is copied so that
// mutating the clone never affects d.
func (d *Design) Clone() *Design {
	c := *d
	c.BBTs = append([]int(nil), d.BBTs...)
	c.Reactions = append([]int(nil), d.Reactions...)
	c.Deprotections = append([]int(nil), d.Deprotections...)
	c.BTopology = append([]int(nil), d.BTopology...)
	c.DTopology = append([]int(nil), d.DTopology...)
	c.FGs = append([]int(nil), d.FGs...)
	c.FGSources = append([]int(nil), d.FGSources...)
	return &c
}

// IsComplete reports whether d has reached its last cycle (§4.3 "Terminal
// states").
func (d *Design) IsComplete() bool {
	return d.NCycles == d.TotalCycles
}

// IsTerminallyValid reports whether a complete design satisfies the
// remaining terminal constraints beyond n_cycles==total_cycles: every
// exposed FG must tolerate being left unreacted, and the design must not
// exceed the absolute atom budget.
func (d *Design) IsTerminallyValid(p *param.Params) bool {
	if d.MinNatoms > p.Global.MaxNAAbsolute {
		return false
	}
	for _, fgIdx := range d.FGs {
		if !p.FG[fgIdx].AllowedEndExposed {
			return false
		}
	}
	return true
}

// isDeprotectionSource reports whether a source tag was produced by a
// deprotection output rather than a headpiece, a coupling's BBT remainder,
// or a reaction output. Deprotection-sourced tags are exactly the integers
// of the form 1+3k for k>=0.
func isDeprotectionSource(tag int) bool {
	return (tag-1)%3 == 0
}

// nonZeroFGs returns the non-null entries of a zero-padded FG triple, in
// order.
func nonZeroFGs(triple [3]int) []int {
	out := make([]int, 0, 3)
	for _, fg := range triple {
		if fg != param.NullFG {
			out = append(out, fg)
		}
	}
	return out
}

// indexOf returns the index of the first occurrence of v in s, or -1.
func indexOf(s []int, v int) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// removeAt returns s with the element at index i removed, preserving order.
func removeAt(s []int, i int) []int {
	out := make([]int, 0, len(s)-1)
	out = append(out, s[:i]...)
	out = append(out, s[i+1:]...)
	return out
}

// removeFirstValue returns s with the first occurrence of v removed.
func removeFirstValue(s []int, v int) []int {
	i := indexOf(s, v)
	if i < 0 {
		return append([]int(nil), s...)
	}
	return removeAt(s, i)
}

// excludedPresent reports whether any FG in present is a member of the
// excluded set.
func excludedPresent(excluded map[int]bool, present []int) bool {
	for _, f := range present {
		if excluded[f] {
			return true
		}
	}
	return false
}

// incompatibleWithAny reports whether newFG is in the self-incompatibility
// set of any FG already present, per the FG table.
func incompatibleWithAny(newFG int, present []int, fgs []param.FG) bool {
	for _, old := range present {
		if !fgs[old].Compatible(newFG) {
			return true
		}
	}
	return false
}
