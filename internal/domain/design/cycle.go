package design

import (
	"github.com/dnaenc/edesigner/internal/domain/bbt"
	"github.com/dnaenc/edesigner/internal/domain/param"
)

// AddCycle runs one full cycle transition (deprotect? then couple) for d,
// trying every BBT named in availableBBTIndexes against every design the
// deprotection step produced. It is the Go counterpart of add_cycle: the
// deprotection tree is expanded first, then every resulting design is
// offered every compatible BBT.
func (d *Design) AddCycle(rs *RuleSet, p *param.Params, catalogue *bbt.Catalogue, availableBBTIndexes []int) []*Design {
	var result []*Design
	for _, pd := range d.addDeprotectionsToDesign(rs, p) {
		for _, idx := range availableBBTIndexes {
			b, ok := catalogue.Get(idx)
			if !ok {
				continue
			}
			result = append(result, pd.addBBTToDesign(b, rs, p)...)
		}
	}
	return result
}

// ExpandAll applies AddCycle to every design in designs and concatenates the
// results, mirroring expand_designs's per-segment fan-out.
func ExpandAll(designs []*Design, rs *RuleSet, p *param.Params, catalogue *bbt.Catalogue, availableBBTIndexes []int) []*Design {
	var result []*Design
	for _, d := range designs {
		result = append(result, d.AddCycle(rs, p, catalogue, availableBBTIndexes)...)
	}
	return result
}

// AvailableBBTIndexes returns the indices, in catalogue order, of every BBT
// with at least one classified compound: the only BBTs the growth engine
// may couple into a design.
func AvailableBBTIndexes(catalogue *bbt.Catalogue) []int {
	var out []int
	for _, b := range catalogue.BBTs {
		if b.TotalCompounds() > 0 {
			out = append(out, b.Index)
		}
	}
	return out
}
