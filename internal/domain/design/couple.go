package design

import (
	"github.com/dnaenc/edesigner/internal/domain/bbt"
	"github.com/dnaenc/edesigner/internal/domain/param"
)

// addBBTToDesign is Step B of a cycle transition (§4.3): it tries every
// exposed FG against every non-null FG of the incoming BBT, and for each
// reaction whose input pair matches, produces one child design that
// survives pruning rules P1-P7 (§4.4).
func (d *Design) addBBTToDesign(b *bbt.BBT, rs *RuleSet, p *param.Params) []*Design {
	var result []*Design
	if len(d.FGs) == 0 {
		return result
	}
	bbtFGs := nonZeroFGs(b.Triple)
	for _, fgOff := range bbtFGs {
		for _, fgOn := range d.FGs {
			for _, i := range rs.reactionsMatching(fgOn, fgOff) {
				nd, ok := d.tryCouple(b, rs.Reactions[i], i, fgOn, fgOff, p)
				if ok {
					result = append(result, nd)
				}
			}
		}
	}
	return result
}

// tryCouple attempts one candidate (reaction, fgOn, fgOff) triple, applying
// P1-P7 in order and aborting at the first rule that fires.
func (d *Design) tryCouple(b *bbt.BBT, rule param.Rule, ruleIndex, fgOn, fgOff int, p *param.Params) (*Design, bool) {
	nd := d.Clone()
	nd.NCycles++

	fgOnIndex := indexOf(nd.FGs, fgOn)
	if isDeprotectionSource(nd.FGSources[fgOnIndex]) {
		nd.NUnprDeprotections--
	}
	// P7: unproductive deprotection budget.
	if nd.TotalCycles-nd.NCycles-nd.NUnprDeprotections < 0 {
		return nil, false
	}

	nd.BTopology = append(nd.BTopology, nd.FGSources[fgOnIndex])
	nd.FGs = removeAt(nd.FGs, fgOnIndex)
	nd.FGSources = removeAt(nd.FGSources, fgOnIndex)

	remainder := removeFirstValue(tripleSlice(b.Triple), fgOff)

	// P1: chemical exclusion.
	if excludedPresent(rule.ExcludedOn, nd.FGs) {
		return nil, false
	}
	// P2: off exclusion.
	if excludedPresent(rule.ExcludedOff, remainder) {
		return nil, false
	}
	// P3: cross incompatibility, reaction outputs side.
	if incompatibleWithAny(rule.Out1, nd.FGs, p.FG) || incompatibleWithAny(rule.Out2, nd.FGs, p.FG) {
		return nil, false
	}
	// P3: cross incompatibility, BBT remainder side.
	for _, newFG := range remainder {
		if incompatibleWithAny(newFG, nd.FGs, p.FG) {
			return nil, false
		}
	}

	nd.BBTs = append(nd.BBTs, b.Index)
	nd.Reactions = append(nd.Reactions, ruleIndex)
	for _, item := range remainder {
		if item == param.NullFG {
			continue
		}
		nd.FGs = append(nd.FGs, item)
		nd.FGSources = append(nd.FGSources, 3*nd.NCycles)
	}
	if rule.Out1 != param.NullFG {
		nd.FGs = append(nd.FGs, rule.Out1)
		nd.FGSources = append(nd.FGSources, 3*nd.NCycles-1)
	}
	if rule.Out2 != param.NullFG {
		nd.FGs = append(nd.FGs, rule.Out2)
		nd.FGSources = append(nd.FGSources, 3*nd.NCycles-1)
	}

	// P4: premature closure.
	if len(nd.FGs) == 0 && nd.TotalCycles-nd.NCycles > 0 {
		return nil, false
	}

	nd.MinNatoms += b.MinAtoms
	// P5: atom budget.
	if nd.MinNatoms > p.Global.MaxCycleNA[nd.NCycles-1] {
		return nil, false
	}

	// P6: terminal exposure.
	if nd.NCycles == nd.TotalCycles {
		for _, fg := range nd.FGs {
			if !p.FG[fg].AllowedEndExposed {
				return nil, false
			}
		}
	}

	return nd, true
}

// tripleSlice returns triple as a 3-element slice (zero padding included).
func tripleSlice(triple [3]int) []int {
	return []int{triple[0], triple[1], triple[2]}
}
