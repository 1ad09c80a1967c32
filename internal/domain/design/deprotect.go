package design

import "github.com/dnaenc/edesigner/internal/domain/param"

// addDeprotectionsToDesign is Step A of a cycle transition (§4.3): it
// always yields the no-deprotection child first, then one child per
// applicable deprotection rule that survives P7 and the exclusion checks.
func (d *Design) addDeprotectionsToDesign(rs *RuleSet, p *param.Params) []*Design {
	noOp := d.Clone()
	noOp.Deprotections = append(noOp.Deprotections, 0)
	noOp.DTopology = append(noOp.DTopology, 0)
	result := []*Design{noOp}

	if len(d.FGs) == 0 {
		return result
	}
	for _, fgOn := range d.FGs {
		for _, i := range rs.deprotectionsMatching(fgOn) {
			nd, ok := d.tryDeprotect(rs.Deprotections[i], i, fgOn, p)
			if ok {
				result = append(result, nd)
			}
		}
	}
	return result
}

// tryDeprotect attempts one candidate (deprotection, fgOn) pair.
func (d *Design) tryDeprotect(rule param.Rule, ruleIndex, fgOn int, p *param.Params) (*Design, bool) {
	nd := d.Clone()
	nd.NDeprotections++
	nd.NUnprDeprotections++
	// P7: unproductive deprotection budget.
	if nd.TotalCycles-nd.NCycles-nd.NUnprDeprotections < 0 {
		return nil, false
	}

	fgOnIndex := indexOf(nd.FGs, fgOn)
	nd.DTopology = append(nd.DTopology, nd.FGSources[fgOnIndex])
	nd.FGs = removeAt(nd.FGs, fgOnIndex)
	nd.FGSources = removeAt(nd.FGSources, fgOnIndex)

	if excludedPresent(rule.ExcludedOn, nd.FGs) {
		return nil, false
	}
	if incompatibleWithAny(rule.Out1, nd.FGs, p.FG) {
		return nil, false
	}
	if incompatibleWithAny(rule.Out2, nd.FGs, p.FG) {
		return nil, false
	}

	nd.Deprotections = append(nd.Deprotections, ruleIndex)
	if rule.Out1 != param.NullFG {
		nd.FGs = append(nd.FGs, rule.Out1)
		nd.FGSources = append(nd.FGSources, 1+3*nd.NCycles)
	}
	if rule.Out2 != param.NullFG {
		nd.FGs = append(nd.FGs, rule.Out2)
		nd.FGSources = append(nd.FGSources, 1+3*nd.NCycles)
	}

	// A deprotection only consumes atom budget when it inserts a scaffold;
	// ordinary deprotections were already accounted for in BBT construction.
	if rule.AtomDif > 0 {
		nd.MinNatoms += rule.AtomDif
		if nd.MinNatoms > p.Global.MaxCycleNA[nd.NCycles] {
			return nil, false
		}
	}
	return nd, true
}
