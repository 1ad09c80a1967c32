package design

import "github.com/dnaenc/edesigner/internal/domain/param"

// RuleSet precomputes the per-run lookup tables the growth engine needs on
// every transition: which reactions and deprotections are allowed under
// Global.IncludeDesigns, so the hot loop never re-checks Production.
type RuleSet struct {
	Reactions     []param.Rule
	Deprotections []param.Rule

	availableReactions     []int
	availableDeprotections []int
}

// NewRuleSet builds a RuleSet from the parameter model's reaction and
// deprotection tables.
func NewRuleSet(p *param.Params) *RuleSet {
	rs := &RuleSet{
		Reactions:     p.Reactions,
		Deprotections: p.Deprotections,
	}
	allowBoth := p.Global.IncludeBoth()
	for i, r := range p.Reactions {
		if allowBoth || r.Production {
			rs.availableReactions = append(rs.availableReactions, i)
		}
	}
	for i, d := range p.Deprotections {
		if allowBoth || d.Production {
			rs.availableDeprotections = append(rs.availableDeprotections, i)
		}
	}
	return rs
}

// reactionsMatching returns the indices of every available reaction whose
// input pair is exactly (on, off), in table order.
func (rs *RuleSet) reactionsMatching(on, off int) []int {
	var out []int
	for _, i := range rs.availableReactions {
		r := rs.Reactions[i]
		if r.On == on && r.Off == off {
			out = append(out, i)
		}
	}
	return out
}

// deprotectionsMatching returns the indices of every available deprotection
// whose input FG is on (deprotections always carry Off==NullFG).
func (rs *RuleSet) deprotectionsMatching(on int) []int {
	var out []int
	for _, i := range rs.availableDeprotections {
		if rs.Deprotections[i].On == on {
			out = append(out, i)
		}
	}
	return out
}
