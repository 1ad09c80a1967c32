package param

import (
	"path/filepath"
	"strconv"

	"github.com/dnaenc/edesigner/pkg/errors"
)

// Params is the complete, immutable parameter model for a run: every table
// named in §2 of the design, loaded once and shared read-only by every
// worker.
type Params struct {
	FG            []FG
	AntiFG        []AntiFG
	CalcFG        []CalcFG
	Reactions     []Rule
	Deprotections []Rule
	EnumReactions []EnumGroup
	EnumDeprot    []EnumGroup
	Headpieces    []Headpiece
	Limits        []BBTLimit
	Global        Global
}

// FGByIndex returns the FG record for the given index, or ok=false if out
// of range.
func (p *Params) FGByIndex(i int) (FG, bool) {
	if i < 0 || i >= len(p.FG) {
		return FG{}, false
	}
	return p.FG[i], true
}

// Load reads every parameter file from dir using the conventional file
// names (fg.tsv, antifg.tsv, calcfg.tsv, reactions.tsv, deprotections.tsv,
// enum_reactions.tsv, enum_deprotections.tsv, headpieces.tsv, limits.tsv,
// global.tsv) and assembles the typed Params model.
func Load(dir string) (*Params, error) {
	fgTable, err := ReadTable(filepath.Join(dir, "fg.tsv"), OrientationList)
	if err != nil {
		return nil, err
	}
	fgs, err := LoadFG(fgTable)
	if err != nil {
		return nil, err
	}

	antiFGTable, err := ReadTable(filepath.Join(dir, "antifg.tsv"), OrientationList)
	if err != nil {
		return nil, err
	}
	antiFGs, err := LoadAntiFG(antiFGTable)
	if err != nil {
		return nil, err
	}

	calcFGTable, err := ReadTable(filepath.Join(dir, "calcfg.tsv"), OrientationList)
	if err != nil {
		return nil, err
	}
	calcFGs, err := LoadCalcFG(calcFGTable)
	if err != nil {
		return nil, err
	}

	reactionTable, err := ReadTable(filepath.Join(dir, "reactions.tsv"), OrientationList)
	if err != nil {
		return nil, err
	}
	reactions, err := LoadRules(reactionTable)
	if err != nil {
		return nil, err
	}

	deprotTable, err := ReadTable(filepath.Join(dir, "deprotections.tsv"), OrientationList)
	if err != nil {
		return nil, err
	}
	deprotections, err := LoadRules(deprotTable)
	if err != nil {
		return nil, err
	}

	enumRxTable, err := ReadTable(filepath.Join(dir, "enum_reactions.tsv"), OrientationList)
	if err != nil {
		return nil, err
	}
	enumRx, err := LoadEnumGroups(enumRxTable)
	if err != nil {
		return nil, err
	}

	enumDeTable, err := ReadTable(filepath.Join(dir, "enum_deprotections.tsv"), OrientationList)
	if err != nil {
		return nil, err
	}
	enumDe, err := LoadEnumGroups(enumDeTable)
	if err != nil {
		return nil, err
	}

	headpieceTable, err := ReadTable(filepath.Join(dir, "headpieces.tsv"), OrientationList)
	if err != nil {
		return nil, err
	}
	headpieces, err := LoadHeadpieces(headpieceTable)
	if err != nil {
		return nil, err
	}

	limitsTable, err := ReadTable(filepath.Join(dir, "limits.tsv"), OrientationList)
	if err != nil {
		return nil, err
	}
	limits, err := LoadLimits(limitsTable)
	if err != nil {
		return nil, err
	}

	globalTable, err := ReadTable(filepath.Join(dir, "global.tsv"), OrientationDict)
	if err != nil {
		return nil, err
	}
	global, err := LoadGlobal(globalTable)
	if err != nil {
		return nil, err
	}

	p := &Params{
		FG:            fgs,
		AntiFG:        antiFGs,
		CalcFG:        calcFGs,
		Reactions:     reactions,
		Deprotections: deprotections,
		EnumReactions: enumRx,
		EnumDeprot:    enumDe,
		Headpieces:    headpieces,
		Limits:        limits,
		Global:        global,
	}
	if err := p.validateReferences(); err != nil {
		return nil, err
	}
	return p, nil
}

// validateReferences checks cross-table references that ReadTable's
// per-cell parsing cannot: a malformed reference here is a CatalogueError
// in the design's failure-semantics table (fatal, not a per-molecule drop).
func (p *Params) validateReferences() error {
	nfg := len(p.FG)
	checkFG := func(i int, where string) error {
		if i < 0 || i >= nfg {
			return errors.New(errors.CodeParamReferenceUnresolved, where+" references undefined FG index")
		}
		return nil
	}
	for i, r := range p.Reactions {
		for _, idx := range []int{r.On, r.Off, r.Out1, r.Out2} {
			if err := checkFG(idx, "reaction "+strconv.Itoa(i)); err != nil {
				return err
			}
		}
	}
	for i, d := range p.Deprotections {
		for _, idx := range []int{d.On, d.Off, d.Out1, d.Out2} {
			if err := checkFG(idx, "deprotection "+strconv.Itoa(i)); err != nil {
				return err
			}
		}
	}
	for i, h := range p.Headpieces {
		for _, idx := range h.BBT {
			if err := checkFG(idx, "headpiece "+strconv.Itoa(i)); err != nil {
				return err
			}
		}
	}
	if len(p.Global.MaxCycleNA) != p.Global.TotalCycles {
		return errors.New(errors.CodeParamValueOutOfRange, "max_cycle_na length must equal total_cycles")
	}
	return nil
}
