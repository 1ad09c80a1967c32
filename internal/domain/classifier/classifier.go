// Package classifier implements the building-block classifier (§4.2): it
// ingests raw molecules, filters them by antiFG/FG signature and atom/bond
// budgets, and assigns survivors to exactly one BBT.
package classifier

import (
	"context"

	"github.com/dnaenc/edesigner/internal/domain/bbt"
	"github.com/dnaenc/edesigner/internal/domain/param"
	"github.com/dnaenc/edesigner/internal/infrastructure/monitoring/logging"
)

// Classifier binds the immutable parameter model and BBT catalogue to a
// ChemTool collaborator and runs the §4.2 pipeline over raw molecule
// streams. A Classifier is safe for concurrent use by multiple goroutines
// provided they share one Dedup instance.
type Classifier struct {
	params    *param.Params
	catalogue *bbt.Catalogue
	chem      ChemTool
	logger    logging.Logger

	antiFGHandles [][]string
}

// New constructs a Classifier bound to the given parameter model, BBT
// catalogue, and cheminformatics collaborator.
func New(p *param.Params, catalogue *bbt.Catalogue, chem ChemTool, logger logging.Logger) *Classifier {
	c := &Classifier{
		params:    p,
		catalogue: catalogue,
		chem:      chem,
		logger:    logger,
	}
	for _, afg := range p.AntiFG {
		c.antiFGHandles = append(c.antiFGHandles, afg.QueryHandles)
	}
	return c
}

// ClassifyBatch runs the full §4.2 pipeline over one source file's raw
// molecules. source tags every surviving molecule's ID; external marks
// whether this source counts toward the internal-only histograms.
// dedup is shared across every source file fed into a run, so duplicate
// canonical SMILES across files are collapsed to their first occurrence.
func (c *Classifier) ClassifyBatch(ctx context.Context, source string, external bool, raw []RawMolecule, dedup Dedup) []ClassifiedMolecule {
	out := make([]ClassifiedMolecule, 0, len(raw))
	for _, mol := range raw {
		classified, ok := c.classifyOne(ctx, source, external, mol, dedup)
		if !ok {
			continue
		}
		out = append(out, classified)
	}
	return out
}

func (c *Classifier) classifyOne(ctx context.Context, source string, external bool, mol RawMolecule, dedup Dedup) (ClassifiedMolecule, bool) {
	// Step 1: desalt/canonicalise; a parse failure drops this molecule only.
	props, err := c.chem.Standardize(ctx, mol.SMILES)
	if err != nil {
		c.logger.Warn("dropping molecule: standardisation failed",
			logging.String("source", source), logging.String("id", mol.ID), logging.Err(err))
		return ClassifiedMolecule{}, false
	}
	if !dedup.Claim(props.CanonicalSMILES) {
		return ClassifiedMolecule{}, false
	}

	// Step 2: coarse filter.
	g := c.params.Global
	if g.NRawMax > 0 && props.HeavyAtoms >= g.NRawMax {
		return ClassifiedMolecule{}, false
	}
	if g.RRawMax > 0 && props.RotatableBonds >= g.RRawMax {
		return ClassifiedMolecule{}, false
	}

	// Step 3: antiFG filter.
	for _, handles := range c.antiFGHandles {
		n, err := c.chem.CountFG(ctx, props.CanonicalSMILES, handles)
		if err != nil {
			c.logger.Warn("dropping molecule: antiFG count failed",
				logging.String("source", source), logging.String("id", mol.ID), logging.Err(err))
			return ClassifiedMolecule{}, false
		}
		if n > 0 {
			return ClassifiedMolecule{}, false
		}
	}

	// Step 4: FG counts, excluding the null FG at index 0.
	counts := make(map[string]int, len(c.params.FG))
	for _, fg := range c.params.FG {
		if fg.Index == param.NullFG {
			continue
		}
		n, err := c.chem.CountFG(ctx, props.CanonicalSMILES, fg.QueryHandles)
		if err != nil {
			c.logger.Warn("dropping molecule: FG count failed",
				logging.String("source", source), logging.String("id", mol.ID), logging.Err(err))
			return ClassifiedMolecule{}, false
		}
		counts[fg.Name] = n
	}

	// Step 5: calculated FGs; a rule fires only when every cited name is
	// already present in counts.
	for _, cfg := range c.params.CalcFG {
		if value, ok := evaluateCalcFG(cfg, counts); ok {
			counts[cfg.Name] = value
		}
	}

	// Step 6: total FG hits in [1,3], every exposed FG distinct.
	total := 0
	for _, fg := range c.params.FG {
		if fg.Index == param.NullFG {
			continue
		}
		n := counts[fg.Name]
		if n > 1 {
			return ClassifiedMolecule{}, false
		}
		total += n
	}
	if total < 1 || total > 3 {
		return ClassifiedMolecule{}, false
	}

	// Step 7: assign to BBT by long-vector match.
	longVector := make([]int, len(c.params.FG))
	longVector[param.NullFG] = 3 - total
	for _, fg := range c.params.FG {
		if fg.Index == param.NullFG {
			continue
		}
		longVector[fg.Index] = counts[fg.Name]
	}
	bbtIndex, ok := c.catalogue.ClassifyLongVector(longVector, total)
	if !ok {
		return ClassifiedMolecule{}, false
	}

	// Step 8: effective atom/rotatable-bond counts over exposed FGs.
	effAtoms := props.HeavyAtoms
	effRB := props.RotatableBonds
	excessRB := 0
	for _, fg := range c.params.FG {
		if fg.Index == param.NullFG || counts[fg.Name] == 0 {
			continue
		}
		effAtoms += fg.AtomDif * counts[fg.Name]
		excessRB += fg.ExcessRB * counts[fg.Name]
	}
	effRB -= excessRB
	if effRB < 0 {
		effRB = 0
	}
	if effRB > g.RMax {
		return ClassifiedMolecule{}, false
	}
	if effAtoms < g.AMin || effAtoms > g.AMax {
		return ClassifiedMolecule{}, false
	}

	// Step 9: BBT histogram recording happens once, serially, in RunClassify's
	// aggregation loop after every file's goroutine has returned — not here,
	// since classifyOne runs concurrently across source files and BBT.Record
	// has no locking of its own.

	return ClassifiedMolecule{
		ID:                      source + ":" + mol.ID,
		SMILES:                  props.CanonicalSMILES,
		Source:                  source,
		External:                external,
		BBTIndex:                bbtIndex,
		EffectiveAtoms:          effAtoms,
		EffectiveRotatableBonds: effRB,
	}, true
}

// evaluateCalcFG fires a calcFG rule iff every FG name it cites (for adding
// or subtracting) is already present in counts.
func evaluateCalcFG(cfg param.CalcFG, counts map[string]int) (int, bool) {
	for _, name := range cfg.Add {
		if _, ok := counts[name]; !ok {
			return 0, false
		}
	}
	for _, name := range cfg.Subtract {
		if _, ok := counts[name]; !ok {
			return 0, false
		}
	}
	value := 0
	for _, name := range cfg.Add {
		value += counts[name]
	}
	for _, name := range cfg.Subtract {
		value -= counts[name]
	}
	return value, true
}
