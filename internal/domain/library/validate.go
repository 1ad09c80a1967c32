package library

import (
	"math"

	"github.com/dnaenc/edesigner/internal/domain/bbt"
	"github.com/dnaenc/edesigner/internal/domain/param"
)

// Validator holds the per-run state shared, read-only, across every library
// validated in a run: the global budgets and the precomputed atom-partition
// table (§4.6 "Validation per library").
type Validator struct {
	Global     param.Global
	AllIndexes GlobalIndexes
	HistSize   int // length of each BBT's NCompounds/NInternal histogram
}

// NewValidator builds a Validator for a library with ndim cycles, sized to
// match the BBT catalogue's histogram length.
func NewValidator(p *param.Params, ndim, histSize int) *Validator {
	return &Validator{
		Global:     p.Global,
		AllIndexes: BuildGlobalIndexes(p.Global, ndim),
		HistSize:   histSize,
	}
}

// Validate marks lib for elimination or stamps its validated counts and
// limits, following §4.6 exactly: the scaffold-atom gate, then the
// internal-distribution gate (the supplemented quantity actually checked
// against min_count, mirroring validate_lib), then the independently
// computed all-distribution result that spec.md's core text describes.
func (v *Validator) Validate(lib *LibDesign, catalogue *bbt.Catalogue) {
	if lib.ScaffoldAtoms > v.Global.MaxScaffoldsNA {
		lib.Eliminate = true
		return
	}
	allIndexes := v.AllIndexes[lib.ScaffoldAtoms]

	intDist := cumulativeDistribution(lib.BBTs, catalogue, true, v.HistSize)
	nInt, bestIntIdx, _, ok := bestIndexFromAllIndexes(intDist, allIndexes, v.Global.Percentile)
	if !ok {
		lib.Eliminate = true
		return
	}
	if nInt < v.Global.MinCount {
		lib.Eliminate = true
		return
	}
	lib.NInt = nInt
	lib.BestIntIndex = bestIntIdx

	allDist := cumulativeDistribution(lib.BBTs, catalogue, false, v.HistSize)
	if nAll, bestAllIdx, _, ok := bestIndexFromAllIndexes(allDist, allIndexes, v.Global.Percentile); ok {
		lib.NAll = nAll
		lib.BestAllIndex = bestAllIdx
	}

	lib.IntLimits = make([]int, lib.NCycles)
	lib.IntBBTLimits = make([][]int, lib.NCycles)
	for i := 0; i < lib.NCycles; i++ {
		lib.IntLimits[i] = intDist[i][lib.BestIntIndex[i]]
		for _, bIdx := range lib.BBTs[i] {
			b, ok := catalogue.Get(bIdx)
			if !ok {
				continue
			}
			lib.IntBBTLimits[i] = append(lib.IntBBTLimits[i], b.NInternal[lib.BestIntIndex[i]])
		}
	}

	if lib.BestAllIndex != nil {
		lib.AllLimits = make([]int, lib.NCycles)
		lib.AllBBTLimits = make([][]int, lib.NCycles)
		for i := 0; i < lib.NCycles; i++ {
			lib.AllLimits[i] = allDist[i][lib.BestAllIndex[i]]
			for _, bIdx := range lib.BBTs[i] {
				b, ok := catalogue.Get(bIdx)
				if !ok {
					continue
				}
				lib.AllBBTLimits[i] = append(lib.AllBBTLimits[i], b.NCompounds[lib.BestAllIndex[i]])
			}
		}
	}
}

// cumulativeDistribution builds, for each cycle, the summed-then-cumulative
// histogram Hi[a] = sum over the cycle's contributing BBTs of their raw
// per-atom-count counts, accumulated up through atom count a.
func cumulativeDistribution(bbtsPerCycle [][]int, catalogue *bbt.Catalogue, internal bool, size int) [][]int {
	out := make([][]int, len(bbtsPerCycle))
	for i, indexes := range bbtsPerCycle {
		raw := make([]int, size)
		for _, idx := range indexes {
			b, ok := catalogue.Get(idx)
			if !ok {
				continue
			}
			src := b.NCompounds
			if internal {
				src = b.NInternal
			}
			for a := 0; a < size && a < len(src); a++ {
				raw[a] += src[a]
			}
		}
		cum := make([]int, size)
		running := 0
		for a := 0; a < size; a++ {
			running += raw[a]
			cum[a] = running
		}
		out[i] = cum
	}
	return out
}

// bestIndexFromIndexes returns the product-maximizing combo among indexes,
// tie-broken by the smaller standard deviation of the per-cycle cumulative
// counts the combo selects (Scenario 6's validator tie-break; absent from
// the original, which just takes the first max).
func bestIndexFromIndexes(distribution [][]int, indexes [][]int) (nComp int, best []int) {
	bestComp := -1
	var bestCombo []int
	bestStdev := math.Inf(1)
	for _, idx := range indexes {
		p, ok := product(distribution, idx)
		if !ok {
			continue
		}
		if p > bestComp {
			bestComp = p
			bestCombo = idx
			bestStdev = stdevAt(distribution, idx)
			continue
		}
		if p == bestComp {
			s := stdevAt(distribution, idx)
			if s < bestStdev {
				bestCombo = idx
				bestStdev = s
			}
		}
	}
	return bestComp, bestCombo
}

// bestIndexFromAllIndexes walks the atom-count windows from the percentile
// boundary upward, tracking the best combo seen so long as its product does
// not exceed the cap derived from the boundary window (§4.6: "perc = max P
// ... na <= max_na_percentile", "cap = perc / percentile").
func bestIndexFromAllIndexes(distribution [][]int, allIndexes [][][]int, percentile float64) (nComp int, best []int, cap int, ok bool) {
	if len(allIndexes) == 0 {
		return 0, nil, 0, false
	}
	perc, bestIdx := bestIndexFromIndexes(distribution, allIndexes[0])
	if bestIdx == nil {
		return 0, nil, 0, false
	}
	cap = int(float64(perc) / percentile)
	nComp, best = perc, bestIdx
	for _, window := range allIndexes[1:] {
		newN, newIdx := bestIndexFromIndexes(distribution, window)
		if newIdx == nil {
			continue
		}
		if newN > cap {
			break
		}
		nComp, best = newN, newIdx
	}
	return nComp, best, cap, true
}

func product(distribution [][]int, idx []int) (int, bool) {
	p := 1
	for i, a := range idx {
		if a < 0 || a >= len(distribution[i]) {
			return 0, false
		}
		p *= distribution[i][a]
	}
	return p, true
}

func stdevAt(distribution [][]int, idx []int) float64 {
	n := len(idx)
	if n == 0 {
		return 0
	}
	vals := make([]float64, n)
	mean := 0.0
	for i, a := range idx {
		vals[i] = float64(distribution[i][a])
		mean += vals[i]
	}
	mean /= float64(n)
	variance := 0.0
	for _, v := range vals {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(n)
	return math.Sqrt(variance)
}
