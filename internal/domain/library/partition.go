package library

import "github.com/dnaenc/edesigner/internal/domain/param"

// GlobalIndexes is the precomputed atom-partition table (§4's "get_all_indexes
// precomputed atom-partition table" supplement): GlobalIndexes[scaffoldAtoms]
// holds, for each total-atom-count window from max_na_percentile up to
// max_na_absolute (exclusive), every way of splitting the remaining atoms
// across the library's cycles. Built once per run and shared read-only
// across every library validated against the same Global parameters.
type GlobalIndexes [][][][]int

// BuildGlobalIndexes generalizes get_all_indexes (originally hardcoded to
// ndim 2 or 3) to any number of cycles, per the decision that the 2/3-cycle
// restriction in the original was a historical artifact rather than an
// intentional limit.
func BuildGlobalIndexes(g param.Global, ndim int) GlobalIndexes {
	out := make(GlobalIndexes, g.MaxScaffoldsNA+1)
	for ba := 0; ba <= g.MaxScaffoldsNA; ba++ {
		var windows [][][]int
		for n := g.MaxNAPercentile; n < g.MaxNAAbsolute; n++ {
			target := n - ba - g.HeadpieceNA
			windows = append(windows, compositions(target, ndim))
		}
		out[ba] = windows
	}
	return out
}

// compositions returns every way to write target as an ordered sum of parts
// positive integers (a composition, not a partition: order matters and
// duplicates across positions are allowed). Mirrors the nested
// range(1,n)-with-sum-constraint loops of get_all_indexes, generalized to an
// arbitrary number of terms.
func compositions(target, parts int) [][]int {
	if parts <= 0 {
		return nil
	}
	if parts == 1 {
		if target >= 1 {
			return [][]int{{target}}
		}
		return nil
	}
	var out [][]int
	maxFirst := target - (parts - 1)
	for first := 1; first <= maxFirst; first++ {
		for _, rest := range compositions(target-first, parts-1) {
			combo := make([]int, 0, parts)
			combo = append(combo, first)
			combo = append(combo, rest...)
			out = append(out, combo)
		}
	}
	return out
}
