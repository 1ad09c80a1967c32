package bbt

import (
	"github.com/dnaenc/edesigner/internal/domain/param"
	"github.com/dnaenc/edesigner/pkg/errors"
)

// Catalogue is the closed, immutable-after-construction set of BBTs
// generated from a Params model. It is shared read-only across every
// classifier and growth-engine worker.
type Catalogue struct {
	BBTs     []*BBT
	byTriple map[[3]int]int
}

// Get returns the BBT at the given catalogue index.
func (c *Catalogue) Get(index int) (*BBT, bool) {
	if index < 0 || index >= len(c.BBTs) {
		return nil, false
	}
	return c.BBTs[index], true
}

// IndexOfTriple returns the catalogue index of the BBT with the given
// sorted, zero-padded FG triple, if one was generated.
func (c *Catalogue) IndexOfTriple(triple [3]int) (int, bool) {
	i, ok := c.byTriple[triple]
	return i, ok
}

// ClassifyLongVector finds the BBT whose long-vector matches the given
// molecule long-vector, restricting the search to BBTs of the same
// multiplicity for speed (§4.2 step 7). Returns ok=false if no BBT matches.
func (c *Catalogue) ClassifyLongVector(moleculeLongVector []int, multi int) (int, bool) {
	for _, b := range c.BBTs {
		if b.Multi != multi {
			continue
		}
		if b.MatchesLongVector(moleculeLongVector) {
			return b.Index, true
		}
	}
	return 0, false
}

// compatible reports whether every unordered pair of non-null FG indices in
// triple is pairwise self-compatible, per §4.1's enumeration rule.
func compatible(triple [3]int, fgs []param.FG) bool {
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			a, b := triple[i], triple[j]
			if a == param.NullFG || b == param.NullFG {
				continue
			}
			if !fgs[a].Compatible(b) {
				return false
			}
		}
	}
	return true
}

// FromBBTs reconstructs a Catalogue from a previously-built BBT slice,
// rebuilding the triple index without re-running enumeration. Used when a
// catalogue populated by one process (e.g. a classify run) is persisted and
// reloaded by another (e.g. a design run), rather than rebuilding its
// histograms from scratch.
func FromBBTs(bbts []*BBT) *Catalogue {
	c := &Catalogue{BBTs: bbts, byTriple: make(map[[3]int]int, len(bbts))}
	for _, b := range bbts {
		c.byTriple[b.Triple] = b.Index
	}
	return c
}

// BuildCatalogue enumerates every sorted triple (i,j,k), 0<=i<=j<=k<|FG|,
// retaining those that are pairwise self-compatible, and assigns each a
// stable index in generation order (§4.1). maxAtoms sizes every BBT's
// per-atom-count histograms.
func BuildCatalogue(p *param.Params, maxAtoms int) (*Catalogue, error) {
	if len(p.FG) == 0 {
		return nil, errors.New(errors.CodeBBTNotFound, "cannot build a catalogue from an empty FG table")
	}
	if maxAtoms < 0 {
		return nil, errors.New(errors.CodeBBTVectorMismatch, "maxAtoms must be non-negative")
	}

	n := len(p.FG)
	c := &Catalogue{byTriple: make(map[[3]int]int)}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			for k := j; k < n; k++ {
				triple := [3]int{i, j, k}
				if !compatible(triple, p.FG) {
					continue
				}
				index := len(c.BBTs)
				b := newBBT(index, triple, n, p.Headpieces, maxAtoms)
				c.BBTs = append(c.BBTs, b)
				c.byTriple[triple] = index
			}
		}
	}
	return c, nil
}
