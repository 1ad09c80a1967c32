// Package bbt implements the building-block-type catalogue: the closed set
// of FG triples generated under pairwise self-compatibility, together with
// the per-atom-count histograms populated by the classifier.
package bbt

import "github.com/dnaenc/edesigner/internal/domain/param"

// NoHeadpiece is the sentinel HeadpieceIndex value meaning "this BBT is not
// a headpiece."
const NoHeadpiece = -1

// BBT is one building-block type: a sorted, zero-padded triple of FG
// indices that passed pairwise self-compatibility, plus the statistics the
// classifier accumulates once compounds have been read.
type BBT struct {
	Index      int    // stable, assigned in enumeration order
	Triple     [3]int // sorted, zero-padded FG indices
	LongVector []int  // length |FG|; entry k = count of FG k in Triple
	Multi      int    // number of non-null entries in Triple

	HeadpieceIndex int // index into Params.Headpieces, or NoHeadpiece

	// Per-effective-atom-count histograms, raw (not cumulative) counts.
	// Index a holds the number of compounds classified into this BBT with
	// effective atom count exactly a.
	NCompounds []int
	NInternal  []int
	NExternal  []int

	MinAtoms      int
	MaxAtoms      int
	SMILESExample string

	// Order is a display/report ordering key computed after classification:
	// BBTs are grouped by ascending Multi, then by descending total compound
	// count within a Multi group.
	Order int
}

// newBBT constructs a zeroed BBT for the given triple and links it to a
// headpiece when one declares an identical triple.
func newBBT(index int, triple [3]int, numFG int, headpieces []param.Headpiece, maxAtoms int) *BBT {
	b := &BBT{
		Index:          index,
		Triple:         triple,
		LongVector:     make([]int, numFG),
		HeadpieceIndex: NoHeadpiece,
		NCompounds:     make([]int, maxAtoms+1),
		NInternal:      make([]int, maxAtoms+1),
		NExternal:      make([]int, maxAtoms+1),
	}
	for _, fg := range triple {
		b.LongVector[fg]++
		if fg != param.NullFG {
			b.Multi++
		}
	}
	for i, hp := range headpieces {
		if hp.BBT == triple {
			b.HeadpieceIndex = i
			break
		}
	}
	return b
}

// IsHeadpiece reports whether this BBT is linked to a headpiece.
func (b *BBT) IsHeadpiece() bool { return b.HeadpieceIndex != NoHeadpiece }

// TotalCompounds returns the total number of compounds classified into this
// BBT across every effective atom count.
func (b *BBT) TotalCompounds() int {
	total := 0
	for _, n := range b.NCompounds {
		total += n
	}
	return total
}

// Record accounts for one classified compound belonging to this BBT: it
// bumps the raw histograms, tracks the min/max effective atom extent seen,
// and remembers the first compound's SMILES as the representative example.
func (b *BBT) Record(effectiveAtoms int, external bool, smiles string) {
	if effectiveAtoms < 0 || effectiveAtoms >= len(b.NCompounds) {
		return
	}
	if b.TotalCompounds() == 0 {
		b.SMILESExample = smiles
		b.MinAtoms = effectiveAtoms
		b.MaxAtoms = effectiveAtoms
	} else {
		if effectiveAtoms < b.MinAtoms {
			b.MinAtoms = effectiveAtoms
		}
		if effectiveAtoms > b.MaxAtoms {
			b.MaxAtoms = effectiveAtoms
		}
	}
	b.NCompounds[effectiveAtoms]++
	if external {
		b.NExternal[effectiveAtoms]++
	} else {
		b.NInternal[effectiveAtoms]++
	}
}

// MatchesLongVector reports whether this BBT's long-vector equals the given
// molecule long-vector, the basis of classifier assignment (§4.2 step 7).
func (b *BBT) MatchesLongVector(moleculeLongVector []int) bool {
	if len(moleculeLongVector) != len(b.LongVector) {
		return false
	}
	for i, v := range b.LongVector {
		if moleculeLongVector[i] != v {
			return false
		}
	}
	return true
}
