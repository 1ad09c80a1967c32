// Package pipeline drives the engine end to end: loading parameters,
// building and classifying the BBT catalogue, growing designs, and
// coalescing/validating the resulting libraries. It is the orchestration
// layer cmd/edesigner and cmd/edesigner-worker call into; no cobra or Kafka
// wiring lives here, only the run logic those entry points invoke.
package pipeline

import (
	"sort"

	"github.com/dnaenc/edesigner/internal/domain/bbt"
)

// BBTDescriptor is one row of the catalogue descriptor output (§6 "BBT
// catalogue descriptor"): a single building-block type's identity,
// display order, and compound-count summary.
type BBTDescriptor struct {
	Index         int
	Triple        [3]int
	Multi         int
	Order         int
	TotalCount    int
	InternalCount int
	ExternalCount int
	MinAtoms      int
	MaxAtoms      int
	SMILESExample string
	IsHeadpiece   bool
}

// CatalogueDescriptor is the full catalogue report emitted by the classify
// verb: every BBT that survived classification, ordered the way the
// catalogue displays it (ascending Multi, then descending total count).
type CatalogueDescriptor struct {
	Rows []BBTDescriptor
}

// BuildCatalogueDescriptor assigns each BBT's Order field (the catalogue's
// own display-ordering convention) and renders the descriptor rows in that
// order, one row per BBT holding at least one compound.
func BuildCatalogueDescriptor(catalogue *bbt.Catalogue) CatalogueDescriptor {
	ordered := append([]*bbt.BBT(nil), catalogue.BBTs...)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Multi != b.Multi {
			return a.Multi < b.Multi
		}
		return a.TotalCompounds() > b.TotalCompounds()
	})

	rows := make([]BBTDescriptor, 0, len(ordered))
	for displayOrder, b := range ordered {
		b.Order = displayOrder
		if b.TotalCompounds() == 0 {
			continue
		}
		rows = append(rows, BBTDescriptor{
			Index:         b.Index,
			Triple:        b.Triple,
			Multi:         b.Multi,
			Order:         b.Order,
			TotalCount:    sum(b.NCompounds),
			InternalCount: sum(b.NInternal),
			ExternalCount: sum(b.NExternal),
			MinAtoms:      b.MinAtoms,
			MaxAtoms:      b.MaxAtoms,
			SMILESExample: b.SMILESExample,
			IsHeadpiece:   b.IsHeadpiece(),
		})
	}
	return CatalogueDescriptor{Rows: rows}
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
