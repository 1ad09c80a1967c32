package design

import (
	"strconv"
	"strings"

	"github.com/dnaenc/edesigner/internal/domain/param"
)

// LibID is the canonical topology fingerprint stamped onto a completed
// design (§4.5): two designs share a LibID iff they have the same
// headpiece, the same ordered enumeration operation at every cycle
// boundary, and the same attachment topology.
type LibID struct {
	TotalCycles     int
	DeprotEnumIDs   []int // EnumGroupID of each deprotection, in cycle order
	ReactionEnumIDs []int // EnumGroupID of each reaction, in cycle order
	DTopology       []int
	BTopology       []int
	HeadpieceBBT    int
}

// AssignLibID stamps d.LibID from its current reaction/deprotection and
// topology history. Called only on completed designs (§4.3 "Terminal
// states").
func (d *Design) AssignLibID(p *param.Params) {
	id := LibID{
		TotalCycles:  d.TotalCycles,
		HeadpieceBBT: d.BBTs[0],
	}
	for _, i := range d.Deprotections {
		id.DeprotEnumIDs = append(id.DeprotEnumIDs, p.Deprotections[i].EnumGroupID)
	}
	for _, i := range d.Reactions {
		id.ReactionEnumIDs = append(id.ReactionEnumIDs, p.Reactions[i].EnumGroupID)
	}
	id.DTopology = append([]int(nil), d.DTopology...)
	id.BTopology = append([]int(nil), d.BTopology...)
	d.LibID = id
}

// Key returns a canonical string encoding of id suitable as a map key or
// coalescer bucket identity. Two LibIDs compare equal iff every field is
// equal, so Key must be injective over the fields that matter.
func (id LibID) Key() string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(id.TotalCycles))
	sb.WriteByte('|')
	writeInts(&sb, id.DeprotEnumIDs)
	sb.WriteByte('|')
	writeInts(&sb, id.ReactionEnumIDs)
	sb.WriteByte('|')
	writeInts(&sb, id.DTopology)
	sb.WriteByte('|')
	writeInts(&sb, id.BTopology)
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(id.HeadpieceBBT))
	return sb.String()
}

func writeInts(sb *strings.Builder, xs []int) {
	for i, x := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(x))
	}
}
