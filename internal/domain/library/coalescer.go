package library

import (
	"github.com/dnaenc/edesigner/internal/domain/design"
	"github.com/dnaenc/edesigner/internal/domain/param"
)

// Coalescer streams completed designs into a single-writer LibDesign map
// keyed by lib_id (§4.6 "Coalescence"). Insertion order is tracked
// separately so Libraries() returns a deterministic sequence suitable for
// final id assignment (§5 "sort the resulting LibDesign ids").
type Coalescer struct {
	libs  map[string]*LibDesign
	order []string
}

// NewCoalescer returns an empty Coalescer.
func NewCoalescer() *Coalescer {
	return &Coalescer{libs: make(map[string]*LibDesign)}
}

// Add folds one completed design into its LibDesign bucket, creating the
// bucket on first sight of its lib_id, and returns that bucket.
func (c *Coalescer) Add(d *design.Design, p *param.Params) *LibDesign {
	key := d.LibID.Key()
	lib, ok := c.libs[key]
	if !ok {
		lib = NewLibDesign()
		c.libs[key] = lib
		c.order = append(c.order, key)
	}
	lib.UpdateLib(d, p)
	return lib
}

// Libraries returns every coalesced LibDesign in first-insertion order.
func (c *Coalescer) Libraries() []*LibDesign {
	out := make([]*LibDesign, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.libs[k])
	}
	return out
}

// AssignIDs stamps contiguous integer ids on every library that survived
// validation (Eliminate==false), in Libraries() order (§4.6 "Libraries
// passing validation are assigned contiguous integer ids in insertion
// order.").
func (c *Coalescer) AssignIDs() {
	id := 0
	for _, lib := range c.Libraries() {
		if lib.Eliminate {
			continue
		}
		lib.ID = id
		id++
	}
}
