package bbt

import "sort"

// AssignOrder computes each BBT's display Order key: ascending by
// multiplicity, then descending by total compound count within a
// multiplicity group, mirroring e_bbt_creator's post-classification BBT
// report ordering. Catalogue indices (and hence c.BBTs' slice order) are
// left untouched; Order is purely a reporting field.
func (c *Catalogue) AssignOrder() {
	ranked := make([]*BBT, len(c.BBTs))
	copy(ranked, c.BBTs)

	// Stable sort descending by total compound count first, then stable
	// sort ascending by multiplicity: the second sort preserves the
	// compound-count ordering within each multiplicity group, exactly as
	// two chained sorts on a reversed-priority key do in the original.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalCompounds() > ranked[j].TotalCompounds()
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Multi < ranked[j].Multi
	})
	for i, b := range ranked {
		b.Order = i
	}
}
