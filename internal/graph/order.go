package graph

import (
	"sort"

	"github.com/vk/cachebust/internal/module"
)

// ProcessingOrder returns the set's modules sorted by descending reference
// level, ties broken by discovery order. Processing modules in this order
// guarantees every importee's content is final before an importer reads its
// hash.
func ProcessingOrder(set *module.Set) []*module.Module {
	ordered := make([]*module.Module, set.Len())
	copy(ordered, set.All())
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Level > ordered[j].Level
	})
	return ordered
}
