package locus

import (
	"github.com/biocore/locuspick/internal/compare"
	"github.com/biocore/locuspick/internal/tx"
)

// MonosublocusHolder collects the monosubloci of a superlocus that overlap
// under the laxer holder-flavor predicate, deliberately re-admitting
// transcripts the stricter sublocus stage split apart. This re-aggregation
// step is intentionally permissive.
type MonosublocusHolder struct {
	base
}

// CollectHolders groups a superlocus's monosubloci into overlap groups
// using compare.IsIntersecting, one MonosublocusHolder per connected
// component, folding single-transcript monosubloci into a shared
// container.
func CollectHolders(monosubloci []*Monosublocus, cdsOnly bool, th compare.Thresholds) []*MonosublocusHolder {
	if len(monosubloci) == 0 {
		return nil
	}

	byID := make(map[string]*tx.Transcript, len(monosubloci))
	ids := make([]string, 0, len(monosubloci))
	for _, m := range monosubloci {
		for _, id := range m.OrderedIDs() {
			byID[id] = m.transcripts[id]
			ids = append(ids, id)
		}
	}

	intersecting := func(one, other *tx.Transcript) bool {
		return compare.IsIntersecting(one, other, cdsOnly, th)
	}
	g := buildGraph(ids, byID, intersecting)

	var holders []*MonosublocusHolder
	for _, comp := range g.ConnectedComponents() {
		h := &MonosublocusHolder{base: newBase()}
		for _, id := range comp {
			_ = h.add(byID[id])
		}
		holders = append(holders, h)
	}
	return holders
}
