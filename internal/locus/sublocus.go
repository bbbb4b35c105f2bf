package locus

import (
	"github.com/biocore/locuspick/internal/compare"
	"github.com/biocore/locuspick/internal/scoring"
	"github.com/biocore/locuspick/internal/tx"
)

// Sublocus is a connected component of a superlocus's sublocus-flavor
// intersection graph: an undirected graph over the superlocus's
// transcripts, edges given by the stricter sublocus-flavor
// is-intersecting predicate.
type Sublocus struct {
	base
}

// Split partitions a superlocus into subloci using the stricter
// compare.SublocusIsIntersecting predicate.
func Split(sl *Superlocus, cdsOnly bool, th compare.Thresholds) []*Sublocus {
	ids := sl.OrderedIDs()
	if len(ids) == 0 {
		return nil
	}

	intersecting := func(one, other *tx.Transcript) bool {
		return compare.SublocusIsIntersecting(one, other, cdsOnly, th)
	}
	g := buildGraph(ids, sl.transcripts, intersecting)

	var subloci []*Sublocus
	for _, comp := range g.ConnectedComponents() {
		s := &Sublocus{base: newBase()}
		for _, id := range comp {
			_ = s.add(sl.transcripts[id]) // strand/chrom already consistent within sl
		}
		subloci = append(subloci, s)
	}
	return subloci
}

// Monosublocus carries exactly one transcript: the winner of scoring
// within a Sublocus.
type Monosublocus struct {
	base
	Score float64
}

// Elect scores every transcript in the sublocus and wraps the winner in a
// new Monosublocus, using tieBreak (falling back to DefaultTieBreak when
// nil) to order candidates — the same chain DefineLoci applies at final
// locus selection, so the two tiers agree on what "best" means.
func Elect(sl *Sublocus, reg *scoring.Registry, rs scoring.RuleSet, tieBreak TieBreak) (*Monosublocus, error) {
	ids := sl.OrderedIDs()
	if len(ids) == 0 {
		return nil, nil
	}

	pool := make([]*tx.Transcript, len(ids))
	for i, id := range ids {
		pool[i] = sl.transcripts[id]
	}

	scores, err := scoring.Score(reg, rs, pool)
	if err != nil {
		return nil, err
	}

	if tieBreak == nil {
		tieBreak = DefaultTieBreak
	}
	winnerID := chooseBest(ids, sl.transcripts, scores, tieBreak)

	m := &Monosublocus{base: newBase(), Score: scores[winnerID]}
	if err := m.add(sl.transcripts[winnerID]); err != nil {
		return nil, err
	}
	return m, nil
}
