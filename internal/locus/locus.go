package locus

import (
	"sort"

	"github.com/biocore/locuspick/internal/compare"
	"github.com/biocore/locuspick/internal/graphutil"
	"github.com/biocore/locuspick/internal/scoring"
	"github.com/biocore/locuspick/internal/tx"
)

// Locus is terminal: one primary transcript plus optionally admitted
// alternative-splicing companions.
type Locus struct {
	base

	ID      string
	Source  string
	Primary *tx.Transcript
	Score   float64

	// AlternativeSplicing holds companions admitted by AdmitAlternatives;
	// nil until that pass runs.
	AlternativeSplicing []*tx.Transcript
}

// Excluded collects winners discarded by the purge option of DefineLoci:
// a zero-score winner is routed here instead of silently dropped.
type Excluded struct {
	base
}

// NewExcluded creates an empty Excluded sink, ready to be passed as
// DefineLociOptions.Excluded.
func NewExcluded() *Excluded {
	return &Excluded{base: newBase()}
}

// TieBreak orders two candidate ids within a community to pick the
// community's winner. The default chain (DefaultTieBreak) is score, then
// longest combined CDS, then earliest start, then id; the reduced
// "score then id" chain is obtainable by passing ScoreThenID.
type TieBreak func(a, b *tx.Transcript, scoreA, scoreB float64) bool // true if a should win over b

// ScoreThenID is the reduced tie-break: highest score, ties broken
// lexicographically by id.
func ScoreThenID(a, b *tx.Transcript, scoreA, scoreB float64) bool {
	if scoreA != scoreB {
		return scoreA > scoreB
	}
	return a.ID() < b.ID()
}

// DefaultTieBreak is the fuller chain: score, then longest combined
// CDS, then earliest genomic start, then id.
func DefaultTieBreak(a, b *tx.Transcript, scoreA, scoreB float64) bool {
	if scoreA != scoreB {
		return scoreA > scoreB
	}
	if a.CombinedCDSLength() != b.CombinedCDSLength() {
		return a.CombinedCDSLength() > b.CombinedCDSLength()
	}
	if a.Start() != b.Start() {
		return a.Start() < b.Start()
	}
	return a.ID() < b.ID()
}

// DefineLociOptions configures DefineLoci.
type DefineLociOptions struct {
	Registry   *scoring.Registry
	Rules      scoring.RuleSet
	CDSOnly    bool
	Thresholds compare.Thresholds
	TieBreak   TieBreak // defaults to DefaultTieBreak if nil
	Purge      bool
	Excluded   *Excluded // optional sink for purged zero-score winners
}

// DefineLoci is the final selector: for the holder's intersection graph,
// repeatedly enumerate maximal cliques and clique-connected communities,
// pick each community's best transcript, wrap it in a Locus (unless
// purged), mark the winner and every clique containing it for removal,
// and repeat until the graph is empty.
func DefineLoci(h *MonosublocusHolder, opts DefineLociOptions) ([]*Locus, error) {
	ids := h.OrderedIDs()
	if len(ids) == 0 {
		return nil, nil
	}

	pool := make([]*tx.Transcript, len(ids))
	for i, id := range ids {
		pool[i] = h.transcripts[id]
	}
	scores, err := scoring.Score(opts.Registry, opts.Rules, pool)
	if err != nil {
		return nil, err
	}

	tieBreak := opts.TieBreak
	if tieBreak == nil {
		tieBreak = DefaultTieBreak
	}

	intersecting := func(one, other *tx.Transcript) bool {
		return compare.IsIntersecting(one, other, opts.CDSOnly, opts.Thresholds)
	}
	g := buildGraph(ids, h.transcripts, intersecting)

	var loci []*Locus
	for !g.Empty() {
		cliques := g.FindCliques()
		communities := g.FindCommunities()

		toRemove := make(map[string]bool)
		for _, community := range communities {
			winner := chooseBest(community, h.transcripts, scores, tieBreak)
			toRemove[winner] = true
			for _, clique := range cliques {
				if containsKey(clique, winner) {
					for _, member := range clique {
						toRemove[member] = true
					}
				}
			}

			winnerT := h.transcripts[winner]
			winnerScore := scores[winner]
			if !opts.Purge || winnerScore > 0 {
				loci = append(loci, &Locus{
					base:    singleton(winnerT),
					ID:      winner,
					Source:  winnerT.Source(),
					Primary: winnerT,
					Score:   winnerScore,
				})
			} else if opts.Excluded != nil {
				_ = opts.Excluded.add(winnerT)
			}
		}

		for key := range toRemove {
			g.RemoveVertex(key)
		}
	}

	sort.Slice(loci, func(i, j int) bool { return loci[i].ID < loci[j].ID })
	return loci, nil
}

func singleton(t *tx.Transcript) base {
	b := newBase()
	_ = b.add(t)
	return b
}

func containsKey(keys graphutil.Clique, k string) bool {
	for _, c := range keys {
		if c == k {
			return true
		}
	}
	return false
}

func chooseBest(community graphutil.Clique, transcripts map[string]*tx.Transcript, scores map[string]float64, tieBreak TieBreak) string {
	sorted := append([]string(nil), community...)
	sort.Strings(sorted)

	best := sorted[0]
	for _, id := range sorted[1:] {
		if tieBreak(transcripts[id], transcripts[best], scores[id], scores[best]) {
			best = id
		}
	}
	return best
}
