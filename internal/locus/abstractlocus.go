// Package locus implements the hierarchical clustering pipeline:
// superlocus streaming, sublocus splitting, monosublocus election, holder
// re-aggregation, and final locus selection.
//
// Rather than modeling the hierarchy as a chain of embedded structs
// sharing mutated state, each tier is a distinct, concrete container type
// built around one shared value type (base) and a predicate strategy
// (compare.IsIntersecting vs compare.SublocusIsIntersecting) passed in by
// the caller.
package locus

import (
	"sort"

	"github.com/biogo/biogo/seq"

	"github.com/biocore/locuspick/internal/graphutil"
	"github.com/biocore/locuspick/internal/tx"
)

// IntersectingFunc is the predicate strategy a container is built with:
// either the laxer holder-flavor compare.IsIntersecting or the stricter
// compare.SublocusIsIntersecting.
type IntersectingFunc func(one, other *tx.Transcript) bool

// base is the shared state every locus-tier container carries.
type base struct {
	chrom  string
	strand seq.Strand

	start int64
	end   int64

	transcripts map[string]*tx.Transcript
	order       []string // first-admission order, for deterministic iteration

	verifiedIntrons map[tx.SpliceKey]bool

	scores   map[string]float64
	splitted bool
}

func newBase() base {
	return base{
		transcripts:     make(map[string]*tx.Transcript),
		verifiedIntrons: make(map[tx.SpliceKey]bool),
	}
}

// Chrom returns the container's reference sequence.
func (b *base) Chrom() string { return b.chrom }

// Strand returns the strand of the first admitted transcript.
func (b *base) Strand() seq.Strand { return b.strand }

// Start returns the container's interval start.
func (b *base) Start() int64 { return b.start }

// End returns the container's interval end.
func (b *base) End() int64 { return b.end }

// Transcripts returns the map of member transcripts, keyed by id. Callers
// must not mutate the returned map.
func (b *base) Transcripts() map[string]*tx.Transcript { return b.transcripts }

// OrderedIDs returns member transcript ids in deterministic (lexicographic)
// order.
func (b *base) OrderedIDs() []string {
	ids := make([]string, 0, len(b.transcripts))
	for id := range b.transcripts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// VerifiedIntrons returns the union of every admitted transcript's own
// verified-intron set.
func (b *base) VerifiedIntrons() map[tx.SpliceKey]bool { return b.verifiedIntrons }

// Len returns the number of member transcripts.
func (b *base) Len() int { return len(b.transcripts) }

// StrandMismatchError reports an attempt to admit a transcript of a
// different strand than the container's first admitted transcript.
type StrandMismatchError struct {
	Chrom string
	Have  seq.Strand
	Got   seq.Strand
}

func (e *StrandMismatchError) Error() string {
	return "locus: strand mismatch on " + e.Chrom
}

// add incorporates t into the container, expanding [start,end] and the
// verified-intron set, and fixing the container's strand on first
// admission. It does not check intersection — that is the caller's job at
// each tier (superlocus admission, sublocus graph membership, etc).
func (b *base) add(t *tx.Transcript) error {
	if len(b.transcripts) == 0 {
		b.chrom = t.Chrom()
		b.strand = t.Strand()
		b.start = t.Start()
		b.end = t.End()
	} else {
		if t.Strand() != seq.None && b.strand != seq.None && t.Strand() != b.strand {
			return &StrandMismatchError{Chrom: b.chrom, Have: b.strand, Got: t.Strand()}
		}
		if t.Start() < b.start {
			b.start = t.Start()
		}
		if t.End() > b.end {
			b.end = t.End()
		}
	}
	b.transcripts[t.ID()] = t
	b.order = append(b.order, t.ID())
	for k, verified := range t.VerifiedIntrons() {
		if verified {
			b.verifiedIntrons[k] = true
		}
	}
	return nil
}

// buildGraph constructs the intersection graph over the container's
// current membership using the supplied predicate.
func buildGraph(ids []string, transcripts map[string]*tx.Transcript, intersecting IntersectingFunc) *graphutil.Graph {
	g := graphutil.New(ids)
	for i, a := range ids {
		for _, bID := range ids[i+1:] {
			if intersecting(transcripts[a], transcripts[bID]) {
				g.AddEdge(a, bID)
			}
		}
	}
	return g
}
