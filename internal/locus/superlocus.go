package locus

import (
	"github.com/biocore/locuspick/internal/tx"
)

// Superlocus is the top tier of the hierarchy: a maximal run of transcripts
// admitted by proximity (within a configurable flank) and, unless the
// caller opts into strand-agnostic superloci, matching strand.
type Superlocus struct {
	base
}

// SuperlocusBuilder streams finalized transcripts sorted by
// (chrom, start, end) and emits completed superloci under a flank-aware
// streaming admission rule.
type SuperlocusBuilder struct {
	flank       int64
	strandAware bool
	current     *Superlocus
	lastChrom   string
	lastEnd     int64
}

// NewSuperlocusBuilder creates a builder. flank is the maximum gap (in
// bases) between a candidate transcript's start and the running
// superlocus end for it still to be admitted. strandAware, when true,
// additionally requires the candidate to share the superlocus strand.
func NewSuperlocusBuilder(flank int64, strandAware bool) *SuperlocusBuilder {
	return &SuperlocusBuilder{flank: flank, strandAware: strandAware}
}

// OutOfOrderError reports a transcript stream violating the
// (chrom, start, end) sort precondition the builder requires.
type OutOfOrderError struct {
	Chrom        string
	PreviousEnd  int64
	TranscriptID string
	Start        int64
}

func (e *OutOfOrderError) Error() string {
	return "locus: transcript stream is not sorted by (chrom, start, end)"
}

// Add admits the next transcript in stream order. If admitting it would
// start a new superlocus (chromosome change, or out of flank range, or a
// strand mismatch under strand-aware admission), the current superlocus
// (if any) is returned as complete and a new one is opened around t.
// Otherwise nil is returned and t joins the current superlocus.
func (b *SuperlocusBuilder) Add(t *tx.Transcript) (*Superlocus, error) {
	if b.current != nil {
		if t.Chrom() == b.lastChrom && t.Start() < b.current.start {
			return nil, &OutOfOrderError{Chrom: t.Chrom(), PreviousEnd: b.lastEnd, TranscriptID: t.ID(), Start: t.Start()}
		}
	}

	if b.current != nil && b.admits(t) {
		if err := b.current.add(t); err != nil {
			return nil, err
		}
		b.lastChrom, b.lastEnd = t.Chrom(), t.End()
		return nil, nil
	}

	var completed *Superlocus
	if b.current != nil {
		completed = b.current
	}

	b.current = &Superlocus{base: newBase()}
	if err := b.current.add(t); err != nil {
		return nil, err
	}
	b.lastChrom, b.lastEnd = t.Chrom(), t.End()
	return completed, nil
}

func (b *SuperlocusBuilder) admits(t *tx.Transcript) bool {
	cur := b.current
	if t.Chrom() != cur.chrom {
		return false
	}
	if b.strandAware && t.Strand() != cur.strand {
		return false
	}
	if t.Start() > cur.end+b.flank {
		return false
	}
	return true
}

// Flush returns the in-progress superlocus, if any, signaling end of
// input. The builder is left ready to start a fresh superlocus on the next
// Add call.
func (b *SuperlocusBuilder) Flush() *Superlocus {
	cur := b.current
	b.current = nil
	return cur
}
