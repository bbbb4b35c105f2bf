package pick

import (
	"context"

	"go.uber.org/zap"

	"github.com/biocore/locuspick/internal/locus"
	"github.com/biocore/locuspick/internal/store"
	"github.com/biocore/locuspick/internal/tx"
)

// enrichSuperlocus consults the external store for each transcript in sl:
// ORF calls override any genomic CDS already present, verified junctions
// mark matching intron splice sites, and BLAST hits are logged for
// downstream inspection. A store error propagates to the caller, which
// fails the whole superlocus rather than partially enriching it.
func enrichSuperlocus(ctx context.Context, sl *locus.Superlocus, es store.ExternalStore, logger *zap.Logger) error {
	for _, id := range sl.OrderedIDs() {
		t := sl.Transcripts()[id]
		if err := enrichTranscript(ctx, t, es, logger); err != nil {
			return err
		}
	}
	return nil
}

func enrichTranscript(ctx context.Context, t *tx.Transcript, es store.ExternalStore, logger *zap.Logger) error {
	orfs, err := es.OrfsFor(ctx, t.ID())
	if err != nil {
		return err
	}
	if len(orfs) > 0 {
		if err := t.LoadORFs(orfs); err != nil {
			logger.Warn("discarding external ORF call", zap.String("transcript", t.ID()), zap.Error(err))
		}
	}

	junctions, err := es.JunctionsFor(ctx, t.Chrom(), t.Start(), t.End())
	if err != nil {
		return err
	}
	if len(junctions) > 0 {
		own := make(map[tx.SpliceKey]bool, len(t.Introns()))
		for _, k := range t.SpliceSites() {
			own[k] = true
		}
		verified := make(map[tx.SpliceKey]bool, len(t.VerifiedIntrons()))
		for k, v := range t.VerifiedIntrons() {
			verified[k] = v
		}
		for _, j := range junctions {
			key := tx.SpliceKey{Donor: j.Start, Acceptor: j.End}
			if !j.Verified || !own[key] {
				continue
			}
			verified[key] = true
		}
		t.SetVerifiedIntrons(verified)
	}

	hits, err := es.BlastHitsFor(ctx, t.ID())
	if err != nil {
		return err
	}
	if len(hits) > 0 {
		best := hits[0]
		for _, h := range hits[1:] {
			if h.Bitscore > best.Bitscore {
				best = h
			}
		}
		logger.Debug("blast hit observed",
			zap.String("transcript", t.ID()),
			zap.Float64("bitscore", best.Bitscore),
			zap.Float64("evalue", best.Evalue),
		)
	}

	return nil
}
