package pick

import (
	"context"
	"testing"

	"github.com/biogo/biogo/seq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/biocore/locuspick/internal/store"
	"github.com/biocore/locuspick/internal/tx"
)

type fakeStore struct {
	orfs      map[string][]tx.ORFRecord
	junctions map[string][]store.Junction
	hits      map[string][]store.BlastHit
	err       error
}

func (f *fakeStore) OrfsFor(ctx context.Context, id string) ([]tx.ORFRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.orfs[id], nil
}

func (f *fakeStore) BlastHitsFor(ctx context.Context, id string) ([]store.BlastHit, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.hits[id], nil
}

func (f *fakeStore) JunctionsFor(ctx context.Context, chrom string, start, end int64) ([]store.Junction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.junctions[chrom], nil
}

func codingTranscript(t *testing.T, id string) *tx.Transcript {
	t.Helper()
	tr := tx.New(id, "test", "chr1")
	tr.AddExon(100, 300)
	tr.AddExon(400, 600)
	require.NoError(t, tr.SetStrand(seq.Plus))
	require.NoError(t, tr.Finalize())
	return tr
}

func TestEnrichTranscript_LoadsExternalORFs(t *testing.T) {
	tr := codingTranscript(t, "t1")
	es := &fakeStore{orfs: map[string][]tx.ORFRecord{
		"t1": {{CDSStart: 1, CDSEnd: 150, Strand: seq.Plus, HasStartCodon: true, HasStopCodon: true}},
	}}

	err := enrichTranscript(context.Background(), tr, es, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, tr.SelectedORF().CDSLength() > 0)
}

func TestEnrichTranscript_MarksVerifiedJunctions(t *testing.T) {
	tr := codingTranscript(t, "t1")
	donor, acceptor := tr.Introns()[0].Start, tr.Introns()[0].End

	es := &fakeStore{junctions: map[string][]store.Junction{
		"chr1": {{Start: donor, End: acceptor, Verified: true}},
	}}

	err := enrichTranscript(context.Background(), tr, es, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, tr.VerifiedIntrons()[tx.SpliceKey{Donor: donor, Acceptor: acceptor}])
}

func TestEnrichTranscript_PropagatesStoreError(t *testing.T) {
	tr := codingTranscript(t, "t1")
	es := &fakeStore{err: assert.AnError}

	err := enrichTranscript(context.Background(), tr, es, zap.NewNop())
	assert.ErrorIs(t, err, assert.AnError)
}
