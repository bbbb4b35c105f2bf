package tx

import (
	"testing"

	"github.com/biogo/biogo/seq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_GroupsByParentAttribute(t *testing.T) {
	b := NewBuilder()
	b.Add(FeatureRecord{Chrom: "chr1", Source: "test", Feature: "exon", Start: 100, End: 200, Strand: seq.Plus,
		Attributes: map[string]string{"Parent": "tx1"}})
	b.Add(FeatureRecord{Chrom: "chr1", Source: "test", Feature: "exon", Start: 400, End: 500, Strand: seq.Plus,
		Attributes: map[string]string{"Parent": "tx1"}})
	b.Add(FeatureRecord{Chrom: "chr1", Source: "test", Feature: "CDS", Start: 150, End: 200, Strand: seq.Plus,
		Attributes: map[string]string{"Parent": "tx1"}})
	b.Add(FeatureRecord{Chrom: "chr1", Source: "test", Feature: "CDS", Start: 400, End: 420, Strand: seq.Plus,
		Attributes: map[string]string{"Parent": "tx1"}})
	b.Add(FeatureRecord{Chrom: "chr1", Source: "test", Feature: "start_codon", Start: 150, End: 152, Strand: seq.Plus,
		Attributes: map[string]string{"Parent": "tx1"}})

	tr, err := b.FinalizeGroup("tx1")
	require.NoError(t, err)
	assert.Equal(t, "tx1", tr.ID())
	assert.True(t, tr.IsCoding())
	assert.True(t, tr.HasStartCodon())
	assert.False(t, tr.HasStopCodon())
	assert.Equal(t, int64(72), tr.CombinedCDSLength()) // (200-150+1) + (420-400+1)
}

func TestBuilder_FinalizeAll_MultipleTranscripts(t *testing.T) {
	b := NewBuilder()
	for _, tid := range []string{"a", "b"} {
		b.Add(FeatureRecord{Chrom: "chr1", Feature: "exon", Start: 1, End: 100, Strand: seq.Plus,
			Attributes: map[string]string{"Parent": tid}})
	}

	results := b.FinalizeAll()
	require.Len(t, results, 2)
	for _, r := range results {
		require.NoError(t, r.Err)
		assert.True(t, r.Transcript.Monoexonic())
	}
}

func TestBuilder_UnresolvableRecordsIgnored(t *testing.T) {
	b := NewBuilder()
	b.Add(FeatureRecord{Chrom: "chr1", Feature: "gene", Start: 1, End: 100, Attributes: map[string]string{"ID": "gene1"}})
	assert.Empty(t, b.order)
}
