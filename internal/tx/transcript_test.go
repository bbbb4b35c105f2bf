package tx

import (
	"testing"

	"github.com/biogo/biogo/seq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoExonTranscript(t *testing.T, id string, strand seq.Strand, exons [][2]int64) *Transcript {
	t.Helper()
	tr := New(id, "test", "chr1")
	for _, e := range exons {
		tr.AddExon(e[0], e[1])
	}
	if strand != seq.None {
		require.NoError(t, tr.SetStrand(strand))
	}
	require.NoError(t, tr.Finalize())
	return tr
}

func TestFinalize_TilesExactly(t *testing.T) {
	tr := twoExonTranscript(t, "t1", seq.Plus, [][2]int64{{100, 200}, {400, 500}})

	assert.Equal(t, int64(100), tr.Start())
	assert.Equal(t, int64(500), tr.End())
	require.Len(t, tr.Introns(), 1)
	assert.Equal(t, Intron{Start: 201, End: 399}, tr.Introns()[0])
	assert.Equal(t, int64(202), tr.CDNALength()) // 101 + 101
}

func TestFinalize_Idempotent(t *testing.T) {
	tr := twoExonTranscript(t, "t1", seq.Plus, [][2]int64{{100, 200}, {400, 500}})
	before := append([]Exon(nil), tr.Exons()...)
	require.NoError(t, tr.Finalize())
	assert.Equal(t, before, tr.Exons())
	assert.True(t, tr.Finalized())
}

func TestFinalize_EmptyExons_InvalidTranscript(t *testing.T) {
	tr := New("empty", "test", "chr1")
	err := tr.Finalize()
	require.Error(t, err)
	var ite *InvalidTranscriptError
	require.ErrorAs(t, err, &ite)
}

func TestFinalize_OverlappingExons_InvalidTranscript(t *testing.T) {
	tr := New("overlap", "test", "chr1")
	tr.AddExon(100, 200)
	tr.AddExon(150, 250)
	require.NoError(t, tr.SetStrand(seq.Plus))
	err := tr.Finalize()
	require.Error(t, err)
}

func TestFinalize_MultiexonicRequiresStrand(t *testing.T) {
	tr := New("nostrand", "test", "chr1")
	tr.AddExon(100, 200)
	tr.AddExon(400, 500)
	err := tr.Finalize()
	require.Error(t, err)
}

func TestFinalize_MonoexonicNoStrandAccepted(t *testing.T) {
	tr := New("mono", "test", "chr1")
	tr.AddExon(100, 500)
	require.NoError(t, tr.Finalize())
	assert.True(t, tr.Monoexonic())
	assert.Equal(t, seq.None, tr.Strand())
}

func TestSetStrand_ImmutableOnceMultiexonic(t *testing.T) {
	tr := twoExonTranscript(t, "t1", seq.Plus, [][2]int64{{100, 200}, {400, 500}})
	err := tr.SetStrand(seq.Minus)
	require.Error(t, err)
}

func TestStripUTRs_ClipsToCDS(t *testing.T) {
	tr := twoExonTranscript(t, "coding", seq.Plus, [][2]int64{{100, 200}, {400, 500}})
	require.NoError(t, tr.LoadORFs([]ORFRecord{
		{CDSStart: 50, CDSEnd: 150, Strand: seq.Plus, HasStartCodon: true, HasStopCodon: true},
	}))

	cdsOnly := tr.StripUTRs()
	assert.Equal(t, tr.CombinedCDS(), cdsOnly.ExonicRegions())
}

func TestLoadORFs_SelectsLongestThenCompleteness(t *testing.T) {
	tr := twoExonTranscript(t, "t1", seq.Plus, [][2]int64{{1, 100}, {201, 300}})
	require.NoError(t, tr.LoadORFs([]ORFRecord{
		{CDSStart: 1, CDSEnd: 60, Strand: seq.Plus, HasStartCodon: false, HasStopCodon: false},
		{CDSStart: 1, CDSEnd: 90, Strand: seq.Plus, HasStartCodon: true, HasStopCodon: true},
	}))

	orf := tr.SelectedORF()
	require.NotNil(t, orf)
	assert.Equal(t, int64(90), orf.CDSLength())
	assert.True(t, orf.Complete())
}

func TestLoadORFs_IdempotentOnCoordinates(t *testing.T) {
	tr := twoExonTranscript(t, "t1", seq.Plus, [][2]int64{{1, 100}, {201, 300}})
	records := []ORFRecord{{CDSStart: 1, CDSEnd: 90, Strand: seq.Plus, HasStartCodon: true, HasStopCodon: true}}

	require.NoError(t, tr.LoadORFs(records))
	first := append([]Region(nil), tr.CombinedCDS()...)

	require.NoError(t, tr.LoadORFs(records))
	second := tr.CombinedCDS()

	assert.Equal(t, first, second)
}

func TestLoadORFs_RejectsCoordinatesOutOfRange(t *testing.T) {
	tr := twoExonTranscript(t, "t1", seq.Plus, [][2]int64{{1, 100}})
	err := tr.LoadORFs([]ORFRecord{{CDSStart: 1, CDSEnd: 1000, Strand: seq.Plus}})
	require.Error(t, err)
}

func TestGenomicRegionsForCDNARange_ReverseStrand(t *testing.T) {
	// Two exons [100,200] and [400,500] on the minus strand: transcription
	// order is [400,500] then [100,200]. cDNA [1,50] should map to the
	// genomically highest 50 bases of the first exon in transcription
	// order (the genomically last exon), i.e. [451,500].
	regions, err := genomicRegionsForCDNARange([]Exon{{Start: 100, End: 200}, {Start: 400, End: 500}}, seq.Minus, 1, 50)
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, Region{Start: 451, End: 500}, regions[0])
}
