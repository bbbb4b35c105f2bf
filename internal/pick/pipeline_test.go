package pick

import (
	"testing"

	"github.com/biogo/biogo/seq"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biocore/locuspick/internal/config"
	"github.com/biocore/locuspick/internal/locus"
	"github.com/biocore/locuspick/internal/scoring"
	"github.com/biocore/locuspick/internal/tx"
)

func monoexonic(t *testing.T, id string, start, end int64) *tx.Transcript {
	t.Helper()
	tr := tx.New(id, "test", "chr1")
	tr.AddExon(start, end)
	require.NoError(t, tr.SetStrand(seq.Plus))
	require.NoError(t, tr.Finalize())
	return tr
}

func buildSuperlocus(t *testing.T, transcripts ...*tx.Transcript) *locus.Superlocus {
	t.Helper()
	b := locus.NewSuperlocusBuilder(5000, true)
	var sl *locus.Superlocus
	for _, tr := range transcripts {
		completed, err := b.Add(tr)
		require.NoError(t, err)
		if completed != nil {
			sl = completed
		}
	}
	flushed := b.Flush()
	if flushed != nil {
		sl = flushed
	}
	require.NotNil(t, sl)
	return sl
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	lengthRules := scoring.RuleSet{
		Rescalers: []scoring.RescaleRule{
			{Metric: "cdna_length", Kind: scoring.RescaleMax, Multiplier: 1},
		},
	}
	cfg, err := config.Load(viper.New(), scoring.DefaultRegistry(), config.Scoring{
		Requirements: lengthRules,
		Scoring:      lengthRules,
	})
	require.NoError(t, err)
	return cfg
}

func TestPipeline_Resolve_DistinctTranscriptsProduceOneLocusEach(t *testing.T) {
	sl := buildSuperlocus(t,
		monoexonic(t, "a", 100, 200),
		monoexonic(t, "b", 2000, 2100),
	)

	p := NewPipeline(testConfig(t), scoring.DefaultRegistry())
	loci, err := p.Resolve(sl)
	require.NoError(t, err)
	assert.Len(t, loci, 2)
}

func TestPipeline_Resolve_OverlappingTranscriptsCollapseToOneLocus(t *testing.T) {
	sl := buildSuperlocus(t,
		monoexonic(t, "a", 100, 300),
		monoexonic(t, "b", 150, 500),
	)

	p := NewPipeline(testConfig(t), scoring.DefaultRegistry())
	loci, err := p.Resolve(sl)
	require.NoError(t, err)
	require.Len(t, loci, 1)
	assert.Equal(t, "b", loci[0].ID) // longer cdna_length wins the election/selector chain
}
