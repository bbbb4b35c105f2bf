package scoring

import (
	"testing"

	"github.com/biogo/biogo/seq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biocore/locuspick/internal/tx"
)

func monoTranscript(t *testing.T, id string, start, end int64) *tx.Transcript {
	t.Helper()
	tr := tx.New(id, "test", "chr1")
	tr.AddExon(start, end)
	require.NoError(t, tr.Finalize())
	return tr
}

func TestDefaultRegistry_ExtractsCDNALength(t *testing.T) {
	reg := DefaultRegistry()
	tr := monoTranscript(t, "t1", 100, 300)

	v, err := reg.Extract("cdna_length", tr)
	require.NoError(t, err)
	assert.Equal(t, float64(201), v)
}

func TestRegistry_UnknownMetric(t *testing.T) {
	reg := DefaultRegistry()
	_, err := reg.Extract("not_a_metric", monoTranscript(t, "t1", 1, 10))
	require.Error(t, err)
	var ume *UnknownMetricError
	require.ErrorAs(t, err, &ume)
}

func TestRuleSet_Validate_RejectsUnknownMetric(t *testing.T) {
	rs := RuleSet{Filters: []FilterRule{{Metric: "bogus", Operator: OpGE, Value: 1}}}
	err := rs.Validate(DefaultRegistry())
	require.Error(t, err)
}

func TestPassesFilters(t *testing.T) {
	reg := DefaultRegistry()
	rs := RuleSet{Filters: []FilterRule{{Metric: "cdna_length", Operator: OpGE, Value: 100}}}

	long := monoTranscript(t, "long", 1, 200)
	short := monoTranscript(t, "short", 1, 50)

	okLong, err := PassesFilters(reg, rs, long)
	require.NoError(t, err)
	assert.True(t, okLong)

	okShort, err := PassesFilters(reg, rs, short)
	require.NoError(t, err)
	assert.False(t, okShort)
}

func TestScore_MaxRescale_NormalizesAcrossPool(t *testing.T) {
	reg := DefaultRegistry()
	rs := RuleSet{Rescalers: []RescaleRule{{Metric: "cdna_length", Kind: RescaleMax, Multiplier: 10}}}

	short := monoTranscript(t, "short", 1, 100)  // length 100
	long := monoTranscript(t, "long", 1, 1000)   // length 1000
	mid := monoTranscript(t, "mid", 1, 550)      // length 550

	scores, err := Score(reg, rs, []*tx.Transcript{short, long, mid})
	require.NoError(t, err)

	assert.InDelta(t, 0, scores["short"], 1e-9)
	assert.InDelta(t, 10, scores["long"], 1e-9)
	assert.InDelta(t, 5, scores["mid"], 1e-2)
}

func TestScore_FilteredTranscriptScoresZero(t *testing.T) {
	reg := DefaultRegistry()
	rs := RuleSet{
		Filters:   []FilterRule{{Metric: "cdna_length", Operator: OpGE, Value: 500}},
		Rescalers: []RescaleRule{{Metric: "cdna_length", Kind: RescaleMax, Multiplier: 10}},
	}

	short := monoTranscript(t, "short", 1, 100)
	long := monoTranscript(t, "long", 1, 1000)

	scores, err := Score(reg, rs, []*tx.Transcript{short, long})
	require.NoError(t, err)
	assert.Equal(t, float64(0), scores["short"])
	assert.Greater(t, scores["long"], float64(0))
}

func TestScore_ConstantMetric_YieldsFullScore(t *testing.T) {
	reg := DefaultRegistry()
	rs := RuleSet{Rescalers: []RescaleRule{{Metric: "cdna_length", Kind: RescaleMax, Multiplier: 1}}}

	a := monoTranscript(t, "a", 1, 100)
	b := monoTranscript(t, "b", 200, 299)

	scores, err := Score(reg, rs, []*tx.Transcript{a, b})
	require.NoError(t, err)
	assert.Equal(t, float64(1), scores["a"])
	assert.Equal(t, float64(1), scores["b"])
}

func TestScore_TargetRescale(t *testing.T) {
	reg := DefaultRegistry()
	rs := RuleSet{Rescalers: []RescaleRule{{Metric: "exon_num", Kind: RescaleTarget, Target: 2, Multiplier: 1}}}

	oneExon := monoTranscript(t, "one", 1, 100)
	tr2 := tx.New("two", "test", "chr1")
	tr2.AddExon(1, 100)
	tr2.AddExon(200, 300)
	require.NoError(t, tr2.SetStrand(seq.Plus))
	require.NoError(t, tr2.Finalize())

	scores, err := Score(reg, rs, []*tx.Transcript{oneExon, tr2})
	require.NoError(t, err)
	assert.Equal(t, float64(1), scores["two"])
	assert.Equal(t, float64(0), scores["one"])
}
