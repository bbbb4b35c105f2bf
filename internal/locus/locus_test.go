package locus

import (
	"testing"

	"github.com/biogo/biogo/seq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biocore/locuspick/internal/compare"
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

// chainHolder builds a four-transcript holder whose intersection graph is
// the chain T1-T2, T2-T3, T3-T4 with no other edges, and whose exon spans
// give cdna_length-derived scores T1 tied with T2 at the top, T3 next,
// T4 lowest.
func chainHolder(t *testing.T) *MonosublocusHolder {
	t.Helper()
	t1 := monoexonic(t, "T1", 100, 400)  // len 301
	t2 := monoexonic(t, "T2", 380, 680)  // len 301, overlaps T1 only
	t3 := monoexonic(t, "T3", 660, 780)  // len 121, overlaps T2 only
	t4 := monoexonic(t, "T4", 760, 840)  // len 81, overlaps T3 only

	h := &MonosublocusHolder{base: newBase()}
	for _, tr := range []*tx.Transcript{t1, t2, t3, t4} {
		require.NoError(t, h.add(tr))
	}
	return h
}

// scoringRules builds a registry/ruleset pair that scores pool members by
// a single RescaleMax rule on cdna_length, so relative order is controlled
// entirely by each transcript's exon span.
func scoringRules() (*scoring.Registry, scoring.RuleSet) {
	reg := scoring.DefaultRegistry()
	rs := scoring.RuleSet{
		Rescalers: []scoring.RescaleRule{
			{Metric: "cdna_length", Kind: scoring.RescaleMax, Multiplier: 1},
		},
	}
	return reg, rs
}

func defaultOpts(reg *scoring.Registry, rs scoring.RuleSet) DefineLociOptions {
	return DefineLociOptions{
		Registry:   reg,
		Rules:      rs,
		Thresholds: compare.Thresholds{MinCdnaOverlap: 0.2, MinCdsOverlap: 0.2},
	}
}

// TestDefineLoci_SelectorDeterminism is scenario 5: T1..T4 with
// scores in the relative order of 5,5,3,1 (T1 tied with T2, then T3, then
// T4) and graph T1-T2,T2-T3,T3-T4 resolve to loci [T1, T3] —
// round one picks T1 (tie with T2 broken lexicographically) and removes
// clique {T1,T2}; round two picks T3 and removes {T3,T4}.
func TestDefineLoci_SelectorDeterminism(t *testing.T) {
	h := chainHolder(t)
	reg, rs := scoringRules()

	loci, err := DefineLoci(h, defaultOpts(reg, rs))
	require.NoError(t, err)
	require.Len(t, loci, 2)
	assert.Equal(t, "T1", loci[0].ID)
	assert.Equal(t, "T3", loci[1].ID)
}

// TestDefineLoci_Purge is scenario 6: same graph, but the
// second-round community's members both score 0, so purge=true routes the
// round-two winner into Excluded instead of emitting a Locus for it, and
// its clique partner is removed without being recorded anywhere.
func TestDefineLoci_Purge(t *testing.T) {
	t1 := monoexonic(t, "T1", 100, 500) // len 401, ties T2 at the pool max
	t2 := monoexonic(t, "T2", 480, 880) // len 401, overlaps T1 only
	t3 := monoexonic(t, "T3", 860, 960) // len 101, overlaps T2 only
	t4 := monoexonic(t, "T4", 940, 1040) // len 101, overlaps T3 only

	h := &MonosublocusHolder{base: newBase()}
	for _, tr := range []*tx.Transcript{t1, t2, t3, t4} {
		require.NoError(t, h.add(tr))
	}

	reg, rs := scoringRules()
	excluded := &Excluded{base: newBase()}
	opts := defaultOpts(reg, rs)
	opts.Purge = true
	opts.Excluded = excluded

	loci, err := DefineLoci(h, opts)
	require.NoError(t, err)
	require.Len(t, loci, 1)
	assert.Equal(t, "T1", loci[0].ID)

	assert.Contains(t, excluded.transcripts, "T3")
	assert.NotContains(t, excluded.transcripts, "T4")
}

func TestDefineLoci_EmptyHolder(t *testing.T) {
	h := &MonosublocusHolder{base: newBase()}
	reg, rs := scoringRules()
	loci, err := DefineLoci(h, defaultOpts(reg, rs))
	require.NoError(t, err)
	assert.Nil(t, loci)
}

func TestScoreThenID_TieBreaksLexicographically(t *testing.T) {
	a := monoexonic(t, "A", 100, 200)
	b := monoexonic(t, "B", 100, 200)
	assert.True(t, ScoreThenID(a, b, 5, 5))
	assert.False(t, ScoreThenID(b, a, 5, 5))
}

func TestDefaultTieBreak_FallsBackToCombinedCDSLength(t *testing.T) {
	a := monoexonic(t, "A", 100, 200)
	b := monoexonic(t, "B", 100, 200)
	require.NoError(t, a.LoadORFs([]tx.ORFRecord{{CDSStart: 1, CDSEnd: 90, Strand: seq.Plus, HasStartCodon: true, HasStopCodon: true}}))
	require.NoError(t, b.LoadORFs([]tx.ORFRecord{{CDSStart: 1, CDSEnd: 30, Strand: seq.Plus, HasStartCodon: true, HasStopCodon: true}}))
	assert.True(t, DefaultTieBreak(a, b, 5, 5))
}
