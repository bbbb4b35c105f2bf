package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biocore/locuspick/internal/scoring"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	cfg, err := Load(v, scoring.DefaultRegistry(), Scoring{})
	require.NoError(t, err)

	assert.False(t, cfg.RunOptions.Purge)
	assert.Equal(t, int64(1000), cfg.RunOptions.Flank)
	assert.Equal(t, 1, cfg.RunOptions.Threads)
	assert.Equal(t, "clique", cfg.Clustering.CommunityAlgorithm)
	assert.Equal(t, 0.2, cfg.Clustering.MinCdnaOverlap)
}

func TestValidate_RejectsBadThreads(t *testing.T) {
	v := viper.New()
	v.Set("pick.run_options.threads", 0)
	_, err := Load(v, scoring.DefaultRegistry(), Scoring{})
	require.Error(t, err)
	var invalid *InvalidConfigurationError
	assert.ErrorAs(t, err, &invalid)
}

func TestValidate_RejectsUnknownCommunityAlgorithm(t *testing.T) {
	v := viper.New()
	v.Set("pick.clustering.community_algorithm", "bogus")
	_, err := Load(v, scoring.DefaultRegistry(), Scoring{})
	require.Error(t, err)
}

func TestLoad_TieBreakDefaultsToFull(t *testing.T) {
	v := viper.New()
	cfg, err := Load(v, scoring.DefaultRegistry(), Scoring{})
	require.NoError(t, err)
	assert.Equal(t, "full", cfg.Scoring.TieBreak)
}

func TestValidate_RejectsUnknownTieBreak(t *testing.T) {
	v := viper.New()
	v.Set("scoring.tie_break", "bogus")
	_, err := Load(v, scoring.DefaultRegistry(), Scoring{})
	require.Error(t, err)
	var invalid *InvalidConfigurationError
	assert.ErrorAs(t, err, &invalid)
}

func TestValidate_RejectsOutOfRangeFraction(t *testing.T) {
	v := viper.New()
	v.Set("pick.clustering.min_cdna_overlap", 1.5)
	_, err := Load(v, scoring.DefaultRegistry(), Scoring{})
	require.Error(t, err)
}

func TestParseRuleSet_FilterAndRescale(t *testing.T) {
	raw := map[string]any{
		"cdna_length": map[string]any{
			"operator":   ">=",
			"value":      float64(100),
			"rescaling":  "max",
			"multiplier": float64(10),
		},
		"is_coding": map[string]any{
			"operator": "=",
			"value":    float64(1),
		},
	}
	rs, err := ParseRuleSet(raw)
	require.NoError(t, err)
	require.Len(t, rs.Filters, 2)
	require.Len(t, rs.Rescalers, 1)

	reg := scoring.DefaultRegistry()
	require.NoError(t, rs.Validate(reg))
}

func TestParseRuleSet_TargetRequiresTargetValue(t *testing.T) {
	raw := map[string]any{
		"exon_num": map[string]any{
			"rescaling":  "target",
			"multiplier": float64(1),
		},
	}
	_, err := ParseRuleSet(raw)
	require.Error(t, err)
}

func TestParseRuleSet_InOperatorReadsValues(t *testing.T) {
	raw := map[string]any{
		"exon_num": map[string]any{
			"operator": "in",
			"values":   []any{float64(1), float64(2)},
		},
	}
	rs, err := ParseRuleSet(raw)
	require.NoError(t, err)
	require.Len(t, rs.Filters, 1)
	assert.Equal(t, scoring.OpIn, rs.Filters[0].Operator)
}

func TestConfig_Thresholds(t *testing.T) {
	v := viper.New()
	cfg, err := Load(v, scoring.DefaultRegistry(), Scoring{})
	require.NoError(t, err)
	th := cfg.Thresholds()
	assert.Equal(t, cfg.Clustering.MinCdnaOverlap, th.MinCdnaOverlap)
	assert.Equal(t, cfg.Clustering.MinCdsOverlap, th.MinCdsOverlap)
}
