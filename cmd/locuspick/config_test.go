package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigValue_Int(t *testing.T) {
	v, err := parseConfigValue("pick.alternative_splicing.max_isoforms", "3", knownConfigKeys["pick.alternative_splicing.max_isoforms"])
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestParseConfigValue_IntRejectsNonNumeric(t *testing.T) {
	_, err := parseConfigValue("pick.run_options.threads", "many", knownConfigKeys["pick.run_options.threads"])
	assert.Error(t, err)
}

func TestParseConfigValue_EnumAcceptsKnownValue(t *testing.T) {
	v, err := parseConfigValue("pick.clustering.community_algorithm", "modularity", knownConfigKeys["pick.clustering.community_algorithm"])
	require.NoError(t, err)
	assert.Equal(t, "modularity", v)
}

func TestParseConfigValue_EnumRejectsUnknownValue(t *testing.T) {
	_, err := parseConfigValue("pick.clustering.community_algorithm", "bogus", knownConfigKeys["pick.clustering.community_algorithm"])
	assert.Error(t, err)
}

func TestParseConfigValue_TieBreakEnum(t *testing.T) {
	_, err := parseConfigValue("scoring.tie_break", "reduced", knownConfigKeys["scoring.tie_break"])
	assert.NoError(t, err)
	_, err = parseConfigValue("scoring.tie_break", "full-ish", knownConfigKeys["scoring.tie_break"])
	assert.Error(t, err)
}

func TestRunConfigSet_RejectsUnknownKey(t *testing.T) {
	err := runConfigSet("pick.nonsense.key", "1")
	assert.Error(t, err)
}

func TestRunConfigGet_RejectsUnknownKey(t *testing.T) {
	err := runConfigGet("pick.nonsense.key")
	assert.Error(t, err)
}
