// Package config resolves the immutable run configuration for a pick run
// from a viper-backed layered source: flags, env, YAML file, defaults.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/biocore/locuspick/internal/compare"
	"github.com/biocore/locuspick/internal/scoring"
)

// RunOptions holds the pick.run_options settings.
type RunOptions struct {
	Purge                bool
	SublociFromCDSOnly   bool
	Flank                int64
	Threads              int
	StrandAwareSuperloci bool
}

// Clustering holds the pick.clustering settings.
type Clustering struct {
	MinCdnaOverlap             float64
	MinCdsOverlap              float64
	SimpleOverlapForMonoexonic bool
	CommunityAlgorithm         string // "clique" | "modularity"
	ModularityResolution       float64
}

// AlternativeSplicing holds the pick.alternative_splicing settings.
type AlternativeSplicing struct {
	Report              bool
	MinCdsOverlap       float64
	MaxIsoforms         int
	KeepRetainedIntrons bool
}

// Scoring holds the resolved scoring.* rule maps, validated against a
// scoring.Registry once one is known.
type Scoring struct {
	Requirements   scoring.RuleSet
	ASRequirements scoring.RuleSet
	Scoring        scoring.RuleSet

	// TieBreak selects the ordering used to pick a winner among tied
	// scores: "full" (score, combined CDS length, start, id) or
	// "reduced" (score, then id only).
	TieBreak string
}

// Config is the fully resolved, immutable configuration record for one
// run. Nothing in the core mutates it after Load returns.
type Config struct {
	RunOptions          RunOptions
	Clustering          Clustering
	AlternativeSplicing AlternativeSplicing
	Scoring             Scoring

	StorePath string
}

// Thresholds projects Clustering into the compare.Thresholds shape the
// intersection predicates consume.
func (c Config) Thresholds() compare.Thresholds {
	return compare.Thresholds{
		MinCdnaOverlap:             c.Clustering.MinCdnaOverlap,
		MinCdsOverlap:              c.Clustering.MinCdsOverlap,
		SimpleOverlapForMonoexonic: c.Clustering.SimpleOverlapForMonoexonic,
	}
}

// InvalidConfigurationError reports a fatal, unknown-metric or
// contradictory-threshold configuration problem, surfaced before any
// processing begins.
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pick.run_options.purge", false)
	v.SetDefault("pick.run_options.subloci_from_cds_only", false)
	v.SetDefault("pick.run_options.flank", 1000)
	v.SetDefault("pick.run_options.threads", 1)
	v.SetDefault("pick.run_options.strand_aware_superloci", true)

	v.SetDefault("pick.clustering.min_cdna_overlap", 0.2)
	v.SetDefault("pick.clustering.min_cds_overlap", 0.2)
	v.SetDefault("pick.clustering.simple_overlap_for_monoexonic", false)
	v.SetDefault("pick.clustering.community_algorithm", "clique")
	v.SetDefault("pick.clustering.modularity_resolution", 1.0)

	v.SetDefault("pick.alternative_splicing.report", false)
	v.SetDefault("pick.alternative_splicing.min_cds_overlap", 0.6)
	v.SetDefault("pick.alternative_splicing.max_isoforms", 5)
	v.SetDefault("pick.alternative_splicing.keep_retained_introns", false)

	v.SetDefault("store.path", "")

	v.SetDefault("scoring.tie_break", "full")
}

// Load resolves a Config from the supplied viper instance (already
// configured with any flag bindings, env prefix, and config file by the
// caller) plus scoring rules parsed separately, then validates it.
func Load(v *viper.Viper, reg *scoring.Registry, rules Scoring) (Config, error) {
	setDefaults(v)

	cfg := Config{
		RunOptions: RunOptions{
			Purge:                v.GetBool("pick.run_options.purge"),
			SublociFromCDSOnly:   v.GetBool("pick.run_options.subloci_from_cds_only"),
			Flank:                v.GetInt64("pick.run_options.flank"),
			Threads:              v.GetInt("pick.run_options.threads"),
			StrandAwareSuperloci: v.GetBool("pick.run_options.strand_aware_superloci"),
		},
		Clustering: Clustering{
			MinCdnaOverlap:             v.GetFloat64("pick.clustering.min_cdna_overlap"),
			MinCdsOverlap:              v.GetFloat64("pick.clustering.min_cds_overlap"),
			SimpleOverlapForMonoexonic: v.GetBool("pick.clustering.simple_overlap_for_monoexonic"),
			CommunityAlgorithm:         v.GetString("pick.clustering.community_algorithm"),
			ModularityResolution:       v.GetFloat64("pick.clustering.modularity_resolution"),
		},
		AlternativeSplicing: AlternativeSplicing{
			Report:              v.GetBool("pick.alternative_splicing.report"),
			MinCdsOverlap:       v.GetFloat64("pick.alternative_splicing.min_cds_overlap"),
			MaxIsoforms:         v.GetInt("pick.alternative_splicing.max_isoforms"),
			KeepRetainedIntrons: v.GetBool("pick.alternative_splicing.keep_retained_introns"),
		},
		Scoring:   rules,
		StorePath: v.GetString("store.path"),
	}
	cfg.Scoring.TieBreak = v.GetString("scoring.tie_break")

	if err := cfg.Validate(reg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field and registry-dependent constraints.
func (c Config) Validate(reg *scoring.Registry) error {
	if c.RunOptions.Threads < 1 {
		return &InvalidConfigurationError{Field: "pick.run_options.threads", Reason: "must be >= 1"}
	}
	if c.RunOptions.Flank < 0 {
		return &InvalidConfigurationError{Field: "pick.run_options.flank", Reason: "must be >= 0"}
	}
	if c.Clustering.CommunityAlgorithm != "clique" && c.Clustering.CommunityAlgorithm != "modularity" {
		return &InvalidConfigurationError{Field: "pick.clustering.community_algorithm", Reason: "must be \"clique\" or \"modularity\""}
	}
	if c.Scoring.TieBreak != "full" && c.Scoring.TieBreak != "reduced" {
		return &InvalidConfigurationError{Field: "scoring.tie_break", Reason: "must be \"full\" or \"reduced\""}
	}
	for _, frac := range []struct {
		field string
		value float64
	}{
		{"pick.clustering.min_cdna_overlap", c.Clustering.MinCdnaOverlap},
		{"pick.clustering.min_cds_overlap", c.Clustering.MinCdsOverlap},
		{"pick.alternative_splicing.min_cds_overlap", c.AlternativeSplicing.MinCdsOverlap},
	} {
		if frac.value < 0 || frac.value > 1 {
			return &InvalidConfigurationError{Field: frac.field, Reason: "must be in [0,1]"}
		}
	}

	if reg != nil {
		for _, rs := range []scoring.RuleSet{c.Scoring.Requirements, c.Scoring.ASRequirements, c.Scoring.Scoring} {
			if err := rs.Validate(reg); err != nil {
				return &InvalidConfigurationError{Field: "scoring", Reason: err.Error()}
			}
		}
	}
	return nil
}
