// Package main provides the locuspick command-line tool.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/biocore/locuspick/internal/config"
	"github.com/biocore/locuspick/internal/locus"
	"github.com/biocore/locuspick/internal/pick"
	"github.com/biocore/locuspick/internal/scoring"
	"github.com/biocore/locuspick/internal/store"
	"github.com/biocore/locuspick/internal/tx"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "locuspick",
		Short: "Resolve transcript loci from a feature stream",
		Long: `locuspick clusters gene-model transcripts into superloci, elects one
winner per sublocus, and runs a clique-removal selector to pick the final
set of loci.`,
		Version: fmt.Sprintf("%s (%s) built %s", version, commit, date),
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.locuspick.yaml)")
	root.AddCommand(newRunCmd(&cfgFile))
	root.AddCommand(newConfigCmd())

	return root
}

func newRunCmd(cfgFile *string) *cobra.Command {
	var (
		inputPath  string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Resolve loci from a GTF/GFF3 feature file",
		Example: `  locuspick run --config pick.yaml input.gtf
  locuspick run input.gtf.gz -o loci.tsv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath = args[0]
			return runPick(*cfgFile, inputPath, outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file for the tab-separated loci summary (default: stdout)")
	return cmd
}

func runPick(cfgFile, inputPath, outputPath string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	v := loadViper(cfgFile)

	reg := scoring.DefaultRegistry()
	scoringCfg, err := loadScoringRules(v)
	if err != nil {
		return fmt.Errorf("parse scoring rules: %w", err)
	}

	cfg, err := config.Load(v, reg, scoringCfg)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	records, err := readFeatures(inputPath)
	if err != nil {
		return fmt.Errorf("read features: %w", err)
	}

	transcripts, err := buildTranscripts(records)
	if err != nil {
		return fmt.Errorf("build transcripts: %w", err)
	}

	superloci, err := groupSuperloci(transcripts, cfg.RunOptions.Flank, cfg.RunOptions.StrandAwareSuperloci)
	if err != nil {
		return fmt.Errorf("group superloci: %w", err)
	}

	pipelineOpts := []pick.Option{pick.WithLogger(logger)}
	if cfg.StorePath != "" {
		es, err := store.Open(cfg.StorePath)
		if err != nil {
			return fmt.Errorf("open external store: %w", err)
		}
		pipelineOpts = append(pipelineOpts, pick.WithStore(es))
	}
	pipeline := pick.NewPipeline(cfg, reg, pipelineOpts...)

	items := make(chan pick.WorkItem, len(superloci))
	for i, sl := range superloci {
		items <- pick.WorkItem{Seq: i, Superlocus: sl}
	}
	close(items)

	results := pick.ParallelResolve(items, cfg.RunOptions.Threads, pipeline.Resolve)

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	total := 0
	err = pick.OrderedCollect(results, func(r pick.WorkResult) error {
		if r.Err != nil {
			logger.Warn("skipping superlocus", zap.Int("seq", r.Seq), zap.Error(r.Err))
			return nil
		}
		for _, l := range r.Loci {
			fmt.Fprintf(out, "%s\t%s\t%d\t%d\t%.4f\n", l.ID, l.Primary.Chrom(), l.Primary.Start(), l.Primary.End(), l.Score)
			total++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("collect results: %w", err)
	}

	logger.Info("run complete", zap.Int("superloci", len(superloci)), zap.Int("loci", total))
	return nil
}

func loadViper(cfgFile string) *viper.Viper {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(".locuspick")
		v.SetConfigType("yaml")
	}
	_ = v.ReadInConfig() // absent config file falls back to defaults
	return v
}

func loadScoringRules(v *viper.Viper) (config.Scoring, error) {
	var scoringCfg config.Scoring
	for key, dst := range map[string]*scoring.RuleSet{
		"scoring.requirements":    &scoringCfg.Requirements,
		"scoring.as_requirements": &scoringCfg.ASRequirements,
		"scoring.scoring":         &scoringCfg.Scoring,
	} {
		raw, ok := v.Get(key).(map[string]any)
		if !ok {
			continue
		}
		rs, err := config.ParseRuleSet(raw)
		if err != nil {
			return config.Scoring{}, fmt.Errorf("%s: %w", key, err)
		}
		*dst = rs
	}
	return scoringCfg, nil
}

func buildTranscripts(records []tx.FeatureRecord) ([]*tx.Transcript, error) {
	b := tx.NewBuilder()
	for _, rec := range records {
		b.Add(rec)
	}

	results := b.FinalizeAll()
	transcripts := make([]*tx.Transcript, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			continue // malformed transcripts are dropped, not fatal
		}
		transcripts = append(transcripts, r.Transcript)
	}

	sort.Slice(transcripts, func(i, j int) bool {
		a, b := transcripts[i], transcripts[j]
		if a.Chrom() != b.Chrom() {
			return a.Chrom() < b.Chrom()
		}
		if a.Start() != b.Start() {
			return a.Start() < b.Start()
		}
		return a.End() < b.End()
	})
	return transcripts, nil
}

func groupSuperloci(transcripts []*tx.Transcript, flank int64, strandAware bool) ([]*locus.Superlocus, error) {
	builder := locus.NewSuperlocusBuilder(flank, strandAware)
	var superloci []*locus.Superlocus
	for _, t := range transcripts {
		sl, err := builder.Add(t)
		if err != nil {
			return nil, err
		}
		if sl != nil {
			superloci = append(superloci, sl)
		}
	}
	if sl := builder.Flush(); sl != nil {
		superloci = append(superloci, sl)
	}
	return superloci, nil
}
