package pick

import (
	"context"

	"go.uber.org/zap"

	"github.com/biocore/locuspick/internal/config"
	"github.com/biocore/locuspick/internal/locus"
	"github.com/biocore/locuspick/internal/scoring"
	"github.com/biocore/locuspick/internal/store"
)

// Pipeline runs the full per-superlocus resolution chain: split into
// subloci, elect a winner per sublocus, re-aggregate into holders, and run
// the final clique-removal selector on each holder.
type Pipeline struct {
	cfg      config.Config
	registry *scoring.Registry
	logger   *zap.Logger
	store    store.ExternalStore
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger attaches a structured logger; the default is zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithStore attaches the external query collaborator (ORF calls, BLAST
// hits, verified junctions). Without one, Resolve skips enrichment and
// works from whatever ORF/verified-intron state the transcripts already
// carry.
func WithStore(es store.ExternalStore) Option {
	return func(p *Pipeline) { p.store = es }
}

// NewPipeline builds a Pipeline from a resolved configuration and metric
// registry.
func NewPipeline(cfg config.Config, reg *scoring.Registry, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: cfg, registry: reg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resolve runs the chain on one superlocus, isolating any failure by
// returning the error rather than panicking; the caller (OrderedCollect's
// fn) decides whether to record and skip it or abort the whole run.
func (p *Pipeline) Resolve(sl *locus.Superlocus) ([]*locus.Locus, error) {
	if p.store != nil {
		if err := enrichSuperlocus(context.Background(), sl, p.store, p.logger); err != nil {
			return nil, err
		}
	}

	th := p.cfg.Thresholds()
	cdsOnly := p.cfg.RunOptions.SublociFromCDSOnly

	tieBreak := p.tieBreak()

	subloci := locus.Split(sl, cdsOnly, th)

	monosubloci := make([]*locus.Monosublocus, 0, len(subloci))
	for _, s := range subloci {
		m, err := locus.Elect(s, p.registry, p.cfg.Scoring.Requirements, tieBreak)
		if err != nil {
			p.logger.Warn("sublocus election failed", zap.String("chrom", sl.Chrom()), zap.Error(err))
			return nil, err
		}
		if m != nil {
			monosubloci = append(monosubloci, m)
		}
	}

	holders := locus.CollectHolders(monosubloci, cdsOnly, th)

	excluded := locus.NewExcluded()
	altSplicing := p.altSplicingOpts()
	var allLoci []*locus.Locus
	for _, h := range holders {
		loci, err := locus.DefineLoci(h, p.selectorOpts(excluded, tieBreak))
		if err != nil {
			p.logger.Warn("locus selection failed", zap.String("chrom", sl.Chrom()), zap.Error(err))
			return nil, err
		}
		if p.cfg.AlternativeSplicing.Report {
			if err := locus.AdmitAlternatives(h, loci, altSplicing); err != nil {
				p.logger.Warn("alternative splicing admission failed", zap.String("chrom", sl.Chrom()), zap.Error(err))
				return nil, err
			}
		}
		allLoci = append(allLoci, loci...)
	}

	p.logger.Debug("resolved superlocus",
		zap.String("chrom", sl.Chrom()),
		zap.Int64("start", sl.Start()),
		zap.Int64("end", sl.End()),
		zap.Int("loci", len(allLoci)),
		zap.Int("excluded", excluded.Len()),
	)

	return allLoci, nil
}

// tieBreak resolves the configured candidate ordering to the concrete
// chain, shared by sublocus election and final locus selection.
func (p *Pipeline) tieBreak() locus.TieBreak {
	if p.cfg.Scoring.TieBreak == "reduced" {
		return locus.ScoreThenID
	}
	return locus.DefaultTieBreak
}

func (p *Pipeline) selectorOpts(excluded *locus.Excluded, tieBreak locus.TieBreak) locus.DefineLociOptions {
	return locus.DefineLociOptions{
		Registry:   p.registry,
		Rules:      p.cfg.Scoring.Scoring,
		CDSOnly:    p.cfg.RunOptions.SublociFromCDSOnly,
		Thresholds: p.cfg.Thresholds(),
		TieBreak:   tieBreak,
		Purge:      p.cfg.RunOptions.Purge,
		Excluded:   excluded,
	}
}

// altSplicingOpts projects the resolved alternative-splicing configuration
// into the options AdmitAlternatives consumes.
func (p *Pipeline) altSplicingOpts() locus.AlternativeSplicingOptions {
	return locus.AlternativeSplicingOptions{
		Registry:            p.registry,
		Rules:               p.cfg.Scoring.ASRequirements,
		CDSOnly:             p.cfg.RunOptions.SublociFromCDSOnly,
		Thresholds:          p.cfg.Thresholds(),
		MinCdsOverlap:       p.cfg.AlternativeSplicing.MinCdsOverlap,
		MaxIsoforms:         p.cfg.AlternativeSplicing.MaxIsoforms,
		KeepRetainedIntrons: p.cfg.AlternativeSplicing.KeepRetainedIntrons,
	}
}
