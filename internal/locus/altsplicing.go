package locus

import (
	"github.com/biocore/locuspick/internal/compare"
	"github.com/biocore/locuspick/internal/scoring"
	"github.com/biocore/locuspick/internal/tx"
)

// AlternativeSplicingOptions configures AdmitAlternatives.
type AlternativeSplicingOptions struct {
	Registry   *scoring.Registry
	Rules      scoring.RuleSet // as_requirements
	CDSOnly    bool
	Thresholds compare.Thresholds

	MinCdsOverlap       float64
	MaxIsoforms         int
	KeepRetainedIntrons bool
}

// AdmitAlternatives considers every transcript of h that did not win one of
// loci's elections as a candidate alternative-splicing companion of
// whichever locus primary it overlaps. A candidate is admitted to that
// locus when it clears the configured CDS-overlap fraction against the
// primary, shares a splice site with it (when both are multiexonic), does
// not retain an intron the other side has verified (unless configured to
// allow that), and passes the as_requirements filter — up to MaxIsoforms
// companions per locus. Each candidate is admitted to at most one locus,
// the first (by locus id) it qualifies for.
func AdmitAlternatives(h *MonosublocusHolder, loci []*Locus, opts AlternativeSplicingOptions) error {
	if len(loci) == 0 {
		return nil
	}

	primaryIDs := make(map[string]bool, len(loci))
	for _, l := range loci {
		primaryIDs[l.Primary.ID()] = true
	}

	for _, id := range h.OrderedIDs() {
		if primaryIDs[id] {
			continue
		}
		candidate := h.transcripts[id]

		for _, l := range loci {
			if opts.MaxIsoforms > 0 && len(l.AlternativeSplicing) >= opts.MaxIsoforms {
				continue
			}
			qualifies, err := qualifiesAsAlternative(l.Primary, candidate, opts)
			if err != nil {
				return err
			}
			if !qualifies {
				continue
			}
			l.AlternativeSplicing = append(l.AlternativeSplicing, candidate)
			break
		}
	}
	return nil
}

func qualifiesAsAlternative(primary, candidate *tx.Transcript, opts AlternativeSplicingOptions) (bool, error) {
	if !compare.IsIntersecting(primary, candidate, opts.CDSOnly, opts.Thresholds) {
		return false, nil
	}

	if primary.IsCoding() && candidate.IsCoding() {
		res := compare.Compare(primary.StripUTRs(), candidate.StripUTRs())
		overlap := max(res.NRecall, res.NPrecision) / 100
		if overlap < opts.MinCdsOverlap {
			return false, nil
		}
	}

	if min(primary.ExonCount(), candidate.ExonCount()) > 1 {
		if tx.JunctionOverlap(primary.SpliceSites(), candidate.SpliceSites()) == 0 {
			return false, nil
		}
	}

	if !opts.KeepRetainedIntrons {
		if retainsVerifiedIntron(primary, candidate) || retainsVerifiedIntron(candidate, primary) {
			return false, nil
		}
	}

	return scoring.PassesFilters(opts.Registry, opts.Rules, candidate)
}

// retainsVerifiedIntron reports whether other fully spans (and so retains,
// as exonic sequence) one of exonSide's own verified introns.
func retainsVerifiedIntron(exonSide, other *tx.Transcript) bool {
	verified := exonSide.VerifiedIntrons()
	for _, in := range exonSide.Introns() {
		if !verified[tx.SpliceKey{Donor: in.Start, Acceptor: in.End}] {
			continue
		}
		for _, e := range other.Exons() {
			if e.Start <= in.Start && in.End <= e.End {
				return true
			}
		}
	}
	return false
}
