package compare

import (
	"github.com/biogo/biogo/seq"

	"github.com/biocore/locuspick/internal/tx"
)

// Thresholds bundles the fractional overlap thresholds consulted by
// IsIntersecting, sourced from pick.clustering in the resolved
// configuration.
type Thresholds struct {
	MinCdnaOverlap float64
	MinCdsOverlap  float64

	// SimpleOverlapForMonoexonic selects the "old" simple-overlap path for
	// monoexonic pairs; default false.
	SimpleOverlapForMonoexonic bool
}

// IsIntersecting implements the monosublocus-holder flavor of the
// intersection predicate: the laxer check used to re-aggregate
// monosubloci before final selection.
func IsIntersecting(one, other *tx.Transcript, cdsOnly bool, th Thresholds) bool {
	if one.ID() == other.ID() {
		return false
	}
	if one.Strand() != seq.None && other.Strand() != seq.None && one.Strand() != other.Strand() {
		return false
	}

	// Rule 2: the cds_only substitution only takes effect when both sides
	// are actually coding; a cds_only comparison against a non-coding
	// transcript falls through to the ordinary dual cDNA/CDS check below
	// (rule 9), where the non-coding side's empty CDS projection drives the
	// result to false rather than short-circuiting on rule 8.
	strippedMode := cdsOnly && one.IsCoding() && other.IsCoding()
	a, b := one, other
	if strippedMode {
		a, b = one.StripUTRs(), other.StripUTRs()
	}

	if th.SimpleOverlapForMonoexonic && min(a.ExonCount(), b.ExonCount()) == 1 {
		return simpleOverlap(a, b)
	}

	res := Compare(b, a)
	if res.NF1 == 0 {
		return false
	}

	if min(a.ExonCount(), b.ExonCount()) == 1 {
		return true
	}

	if res.JF1 > 0 || res.CCode == CodeExonIntronMix {
		return true
	}

	if res.CCode == CodeOverlap && (intronInsideExon(a, b) || intronInsideExon(b, a)) {
		return true
	}

	cdnaOverlap := max(res.NRecall, res.NPrecision) / 100

	if strippedMode {
		return cdnaOverlap >= max(th.MinCdnaOverlap, th.MinCdsOverlap)
	}

	if cdnaOverlap < th.MinCdnaOverlap {
		return false
	}
	cdsRes := Compare(b.StripUTRs(), a.StripUTRs())
	cdsOverlap := max(cdsRes.NRecall, cdsRes.NPrecision) / 100
	return cdsOverlap >= th.MinCdsOverlap
}

// SublocusIsIntersecting implements the stricter sublocus-flavor predicate:
// in addition to everything IsIntersecting requires, the pair must share
// at least one splice site, or a CDS intron of one must be fully
// contained in a CDS exon of the other. A pair with a monoexonic member
// passes on plain genomic overlap, whether or not
// SimpleOverlapForMonoexonic is set.
func SublocusIsIntersecting(one, other *tx.Transcript, cdsOnly bool, th Thresholds) bool {
	if !IsIntersecting(one, other, cdsOnly, th) {
		return false
	}
	if min(one.ExonCount(), other.ExonCount()) == 1 {
		return th.SimpleOverlapForMonoexonic || simpleOverlap(one, other)
	}

	sharedSplice := tx.JunctionOverlap(one.SpliceSites(), other.SpliceSites()) > 0
	if sharedSplice {
		return true
	}

	if one.IsCoding() && other.IsCoding() {
		oneCDS, otherCDS := one.StripUTRs(), other.StripUTRs()
		if intronInsideExon(oneCDS, otherCDS) || intronInsideExon(otherCDS, oneCDS) {
			return true
		}
	}

	return false
}

func simpleOverlap(a, b *tx.Transcript) bool {
	return a.Chrom() == b.Chrom() && a.Start() <= b.End() && b.Start() <= a.End()
}
