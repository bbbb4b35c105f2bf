package tx

import (
	"sort"

	"github.com/biogo/biogo/seq"
)

// Finalize sorts exons, validates the transcript's structural invariants,
// computes introns and cDNA length, and (if no ORF has been assigned yet)
// builds the single default non-coding ORF. It is idempotent:
// Finalize(Finalize(t)) == Finalize(t).
func (t *Transcript) Finalize() error {
	if len(t.exons) == 0 {
		return &InvalidTranscriptError{ID: t.id, Reason: "no exons"}
	}

	sort.Slice(t.exons, func(i, j int) bool { return t.exons[i].Start < t.exons[j].Start })

	for i, e := range t.exons {
		if e.End < e.Start {
			return &InvalidTranscriptError{ID: t.id, Reason: "exon end before start"}
		}
		if i > 0 && e.Start <= t.exons[i-1].End {
			return &InvalidTranscriptError{ID: t.id, Reason: "overlapping or unsorted exons"}
		}
	}

	if len(t.exons) > 1 && !t.strandSet {
		return &InvalidTranscriptError{ID: t.id, Reason: "strand required for multi-exonic transcript"}
	}
	if !t.strandSet {
		t.strand = seq.None
	}

	t.start = t.exons[0].Start
	t.end = t.exons[len(t.exons)-1].End

	t.introns = deriveIntrons(t.exons)
	t.cdnaLength = sumExons(t.exons)

	if len(t.orfs) == 0 {
		t.orfs = []ORF{defaultNonCodingORF(t.exons)}
		t.selectedORF = 0
	}

	if err := t.recomputeCombined(); err != nil {
		return err
	}

	t.finalized = true
	return nil
}

// deriveIntrons returns the gaps between adjacent exons as inclusive
// intervals (first to last intronic base).
func deriveIntrons(exons []Exon) []Intron {
	if len(exons) < 2 {
		return nil
	}
	introns := make([]Intron, 0, len(exons)-1)
	for i := 1; i < len(exons); i++ {
		introns = append(introns, Intron{Start: exons[i-1].End + 1, End: exons[i].Start - 1})
	}
	return introns
}

// SpliceSites returns the set of donor/acceptor junctions represented by
// the transcript's introns.
func (t *Transcript) SpliceSites() []SpliceKey {
	keys := make([]SpliceKey, len(t.introns))
	for i, in := range t.introns {
		keys[i] = SpliceKey{Donor: in.Start, Acceptor: in.End}
	}
	return keys
}

// recomputeCombined rebuilds combined_cds/combined_utr from the current ORF
// set and validates CDS+UTR length consistency against the cDNA length.
func (t *Transcript) recomputeCombined() error {
	var cds []Region
	for _, orf := range t.orfs {
		cds = append(cds, orf.CDS...)
	}
	t.combinedCDS = unionRegions(cds)

	t.combinedUTR = complementInExons(t.combinedCDS, t.exons)

	if len(t.combinedCDS) > 0 {
		total := regionLength(t.combinedCDS) + regionLength(t.combinedUTR)
		if total != t.cdnaLength {
			return &InvalidCDSError{ID: t.id, Reason: "CDS+UTR length does not equal cDNA length"}
		}
	}
	return nil
}

// unionRegions merges a set of (possibly overlapping, unsorted) regions
// into a sorted, non-overlapping set.
func unionRegions(regions []Region) []Region {
	if len(regions) == 0 {
		return nil
	}
	sorted := append([]Region(nil), regions...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	out := []Region{sorted[0]}
	for _, r := range sorted[1:] {
		last := &out[len(out)-1]
		if r.Start <= last.End+1 {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// complementInExons returns the parts of exons not covered by regions.
// Regions are assumed to each lie fully within a single exon, which holds
// by construction since CDS segments never cross intron boundaries.
func complementInExons(regions []Region, exons []Exon) []Region {
	var out []Region
	ri := 0
	for _, e := range exons {
		cursor := e.Start
		for ri < len(regions) && regions[ri].Start <= e.End && regions[ri].End <= e.End {
			r := regions[ri]
			if r.Start < e.Start {
				ri++
				continue
			}
			if cursor < r.Start {
				out = append(out, Region{Start: cursor, End: r.Start - 1})
			}
			cursor = r.End + 1
			ri++
		}
		if cursor <= e.End {
			out = append(out, Region{Start: cursor, End: e.End})
		}
	}
	return out
}
