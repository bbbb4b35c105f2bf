// Package tx implements the transcript data model: exon/CDS/UTR geometry,
// intron derivation, internal ORF bookkeeping, and the finalize/reopen
// lifecycle used by eukaryotic gene annotation transcript models.
package tx

import (
	"sort"

	"github.com/biogo/biogo/seq"
)

// Region is a 1-based inclusive genomic interval.
type Region struct {
	Start int64
	End   int64
}

// Len returns the number of bases covered by the region.
func (r Region) Len() int64 {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// Exon is an ordered, non-overlapping coordinate interval on the reference.
type Exon struct {
	Start int64
	End   int64
}

// Len returns the exon length in bases.
func (e Exon) Len() int64 { return e.End - e.Start + 1 }

// Intron is the gap between two adjacent exons, as an inclusive interval.
type Intron struct {
	Start int64 // first intronic base
	End   int64 // last intronic base
}

// SpliceKey identifies an intron by its donor/acceptor coordinates, used to
// compare junction sets between transcripts irrespective of strand framing.
type SpliceKey struct {
	Donor    int64
	Acceptor int64
}

// Transcript is an ordered exon list on a single chromosome/strand
// representing one RNA isoform. It is mutable until Finalize succeeds, and
// reopened by LoadORFs; operations that require finality must check
// Finalized() first.
type Transcript struct {
	id       string
	parents  []string
	source   string
	chrom    string
	strand   seq.Strand
	strandSet bool

	start int64
	end   int64
	exons []Exon

	orfs        []ORF
	selectedORF int

	verifiedIntrons map[SpliceKey]bool

	finalized bool

	// derived, valid only when finalized
	introns       []Intron
	cdnaLength    int64
	combinedCDS   []Region
	combinedUTR   []Region
}

// New creates an empty draft transcript. Exons are added with AddExon and
// the transcript is made usable by Finalize.
func New(id, source, chrom string) *Transcript {
	return &Transcript{
		id:              id,
		source:          source,
		chrom:           chrom,
		verifiedIntrons: make(map[SpliceKey]bool),
		selectedORF:     -1,
	}
}

// ID returns the transcript identifier.
func (t *Transcript) ID() string { return t.id }

// SetParents records the parent gene id(s) for this transcript.
func (t *Transcript) SetParents(ids []string) { t.parents = append([]string(nil), ids...) }

// Parents returns the parent gene id list.
func (t *Transcript) Parents() []string { return t.parents }

// Source returns the originating annotation source.
func (t *Transcript) Source() string { return t.source }

// Chrom returns the reference sequence name.
func (t *Transcript) Chrom() string { return t.chrom }

// Strand returns the transcript strand.
func (t *Transcript) Strand() seq.Strand { return t.strand }

// SetStrand assigns the strand. Multi-exonic transcripts reject a change
// once a strand has already been assigned; monoexonic transcripts may have
// their strand reassigned (e.g. by LoadORFs) per the data model invariants.
func (t *Transcript) SetStrand(s seq.Strand) error {
	if t.strandSet && len(t.exons) > 1 && t.strand != s {
		return &InvalidTranscriptError{ID: t.id, Reason: "strand is immutable on multi-exonic transcripts"}
	}
	t.strand = s
	t.strandSet = true
	return nil
}

// Start returns the transcript start (1-based, inclusive).
func (t *Transcript) Start() int64 { return t.start }

// End returns the transcript end (1-based, inclusive).
func (t *Transcript) End() int64 { return t.end }

// AddExon appends an exon to the draft transcript. Exons need not be added
// in order; Finalize sorts them.
func (t *Transcript) AddExon(start, end int64) {
	t.exons = append(t.exons, Exon{Start: start, End: end})
	t.finalized = false
}

// Exons returns the transcript's exon list.
func (t *Transcript) Exons() []Exon { return t.exons }

// ExonCount returns the number of exons.
func (t *Transcript) ExonCount() int { return len(t.exons) }

// Monoexonic reports whether the transcript has exactly one exon.
func (t *Transcript) Monoexonic() bool { return len(t.exons) == 1 }

// Introns returns the derived intron list. Valid only once Finalized.
func (t *Transcript) Introns() []Intron { return t.introns }

// Finalized reports whether the transcript has passed Finalize and has not
// since been reopened by AddExon or LoadORFs.
func (t *Transcript) Finalized() bool { return t.finalized }

// CDNALength returns the summed exon length.
func (t *Transcript) CDNALength() int64 { return t.cdnaLength }

// CombinedCDS returns the union of CDS segments across all internal ORFs,
// sorted and non-overlapping.
func (t *Transcript) CombinedCDS() []Region { return t.combinedCDS }

// CombinedUTR returns the complement of CombinedCDS inside the exons.
func (t *Transcript) CombinedUTR() []Region { return t.combinedUTR }

// CombinedCDSLength returns the total coding length across all exons.
func (t *Transcript) CombinedCDSLength() int64 { return regionLength(t.combinedCDS) }

// CombinedUTRLength returns the total untranslated length across all exons.
func (t *Transcript) CombinedUTRLength() int64 { return regionLength(t.combinedUTR) }

// IsCoding reports whether the transcript's selected ORF has positive CDS
// length.
func (t *Transcript) IsCoding() bool {
	orf := t.SelectedORF()
	return orf != nil && orf.CDSLength() > 0
}

// InternalORFs returns every ORF carried by the transcript, in the order
// they were assigned.
func (t *Transcript) InternalORFs() []ORF { return t.orfs }

// SelectedORF returns the ORF designated "best" (longest, tie-broken on
// completeness), or nil if the transcript carries no ORF.
func (t *Transcript) SelectedORF() *ORF {
	if t.selectedORF < 0 || t.selectedORF >= len(t.orfs) {
		return nil
	}
	return &t.orfs[t.selectedORF]
}

// HasStartCodon reports whether the selected ORF has a start codon.
func (t *Transcript) HasStartCodon() bool {
	orf := t.SelectedORF()
	return orf != nil && orf.HasStartCodon
}

// HasStopCodon reports whether the selected ORF has a stop codon.
func (t *Transcript) HasStopCodon() bool {
	orf := t.SelectedORF()
	return orf != nil && orf.HasStopCodon
}

// VerifiedIntrons returns the set of junctions independently confirmed by
// the external junction store.
func (t *Transcript) VerifiedIntrons() map[SpliceKey]bool { return t.verifiedIntrons }

// SetVerifiedIntrons records which of the transcript's own introns are
// externally verified.
func (t *Transcript) SetVerifiedIntrons(keys map[SpliceKey]bool) {
	t.verifiedIntrons = make(map[SpliceKey]bool, len(keys))
	for k, v := range keys {
		if v {
			t.verifiedIntrons[k] = true
		}
	}
}

// StripUTRs returns a shallow copy of the transcript with CDS-only
// geometry: exons are clipped to the combined CDS region. This is the
// CDS-only projection used by the cdsOnly flavor of IsIntersecting.
func (t *Transcript) StripUTRs() *Transcript {
	cp := *t
	cp.exons = intersectRegionsWithExons(t.combinedCDS, t.exons)
	cp.combinedUTR = nil
	if len(cp.exons) > 0 {
		cp.start = cp.exons[0].Start
		cp.end = cp.exons[len(cp.exons)-1].End
	}
	cp.introns = deriveIntrons(cp.exons)
	cp.cdnaLength = sumExons(cp.exons)
	cp.verifiedIntrons = t.verifiedIntrons
	return &cp
}

func intersectRegionsWithExons(regions []Region, exons []Exon) []Exon {
	var out []Exon
	for _, e := range exons {
		for _, r := range regions {
			lo, hi := max64(e.Start, r.Start), min64(e.End, r.End)
			if lo <= hi {
				out = append(out, Exon{Start: lo, End: hi})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return mergeAdjacent(out)
}

// mergeAdjacent merges exons that touch or overlap after clipping; CDS
// segments from different exons never legitimately touch in practice, but
// clipping at segment boundaries can produce adjacency at a shared splice.
func mergeAdjacent(exons []Exon) []Exon {
	if len(exons) == 0 {
		return nil
	}
	out := []Exon{exons[0]}
	for _, e := range exons[1:] {
		last := &out[len(out)-1]
		if e.Start <= last.End+1 {
			if e.End > last.End {
				last.End = e.End
			}
			continue
		}
		out = append(out, e)
	}
	return out
}

func regionLength(regions []Region) int64 {
	var total int64
	for _, r := range regions {
		total += r.Len()
	}
	return total
}

func sumExons(exons []Exon) int64 {
	var total int64
	for _, e := range exons {
		total += e.Len()
	}
	return total
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
