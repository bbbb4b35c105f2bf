package tx

import "github.com/biogo/biogo/seq"

// ORF is one translated reading frame carried by a transcript. CDS holds
// the genomic coding regions for this frame, each fully contained within a
// single exon; segments cover the cDNA exactly when combined with the
// complementary UTR regions of the owning transcript.
type ORF struct {
	CDS            []Region
	HasStartCodon  bool
	HasStopCodon   bool
	CDSStartOffset int64 // cDNA-relative, 1-based, inclusive
	CDSEndOffset   int64 // cDNA-relative, 1-based, inclusive
}

// CDSLength returns the coding length of this ORF.
func (o ORF) CDSLength() int64 { return regionLength(o.CDS) }

// Complete reports whether the ORF has both a start and a stop codon.
func (o ORF) Complete() bool { return o.HasStartCodon && o.HasStopCodon }

// defaultNonCodingORF is the single ORF every finalized transcript carries
// absent any ORF record: empty CDS, i.e. a non-coding transcript.
func defaultNonCodingORF(exons []Exon) ORF {
	return ORF{}
}

// ORFRecord is the external, read-only input describing one ORF call for a
// transcript: cDNA-relative coordinates, 1-based inclusive.
type ORFRecord struct {
	CDSStart      int64
	CDSEnd        int64
	Strand        seq.Strand
	HasStartCodon bool
	HasStopCodon  bool
}

// LoadORFs reopens the transcript (Finalized() becomes false), rebuilds
// CDS/UTR from the supplied ORF records, selects the best internal ORF, and
// finalizes again. Loading the same records twice is idempotent on the
// resulting coordinates.
func (t *Transcript) LoadORFs(records []ORFRecord) error {
	t.finalized = false

	if len(records) == 0 {
		t.orfs = []ORF{defaultNonCodingORF(t.exons)}
		t.selectedORF = 0
		return t.Finalize()
	}

	orfs := make([]ORF, 0, len(records))
	for _, rec := range records {
		if rec.CDSStart < 1 || rec.CDSStart >= rec.CDSEnd || rec.CDSEnd > t.cdnaLengthHint() {
			return &InvalidCDSError{ID: t.id, Reason: "ORF coordinates out of cDNA range"}
		}
		if t.Monoexonic() && rec.Strand != seq.None {
			if err := t.SetStrand(rec.Strand); err != nil {
				return err
			}
		}
		regions, err := genomicRegionsForCDNARange(t.exons, t.strand, rec.CDSStart, rec.CDSEnd)
		if err != nil {
			return &InvalidCDSError{ID: t.id, Reason: err.Error()}
		}
		orfs = append(orfs, ORF{
			CDS:            regions,
			HasStartCodon:  rec.HasStartCodon,
			HasStopCodon:   rec.HasStopCodon,
			CDSStartOffset: rec.CDSStart,
			CDSEndOffset:   rec.CDSEnd,
		})
	}

	t.orfs = orfs
	t.selectedORF = selectBestORF(orfs)
	return t.Finalize()
}

// SetGenomicORF installs a single ORF described directly in genomic
// coordinates (as opposed to LoadORFs' cDNA-relative offsets), clipping the
// supplied CDS regions to the transcript's exons. This is how
// Builder.FinalizeGroup incorporates CDS/start_codon/stop_codon feature records observed during
// ingestion, before any external ORF override is consulted.
func (t *Transcript) SetGenomicORF(cds []Region, hasStart, hasStop bool) {
	clipped := clipRegionsToExons(cds, t.exons)
	if len(clipped) == 0 {
		return
	}
	t.orfs = []ORF{{CDS: unionRegions(clipped), HasStartCodon: hasStart, HasStopCodon: hasStop}}
	t.selectedORF = 0
}

func clipRegionsToExons(regions []Region, exons []Exon) []Region {
	var out []Region
	for _, r := range regions {
		for _, e := range exons {
			lo, hi := max64(r.Start, e.Start), min64(r.End, e.End)
			if lo <= hi {
				out = append(out, Region{Start: lo, End: hi})
			}
		}
	}
	return out
}

// cdnaLengthHint returns the best available cDNA length even before the
// first Finalize call (LoadORFs may be invoked on an as-yet-unfinalized
// draft that already has its exons set).
func (t *Transcript) cdnaLengthHint() int64 {
	if t.cdnaLength > 0 {
		return t.cdnaLength
	}
	return sumExons(t.exons)
}

// selectBestORF picks the index of the longest ORF, tie-broken by
// completeness (start+stop codon present beats incomplete).
func selectBestORF(orfs []ORF) int {
	best := 0
	for i := 1; i < len(orfs); i++ {
		if orfs[i].CDSLength() > orfs[best].CDSLength() {
			best = i
			continue
		}
		if orfs[i].CDSLength() == orfs[best].CDSLength() && orfs[i].Complete() && !orfs[best].Complete() {
			best = i
		}
	}
	return best
}

// genomicRegionsForCDNARange maps a 1-based, inclusive, transcript-relative
// cDNA interval onto the genomic regions it covers, honoring strand-aware
// exon traversal order (5'->3'). The returned regions are exon-contained
// and sorted by genomic start.
func genomicRegionsForCDNARange(exons []Exon, strand seq.Strand, cdnaStart, cdnaEnd int64) ([]Region, error) {
	ordered := transcriptionOrder(exons, strand)

	var out []Region
	cum := int64(0)
	for _, e := range ordered {
		exonLen := e.Len()
		exonCdnaStart := cum + 1
		exonCdnaEnd := cum + exonLen
		cum = exonCdnaEnd

		lo := max64(cdnaStart, exonCdnaStart)
		hi := min64(cdnaEnd, exonCdnaEnd)
		if lo > hi {
			continue
		}

		// Offsets within the exon, counted from its 5' end in transcription order.
		offLo := lo - exonCdnaStart
		offHi := hi - exonCdnaStart

		var region Region
		if strand == seq.Minus {
			region = Region{Start: e.End - offHi, End: e.End - offLo}
		} else {
			region = Region{Start: e.Start + offLo, End: e.Start + offHi}
		}
		out = append(out, region)
	}

	if len(out) == 0 {
		return nil, errOutOfRange
	}

	return unionRegions(out), nil
}

// transcriptionOrder returns exons ordered 5'->3' along the transcript.
func transcriptionOrder(exons []Exon, strand seq.Strand) []Exon {
	if strand != seq.Minus {
		return exons
	}
	rev := make([]Exon, len(exons))
	for i, e := range exons {
		rev[len(exons)-1-i] = e
	}
	return rev
}

var errOutOfRange = errOutOfRangeErr{}

type errOutOfRangeErr struct{}

func (errOutOfRangeErr) Error() string { return "cDNA range does not map to any exon" }
