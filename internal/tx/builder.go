package tx

import (
	"errors"

	"github.com/biogo/biogo/seq"
)

// FeatureRecord is one line of the external feature stream:
// {chrom, source, feature, start, end, score, strand, phase, attributes}.
// Parsing the underlying GFF/GTF text is an external-collaborator
// concern; Builder only consumes already-parsed records.
type FeatureRecord struct {
	Chrom      string
	Source     string
	Feature    string
	Start      int64
	End        int64
	Strand     seq.Strand
	Phase      int // -1 if not applicable
	Attributes map[string]string
}

// transcriptFeatureID returns the transcript identifier a record belongs
// to: a transcript-level record's "transcript_id" if present, otherwise the
// GFF3 "Parent" attribute, otherwise the GTF2 "transcript_id" attribute.
func transcriptFeatureID(rec FeatureRecord) string {
	if id := rec.Attributes["transcript_id"]; id != "" && isTranscriptLevel(rec.Feature) {
		return id
	}
	if id := rec.Attributes["Parent"]; id != "" {
		return id
	}
	return rec.Attributes["transcript_id"]
}

func isTranscriptLevel(feature string) bool {
	switch feature {
	case "transcript", "mRNA":
		return true
	default:
		return len(feature) > 3 && feature[len(feature)-3:] == "RNA"
	}
}

// Builder incrementally constructs transcripts from a stream of feature
// records grouped by transcript id, mirroring the transcript_id-keyed
// grouping maps an upstream GTF/GFF reader would otherwise build inline.
type Builder struct {
	drafts      map[string]*Transcript
	order       []string
	pendingCDS  map[string][]Region
	hasStart    map[string]bool
	hasStop     map[string]bool
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		drafts:     make(map[string]*Transcript),
		pendingCDS: make(map[string][]Region),
		hasStart:   make(map[string]bool),
		hasStop:    make(map[string]bool),
	}
}

// Add incorporates one feature record into the in-progress transcript it
// belongs to. Gene-level records (no resolvable transcript id) are ignored;
// the core does not model genes, only the transcripts they parent.
func (b *Builder) Add(rec FeatureRecord) {
	id := transcriptFeatureID(rec)
	if id == "" {
		return
	}

	t, ok := b.drafts[id]
	if !ok {
		t = New(id, rec.Source, rec.Chrom)
		if parent := rec.Attributes["Parent"]; parent != "" && parent != id {
			t.SetParents([]string{parent})
		} else if gene := rec.Attributes["gene_id"]; gene != "" {
			t.SetParents([]string{gene})
		}
		b.drafts[id] = t
		b.order = append(b.order, id)
	}

	switch rec.Feature {
	case "exon":
		t.AddExon(rec.Start, rec.End)
		if rec.Strand != seq.None {
			_ = t.SetStrand(rec.Strand)
		}
	case "CDS":
		b.pendingCDS[id] = append(b.pendingCDS[id], Region{Start: rec.Start, End: rec.End})
		if rec.Strand != seq.None {
			_ = t.SetStrand(rec.Strand)
		}
	case "start_codon":
		b.hasStart[id] = true
	case "stop_codon":
		b.hasStop[id] = true
	case "transcript", "mRNA":
		if rec.Strand != seq.None {
			_ = t.SetStrand(rec.Strand)
		}
	}
}

// FinalizeGroup completes the named transcript: installs any CDS geometry
// observed during ingestion as its default ORF, finalizes it, and removes
// it from the builder's in-progress state. Call this once a record group is
// exhausted on the input stream.
func (b *Builder) FinalizeGroup(id string) (*Transcript, error) {
	t, ok := b.drafts[id]
	if !ok {
		return nil, &InvalidTranscriptError{ID: id, Reason: "no records observed for transcript"}
	}
	if cds := b.pendingCDS[id]; len(cds) > 0 {
		t.SetGenomicORF(cds, b.hasStart[id], b.hasStop[id])
	}

	delete(b.drafts, id)
	delete(b.pendingCDS, id)
	delete(b.hasStart, id)
	delete(b.hasStop, id)

	if err := t.Finalize(); err != nil {
		var cdsErr *InvalidCDSError
		if !errors.As(err, &cdsErr) {
			return nil, err
		}
		// Strip the inconsistent CDS and keep the transcript as non-coding.
		t.orfs = nil
		t.selectedORF = -1
		if err := t.Finalize(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// FinalizeAll finalizes every transcript still in progress, in first-seen
// order, for callers that stream records without explicit group-exhaustion
// signals (e.g. end of input).
func (b *Builder) FinalizeAll() []BuildResult {
	results := make([]BuildResult, 0, len(b.order))
	for _, id := range b.order {
		if _, ok := b.drafts[id]; !ok {
			continue // already finalized via FinalizeGroup
		}
		t, err := b.FinalizeGroup(id)
		results = append(results, BuildResult{ID: id, Transcript: t, Err: err})
	}
	return results
}

// BuildResult pairs a finalized transcript with any per-transcript error,
// so that InvalidTranscript failures can be dropped by the caller without
// aborting the rest of the stream (an InvalidCDS failure is resolved inside
// FinalizeGroup by keeping the transcript as non-coding).
type BuildResult struct {
	ID         string
	Transcript *Transcript
	Err        error
}
