package store

import (
	"encoding/gob"
	"fmt"
	"io"

	"github.com/biogo/biogo/seq"

	"github.com/biocore/locuspick/internal/tx"
)

// TranscriptSnapshot is the gob-serializable projection of a finalized
// transcript, used to hand transcripts between pipeline tiers (e.g. a
// worker boundary) without sharing mutable state.
type TranscriptSnapshot struct {
	ID      string
	Parents []string
	Source  string
	Chrom   string
	Strand  int8 // 1, -1, 0 for seq.Plus/Minus/None

	Exons []ExonSnapshot
	ORFs  []ORFSnapshot

	VerifiedIntrons []SpliceKeySnapshot
}

// ExonSnapshot mirrors tx.Exon.
type ExonSnapshot struct {
	Start, End int64
}

// ORFSnapshot mirrors tx.ORFRecord.
type ORFSnapshot struct {
	CDSStart, CDSEnd             int64
	Strand                       int8
	HasStartCodon, HasStopCodon bool
}

// SpliceKeySnapshot mirrors tx.SpliceKey.
type SpliceKeySnapshot struct {
	Donor, Acceptor int64
}

func strandToInt8(s seq.Strand) int8 {
	switch s {
	case seq.Plus:
		return 1
	case seq.Minus:
		return -1
	default:
		return 0
	}
}

func int8ToStrand(i int8) seq.Strand {
	switch i {
	case 1:
		return seq.Plus
	case -1:
		return seq.Minus
	default:
		return seq.None
	}
}

// ToSnapshot projects a finalized transcript into its serializable form.
func ToSnapshot(t *tx.Transcript) TranscriptSnapshot {
	snap := TranscriptSnapshot{
		ID:      t.ID(),
		Parents: append([]string(nil), t.Parents()...),
		Source:  t.Source(),
		Chrom:   t.Chrom(),
		Strand:  strandToInt8(t.Strand()),
	}
	for _, e := range t.Exons() {
		snap.Exons = append(snap.Exons, ExonSnapshot{Start: e.Start, End: e.End})
	}
	if orf := t.SelectedORF(); orf != nil && orf.CDSLength() > 0 {
		snap.ORFs = append(snap.ORFs, ORFSnapshot{
			CDSStart:      orf.CDSStartOffset,
			CDSEnd:        orf.CDSEndOffset,
			Strand:        strandToInt8(t.Strand()),
			HasStartCodon: orf.HasStartCodon,
			HasStopCodon:  orf.HasStopCodon,
		})
	}
	for key, verified := range t.VerifiedIntrons() {
		if verified {
			snap.VerifiedIntrons = append(snap.VerifiedIntrons, SpliceKeySnapshot{Donor: key.Donor, Acceptor: key.Acceptor})
		}
	}
	return snap
}

// FromSnapshot rebuilds and finalizes a transcript from its serialized
// form. Loading the same snapshot twice is idempotent on the resulting
// coordinates, since it re-runs Finalize/LoadORFs from scratch each time.
func FromSnapshot(snap TranscriptSnapshot) (*tx.Transcript, error) {
	t := tx.New(snap.ID, snap.Source, snap.Chrom)
	t.SetParents(snap.Parents)
	for _, e := range snap.Exons {
		t.AddExon(e.Start, e.End)
	}
	if int8ToStrand(snap.Strand) != seq.None {
		if err := t.SetStrand(int8ToStrand(snap.Strand)); err != nil {
			return nil, fmt.Errorf("store: rebuild %s: %w", snap.ID, err)
		}
	}
	if err := t.Finalize(); err != nil {
		return nil, fmt.Errorf("store: rebuild %s: %w", snap.ID, err)
	}

	if len(snap.ORFs) > 0 {
		records := make([]tx.ORFRecord, len(snap.ORFs))
		for i, o := range snap.ORFs {
			records[i] = tx.ORFRecord{
				CDSStart:      o.CDSStart,
				CDSEnd:        o.CDSEnd,
				Strand:        int8ToStrand(o.Strand),
				HasStartCodon: o.HasStartCodon,
				HasStopCodon:  o.HasStopCodon,
			}
		}
		if err := t.LoadORFs(records); err != nil {
			return nil, fmt.Errorf("store: rebuild %s: %w", snap.ID, err)
		}
	}

	if len(snap.VerifiedIntrons) > 0 {
		verified := make(map[tx.SpliceKey]bool, len(snap.VerifiedIntrons))
		for _, k := range snap.VerifiedIntrons {
			verified[tx.SpliceKey{Donor: k.Donor, Acceptor: k.Acceptor}] = true
		}
		t.SetVerifiedIntrons(verified)
	}

	return t, nil
}

// EncodeSnapshots gob-encodes a batch of transcript snapshots to w.
func EncodeSnapshots(w io.Writer, snaps []TranscriptSnapshot) error {
	return gob.NewEncoder(w).Encode(snaps)
}

// DecodeSnapshots gob-decodes a batch of transcript snapshots from r.
func DecodeSnapshots(r io.Reader) ([]TranscriptSnapshot, error) {
	var snaps []TranscriptSnapshot
	if err := gob.NewDecoder(r).Decode(&snaps); err != nil {
		return nil, err
	}
	return snaps, nil
}
