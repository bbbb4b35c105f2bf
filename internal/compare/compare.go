// Package compare implements the pairwise transcript comparison predicate
// (class-code computation) and the is_intersecting decision ladders used by
// every tier of the locus hierarchy.
package compare

import (
	"github.com/biogo/biogo/seq"

	"github.com/biocore/locuspick/internal/tx"
)

// ClassCode is one label of the closed class-code vocabulary describing
// how two transcripts' exon/intron structures relate.
type ClassCode string

const (
	CodeEqual           ClassCode = "="
	CodeMonoexonicMatch ClassCode = "_"
	CodeIntronRetention ClassCode = "n"
	CodeJunctionFull    ClassCode = "J"
	CodeJunctionPartial ClassCode = "j"
	CodeFusionRef       ClassCode = "C"
	CodeFusionPred      ClassCode = "c"
	CodeGenericRef      ClassCode = "g"
	CodeGenericPred     ClassCode = "G"
	CodeOverlap         ClassCode = "o"
	CodeExonIntronMix   ClassCode = "h"
	CodeOppositeStrand  ClassCode = "x"
	CodeOppositeStrandC ClassCode = "X"
	CodeFullyIntronic   ClassCode = "I"
	CodeFullyIntronicRev ClassCode = "i"
	CodeRetainedIntron  ClassCode = "rI"
	CodeRetainedIntronR ClassCode = "ri"
	CodeProximal        ClassCode = "p"
	CodeProximalRev     ClassCode = "P"
	CodeFragment        ClassCode = "f"
	CodeNoAssociation   ClassCode = "NA"
)

// Result is the structured output of Compare: a class-code plus per-base
// and per-junction recall/precision/F1.
type Result struct {
	CCode ClassCode

	NRecall    float64
	NPrecision float64
	NF1        float64

	JRecall    float64
	JPrecision float64
	JF1        float64
}

// defaultFlank is the proximity window (in bases) used to classify non-overlapping
// transcripts as "proximal" (p/P) rather than unrelated (NA). It mirrors
// the configurable superlocus flank of /§6, applied here with a
// conservative fixed default since Compare itself takes no configuration.
const defaultFlank = 2000

// Compare produces the structured comparison of a prediction transcript
// against a reference transcript: per-base recall/precision/F1 over exonic
// positions, per-junction recall/precision/F1 over intron donor/acceptor
// pairs, and a single class-code summarizing their relationship.
func Compare(reference, prediction *tx.Transcript) Result {
	refExons := reference.ExonicRegions()
	predExons := prediction.ExonicRegions()

	overlap := tx.OverlapLength(refExons, predExons)
	refLen := tx.UnionLength(refExons)
	predLen := tx.UnionLength(predExons)

	nRecall := ratio(overlap, refLen)
	nPrecision := ratio(overlap, predLen)
	nF1 := f1(nRecall, nPrecision)

	refJunc := reference.SpliceSites()
	predJunc := prediction.SpliceSites()
	jShared := tx.JunctionOverlap(refJunc, predJunc)

	jRecall := ratio(int64(jShared), int64(len(refJunc)))
	jPrecision := ratio(int64(jShared), int64(len(predJunc)))
	jF1 := f1(jRecall, jPrecision)

	res := Result{
		NRecall: nRecall, NPrecision: nPrecision, NF1: nF1,
		JRecall: jRecall, JPrecision: jPrecision, JF1: jF1,
	}
	res.CCode = classify(reference, prediction, res)
	return res
}

func ratio(num, denom int64) float64 {
	if denom == 0 {
		return 0
	}
	return float64(num) / float64(denom) * 100
}

func f1(recall, precision float64) float64 {
	if recall+precision == 0 {
		return 0
	}
	return 2 * recall * precision / (recall + precision)
}

// classify implements the class-code tie-break chain, resolving the cases
// left ambiguous by strand, exon count, and overlap alone (noted in
// DESIGN.md).
func classify(reference, prediction *tx.Transcript, r Result) ClassCode {
	sameStrand := reference.Strand() == prediction.Strand() ||
		reference.Strand() == seq.None || prediction.Strand() == seq.None

	if !sameStrand {
		if r.NF1 > 0 {
			if refLonger(reference, prediction) {
				return CodeOppositeStrandC
			}
			return CodeOppositeStrand
		}
		if withinFlank(reference, prediction, defaultFlank) {
			if refLonger(reference, prediction) {
				return CodeProximalRev
			}
			return CodeProximal
		}
		return CodeNoAssociation
	}

	refMulti := reference.ExonCount() > 1
	predMulti := prediction.ExonCount() > 1

	if r.NF1 == 0 {
		// Fully-intronic pairs have zero exonic overlap by construction (one
		// transcript's exons sit entirely inside an intron of the other), so
		// this check must run before falling back to proximal/NA.
		if refMulti != predMulti && fullyIntronic(reference, prediction) {
			if refMulti {
				return CodeFullyIntronicRev
			}
			return CodeFullyIntronic
		}
		if withinFlank(reference, prediction, defaultFlank) {
			if refLonger(reference, prediction) {
				return CodeProximalRev
			}
			return CodeProximal
		}
		return CodeNoAssociation
	}

	if refMulti && predMulti && r.JRecall == 100 && r.JPrecision == 100 {
		return CodeEqual
	}

	if !refMulti && !predMulti {
		if r.NF1 >= 80 {
			return CodeMonoexonicMatch
		}
		return CodeOverlap
	}

	if r.JF1 > 0 {
		if r.JRecall == 100 {
			return CodeJunctionFull
		}
		return CodeJunctionPartial
	}

	if intronInsideExon(reference, prediction) || intronInsideExon(prediction, reference) {
		return CodeExonIntronMix
	}

	if refMulti != predMulti && retainedIntron(reference, prediction) {
		if refMulti {
			return CodeRetainedIntronR
		}
		return CodeRetainedIntron
	}

	return CodeOverlap
}

// intronInsideExon reports whether any intron of `withIntrons` lies
// entirely within an exon of `withExons`.
func intronInsideExon(withIntrons, withExons *tx.Transcript) bool {
	for _, in := range withIntrons.Introns() {
		for _, e := range withExons.Exons() {
			if e.Start <= in.Start && in.End <= e.End {
				return true
			}
		}
	}
	return false
}

// retainedIntron reports whether the monoexonic side's single exon fully
// spans (and thus retains) an intron of the multiexonic side.
func retainedIntron(a, b *tx.Transcript) bool {
	return intronInsideExon(a, b) || intronInsideExon(b, a)
}

// fullyIntronic reports whether one transcript's exonic footprint lies
// entirely within an intron of the other.
func fullyIntronic(a, b *tx.Transcript) bool {
	return oneInsideOtherIntron(a, b) || oneInsideOtherIntron(b, a)
}

func oneInsideOtherIntron(inner, outer *tx.Transcript) bool {
	for _, in := range outer.Introns() {
		if in.Start <= inner.Start() && inner.End() <= in.End {
			return true
		}
	}
	return false
}

func refLonger(reference, prediction *tx.Transcript) bool {
	return reference.CDNALength() >= prediction.CDNALength()
}

func withinFlank(a, b *tx.Transcript, flank int64) bool {
	if a.Chrom() != b.Chrom() {
		return false
	}
	gap := a.Start() - b.End()
	if b.Start() > a.End() {
		gap = b.Start() - a.End()
	}
	return gap > 0 && gap <= flank
}
