package tx

import "github.com/biogo/store/step"

// pair is a [2]bool type satisfying step.Equaler, tracking set membership
// of a position in each of two region sets being compared.
type pair [2]bool

func (p pair) Equal(e step.Equaler) bool { return p == e.(pair) }

// UnionLength returns the number of bases covered by the union of regions,
// computed with a step-function vector rather than a hand-rolled interval
// merge sweep.
func UnionLength(regions []Region) int64 {
	if len(regions) == 0 {
		return 0
	}
	lo, hi := regions[0].Start, regions[0].End+1
	for _, r := range regions[1:] {
		if r.Start < lo {
			lo = r.Start
		}
		if r.End+1 > hi {
			hi = r.End + 1
		}
	}

	vec, err := step.New(int(lo), int(hi), pair{})
	if err != nil {
		return 0
	}
	vec.Relaxed = true
	for _, r := range regions {
		_ = vec.ApplyRange(int(r.Start), int(r.End+1), func(e step.Equaler) step.Equaler {
			p := e.(pair)
			p[0] = true
			return p
		})
	}

	var total int64
	vec.Do(func(start, end int, e step.Equaler) {
		if e.(pair)[0] {
			total += int64(end - start)
		}
	})
	return total
}

// OverlapLength returns |A∩B| for two sets of genomic regions, each set
// internally non-overlapping, using the two-set step-vector pattern.
func OverlapLength(a, b []Region) int64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	lo, hi := a[0].Start, a[0].End+1
	for _, r := range append(append([]Region(nil), a...), b...) {
		if r.Start < lo {
			lo = r.Start
		}
		if r.End+1 > hi {
			hi = r.End + 1
		}
	}

	vec, err := step.New(int(lo), int(hi), pair{})
	if err != nil {
		return 0
	}
	vec.Relaxed = true
	for i, set := range [][]Region{a, b} {
		for _, r := range set {
			idx := i
			_ = vec.ApplyRange(int(r.Start), int(r.End+1), func(e step.Equaler) step.Equaler {
				p := e.(pair)
				p[idx] = true
				return p
			})
		}
	}

	var overlap int64
	vec.Do(func(start, end int, e step.Equaler) {
		p := e.(pair)
		if p[0] && p[1] {
			overlap += int64(end - start)
		}
	})
	return overlap
}

// JunctionOverlap returns the number of splice keys common to both sets.
func JunctionOverlap(a, b []SpliceKey) int {
	set := make(map[SpliceKey]struct{}, len(a))
	for _, k := range a {
		set[k] = struct{}{}
	}
	n := 0
	for _, k := range b {
		if _, ok := set[k]; ok {
			n++
		}
	}
	return n
}

// ExonicRegions returns the exons of t as Regions, for use with
// UnionLength/OverlapLength.
func (t *Transcript) ExonicRegions() []Region {
	regions := make([]Region, len(t.exons))
	for i, e := range t.exons {
		regions[i] = Region{Start: e.Start, End: e.End}
	}
	return regions
}
