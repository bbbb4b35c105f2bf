package scoring

import (
	"fmt"
	"math"

	"github.com/biocore/locuspick/internal/tx"
)

// Operator is one comparison operator a FilterRule may apply.
type Operator string

const (
	OpLE     Operator = "<="
	OpGE     Operator = ">="
	OpEQ     Operator = "="
	OpNE     Operator = "!="
	OpLT     Operator = "<"
	OpGT     Operator = ">"
	OpIn     Operator = "in"
	OpNotIn  Operator = "not_in"
)

// FilterRule is a predicate rule that contributes 0/1 to a locus-wide
// filter mask for one metric.
type FilterRule struct {
	Metric   string
	Operator Operator
	Value    float64
	Set      []float64 // populated for in/not_in
}

// RescaleKind selects one of the three normalization shapes a RescaleRule
// can apply: scale against the population max, the population min, or a
// fixed target value.
type RescaleKind string

const (
	RescaleMax    RescaleKind = "max"
	RescaleMin    RescaleKind = "min"
	RescaleTarget RescaleKind = "target"
)

// RescaleRule is a scaling rule for one metric.
type RescaleRule struct {
	Metric     string
	Kind       RescaleKind
	Target     float64 // only meaningful when Kind == RescaleTarget
	Multiplier float64
}

// RuleSet is the resolved, validated scoring configuration for one run:
// the filter predicates and rescaling rules consulted by Score.
type RuleSet struct {
	Filters   []FilterRule
	Rescalers []RescaleRule
}

// Validate checks that every rule references a metric the registry knows
// about, returning an *UnknownMetricError otherwise.
func (rs RuleSet) Validate(reg *Registry) error {
	for _, f := range rs.Filters {
		if !reg.Has(f.Metric) {
			return &UnknownMetricError{Name: f.Metric}
		}
	}
	for _, r := range rs.Rescalers {
		if !reg.Has(r.Metric) {
			return &UnknownMetricError{Name: r.Metric}
		}
	}
	return nil
}

func evalOperator(op Operator, x float64, value float64, set []float64) (bool, error) {
	switch op {
	case OpLE:
		return x <= value, nil
	case OpGE:
		return x >= value, nil
	case OpEQ:
		return x == value, nil
	case OpNE:
		return x != value, nil
	case OpLT:
		return x < value, nil
	case OpGT:
		return x > value, nil
	case OpIn:
		for _, v := range set {
			if x == v {
				return true, nil
			}
		}
		return false, nil
	case OpNotIn:
		for _, v := range set {
			if x == v {
				return false, nil
			}
		}
		return true, nil
	default:
		return false, fmt.Errorf("scoring: unknown operator %q", op)
	}
}

// PassesFilters reports whether t clears every filter predicate in rs.
func PassesFilters(reg *Registry, rs RuleSet, t *tx.Transcript) (bool, error) {
	for _, f := range rs.Filters {
		x, err := reg.Extract(f.Metric, t)
		if err != nil {
			return false, err
		}
		ok, err := evalOperator(f.Operator, x, f.Value, f.Set)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Score computes the composite score of step 3 for every
// transcript in the pool that clears the filter mask: the sum, over active
// rescaling metrics, of multiplier times the per-locus-normalized metric
// value. Transcripts failing a filter receive score 0. The pool defines the
// per-locus min/max used for normalization, so this must be called with
// every transcript of the locus/community being scored together.
func Score(reg *Registry, rs RuleSet, pool []*tx.Transcript) (map[string]float64, error) {
	scores := make(map[string]float64, len(pool))
	passed := make(map[string]bool, len(pool))

	for _, t := range pool {
		ok, err := PassesFilters(reg, rs, t)
		if err != nil {
			return nil, err
		}
		passed[t.ID()] = ok
		scores[t.ID()] = 0
	}

	for _, rr := range rs.Rescalers {
		values := make(map[string]float64, len(pool))
		var minX, maxX float64
		first := true
		for _, t := range pool {
			if !passed[t.ID()] {
				continue
			}
			x, err := reg.Extract(rr.Metric, t)
			if err != nil {
				return nil, err
			}
			values[t.ID()] = x
			if first {
				minX, maxX = x, x
				first = false
				continue
			}
			minX = math.Min(minX, x)
			maxX = math.Max(maxX, x)
		}
		if first {
			continue // no passing transcripts carry this metric this round
		}

		for id, x := range values {
			r := normalize(rr.Kind, x, minX, maxX, rr.Target)
			scores[id] += rr.Multiplier * r
		}
	}

	return scores, nil
}

func normalize(kind RescaleKind, x, minX, maxX, target float64) float64 {
	switch kind {
	case RescaleMax:
		if maxX == minX {
			return 1
		}
		return (x - minX) / (maxX - minX)
	case RescaleMin:
		if maxX == minX {
			return 1
		}
		return (maxX - x) / (maxX - minX)
	case RescaleTarget:
		denom := math.Max(math.Abs(maxX-target), math.Abs(minX-target))
		if denom == 0 {
			return 1
		}
		return 1 - math.Abs(x-target)/denom
	default:
		return 0
	}
}
