// Package scoring implements the metric registry and the filter/rescaling
// rule evaluation for locus selection: metrics are extractor closures
// registered once at program start and frozen before any scoring run.
package scoring

import "github.com/biocore/locuspick/internal/tx"

// Extractor pulls one numeric metric value out of a finalized transcript.
type Extractor func(*tx.Transcript) float64

// Registry is a frozen name->extractor map. The zero value is usable but
// has no metrics registered; use DefaultRegistry for the built-in set.
type Registry struct {
	extractors map[string]Extractor
	frozen     bool
}

// NewRegistry builds an empty, mutable registry. Callers populate it with
// Register and then call Freeze to obtain an immutable snapshot.
func NewRegistry() *Registry {
	return &Registry{extractors: make(map[string]Extractor)}
}

// Register adds or replaces the extractor for name. Panics if called after
// Freeze, mirroring a "registered at startup, immutable thereafter" policy.
func (r *Registry) Register(name string, fn Extractor) {
	if r.frozen {
		panic("scoring: Register called on a frozen registry")
	}
	r.extractors[name] = fn
}

// Freeze returns the registry itself after marking it immutable; further
// Register calls panic.
func (r *Registry) Freeze() *Registry {
	r.frozen = true
	return r
}

// Has reports whether name is a registered metric.
func (r *Registry) Has(name string) bool {
	_, ok := r.extractors[name]
	return ok
}

// Extract evaluates the named metric against t. Returns an
// *UnknownMetricError if name is not registered.
func (r *Registry) Extract(name string, t *tx.Transcript) (float64, error) {
	fn, ok := r.extractors[name]
	if !ok {
		return 0, &UnknownMetricError{Name: name}
	}
	return fn(t), nil
}

// Names returns every registered metric name.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.extractors))
	for n := range r.extractors {
		names = append(names, n)
	}
	return names
}

// UnknownMetricError reports a rule referencing a metric the registry has
// no extractor for; names this an InvalidConfiguration cause,
// reported fatally at startup before any transcript is processed.
type UnknownMetricError struct{ Name string }

func (e *UnknownMetricError) Error() string {
	return "scoring: unknown metric " + e.Name
}

func boolMetric(pred func(*tx.Transcript) bool) Extractor {
	return func(t *tx.Transcript) float64 {
		if pred(t) {
			return 1
		}
		return 0
	}
}

// DefaultRegistry returns the frozen, built-in metric set addressable by
// name in scoring configuration: the geometric and coding attributes a
// Transcript exposes.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("cdna_length", func(t *tx.Transcript) float64 { return float64(t.CDNALength()) })
	r.Register("combined_cds_length", func(t *tx.Transcript) float64 { return float64(t.CombinedCDSLength()) })
	r.Register("combined_utr_length", func(t *tx.Transcript) float64 { return float64(t.CombinedUTRLength()) })
	r.Register("exon_num", func(t *tx.Transcript) float64 { return float64(t.ExonCount()) })
	r.Register("intron_num", func(t *tx.Transcript) float64 { return float64(len(t.Introns())) })
	r.Register("is_coding", boolMetric((*tx.Transcript).IsCoding))
	r.Register("has_start_codon", boolMetric((*tx.Transcript).HasStartCodon))
	r.Register("has_stop_codon", boolMetric((*tx.Transcript).HasStopCodon))
	r.Register("monoexonic", boolMetric((*tx.Transcript).Monoexonic))
	return r.Freeze()
}
