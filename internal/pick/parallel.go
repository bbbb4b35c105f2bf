// Package pick drives the per-superlocus locus-resolution pipeline:
// sublocus split, monosublocus election, holder re-aggregation, final
// selection, and alternative-splicing admission, dispatched over a fixed
// worker pool with ordered output.
package pick

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/biocore/locuspick/internal/locus"
)

// WorkItem is one superlocus ready for resolution, tagged with its
// position in the input stream so output can be reordered.
type WorkItem struct {
	Seq        int
	Superlocus *locus.Superlocus
}

// WorkResult is the outcome of resolving one superlocus.
type WorkResult struct {
	Seq   int
	Loci  []*locus.Locus
	Err   error
}

// Resolver resolves a single superlocus into its final loci, running the
// full split/elect/holder/select chain plus any alternative-splicing pass.
type Resolver func(*locus.Superlocus) ([]*locus.Locus, error)

// ParallelResolve dispatches items to a pool of workers running resolve.
// Results arrive on the returned channel in completion order, not input
// order; pass them through OrderedCollect to restore genomic order. If
// workers is 0, runtime.NumCPU() is used. A panic inside resolve is
// recovered and reported as that item's Err, so one failing superlocus
// does not bring down the pool.
func ParallelResolve(items <-chan WorkItem, workers int, resolve Resolver) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	safeResolve := func(sl *locus.Superlocus) (loci []*locus.Locus, err error) {
		defer func() {
			if r := recover(); r != nil {
				loci, err = nil, fmt.Errorf("pick: superlocus resolution panicked: %v", r)
			}
		}()
		return resolve(sl)
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				loci, err := safeResolve(item.Superlocus)
				results <- WorkResult{Seq: item.Seq, Loci: loci, Err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in input sequence order,
// buffering out-of-order arrivals so output order matches input genomic
// order even when workers finish out of order. A failing superlocus
// (non-nil Err) is still delivered to fn in order — per-superlocus
// failure isolation is the caller's job inside fn, never this function's.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r
		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				for range results {
				}
				return err
			}
		}
	}
	return nil
}
