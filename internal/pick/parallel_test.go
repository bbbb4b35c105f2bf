package pick

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biocore/locuspick/internal/locus"
)

func TestParallelResolve_OrderedCollect_RestoresInputOrder(t *testing.T) {
	const n = 50
	items := make(chan WorkItem, n)
	for i := 0; i < n; i++ {
		items <- WorkItem{Seq: i, Superlocus: &locus.Superlocus{}}
	}
	close(items)

	results := ParallelResolve(items, 4, func(sl *locus.Superlocus) ([]*locus.Locus, error) {
		return nil, nil
	})

	var seen []int
	err := OrderedCollect(results, func(r WorkResult) error {
		seen = append(seen, r.Seq)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, seen, n)
	for i, seq := range seen {
		assert.Equal(t, i, seq)
	}
}

func TestOrderedCollect_PropagatesAndDrainsOnError(t *testing.T) {
	items := make(chan WorkItem, 5)
	for i := 0; i < 5; i++ {
		items <- WorkItem{Seq: i, Superlocus: &locus.Superlocus{}}
	}
	close(items)

	results := ParallelResolve(items, 2, func(sl *locus.Superlocus) ([]*locus.Locus, error) {
		return nil, nil
	})

	wantErr := fmt.Errorf("boom")
	err := OrderedCollect(results, func(r WorkResult) error {
		if r.Seq == 2 {
			return wantErr
		}
		return nil
	})
	assert.ErrorIs(t, err, wantErr)
}
