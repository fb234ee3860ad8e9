package convert

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallelRows_OrderedCollect(t *testing.T) {
	g := newTestGenerator()

	const numVariants = 50
	items := make(chan WorkItem)
	go func() {
		defer close(items)
		for i := 0; i < numVariants; i++ {
			v := simpleVariant()
			v.Start = int64(i)
			v.End = int64(i + 1)
			items <- WorkItem{Seq: i, Variant: v}
		}
	}()

	results := g.ParallelRows(items, Options{}, 4)

	var starts []int64
	err := OrderedCollect(results, func(r WorkResult) error {
		require.NoError(t, r.Err)
		require.Len(t, r.Rows, 1)
		starts = append(starts, r.Rows[0][ColStart].(int64))
		return nil
	})
	require.NoError(t, err)

	require.Len(t, starts, numVariants)
	for i, start := range starts {
		assert.Equal(t, int64(i), start, "results must arrive in sequence order")
	}
}

func TestParallelRows_ErrorPropagates(t *testing.T) {
	g := newTestGenerator()

	bad := simpleVariant()
	bad.Info["UNDECLARED"] = int64(1)

	items := make(chan WorkItem)
	go func() {
		defer close(items)
		items <- WorkItem{Seq: 0, Variant: simpleVariant()}
		items <- WorkItem{Seq: 1, Variant: bad}
		items <- WorkItem{Seq: 2, Variant: simpleVariant()}
	}()

	results := g.ParallelRows(items, Options{}, 2)

	err := OrderedCollect(results, func(r WorkResult) error {
		if r.Err != nil {
			return fmt.Errorf("variant %d: %w", r.Seq, r.Err)
		}
		return nil
	})
	require.Error(t, err)
	var missing *MissingFieldError
	assert.ErrorAs(t, err, &missing)
}
