package convert

import (
	"runtime"
	"sync"

	"github.com/genobq/varrow/internal/variant"
)

// WorkItem holds a parsed variant ready for conversion.
type WorkItem struct {
	Seq     int
	Variant *variant.Variant
}

// WorkResult holds the converted rows for a single variant.
type WorkResult struct {
	Seq     int
	Variant *variant.Variant
	Rows    []Row
	Err     error
}

// ParallelRows converts work items using a pool of workers. Each worker
// drains one variant's row iterator fully before reporting, so per-variant
// row order is preserved inside a result. Results arrive on the returned
// channel in completion order (not sequence order); use OrderedCollect to
// consume them in sequence-number order. If workers is 0, runtime.NumCPU()
// is used. Safe because the generator shares only read-only configuration.
func (g *RowGenerator) ParallelRows(items <-chan WorkItem, opts Options, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				rows, err := collectRows(g.Rows(item.Variant, opts))
				results <- WorkResult{
					Seq:     item.Seq,
					Variant: item.Variant,
					Rows:    rows,
					Err:     err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func collectRows(it *RowIter) ([]Row, error) {
	var rows []Row
	for {
		row, err := it.Next()
		if err != nil {
			return nil, err
		}
		if row == nil {
			return rows, nil
		}
		rows = append(rows, row)
	}
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
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
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
