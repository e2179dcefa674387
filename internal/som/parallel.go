package som

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minChunk keeps per-goroutine work large enough to amortize scheduling.
const minChunk = 256

// forEachRow calls fn for every row index in [0, n) across at most workers
// goroutines. Rows are split into contiguous chunks; fn must only write to
// state owned by its row. The first error cancels the remaining chunks.
func forEachRow(ctx context.Context, n, workers int, fn func(i int) error) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := (n + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if (i-start)%DefaultCheckEvery == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
