// Package workpool implements the disjoint-range worker fan-out used
// by the phantom rasterizer and the scanner's projection collection:
// a fixed pool of goroutines each
// atomically claims the next unprocessed index and runs a caller
// supplied function against it, until the range is exhausted or the
// context is cancelled.
//
// This generalizes the atomic row-counter claiming pattern used by the
// image codec's parallel macroblock encoder to arbitrary index ranges
// (phantom columns, projection views).
package workpool

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Run partitions the half-open range [0, n) across up to workers
// goroutines, each atomically claiming the next unclaimed index and
// invoking fn(ctx, index). workers <= 0 defaults to
// runtime.GOMAXPROCS(0). Run returns the first non-nil error returned
// by any fn call (errgroup cancels the shared context at that point,
// so other workers wind down quickly) or nil if every call succeeded
// or the range was exhausted first.
//
// A cancelled ctx is not itself reported as an error: Run instead
// reports whether every index in [0, n) was actually claimed and run
// via its completed return value, so a caller can mark its result
// incomplete rather than silently returning a result indistinguishable
// from a full run.
func Run(ctx context.Context, n, workers int, fn func(ctx context.Context, index int) error) (completed bool, err error) {
	if n <= 0 {
		return true, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	var next, done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				i := next.Add(1) - 1
				if i >= int64(n) {
					return nil
				}
				if gctx.Err() != nil {
					return nil
				}
				if err := fn(gctx, int(i)); err != nil {
					return err
				}
				done.Add(1)
			}
		})
	}
	if err := g.Wait(); err != nil {
		return false, err
	}
	return done.Load() == int64(n), nil
}
