package tracker

import (
	"context"
	"sync"
)

// WorkerPool fans status lookups out over a fixed number of goroutines.
type WorkerPool struct {
	size int
}

// NewWorkerPool creates a pool; sizes below one are treated as one.
func NewWorkerPool(size int) *WorkerPool {
	if size < 1 {
		size = 1
	}
	return &WorkerPool{size: size}
}

// Process runs fn for every target and returns the results in no particular
// order. Targets not yet dispatched when ctx is cancelled are skipped.
func (wp *WorkerPool) Process(ctx context.Context, targets []target, fn func(context.Context, target) result) []result {
	if len(targets) == 0 {
		return nil
	}

	jobs := make(chan target)
	results := make(chan result, len(targets))

	workers := wp.size
	if workers > len(targets) {
		workers = len(targets)
	}
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				results <- fn(ctx, t)
			}
		}()
	}

dispatch:
	for _, t := range targets {
		select {
		case jobs <- t:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	out := make([]result, 0, len(targets))
	for r := range results {
		out = append(out, r)
	}
	return out
}
