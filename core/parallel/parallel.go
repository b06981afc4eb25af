// Package parallel provides CPU-bound range splitting for per-row inference
// fan-out. Inference after finalization is read-only, so independent query
// rows can be labeled concurrently without locking.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize splits items across the available CPU cores and invokes fn
// once per contiguous [start, end) range.
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// Ceiling division so the last worker picks up the remainder.
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn sequentially over the whole range when
// items does not exceed threshold, and in parallel otherwise. Small batches
// are not worth the goroutine overhead.
func ParallelizeWithThreshold(items, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}

// ForEachRow invokes fn once per row index, parallelizing above threshold.
// fn must only write to per-row state.
func ForEachRow(rows, threshold int, fn func(i int)) {
	ParallelizeWithThreshold(rows, threshold, func(start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}
