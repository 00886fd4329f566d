package grid

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum number of cells per pass worth splitting.
// Below this, a single goroutine is faster than the dispatch overhead.
const parallelThreshold = 4096

// ParallelSlices calls fn(z) for every depth slice z in [0, d.NZ). Slices are
// split in contiguous chunks across GOMAXPROCS goroutines and the call returns
// once all of them are done. fn must only write into slice z of its target.
// A panic in fn is re-raised on the calling goroutine after every chunk ends.
func ParallelSlices(d Dims, fn func(z int)) {
	parallelRange(0, d.NZ, d.SliceCells(), fn)
}

// ParallelInteriorSlices is ParallelSlices restricted to z in [1, d.NZ-1).
func ParallelInteriorSlices(d Dims, fn func(z int)) {
	parallelRange(1, d.NZ-1, d.SliceCells(), fn)
}

func parallelRange(start, end, cellsPerItem int, fn func(i int)) {
	total := end - start
	if total <= 0 {
		return
	}

	workers := min(runtime.GOMAXPROCS(0), total)
	if workers <= 1 || total*cellsPerItem < parallelThreshold {
		for i := start; i < end; i++ {
			fn(i)
		}
		return
	}

	chunk := (total + workers - 1) / workers
	var (
		wg       sync.WaitGroup
		once     sync.Once
		failure  any
		panicked bool
	)
	for s := start; s < end; s += chunk {
		e := min(s+chunk, end)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					once.Do(func() { failure, panicked = r, true })
				}
			}()
			for i := s; i < e; i++ {
				fn(i)
			}
		}(s, e)
	}
	wg.Wait()
	if panicked {
		panic(failure)
	}
}
