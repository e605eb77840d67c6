package common

import (
	"runtime"
	"sync"
)

// ParallelFor splits [0, n) into contiguous ranges, one per worker, and
// runs fn(start, end) on each range concurrently. Elements must be
// independent; results are recombined by position so no ordering guarantee
// is needed. Falls back to a single serial call when n is small.
func ParallelFor(n, minParallel int, fn func(start, end int)) {
	if n <= 0 {
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if n < minParallel || workers <= 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
