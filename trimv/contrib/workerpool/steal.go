// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// ErrNoWorkers is returned by RunAtomic when asked to run with no workers.
var ErrNoWorkers = errors.New("workerpool: worker count must be positive")

// paddedCounter keeps the claim counter on its own cache line; every worker
// hammers it, and false sharing with the caller's locals would show up in
// the measurement.
type paddedCounter struct {
	_ cpu.CacheLinePad
	v atomic.Int64
	_ cpu.CacheLinePad
}

// RunAtomic spawns `workers` goroutines that claim indices in [0, n) from a
// shared counter with fetch-and-increment, calling fn once per claimed
// index, until the counter reaches n. It returns after every goroutine has
// exited.
//
// Every index is passed to fn exactly once. fn may run concurrently for
// distinct indices.
func RunAtomic(n, workers int, fn func(i int)) error {
	if workers <= 0 {
		return fmt.Errorf("%w: %d", ErrNoWorkers, workers)
	}
	if n <= 0 {
		return nil
	}

	var next paddedCounter
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for {
				i := int(next.v.Add(1)) - 1
				if i >= n {
					return
				}
				fn(i)
			}
		}()
	}
	wg.Wait()
	return nil
}
