// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool runs loops over [0, n) on a team of goroutines.
//
// Two lifetimes are provided. A Pool is a persistent team: workers are
// spawned once by New and reused by every ParallelFor* call until Close,
// which is how a runtime-managed loop scheduler behaves. RunAtomic instead
// spawns a fresh team for one call and joins it before returning, so the
// spawn and join cost is part of what the caller measures.
//
// Usage:
//
//	pool := workerpool.New(8)
//	defer pool.Close()
//
//	pool.ParallelForGuided(n, 1, func(start, end int) {
//	    for i := start; i < end; i++ {
//	        computeRow(i)
//	    }
//	})
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool that can be reused across many parallel
// loops. Workers are spawned once at creation and reused.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

// workItem is one worker's share of a single loop.
type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a pool with the specified number of workers.
// Workers are spawned immediately and persist until Close is called.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		// Buffer enough for all workers to have pending work
		workC: make(chan workItem, numWorkers*2),
	}

	for range numWorkers {
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the worker pool. All pending work will complete.
// Calling Close multiple times is safe.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// fanOut hands body to `workers` pool workers and waits for all of them.
func (p *Pool) fanOut(workers int, body func(worker int)) {
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := range workers {
		p.workC <- workItem{
			fn:      func() { body(w) },
			barrier: &wg,
		}
	}
	wg.Wait()
}

// ParallelFor executes fn over [0, n) with static scheduling: the range is
// cut ahead of time into at most NumWorkers contiguous chunks of
// ceil(n/workers) indices, one per worker. Blocks until all work completes.
//
// fn receives (start, end) indices where work should process [start, end).
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}

	if p.closed.Load() {
		// Fallback to sequential if pool is closed
		fn(0, n)
		return
	}

	// Don't use more workers than items
	workers := min(p.numWorkers, n)
	if workers == 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers
	p.fanOut(workers, func(w int) {
		start := w * chunkSize
		if start >= n {
			return
		}
		fn(start, min(start+chunkSize, n))
	})
}

// ParallelForAtomic executes fn for each index in [0, n) using atomic work
// stealing: workers claim one index at a time from a shared counter.
// Blocks until all work completes.
func (p *Pool) ParallelForAtomic(n int, fn func(i int)) {
	if n <= 0 {
		return
	}

	if p.closed.Load() {
		for i := range n {
			fn(i)
		}
		return
	}

	workers := min(p.numWorkers, n)
	if workers == 1 {
		for i := range n {
			fn(i)
		}
		return
	}

	var next paddedCounter
	p.fanOut(workers, func(int) {
		for {
			idx := int(next.v.Add(1)) - 1
			if idx >= n {
				return
			}
			fn(idx)
		}
	})
}

// ParallelForAtomicBatched executes fn over [0, n) with dynamic scheduling:
// idle workers claim the next batchSize indices from a shared counter.
// batchSize <= 0 is treated as 1.
//
// fn receives (start, end) indices where work should process [start, end).
func (p *Pool) ParallelForAtomicBatched(n int, batchSize int, fn func(start, end int)) {
	if n <= 0 {
		return
	}

	if batchSize <= 0 {
		batchSize = 1
	}

	if p.closed.Load() {
		fn(0, n)
		return
	}

	numBatches := (n + batchSize - 1) / batchSize
	workers := min(p.numWorkers, numBatches)
	if workers == 1 {
		fn(0, n)
		return
	}

	var nextBatch paddedCounter
	p.fanOut(workers, func(int) {
		for {
			batch := int(nextBatch.v.Add(1)) - 1
			start := batch * batchSize
			if start >= n {
				return
			}
			fn(start, min(start+batchSize, n))
		}
	})
}

// GuidedChunk returns the size of the guided claim that starts at index
// start: ceil(remaining/workers), never below minChunk nor past n.
func GuidedChunk(n, start, workers, minChunk int) int {
	remaining := n - start
	if remaining <= 0 {
		return 0
	}
	size := max((remaining+workers-1)/workers, minChunk, 1)
	return min(size, remaining)
}

// ParallelForGuided executes fn over [0, n) with guided scheduling: each
// claim takes GuidedChunk(n, start, NumWorkers, minChunk) indices, so early
// claims are large and later ones shrink toward minChunk. Claims are made
// with compare-and-swap on a shared counter.
//
// fn receives (start, end) indices where work should process [start, end).
func (p *Pool) ParallelForGuided(n int, minChunk int, fn func(start, end int)) {
	if n <= 0 {
		return
	}

	if p.closed.Load() {
		fn(0, n)
		return
	}

	workers := min(p.numWorkers, n)
	if workers == 1 {
		fn(0, n)
		return
	}

	var next paddedCounter
	p.fanOut(workers, func(int) {
		for {
			start := int(next.v.Load())
			size := GuidedChunk(n, start, workers, minChunk)
			if size == 0 {
				return
			}
			if next.v.CompareAndSwap(int64(start), int64(start+size)) {
				fn(start, start+size)
			}
		}
	})
}
