// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"fmt"

	"github.com/ajroetker/go-trimv/trimv"
	"github.com/ajroetker/go-trimv/trimv/contrib/workerpool"
)

// RowKernel computes one output row. Strategies only decide which goroutine
// calls it for which row; the kernel closes over its own matrix and vectors.
type RowKernel func(row int)

// Rows returns the RowKernel writing y[row] = A[row,:k]·x[:k] under w.
func Rows(m *trimv.Matrix, x, y []float64, w trimv.Workload) RowKernel {
	return func(row int) {
		trimv.ComputeRow(m, x, y, row, w)
	}
}

// Atomic runs k for every row in [0, n) on `workers` freshly spawned
// goroutines that claim rows from a shared atomic counter, and joins them
// before returning.
func Atomic(n, workers int, k RowKernel) error {
	if workers <= 0 {
		return fmt.Errorf("%w: %d", trimv.ErrBadWorkers, workers)
	}
	return workerpool.RunAtomic(n, workers, k)
}

// MatVecAtomic computes y = A*x with per-call atomic work stealing.
func MatVecAtomic(m *trimv.Matrix, x, y []float64, w trimv.Workload, workers int) error {
	return Atomic(m.N(), workers, Rows(m, x, y, w))
}

// MatVecPersistent computes y = A*x with the same claim loop as
// MatVecAtomic, but on an already running pool, so no goroutines are
// spawned per call.
func MatVecPersistent(pool *workerpool.Pool, m *trimv.Matrix, x, y []float64, w trimv.Workload) {
	pool.ParallelForAtomic(m.N(), Rows(m, x, y, w))
}
