// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package trimv

import "fmt"

// Workload selects how many columns of each row take part in the product.
type Workload int

const (
	// Triangular makes row i sum columns [0, i): k_i = i. Row 0 does no work
	// and row N-1 does N-1 multiply-adds, so the cost per row grows linearly.
	Triangular Workload = iota

	// Full makes every row sum all N columns, the dense baseline.
	Full
)

// String returns the workload name accepted by ParseWorkload.
func (w Workload) String() string {
	switch w {
	case Triangular:
		return "triangular"
	case Full:
		return "full"
	default:
		return "unknown"
	}
}

// ParseWorkload maps a workload name to its Workload.
func ParseWorkload(name string) (Workload, error) {
	switch name {
	case "triangular", "":
		return Triangular, nil
	case "full":
		return Full, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWorkload, name)
}

// Cols returns the column limit k for the given global row of an N-wide matrix.
func (w Workload) Cols(row, n int) int {
	if w == Full {
		return n
	}
	return row
}

// Expected returns y[row] for an all-ones matrix times an all-ones vector.
func (w Workload) Expected(row, n int) float64 {
	return float64(w.Cols(row, n))
}

// RowDot returns sum(row[j] * x[j]) for j in [0, cols).
//
// Panics if row or x is shorter than cols.
func RowDot(row, x []float64, cols int) float64 {
	if len(row) < cols {
		panic("row slice too small")
	}
	if len(x) < cols {
		panic("vector slice too small")
	}
	var acc float64
	for j := range cols {
		acc += row[j] * x[j]
	}
	return acc
}

// ComputeRow writes y[i] = sum_j A[i,j]*x[j] over the columns selected by w.
// It touches no other element of y, which is what lets concurrent callers
// share y as long as they never claim the same row.
func ComputeRow(m *Matrix, x, y []float64, i int, w Workload) {
	y[i] = RowDot(m.Row(i), x, w.Cols(i, m.n))
}
