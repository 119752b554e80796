// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package trimv

import "fmt"

// Version selects the memory-access pattern of the single-threaded product.
type Version int

const (
	// Original walks a vector-of-rows ([][]float64), one allocation per row.
	Original Version = iota

	// RowMajor walks the flat buffer with the column as the inner loop, so
	// consecutive iterations touch consecutive memory.
	RowMajor

	// ColMajor swaps the loops: the row is the inner loop and every step
	// jumps N elements ahead. Same arithmetic, cache-unfriendly access.
	ColMajor
)

// String returns the version name accepted by ParseVersion.
func (v Version) String() string {
	switch v {
	case Original:
		return "original"
	case RowMajor:
		return "row_major"
	case ColMajor:
		return "col_major"
	default:
		return "unknown"
	}
}

// ParseVersion maps a version name to its Version.
func ParseVersion(name string) (Version, error) {
	switch name {
	case "original":
		return Original, nil
	case "row_major", "":
		return RowMajor, nil
	case "col_major":
		return ColMajor, nil
	}
	return 0, fmt.Errorf("%w: %q (want original, row_major or col_major)", ErrUnknownVersion, name)
}

// Serial computes y = A*x on the calling goroutine using one Version.
// The nested copy needed by Original is built once by NewSerial so that it
// stays out of timed trials.
type Serial struct {
	version Version
	m       *Matrix
	nested  [][]float64
}

// NewSerial prepares a serial product over m.
func NewSerial(v Version, m *Matrix) *Serial {
	s := &Serial{version: v, m: m}
	if v == Original {
		s.nested = m.Nested()
	}
	return s
}

// Version returns the access pattern used by s.
func (s *Serial) Version() Version { return s.version }

// MatVec fills y with the product for workload w.
func (s *Serial) MatVec(x, y []float64, w Workload) {
	switch s.version {
	case Original:
		MatVecOriginal(s.nested, x, y, w)
	case ColMajor:
		MatVecColMajor(s.m, x, y, w)
	default:
		MatVecRowMajor(s.m, x, y, w)
	}
}

// MatVecOriginal computes y = A*x over a vector-of-rows matrix.
func MatVecOriginal(a [][]float64, x, y []float64, w Workload) {
	n := len(a)
	for i := range n {
		y[i] = 0.0
		cols := w.Cols(i, n)
		for j := 0; j < cols; j++ {
			y[i] += a[i][j] * x[j]
		}
	}
}

// MatVecRowMajor computes y = A*x reading A at i*N+j with j innermost.
func MatVecRowMajor(m *Matrix, x, y []float64, w Workload) {
	n := m.n
	for i := range n {
		ComputeRow(m, x, y, i, w)
	}
}

// MatVecColMajor computes y = A*x with j outermost. Each y[i] still receives
// its terms in increasing j order, so the result is bit-identical to
// MatVecRowMajor.
func MatVecColMajor(m *Matrix, x, y []float64, w Workload) {
	n := m.n
	a := m.data
	for i := range n {
		y[i] = 0.0
	}
	for j := range n {
		xj := x[j]
		for i := w.firstRow(j); i < n; i++ {
			y[i] += a[i*n+j] * xj
		}
	}
}

// firstRow returns the smallest row whose column limit exceeds j.
func (w Workload) firstRow(j int) int {
	if w == Full {
		return 0
	}
	return j + 1
}
