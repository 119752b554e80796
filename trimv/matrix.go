// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package trimv

import "fmt"

// Matrix is an N×N matrix of float64 stored as one contiguous row-major
// buffer: element (i, j) lives at offset i*N+j.
//
// A Matrix is never resized after construction. Strategies treat it as
// read-only; the only writers are the constructors.
type Matrix struct {
	n    int
	data []float64
}

// NewMatrix returns a zero N×N matrix. It returns ErrBadSize for n < 0.
func NewMatrix(n int) (*Matrix, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	return &Matrix{n: n, data: make([]float64, n*n)}, nil
}

// NewOnes returns an N×N matrix with every element set to 1.0, the input
// every benchmark in this module runs against.
func NewOnes(n int) (*Matrix, error) {
	m, err := NewMatrix(n)
	if err != nil {
		return nil, err
	}
	for i := range m.data {
		m.data[i] = 1.0
	}
	return m, nil
}

// FromRows wraps an existing row-major buffer holding rows*n elements. It is
// used by distributed ranks that own only a slice of the global rows; the
// returned matrix aliases data.
func FromRows(data []float64, rows, n int) (*Matrix, error) {
	if n < 0 || rows < 0 {
		return nil, fmt.Errorf("%w: %d rows of width %d", ErrBadSize, rows, n)
	}
	if len(data) != rows*n {
		return nil, fmt.Errorf("%w: buffer holds %d values, want %d", ErrBadSize, len(data), rows*n)
	}
	return &Matrix{n: n, data: data}, nil
}

// N returns the row width (and, for a full matrix, the number of rows).
func (m *Matrix) N() int { return m.n }

// NumRows returns the number of rows held by m.
func (m *Matrix) NumRows() int {
	if m.n == 0 {
		return 0
	}
	return len(m.data) / m.n
}

// Data returns the underlying row-major buffer.
func (m *Matrix) Data() []float64 { return m.data }

// Offset returns the flat index of element (i, j).
func (m *Matrix) Offset(i, j int) int { return i*m.n + j }

// At returns element (i, j). It panics when the index is out of range.
func (m *Matrix) At(i, j int) float64 {
	if j < 0 || j >= m.n {
		panic(fmt.Sprintf("trimv: column %d out of range [0,%d)", j, m.n))
	}
	return m.data[m.Offset(i, j)]
}

// Row returns a view of row i.
func (m *Matrix) Row(i int) []float64 {
	return m.data[i*m.n : (i+1)*m.n]
}

// Rows returns a view of the contiguous row block [start, end).
func (m *Matrix) Rows(start, end int) []float64 {
	return m.data[start*m.n : end*m.n]
}

// Nested copies m into the vector-of-rows form walked by the Original serial
// baseline.
func (m *Matrix) Nested() [][]float64 {
	rows := m.NumRows()
	out := make([][]float64, rows)
	for i := range rows {
		out[i] = append([]float64(nil), m.Row(i)...)
	}
	return out
}

// NewVectorOnes returns a length-n vector of 1.0s.
func NewVectorOnes(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = 1.0
	}
	return x
}
