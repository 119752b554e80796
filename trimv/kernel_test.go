// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package trimv

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestWorkloadCols(t *testing.T) {
	tests := []struct {
		w        Workload
		row, n   int
		wantCols int
	}{
		{Triangular, 0, 8, 0},
		{Triangular, 5, 8, 5},
		{Triangular, 7, 8, 7},
		{Full, 0, 8, 8},
		{Full, 7, 8, 8},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wantCols, tt.w.Cols(tt.row, tt.n), "%s.Cols(%d, %d)", tt.w, tt.row, tt.n)
		assert.Equal(t, float64(tt.wantCols), tt.w.Expected(tt.row, tt.n))
	}
}

func TestParseWorkload(t *testing.T) {
	for _, w := range []Workload{Triangular, Full} {
		got, err := ParseWorkload(w.String())
		require.NoError(t, err)
		assert.Equal(t, w, got)
	}
	_, err := ParseWorkload("upper")
	require.ErrorIs(t, err, ErrUnknownWorkload)
}

func TestRowDot(t *testing.T) {
	row := []float64{1, 2, 3, 4}
	x := []float64{4, 3, 2, 1}

	assert.Equal(t, 0.0, RowDot(row, x, 0))
	assert.Equal(t, 10.0, RowDot(row, x, 2))
	assert.Equal(t, 20.0, RowDot(row, x, 4))
	assert.Panics(t, func() { RowDot(row[:1], x, 2) })
	assert.Panics(t, func() { RowDot(row, x[:1], 2) })
}

func TestComputeRowWritesOneSlot(t *testing.T) {
	m, err := NewOnes(6)
	require.NoError(t, err)
	x := NewVectorOnes(6)
	y := []float64{-1, -1, -1, -1, -1, -1}

	ComputeRow(m, x, y, 4, Triangular)

	assert.Equal(t, []float64{-1, -1, -1, -1, 4, -1}, y)
}

// TestRowMajorAgainstGonum checks the kernel against gonum's dense product on
// a strictly lower triangular matrix with non-trivial values.
func TestRowMajorAgainstGonum(t *testing.T) {
	const n = 37
	rng := rand.New(rand.NewPCG(1, 2))

	m, err := NewMatrix(n)
	require.NoError(t, err)
	lower := make([]float64, n*n)
	for i := range n {
		for j := range n {
			v := rng.Float64()*2 - 1
			m.Data()[m.Offset(i, j)] = v
			if j < i {
				lower[i*n+j] = v
			}
		}
	}
	x := make([]float64, n)
	for i := range x {
		x[i] = rng.Float64()
	}

	var want mat.VecDense
	want.MulVec(mat.NewDense(n, n, lower), mat.NewVecDense(n, x))

	y := make([]float64, n)
	MatVecRowMajor(m, x, y, Triangular)
	for i := range n {
		assert.InDelta(t, want.AtVec(i), y[i], 1e-12, "y[%d]", i)
	}

	var full mat.VecDense
	full.MulVec(mat.NewDense(n, n, append([]float64(nil), m.Data()...)), mat.NewVecDense(n, x))
	MatVecRowMajor(m, x, y, Full)
	for i := range n {
		assert.InDelta(t, full.AtVec(i), y[i], 1e-12, "full y[%d]", i)
	}
}

func BenchmarkRowDot(b *testing.B) {
	row := NewVectorOnes(4096)
	x := NewVectorOnes(4096)
	b.SetBytes(int64(len(row)) * 16)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = RowDot(row, x, len(row))
	}
}
