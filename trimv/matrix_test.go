// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package trimv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOnes(t *testing.T) {
	m, err := NewOnes(4)
	require.NoError(t, err)

	assert.Equal(t, 4, m.N())
	assert.Equal(t, 4, m.NumRows())
	assert.Len(t, m.Data(), 16)
	for _, v := range m.Data() {
		assert.Equal(t, 1.0, v)
	}
}

func TestNewMatrixRejectsNegative(t *testing.T) {
	_, err := NewMatrix(-1)
	require.ErrorIs(t, err, ErrBadSize)
}

func TestNewMatrixZero(t *testing.T) {
	m, err := NewOnes(0)
	require.NoError(t, err)
	assert.Equal(t, 0, m.NumRows())
	assert.Empty(t, m.Nested())
}

func TestOffsetIsRowMajor(t *testing.T) {
	m, err := NewMatrix(3)
	require.NoError(t, err)
	for i := range 3 {
		for j := range 3 {
			m.Data()[m.Offset(i, j)] = float64(10*i + j)
		}
	}

	assert.Equal(t, []float64{10, 11, 12}, m.Row(1))
	assert.Equal(t, []float64{10, 11, 12, 20, 21, 22}, m.Rows(1, 3))
	assert.Equal(t, 21.0, m.At(2, 1))
	assert.Panics(t, func() { m.At(0, 3) })
}

func TestFromRows(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}
	m, err := FromRows(data, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumRows())
	assert.Equal(t, []float64{4, 5, 6}, m.Row(1))

	_, err = FromRows(data, 3, 3)
	require.ErrorIs(t, err, ErrBadSize)
}

func TestNestedCopies(t *testing.T) {
	m, err := NewOnes(2)
	require.NoError(t, err)
	nested := m.Nested()
	nested[0][0] = 7

	assert.Equal(t, 1.0, m.At(0, 0), "Nested must not alias the flat buffer")
	assert.Equal(t, [][]float64{{7, 1}, {1, 1}}, nested)
}

func TestNewVectorOnes(t *testing.T) {
	assert.Equal(t, []float64{1, 1, 1}, NewVectorOnes(3))
	assert.Empty(t, NewVectorOnes(0))
}
