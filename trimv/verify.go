// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package trimv

import (
	"fmt"
	"math"
)

const (
	// Tolerance is the absolute error accepted per element by Verify.
	Tolerance = 1e-9

	// MaxReported is how many mismatches a Report keeps.
	MaxReported = 5
)

// Mismatch is one element of y that differed from the analytic value.
type Mismatch struct {
	Row  int
	Got  float64
	Want float64
}

// Report is the outcome of Verify.
type Report struct {
	N          int
	Workload   Workload
	Errors     int
	Mismatches []Mismatch // first MaxReported mismatches, in row order
}

// OK reports whether every element matched.
func (r Report) OK() bool { return r.Errors == 0 }

// Err returns nil when r is OK, and an error wrapping ErrVerify otherwise.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("%w: %d out of %d elements are incorrect (%s)", ErrVerify, r.Errors, r.N, r.Workload)
}

// Verify checks y against the product of an all-ones matrix and an all-ones
// vector under workload w: y[i] == w.Expected(i, n) for every i in [0, n).
// An empty y trivially passes.
func Verify(y []float64, w Workload, n int) Report {
	r := Report{N: n, Workload: w}
	have := min(len(y), n)
	for i := range have {
		want := w.Expected(i, n)
		if math.IsNaN(y[i]) || math.Abs(y[i]-want) > Tolerance {
			r.add(i, y[i], want)
		}
	}
	// Rows the strategy never delivered count against their expected value.
	for i := have; i < n; i++ {
		r.add(i, math.NaN(), w.Expected(i, n))
	}
	return r
}

func (r *Report) add(row int, got, want float64) {
	r.Errors++
	if len(r.Mismatches) < MaxReported {
		r.Mismatches = append(r.Mismatches, Mismatch{Row: row, Got: got, Want: want})
	}
}
