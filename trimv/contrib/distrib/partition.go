// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package distrib

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// ErrUnknownStrategy is returned by ParseStrategy for an unrecognized name.
var ErrUnknownStrategy = errors.New("distrib: unknown strategy")

// Strategy is the row distribution policy.
type Strategy int

const (
	// Contiguous gives each rank one unbroken block of rows.
	Contiguous Strategy = iota

	// Cyclic deals rows round-robin: row i goes to rank i mod P.
	Cyclic
)

// String returns the strategy name accepted by ParseStrategy.
func (s Strategy) String() string {
	switch s {
	case Contiguous:
		return "contiguous"
	case Cyclic:
		return "cyclic"
	default:
		return "unknown"
	}
}

// ParseStrategy maps a strategy name to its Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "contiguous", "":
		return Contiguous, nil
	case "cyclic":
		return Cyclic, nil
	}
	return 0, fmt.Errorf("%w: %q (want contiguous or cyclic)", ErrUnknownStrategy, name)
}

// BlockSize returns ceil(n/p), the contiguous block length.
func BlockSize(n, p int) int {
	return (n + p - 1) / p
}

// ContiguousRange returns rank k's rows [start, end) under Contiguous. Ranks
// past the end of the matrix get an empty range at n.
func ContiguousRange(n, p, k int) (start, end int) {
	b := BlockSize(n, p)
	return min(k*b, n), min((k+1)*b, n)
}

// ContiguousTable returns the per-rank row counts and first-row offsets for
// Contiguous, the tables Scatterv and Gatherv consume. Multiply by n for
// element counts into the flat matrix.
func ContiguousTable(n, p int) (counts, displs []int) {
	counts = make([]int, p)
	displs = make([]int, p)
	for k := range p {
		start, end := ContiguousRange(n, p, k)
		counts[k] = end - start
		displs[k] = start
	}
	return counts, displs
}

// CyclicRows returns rank k's rows {k, k+p, k+2p, ...} ∩ [0, n).
func CyclicRows(n, p, k int) []int {
	return lo.RangeWithSteps(k, n, p)
}

// Rows returns the global rows rank k of p owns under s, in increasing order.
func Rows(s Strategy, n, p, k int) []int {
	if s == Cyclic {
		return CyclicRows(n, p, k)
	}
	start, end := ContiguousRange(n, p, k)
	return lo.RangeFrom(start, end-start)
}
