// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"errors"
	"fmt"

	"github.com/ajroetker/go-trimv/trimv"
	"github.com/ajroetker/go-trimv/trimv/contrib/workerpool"
)

var (
	// ErrUnknownSchedule is returned by ParseSchedule for an unrecognized policy.
	ErrUnknownSchedule = errors.New("parallel: unknown schedule")

	// ErrBadChunk is returned by ParseSchedule for a non-positive chunk size
	// where the policy uses one.
	ErrBadChunk = errors.New("parallel: chunk size must be positive")
)

// Policy is the loop scheduling policy.
type Policy int

const (
	// Static cuts the rows into one contiguous near-equal chunk per worker
	// before the loop starts. Cheapest dispatch; for a triangular workload
	// the last chunk carries most of the work.
	Static Policy = iota

	// Dynamic hands out Chunk rows at a time to whichever worker is idle.
	Dynamic

	// Guided hands out chunks of ceil(remaining/workers) rows, never fewer
	// than Chunk, so claims shrink as the loop drains.
	Guided
)

// String returns the policy name accepted by ParseSchedule.
func (p Policy) String() string {
	switch p {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	case Guided:
		return "guided"
	default:
		return "unknown"
	}
}

// Schedule is a policy plus its chunk size. Chunk is ignored by Static and is
// the minimum claim for Guided.
type Schedule struct {
	Policy Policy
	Chunk  int
}

// String returns the policy name.
func (s Schedule) String() string { return s.Policy.String() }

// ParseSchedule builds a Schedule from a policy name and a chunk size.
func ParseSchedule(name string, chunk int) (Schedule, error) {
	var p Policy
	switch name {
	case "static", "":
		p = Static
	case "dynamic":
		p = Dynamic
	case "guided":
		p = Guided
	default:
		return Schedule{}, fmt.Errorf("%w: %q (want static, dynamic or guided)", ErrUnknownSchedule, name)
	}
	if p != Static && chunk <= 0 {
		return Schedule{}, fmt.Errorf("%w: %s chunk %d", ErrBadChunk, p, chunk)
	}
	return Schedule{Policy: p, Chunk: chunk}, nil
}

// Loop is a parallel-for runner backed by a persistent team of workers, the
// way a loop-directive runtime keeps its thread team alive between loops.
type Loop struct {
	pool *workerpool.Pool
}

// NewLoop starts a team of `workers` goroutines.
func NewLoop(workers int) (*Loop, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("%w: %d", trimv.ErrBadWorkers, workers)
	}
	return &Loop{pool: workerpool.New(workers)}, nil
}

// Workers returns the team size.
func (l *Loop) Workers() int { return l.pool.NumWorkers() }

// Close stops the team. Loops run after Close execute sequentially.
func (l *Loop) Close() { l.pool.Close() }

// Run calls k for every row in [0, n) under schedule s and returns once all
// rows are done (the implicit barrier at loop exit).
func (l *Loop) Run(s Schedule, n int, k RowKernel) {
	body := func(start, end int) {
		for i := start; i < end; i++ {
			k(i)
		}
	}
	switch s.Policy {
	case Dynamic:
		l.pool.ParallelForAtomicBatched(n, s.Chunk, body)
	case Guided:
		l.pool.ParallelForGuided(n, s.Chunk, body)
	default:
		l.pool.ParallelFor(n, body)
	}
}

// MatVec computes y = A*x under schedule s.
func (l *Loop) MatVec(s Schedule, m *trimv.Matrix, x, y []float64, w trimv.Workload) {
	l.Run(s, m.N(), Rows(m, x, y, w))
}
