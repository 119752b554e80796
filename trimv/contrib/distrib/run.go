// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package distrib

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/ajroetker/go-trimv/trimv"
	"github.com/ajroetker/go-trimv/trimv/contrib/bench"
	"github.com/ajroetker/go-trimv/trimv/contrib/mp"
)

// Point-to-point tags used by the cyclic distribution.
const (
	tagRowCount = iota + 1
	tagRowData
	tagResultRows
	tagResultValues
)

// Config describes one distributed benchmark. Every rank must run with the
// same Config.
type Config struct {
	N        int
	Strategy Strategy
	Workload trimv.Workload
	Bench    bench.Config
}

// Result is what one rank ends up with.
type Result struct {
	// Rows are the global rows this rank computed.
	Rows []int

	// Local summarizes this rank's own compute time per trial.
	Local bench.Stats

	// Root-only fields.

	// Y is the gathered result vector.
	Y []float64

	// Stats summarizes the per-trial maximum over ranks.
	Stats bench.Stats
}

// Run executes the distributed product on rank c.Rank(). All ranks of the
// communicator must call Run together. Any communication error aborts the
// run and is returned.
func Run(ctx context.Context, c mp.Comm, cfg Config) (*Result, error) {
	n, p, rank := cfg.N, c.Size(), c.Rank()
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", trimv.ErrBadSize, n)
	}
	isRoot := rank == mp.Root

	var full *trimv.Matrix
	x := make([]float64, n)
	if isRoot {
		var err error
		if full, err = trimv.NewOnes(n); err != nil {
			return nil, err
		}
		copy(x, trimv.NewVectorOnes(n))
	}
	if err := mp.Bcast(ctx, c, mp.Root, x); err != nil {
		return nil, err
	}

	rows := Rows(cfg.Strategy, n, p, rank)
	local := make([]float64, len(rows)*n)
	var err error
	switch cfg.Strategy {
	case Cyclic:
		err = scatterCyclic(ctx, c, full, n, rows, local)
	default:
		err = scatterContiguous(ctx, c, full, n, local)
	}
	if err != nil {
		return nil, err
	}
	klog.V(1).Infof("distrib: rank %d/%d owns %d rows (%s)", rank, p, len(rows), cfg.Strategy)

	a, err := trimv.FromRows(local, len(rows), n)
	if err != nil {
		return nil, err
	}
	yLocal := make([]float64, len(rows))
	compute := func() {
		for idx, g := range rows {
			yLocal[idx] = trimv.RowDot(a.Row(idx), x, cfg.Workload.Cols(g, n))
		}
	}

	var localTimes []time.Duration
	trial := func() (time.Duration, error) {
		if err := mp.Barrier(ctx, c); err != nil {
			return 0, err
		}
		start := time.Now()
		compute()
		elapsed := time.Since(start)
		localTimes = append(localTimes, elapsed)

		slowest, err := mp.ReduceMax(ctx, c, mp.Root, float64(elapsed))
		return time.Duration(slowest), err
	}
	stats, err := bench.MeasureReported(cfg.Bench, trial)
	if err != nil {
		return nil, err
	}

	res := &Result{Rows: rows, Local: bench.Summarize(localTimes[cfg.Bench.Warmup:])}
	if isRoot {
		res.Stats = stats
		res.Y = make([]float64, n)
	}
	switch cfg.Strategy {
	case Cyclic:
		err = gatherCyclic(ctx, c, rows, yLocal, res.Y)
	default:
		counts, displs := ContiguousTable(n, p)
		err = mp.Gatherv(ctx, c, mp.Root, yLocal, res.Y, counts, displs)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// scatterContiguous delivers each rank's row block with one Scatterv.
func scatterContiguous(ctx context.Context, c mp.Comm, full *trimv.Matrix, n int, local []float64) error {
	var send []float64
	var counts, displs []int
	if c.Rank() == mp.Root {
		send = full.Data()
		counts, displs = ContiguousTable(n, c.Size())
		for k := range counts {
			counts[k] *= n
			displs[k] *= n
		}
	}
	return mp.Scatterv(ctx, c, mp.Root, send, counts, displs, local)
}

// scatterCyclic packs each rank's rows into a contiguous buffer on root and
// sends them one destination after another: first the row count, then the
// packed rows.
func scatterCyclic(ctx context.Context, c mp.Comm, full *trimv.Matrix, n int, rows []int, local []float64) error {
	if c.Rank() != mp.Root {
		msg, err := c.Recv(ctx, mp.Root, tagRowCount)
		if err != nil {
			return fmt.Errorf("distrib: receive row count: %w", err)
		}
		if len(msg.Ints) != 1 || msg.Ints[0] != len(rows) {
			return fmt.Errorf("%w: rank %d expected %d rows, root announced %v",
				mp.ErrLength, c.Rank(), len(rows), msg.Ints)
		}
		msg, err = c.Recv(ctx, mp.Root, tagRowData)
		if err != nil {
			return fmt.Errorf("distrib: receive rows: %w", err)
		}
		if len(msg.Floats) != len(local) {
			return fmt.Errorf("%w: rank %d received %d values, want %d",
				mp.ErrLength, c.Rank(), len(msg.Floats), len(local))
		}
		copy(local, msg.Floats)
		return nil
	}

	pack := func(dst []float64, destRows []int) {
		for idx, g := range destRows {
			copy(dst[idx*n:(idx+1)*n], full.Row(g))
		}
	}
	pack(local, rows)
	for dest := 1; dest < c.Size(); dest++ {
		destRows := CyclicRows(n, c.Size(), dest)
		buf := make([]float64, len(destRows)*n)
		pack(buf, destRows)
		if err := c.Send(ctx, dest, mp.Message{Tag: tagRowCount, Ints: []int{len(destRows)}}); err != nil {
			return fmt.Errorf("distrib: send row count to %d: %w", dest, err)
		}
		if err := c.Send(ctx, dest, mp.Message{Tag: tagRowData, Floats: buf}); err != nil {
			return fmt.Errorf("distrib: send rows to %d: %w", dest, err)
		}
	}
	return nil
}

// gatherCyclic returns every rank's results to root together with their
// global row indices, which root has no other way to recover.
func gatherCyclic(ctx context.Context, c mp.Comm, rows []int, yLocal, y []float64) error {
	if c.Rank() != mp.Root {
		if err := c.Send(ctx, mp.Root, mp.Message{Tag: tagResultRows, Ints: rows}); err != nil {
			return fmt.Errorf("distrib: send result rows: %w", err)
		}
		if err := c.Send(ctx, mp.Root, mp.Message{Tag: tagResultValues, Floats: yLocal}); err != nil {
			return fmt.Errorf("distrib: send results: %w", err)
		}
		return nil
	}

	for idx, g := range rows {
		y[g] = yLocal[idx]
	}
	for src := 1; src < c.Size(); src++ {
		idxMsg, err := c.Recv(ctx, src, tagResultRows)
		if err != nil {
			return fmt.Errorf("distrib: receive result rows from %d: %w", src, err)
		}
		valMsg, err := c.Recv(ctx, src, tagResultValues)
		if err != nil {
			return fmt.Errorf("distrib: receive results from %d: %w", src, err)
		}
		if len(idxMsg.Ints) != len(valMsg.Floats) {
			return fmt.Errorf("%w: rank %d sent %d rows but %d values",
				mp.ErrLength, src, len(idxMsg.Ints), len(valMsg.Floats))
		}
		for i, g := range idxMsg.Ints {
			if g < 0 || g >= len(y) {
				return fmt.Errorf("%w: rank %d returned row %d of %d", mp.ErrLength, src, g, len(y))
			}
			y[g] = valMsg.Floats[i]
		}
	}
	return nil
}

// RunLocal runs a world of p ranks inside this process, one goroutine per
// rank, and returns every rank's Result indexed by rank. The first failing
// rank cancels the others.
func RunLocal(ctx context.Context, p int, cfg Config) ([]*Result, error) {
	if p <= 0 {
		return nil, fmt.Errorf("%w: %d", trimv.ErrBadWorkers, p)
	}
	world, err := mp.NewLocalWorld(p)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, c := range world {
			c.Close()
		}
	}()

	results := make([]*Result, p)
	g, gctx := errgroup.WithContext(ctx)
	for rank, c := range world {
		g.Go(func() error {
			res, err := Run(gctx, c, cfg)
			if err != nil {
				return fmt.Errorf("rank %d: %w", rank, err)
			}
			results[rank] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
