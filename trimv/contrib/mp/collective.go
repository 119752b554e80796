// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package mp

import (
	"context"
	"fmt"

	"github.com/samber/lo"
)

// Reserved tags. Each collective uses its own tag so that a rank running
// ahead into the next collective cannot have its messages consumed by the
// previous one.
const (
	tagBcast = -1 - iota
	tagScatter
	tagGather
	tagBarrierIn
	tagBarrierOut
	tagReduce
)

// Bcast copies buf on root into buf on every other rank. Every rank must
// pass a buffer of the same length.
func Bcast(ctx context.Context, c Comm, root int, buf []float64) error {
	if err := checkRank(c, root); err != nil {
		return err
	}
	if c.Rank() == root {
		for dest := range c.Size() {
			if dest == root {
				continue
			}
			if err := c.Send(ctx, dest, Message{Tag: tagBcast, Floats: buf}); err != nil {
				return fmt.Errorf("mp: bcast: %w", err)
			}
		}
		return nil
	}
	msg, err := c.Recv(ctx, root, tagBcast)
	if err != nil {
		return fmt.Errorf("mp: bcast: %w", err)
	}
	return copyExact(buf, msg.Floats, "bcast")
}

// Scatterv sends send[displs[r] : displs[r]+counts[r]] from root to rank r,
// which receives it into recv. counts and displs are only read on root;
// every rank's recv must have exactly its count of elements.
func Scatterv(ctx context.Context, c Comm, root int, send []float64, counts, displs []int, recv []float64) error {
	if err := checkRank(c, root); err != nil {
		return err
	}
	if c.Rank() != root {
		msg, err := c.Recv(ctx, root, tagScatter)
		if err != nil {
			return fmt.Errorf("mp: scatterv: %w", err)
		}
		return copyExact(recv, msg.Floats, "scatterv")
	}

	if len(counts) != c.Size() || len(displs) != c.Size() {
		return fmt.Errorf("%w: scatterv table has %d counts and %d displacements for %d ranks",
			ErrLength, len(counts), len(displs), c.Size())
	}
	for dest := range c.Size() {
		from, to := displs[dest], displs[dest]+counts[dest]
		if from < 0 || to > len(send) || from > to {
			return fmt.Errorf("%w: scatterv segment [%d,%d) for rank %d outside buffer of %d",
				ErrLength, from, to, dest, len(send))
		}
		seg := send[from:to]
		if dest == root {
			if err := copyExact(recv, seg, "scatterv"); err != nil {
				return err
			}
			continue
		}
		if err := c.Send(ctx, dest, Message{Tag: tagScatter, Floats: seg}); err != nil {
			return fmt.Errorf("mp: scatterv: %w", err)
		}
	}
	return nil
}

// Gatherv is the inverse of Scatterv: rank r's send lands in
// recv[displs[r] : displs[r]+counts[r]] on root. recv, counts and displs are
// only read on root.
func Gatherv(ctx context.Context, c Comm, root int, send []float64, recv []float64, counts, displs []int) error {
	if err := checkRank(c, root); err != nil {
		return err
	}
	if c.Rank() != root {
		if err := c.Send(ctx, root, Message{Tag: tagGather, Floats: send}); err != nil {
			return fmt.Errorf("mp: gatherv: %w", err)
		}
		return nil
	}

	if len(counts) != c.Size() || len(displs) != c.Size() {
		return fmt.Errorf("%w: gatherv table has %d counts and %d displacements for %d ranks",
			ErrLength, len(counts), len(displs), c.Size())
	}
	for src := range c.Size() {
		from, to := displs[src], displs[src]+counts[src]
		if from < 0 || to > len(recv) || from > to {
			return fmt.Errorf("%w: gatherv segment [%d,%d) for rank %d outside buffer of %d",
				ErrLength, from, to, src, len(recv))
		}
		part := send
		if src != root {
			msg, err := c.Recv(ctx, src, tagGather)
			if err != nil {
				return fmt.Errorf("mp: gatherv: %w", err)
			}
			part = msg.Floats
		}
		if err := copyExact(recv[from:to], part, "gatherv"); err != nil {
			return fmt.Errorf("rank %d: %w", src, err)
		}
	}
	return nil
}

// Barrier returns on each rank only after every rank has entered it.
// Ranks check in with Root, which releases them once all have arrived.
func Barrier(ctx context.Context, c Comm) error {
	if c.Size() == 1 {
		return nil
	}
	if c.Rank() != Root {
		if err := c.Send(ctx, Root, Message{Tag: tagBarrierIn}); err != nil {
			return fmt.Errorf("mp: barrier: %w", err)
		}
		if _, err := c.Recv(ctx, Root, tagBarrierOut); err != nil {
			return fmt.Errorf("mp: barrier: %w", err)
		}
		return nil
	}
	for src := 1; src < c.Size(); src++ {
		if _, err := c.Recv(ctx, src, tagBarrierIn); err != nil {
			return fmt.Errorf("mp: barrier: %w", err)
		}
	}
	for dest := 1; dest < c.Size(); dest++ {
		if err := c.Send(ctx, dest, Message{Tag: tagBarrierOut}); err != nil {
			return fmt.Errorf("mp: barrier: %w", err)
		}
	}
	return nil
}

// ReduceMax returns the maximum of v over all ranks on root. Other ranks get
// their own v back.
func ReduceMax(ctx context.Context, c Comm, root int, v float64) (float64, error) {
	if err := checkRank(c, root); err != nil {
		return 0, err
	}
	if c.Rank() != root {
		if err := c.Send(ctx, root, Message{Tag: tagReduce, Floats: []float64{v}}); err != nil {
			return 0, fmt.Errorf("mp: reduce: %w", err)
		}
		return v, nil
	}
	values := make([]float64, 0, c.Size())
	values = append(values, v)
	for src := range c.Size() {
		if src == root {
			continue
		}
		msg, err := c.Recv(ctx, src, tagReduce)
		if err != nil {
			return 0, fmt.Errorf("mp: reduce: %w", err)
		}
		if len(msg.Floats) != 1 {
			return 0, fmt.Errorf("%w: reduce from rank %d carried %d values", ErrLength, src, len(msg.Floats))
		}
		values = append(values, msg.Floats[0])
	}
	return lo.Max(values), nil
}

func copyExact(dst, src []float64, op string) error {
	if len(dst) != len(src) {
		return fmt.Errorf("%w: %s received %d values, want %d", ErrLength, op, len(src), len(dst))
	}
	copy(dst, src)
	return nil
}
