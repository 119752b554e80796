// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package mp

import (
	"context"
	"fmt"
)

// localComm is a rank of an in-process world.
type localComm struct {
	rank  int
	boxes []*mailbox
}

// NewLocalWorld returns size connected endpoints whose ranks equal their
// index. Every rank can reach every other rank.
func NewLocalWorld(size int) ([]Comm, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: world size %d", ErrBadRank, size)
	}
	boxes := make([]*mailbox, size)
	for i := range boxes {
		boxes[i] = newMailbox()
	}
	world := make([]Comm, size)
	for r := range world {
		world[r] = &localComm{rank: r, boxes: boxes}
	}
	return world, nil
}

func (c *localComm) Rank() int { return c.rank }

func (c *localComm) Size() int { return len(c.boxes) }

func (c *localComm) Send(ctx context.Context, dest int, msg Message) error {
	if err := checkRank(c, dest); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.boxes[dest].deliver(c.rank, cloneMessage(msg)); err != nil {
		return fmt.Errorf("mp: send %d->%d: %w", c.rank, dest, err)
	}
	return nil
}

func (c *localComm) Recv(ctx context.Context, src, tag int) (Message, error) {
	if err := checkRank(c, src); err != nil {
		return Message{}, err
	}
	return c.boxes[c.rank].take(ctx, src, tag)
}

func (c *localComm) Close() error {
	c.boxes[c.rank].close()
	return nil
}
