// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package mp

import (
	"context"
	"errors"
	"fmt"
)

// Root is the coordinator rank: it owns the full problem and is the hub of
// the TCP topology.
const Root = 0

var (
	// ErrClosed is returned by operations on a closed communicator.
	ErrClosed = errors.New("mp: communicator closed")

	// ErrBadRank is returned when a rank argument is outside [0, Size).
	ErrBadRank = errors.New("mp: rank out of range")

	// ErrNoRoute is returned by transports that cannot reach a destination.
	ErrNoRoute = errors.New("mp: no route between ranks")

	// ErrLength is returned when a message does not carry the number of
	// elements the receiver expected.
	ErrLength = errors.New("mp: message length mismatch")
)

// Message is the unit of point-to-point transfer. Tags >= 0 are free for
// callers; negative tags are reserved for the collectives in this package.
type Message struct {
	Tag    int
	Ints   []int
	Floats []float64
}

// Comm is one rank's endpoint into a communicator group.
//
// Recv returns messages from a given source with a given tag in the order
// they were sent; messages with other tags or sources are buffered until
// asked for.
type Comm interface {
	// Rank returns this endpoint's rank in [0, Size).
	Rank() int

	// Size returns the number of ranks in the group.
	Size() int

	// Send delivers msg to rank dest. It may return before dest receives it.
	Send(ctx context.Context, dest int, msg Message) error

	// Recv blocks until a message with the given tag arrives from src.
	Recv(ctx context.Context, src, tag int) (Message, error)

	// Close releases the endpoint. Pending Recv calls return ErrClosed.
	Close() error
}

func checkRank(c Comm, r int) error {
	if r < 0 || r >= c.Size() {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrBadRank, r, c.Size())
	}
	return nil
}

func cloneMessage(msg Message) Message {
	out := Message{Tag: msg.Tag}
	if msg.Ints != nil {
		out.Ints = append([]int(nil), msg.Ints...)
	}
	if msg.Floats != nil {
		out.Floats = append([]float64(nil), msg.Floats...)
	}
	return out
}
