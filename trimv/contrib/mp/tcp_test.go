// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package mp

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// tcpWorld connects size ranks over loopback and returns them ordered by rank.
func tcpWorld(t *testing.T, size int) []Comm {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	l, err := Listen("127.0.0.1:0", size)
	require.NoError(t, err)
	addr := l.Addr().String()

	world := make([]Comm, size)
	var g errgroup.Group
	g.Go(func() error {
		c, err := l.Accept(ctx)
		if err == nil {
			world[Root] = c
		}
		return err
	})
	for r := 1; r < size; r++ {
		g.Go(func() error {
			c, err := Dial(ctx, addr, r, size)
			if err == nil {
				world[r] = c
			}
			return err
		})
	}
	require.NoError(t, g.Wait())
	t.Cleanup(func() {
		for _, c := range world {
			c.Close()
		}
	})
	return world
}

func TestTCPCollectives(t *testing.T) {
	for _, size := range []int{1, 2, 4} {
		t.Run(fmt.Sprintf("P%d", size), func(t *testing.T) {
			collectiveSuite(t, tcpWorld(t, size))
		})
	}
}

func TestTCPPointToPoint(t *testing.T) {
	world := tcpWorld(t, 3)
	ctx := context.Background()

	require.NoError(t, world[2].Send(ctx, Root, Message{Tag: 5, Ints: []int{2, 4}, Floats: []float64{0.5}}))
	require.NoError(t, world[1].Send(ctx, Root, Message{Tag: 5, Ints: []int{1}}))

	// Receiving from rank 1 first must not consume rank 2's message.
	msg, err := world[Root].Recv(ctx, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, msg.Ints)
	msg, err = world[Root].Recv(ctx, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, msg.Ints)
	assert.Equal(t, []float64{0.5}, msg.Floats)

	// Self-send is delivered locally.
	require.NoError(t, world[1].Send(ctx, 1, Message{Tag: 0, Ints: []int{7}}))
	msg, err = world[1].Recv(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, msg.Ints)
}

func TestTCPNoRouteBetweenWorkers(t *testing.T) {
	world := tcpWorld(t, 3)
	err := world[1].Send(context.Background(), 2, Message{})
	require.ErrorIs(t, err, ErrNoRoute)
	_, err = world[1].Recv(context.Background(), 2, 0)
	require.ErrorIs(t, err, ErrNoRoute)
}

func TestTCPPeerDisconnectFailsRecv(t *testing.T) {
	world := tcpWorld(t, 2)
	require.NoError(t, world[1].Close())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := world[Root].Recv(ctx, 1, 0)
	require.Error(t, err)
	assert.NotErrorIs(t, err, context.DeadlineExceeded, "a lost peer must fail Recv, not hang it")
}

func TestTCPClosedComm(t *testing.T) {
	world := tcpWorld(t, 2)
	require.NoError(t, world[Root].Close())
	require.NoError(t, world[Root].Close())

	require.ErrorIs(t, world[Root].Send(context.Background(), 1, Message{}), ErrClosed)
	_, err := world[Root].Recv(context.Background(), 1, 0)
	require.ErrorIs(t, err, ErrClosed)
}

func TestTCPRejectsBadRankClaim(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	l, err := Listen("127.0.0.1:0", 2)
	require.NoError(t, err)

	errc := make(chan error, 1)
	go func() {
		c, err := l.Accept(ctx)
		if c != nil {
			c.Close()
		}
		errc <- err
	}()

	// Group size disagrees with the coordinator's.
	c, err := Dial(ctx, l.Addr().String(), 1, 3)
	require.NoError(t, err)
	defer c.Close()

	require.ErrorIs(t, <-errc, ErrBadRank)
}

func TestDialRejectsRootRank(t *testing.T) {
	_, err := Dial(context.Background(), "127.0.0.1:1", Root, 2)
	require.ErrorIs(t, err, ErrBadRank)
}

func TestAcceptHonoursContext(t *testing.T) {
	l, err := Listen("127.0.0.1:0", 2)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = l.Accept(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTCPSendDeadlineDoesNotOutliveItsContext(t *testing.T) {
	world := tcpWorld(t, 2)

	short, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, world[Root].Send(short, 1, Message{Tag: 1, Ints: []int{1}}))

	// The first deadline has passed; a Send without one must still go out.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, world[Root].Send(context.Background(), 1, Message{Tag: 2, Ints: []int{2}}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for tag := 1; tag <= 2; tag++ {
		msg, err := world[1].Recv(ctx, Root, tag)
		require.NoError(t, err)
		assert.Equal(t, []int{tag}, msg.Ints)
	}
}

func TestAcceptCancelledDuringHandshake(t *testing.T) {
	l, err := Listen("127.0.0.1:0", 2)
	require.NoError(t, err)

	// Connects but never introduces itself.
	silent, err := net.Dial("tcp", l.Addr().String())
	require.NoError(t, err)
	defer silent.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		c, err := l.Accept(ctx)
		if c != nil {
			c.Close()
		}
		errc <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-errc:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Accept still blocked after cancellation")
	}
}
