// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package mp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailboxMatchesSourceAndTag(t *testing.T) {
	b := newMailbox()
	ctx := context.Background()
	require.NoError(t, b.deliver(1, Message{Tag: 7, Ints: []int{1}}))
	require.NoError(t, b.deliver(2, Message{Tag: 7, Ints: []int{2}}))
	require.NoError(t, b.deliver(1, Message{Tag: 3, Ints: []int{3}}))
	require.NoError(t, b.deliver(1, Message{Tag: 7, Ints: []int{4}}))

	got, err := b.take(ctx, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, got.Ints)

	got, err = b.take(ctx, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got.Ints, "FIFO per (source, tag)")

	got, err = b.take(ctx, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, got.Ints)

	got, err = b.take(ctx, 2, 7)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, got.Ints)
}

func TestMailboxBlocksUntilDelivery(t *testing.T) {
	b := newMailbox()
	done := make(chan Message)
	go func() {
		msg, err := b.take(context.Background(), 0, 1)
		if err == nil {
			done <- msg
		}
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, b.deliver(0, Message{Tag: 1, Floats: []float64{2.5}}))

	select {
	case msg := <-done:
		assert.Equal(t, []float64{2.5}, msg.Floats)
	case <-time.After(5 * time.Second):
		t.Fatal("take did not wake up")
	}
}

func TestMailboxContextCancel(t *testing.T) {
	b := newMailbox()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := b.take(ctx, 0, 0)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMailboxFailDrainsQueueFirst(t *testing.T) {
	b := newMailbox()
	boom := errors.New("boom")
	require.NoError(t, b.deliver(3, Message{Tag: 0, Ints: []int{9}}))
	b.fail(3, boom)

	msg, err := b.take(context.Background(), 3, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{9}, msg.Ints)

	_, err = b.take(context.Background(), 3, 0)
	require.ErrorIs(t, err, boom)

	// Other sources are unaffected.
	require.NoError(t, b.deliver(4, Message{Tag: 0}))
	_, err = b.take(context.Background(), 4, 0)
	require.NoError(t, err)
}

func TestMailboxClose(t *testing.T) {
	b := newMailbox()
	b.close()
	b.close()

	_, err := b.take(context.Background(), 0, 0)
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, b.deliver(0, Message{}), ErrClosed)
}
