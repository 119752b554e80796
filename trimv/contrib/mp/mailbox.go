// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package mp

import (
	"context"
	"sync"
)

type mailKey struct {
	src, tag int
}

// mailbox buffers inbound messages per (source, tag) in arrival order.
type mailbox struct {
	mu     sync.Mutex
	queues map[mailKey][]Message
	failed map[int]error // per source; reported once its queue drains
	closed bool

	// wake is closed and replaced on every state change so that waiters can
	// select on it together with their context.
	wake chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{
		queues: make(map[mailKey][]Message),
		failed: make(map[int]error),
		wake:   make(chan struct{}),
	}
}

func (b *mailbox) lockedNotify() {
	close(b.wake)
	b.wake = make(chan struct{})
}

func (b *mailbox) deliver(src int, msg Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	k := mailKey{src: src, tag: msg.Tag}
	b.queues[k] = append(b.queues[k], msg)
	b.lockedNotify()
	return nil
}

// fail marks src as unreachable. Messages already queued from src stay
// readable.
func (b *mailbox) fail(src int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.failed[src]; !ok {
		b.failed[src] = err
	}
	b.lockedNotify()
}

func (b *mailbox) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.lockedNotify()
}

func (b *mailbox) take(ctx context.Context, src, tag int) (Message, error) {
	k := mailKey{src: src, tag: tag}
	for {
		b.mu.Lock()
		if q := b.queues[k]; len(q) > 0 {
			msg := q[0]
			if len(q) == 1 {
				delete(b.queues, k)
			} else {
				b.queues[k] = q[1:]
			}
			b.mu.Unlock()
			return msg, nil
		}
		if b.closed {
			b.mu.Unlock()
			return Message{}, ErrClosed
		}
		if err, ok := b.failed[src]; ok {
			b.mu.Unlock()
			return Message{}, err
		}
		wake := b.wake
		b.mu.Unlock()

		select {
		case <-wake:
		case <-ctx.Done():
			return Message{}, ctx.Err()
		}
	}
}
