// Copyright 2025 The go-trimv Authors. SPDX-License-Identifier: Apache-2.0

package mp

import (
	"bufio"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"k8s.io/klog/v2"
)

// hello is the first frame a worker sends after dialing the coordinator.
type hello struct {
	Rank int
	Size int
}

// envelope is the wire form of a Message.
type envelope struct {
	Src    int
	Tag    int
	Ints   []int
	Floats []float64
}

// peer is one TCP connection and its gob streams. The encoder and decoder
// live as long as the connection: gob streams carry type information once
// and must not be recreated per frame.
type peer struct {
	rank int
	conn net.Conn

	mu  sync.Mutex // guards w, enc and the write deadline
	w   *bufio.Writer
	enc *gob.Encoder
	dec *gob.Decoder
}

func newPeer(conn net.Conn) *peer {
	w := bufio.NewWriter(conn)
	return &peer{
		conn: conn,
		w:    w,
		enc:  gob.NewEncoder(w),
		dec:  gob.NewDecoder(bufio.NewReader(conn)),
	}
}

// write encodes v and flushes it. The connection's write deadline is set
// from ctx for this frame only; a ctx without a deadline clears it.
func (p *peer) write(ctx context.Context, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	deadline, _ := ctx.Deadline()
	if err := p.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	if err := p.enc.Encode(v); err != nil {
		return err
	}
	return p.w.Flush()
}

// TCPComm is a rank connected to its group over TCP. The coordinator holds a
// connection to every worker; a worker holds a single connection to the
// coordinator.
type TCPComm struct {
	rank, size int
	box        *mailbox
	peers      map[int]*peer

	closing   atomic.Bool
	closeOnce sync.Once
	readers   sync.WaitGroup
}

var _ Comm = (*TCPComm)(nil)

// Listener accepts the workers of a group for the coordinator rank.
type Listener struct {
	ln   net.Listener
	size int
}

// Listen binds addr for a group of size ranks. Use ":0" to pick a free port
// and Addr to learn it.
func Listen(addr string, size int) (*Listener, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: group size %d", ErrBadRank, size)
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("mp: listen %s: %w", addr, err)
	}
	return &Listener{ln: ln, size: size}, nil
}

// Addr returns the bound address.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Close stops accepting. Accept closes the listener itself on return.
func (l *Listener) Close() error { return l.ln.Close() }

// Accept waits until every worker rank in [1, size) has connected and
// introduced itself, then returns the coordinator's endpoint (rank 0). The
// listener is closed when Accept returns.
func (l *Listener) Accept(ctx context.Context) (*TCPComm, error) {
	defer l.ln.Close()

	c := &TCPComm{rank: Root, size: l.size, box: newMailbox(), peers: make(map[int]*peer)}

	// Cancellation closes the listener and any connection still in its
	// handshake, which unblocks both Accept and Decode.
	var (
		mu       sync.Mutex
		inflight net.Conn
	)
	stop := context.AfterFunc(ctx, func() {
		l.ln.Close()
		mu.Lock()
		defer mu.Unlock()
		if inflight != nil {
			inflight.Close()
		}
	})
	defer stop()
	handshaking := func(conn net.Conn) {
		mu.Lock()
		inflight = conn
		mu.Unlock()
	}

	for len(c.peers) < l.size-1 {
		conn, err := l.ln.Accept()
		if err != nil {
			c.Close()
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("mp: accept: %w", err)
		}
		handshaking(conn)
		if ctx.Err() != nil {
			conn.Close()
			c.Close()
			return nil, ctx.Err()
		}
		p := newPeer(conn)
		var h hello
		err = p.dec.Decode(&h)
		handshaking(nil)
		if err != nil {
			conn.Close()
			c.Close()
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("mp: handshake from %s: %w", conn.RemoteAddr(), err)
		}
		if h.Size != l.size || h.Rank <= Root || h.Rank >= l.size {
			conn.Close()
			c.Close()
			return nil, fmt.Errorf("%w: peer %s claims rank %d of %d, group has %d",
				ErrBadRank, conn.RemoteAddr(), h.Rank, h.Size, l.size)
		}
		if _, dup := c.peers[h.Rank]; dup {
			conn.Close()
			c.Close()
			return nil, fmt.Errorf("%w: rank %d joined twice", ErrBadRank, h.Rank)
		}
		p.rank = h.Rank
		c.peers[h.Rank] = p
		klog.V(1).Infof("mp: rank %d joined from %s (%d/%d)", h.Rank, conn.RemoteAddr(), len(c.peers)+1, l.size)
	}

	if !stop() {
		// Cancelled after the last handshake; the closer may have raced it.
		c.Close()
		return nil, ctx.Err()
	}
	for _, p := range c.peers {
		c.startReader(p)
	}
	return c, nil
}

// Dial connects worker rank to the coordinator at addr.
func Dial(ctx context.Context, addr string, rank, size int) (*TCPComm, error) {
	if rank <= Root || rank >= size {
		return nil, fmt.Errorf("%w: worker rank %d of %d", ErrBadRank, rank, size)
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("mp: dial %s: %w", addr, err)
	}
	p := newPeer(conn)
	p.rank = Root
	if err := p.write(ctx, hello{Rank: rank, Size: size}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("mp: handshake to %s: %w", addr, err)
	}

	c := &TCPComm{rank: rank, size: size, box: newMailbox(), peers: map[int]*peer{Root: p}}
	c.startReader(p)
	return c, nil
}

func (c *TCPComm) startReader(p *peer) {
	c.readers.Add(1)
	go func() {
		defer c.readers.Done()
		for {
			var env envelope
			if err := p.dec.Decode(&env); err != nil {
				if c.closing.Load() {
					err = ErrClosed
				} else if errors.Is(err, io.EOF) {
					err = fmt.Errorf("mp: rank %d disconnected: %w", p.rank, io.ErrUnexpectedEOF)
				} else {
					err = fmt.Errorf("mp: read from rank %d: %w", p.rank, err)
				}
				c.box.fail(p.rank, err)
				return
			}
			msg := Message{Tag: env.Tag, Ints: env.Ints, Floats: env.Floats}
			if err := c.box.deliver(p.rank, msg); err != nil {
				return
			}
		}
	}()
}

// Rank returns this endpoint's rank.
func (c *TCPComm) Rank() int { return c.rank }

// Size returns the group size.
func (c *TCPComm) Size() int { return c.size }

// Send writes msg to dest. It returns once the frame is handed to the
// kernel, not when dest has read it.
func (c *TCPComm) Send(ctx context.Context, dest int, msg Message) error {
	if err := checkRank(c, dest); err != nil {
		return err
	}
	if c.closing.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if dest == c.rank {
		return c.box.deliver(c.rank, cloneMessage(msg))
	}
	p, ok := c.peers[dest]
	if !ok {
		return fmt.Errorf("%w: %d->%d", ErrNoRoute, c.rank, dest)
	}
	env := envelope{Src: c.rank, Tag: msg.Tag, Ints: msg.Ints, Floats: msg.Floats}
	if err := p.write(ctx, &env); err != nil {
		return fmt.Errorf("mp: send %d->%d: %w", c.rank, dest, err)
	}
	return nil
}

// Recv blocks until a message with tag arrives from src.
func (c *TCPComm) Recv(ctx context.Context, src, tag int) (Message, error) {
	if err := checkRank(c, src); err != nil {
		return Message{}, err
	}
	if _, ok := c.peers[src]; !ok && src != c.rank {
		return Message{}, fmt.Errorf("%w: %d->%d", ErrNoRoute, src, c.rank)
	}
	return c.box.take(ctx, src, tag)
}

// Close closes every connection and waits for the reader goroutines.
func (c *TCPComm) Close() error {
	var errs []error
	c.closeOnce.Do(func() {
		c.closing.Store(true)
		for _, p := range c.peers {
			if err := p.conn.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		c.readers.Wait()
		c.box.close()
	})
	return errors.Join(errs...)
}
