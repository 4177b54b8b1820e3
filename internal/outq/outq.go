// Package outq is the connection's single outbound-frame multiplexer: every
// channel (and the connection itself, for heartbeats and connection-level
// methods sent after the handshake)
// pushes frames.Frame values into one Writer, and exactly one goroutine —
// the connection's writer loop — drains it and puts bytes on the wire. This
// keeps writes to the underlying net.Conn single-threaded without requiring
// every caller to take a connection-wide lock for the full marshal+write.
package outq

import (
	"sync"

	"github.com/timrosenblatt/amqp091/internal/frames"
	"github.com/timrosenblatt/amqp091/internal/queue"
)

const segmentSize = 32

// Writer is a FIFO of pending outbound frames plus a wakeup signal for the
// single consumer goroutine that drains it.
type Writer struct {
	mu   sync.Mutex
	q    *queue.Queue[frames.Frame]
	wake chan struct{}
	// closed is set once Close has run; further Push calls are dropped so a
	// channel racing its own close doesn't block forever on a full wake chan
	// nobody will ever drain again.
	closed bool
}

// New returns an empty Writer.
func New() *Writer {
	return &Writer{
		q:    queue.New[frames.Frame](segmentSize),
		wake: make(chan struct{}, 1),
	}
}

// Push enqueues f and signals the consumer. It never blocks.
func (w *Writer) Push(f frames.Frame) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.q.Enqueue(f)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Wake is signaled at least once after every Push; the consumer should drain
// with Pop until it returns false before waiting on Wake again, since a
// single signal may correspond to several enqueued frames.
func (w *Writer) Wake() <-chan struct{} {
	return w.wake
}

// Pop removes and returns the oldest pending frame, or false if empty.
func (w *Writer) Pop() (frames.Frame, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	item := w.q.Dequeue()
	if item == nil {
		return frames.Frame{}, false
	}
	return *item, true
}

// Len reports the number of frames currently queued.
func (w *Writer) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.q.Len()
}

// Close marks the writer closed; subsequent Push calls are silently
// dropped. It does not drain or discard frames already queued — the
// consumer should keep popping until Pop returns false, then exit.
func (w *Writer) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}
