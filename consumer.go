package amqp

import (
	"context"
	"sync"
)

// Consumer is the delivery stream returned by Channel.Consume (spec §4.6).
// Cancel sends Basic.Cancel and ends the stream; deliveries still buffered in
// the stream are not drained, and nothing is cancelled automatically.
type Consumer struct {
	channel *Channel
	tag     string
	noAck   bool
	autoAck bool

	deliveries chan Delivery

	mu       sync.Mutex
	closed   chan struct{}
	closeErr error
}

func newConsumer(ch *Channel, tag string, noAck, autoAck bool, bufSize int) *Consumer {
	return &Consumer{
		channel:    ch,
		tag:        tag,
		noAck:      noAck,
		autoAck:    autoAck,
		deliveries: make(chan Delivery, bufSize),
		closed:     make(chan struct{}),
	}
}

// Tag returns the server-assigned (or caller-chosen) consumer tag.
func (c *Consumer) Tag() string { return c.tag }

// Deliveries exposes the raw channel for callers that want to range over it
// themselves and manage acks manually.
func (c *Consumer) Deliveries() <-chan Delivery {
	return c.deliveries
}

// push hands d to the consumer's bounded queue. Since each Channel runs its
// own dispatchLoop goroutine, a full queue here only blocks this channel's
// deliveries, never another channel's (spec §5, "a slow consumer does not
// stall other channels").
func (c *Consumer) push(d Delivery) {
	select {
	case c.deliveries <- d:
	case <-c.closed:
	}
}

func (c *Consumer) shutdown(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case <-c.closed:
		return
	default:
	}
	c.closeErr = err
	close(c.closed)
}

func (c *Consumer) err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeErr
}

// Consume ranges over deliveries until the stream ends, applying the
// consumer's ack policy (spec §4.6, "Ack policy"): with no_ack, fn's
// delivery is never acked; with auto_ack, a nil return from fn sends
// Basic.Ack and a non-nil return sends Basic.Nack(requeue=true) before the
// error is returned; otherwise acking is left entirely to fn.
func (c *Consumer) Consume(ctx context.Context, fn func(Delivery) error) error {
	for {
		select {
		case d, ok := <-c.deliveries:
			if !ok {
				return c.err()
			}
			err := fn(d)
			if c.noAck || !c.autoAck {
				if err != nil {
					return err
				}
				continue
			}
			if err != nil {
				_ = d.Nack(true)
				return err
			}
			if ackErr := d.Ack(); ackErr != nil {
				return ackErr
			}
		case <-c.closed:
			return c.err()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Cancel sends Basic.Cancel for this consumer and awaits Basic.CancelOk,
// then marks the stream closed. Deliveries already buffered in the stream
// are left as they are; Cancel does not drain them.
func (c *Consumer) Cancel(ctx context.Context) error {
	err := c.channel.cancel(ctx, c.tag, false)
	c.shutdown(err)
	return err
}
