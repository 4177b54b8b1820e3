package amqp

import (
	"context"
	"log/slog"
	"time"

	"github.com/timrosenblatt/amqp091/internal/debug"
	"github.com/timrosenblatt/amqp091/internal/frames"
)

// heartbeater owns the two timers that implement spec §4.5's heartbeat
// monitor: send a Heartbeat frame every half the negotiated interval, and
// treat silence from the server for a full two intervals as a dead
// connection.
type heartbeater struct {
	negotiated time.Duration // H, the value sent in Connection.TuneOk
	lastRecv   chan struct{} // signaled (non-blocking) on every frame received
}

func newHeartbeater(negotiated time.Duration) *heartbeater {
	return &heartbeater{
		negotiated: negotiated,
		lastRecv:   make(chan struct{}, 1),
	}
}

// noteActivity records that a frame was just read from the wire, resetting
// the read-timeout clock maintained by run.
func (h *heartbeater) noteActivity() {
	select {
	case h.lastRecv <- struct{}{}:
	default:
	}
}

// run drives the heartbeat monitor until done is closed. It pushes a
// Heartbeat frame onto out every half interval, and calls onTimeout if no frame
// (of any kind) has arrived from the server within 2*interval.
func (h *heartbeater) run(ctx context.Context, done <-chan struct{}, out func(frames.Frame), onTimeout func()) {
	if h.negotiated <= 0 {
		return
	}

	send := time.NewTicker(h.negotiated / 2)
	defer send.Stop()

	timeout := time.NewTimer(2 * h.negotiated)
	defer timeout.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-send.C:
			out(frames.Heartbeat)
		case <-h.lastRecv:
			if !timeout.Stop() {
				select {
				case <-timeout.C:
				default:
				}
			}
			timeout.Reset(2 * h.negotiated)
		case <-timeout.C:
			debug.Log(ctx, slog.LevelWarn, "heartbeat timeout", slog.Duration("negotiated", h.negotiated))
			onTimeout()
			return
		}
	}
}
