package amqp_test

import (
	"context"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/require"

	amqp "github.com/timrosenblatt/amqp091"
	"github.com/timrosenblatt/amqp091/internal/frames"
)

// Scenario 1 (spec §8): the peer replies to the client's protocol prelude
// with a mismatched prelude of its own; Dial must surface ProtocolMismatch
// rather than trying to proceed as if it were a method frame.
func TestDialProtocolMismatch(t *testing.T) {
	defer leaktest.Check(t)()

	b := newFakeBroker(t)
	b.mismatchPrelude = true

	_, err := b.dial(t, amqp.Config{})
	require.Error(t, err)

	var mismatch *frames.ProtocolMismatch
	require.ErrorAs(t, err, &mismatch)
}

// Scenario 5 (spec §8): after a negotiated heartbeat with no inbound frames
// for two full intervals, the connection transitions to CLOSED with
// HeartbeatTimeout and a pending operation on an open channel wakes with
// that error instead of hanging forever.
func TestHeartbeatTimeout(t *testing.T) {
	defer leaktest.Check(t)()

	b := newFakeBroker(t)
	b.tuneHeartbeat = 1 // seconds; negotiated heartbeat becomes 1s

	conn, err := b.dial(t, amqp.Config{Heartbeat: time.Second})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	ch, err := conn.Channel(ctx)
	require.NoError(t, err)

	// The broker never writes anything back after the handshake (no
	// handler registered for the channel, no unsolicited pushes), so the
	// client's heartbeat monitor should fire within 2*negotiated = 2s.
	errCh := make(chan error, 1)
	go func() {
		_, _, err := ch.Get(context.Background(), "q", true)
		errCh <- err
	}()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, amqp.ErrHeartbeatTimeout)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for heartbeat timeout to fault the pending operation")
	}
}
