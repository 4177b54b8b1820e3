package amqp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFlowGateWaitReturnsImmediatelyWhenActive(t *testing.T) {
	g := newFlowGate()
	err := g.Wait(context.Background(), make(chan struct{}), func() error { return nil })
	require.NoError(t, err)
}

func TestFlowGateBlocksUntilResumed(t *testing.T) {
	g := newFlowGate()
	g.SetActive(false)

	done := make(chan error, 1)
	go func() {
		done <- g.Wait(context.Background(), make(chan struct{}), func() error { return nil })
	}()

	select {
	case <-done:
		t.Fatal("Wait returned before the gate resumed")
	case <-time.After(20 * time.Millisecond):
	}

	g.SetActive(true)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Wait never unblocked after SetActive(true)")
	}
}

func TestFlowGateUnblocksOnClose(t *testing.T) {
	g := newFlowGate()
	g.SetActive(false)

	closed := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- g.Wait(context.Background(), closed, func() error { return ClosedResource })
	}()

	close(closed)

	select {
	case err := <-done:
		require.ErrorIs(t, err, ClosedResource)
	case <-time.After(time.Second):
		t.Fatal("Wait never unblocked on close")
	}
}

func TestFlowGateUnblocksOnContextCancel(t *testing.T) {
	g := newFlowGate()
	g.SetActive(false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- g.Wait(ctx, make(chan struct{}), func() error { return nil })
	}()

	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Wait never unblocked on context cancel")
	}
}

func TestFlowGateSetActiveNoOpWhenUnchanged(t *testing.T) {
	g := newFlowGate()
	g.SetActive(true) // already active, must not panic/close a nil channel
	require.True(t, g.active)
}
