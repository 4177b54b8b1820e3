package outq

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timrosenblatt/amqp091/internal/frames"
)

func TestPushPopFIFOOrder(t *testing.T) {
	w := New()
	w.Push(frames.Frame{Kind: frames.KindMethod, Channel: 1})
	w.Push(frames.Frame{Kind: frames.KindHeader, Channel: 1})
	w.Push(frames.Frame{Kind: frames.KindBody, Channel: 1})

	<-w.Wake()

	f1, ok := w.Pop()
	require.True(t, ok)
	require.Equal(t, frames.KindMethod, f1.Kind)

	f2, ok := w.Pop()
	require.True(t, ok)
	require.Equal(t, frames.KindHeader, f2.Kind)

	f3, ok := w.Pop()
	require.True(t, ok)
	require.Equal(t, frames.KindBody, f3.Kind)

	_, ok = w.Pop()
	require.False(t, ok)
}

func TestPopEmpty(t *testing.T) {
	w := New()
	_, ok := w.Pop()
	require.False(t, ok)
	require.Equal(t, 0, w.Len())
}

func TestWakeCoalescesMultiplePushes(t *testing.T) {
	w := New()
	w.Push(frames.Frame{Kind: frames.KindHeartbeat})
	w.Push(frames.Frame{Kind: frames.KindHeartbeat})

	select {
	case <-w.Wake():
	default:
		t.Fatal("expected a pending wake signal")
	}

	require.Equal(t, 2, w.Len())
}

func TestPushAfterCloseIsDropped(t *testing.T) {
	w := New()
	w.Close()
	w.Push(frames.Frame{Kind: frames.KindMethod})
	require.Equal(t, 0, w.Len())
}
