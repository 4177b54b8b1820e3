package mocks

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timrosenblatt/amqp091/internal/frames"
	"github.com/timrosenblatt/amqp091/internal/methods"
)

func TestMockConnectionPreludeRoundTrip(t *testing.T) {
	responded := make(chan struct{}, 1)
	conn := NewConnection(func(f frames.Frame) ([]byte, error) {
		require.True(t, IsPrelude(f))
		responded <- struct{}{}
		return Prelude()
	})

	pre := frames.Prelude
	n, err := conn.Write(pre[:])
	require.NoError(t, err)
	require.Equal(t, len(pre), n)
	<-responded

	buf := make([]byte, 8)
	n, err = conn.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 8, n)
	require.Equal(t, pre[:], buf)
}

func TestMockConnectionMethodFrameRoundTrip(t *testing.T) {
	conn := NewConnection(func(f frames.Frame) ([]byte, error) {
		require.Equal(t, frames.KindMethod, f.Kind)
		require.Equal(t, uint16(1), f.Channel)

		m, err := DecodeMethod(f)
		require.NoError(t, err)
		open, ok := m.(*methods.ChannelOpen)
		require.True(t, ok)
		require.Equal(t, "", open.Reserved1)

		return EncodeMethod(1, &methods.ChannelOpenOk{})
	})

	raw, err := EncodeMethod(1, &methods.ChannelOpen{})
	require.NoError(t, err)

	_, err = conn.Write(raw)
	require.NoError(t, err)

	buf := make([]byte, 64)
	n, err := conn.Read(buf)
	require.NoError(t, err)

	f, err := frames.ReadFrame(bytes.NewReader(buf[:n]))
	require.NoError(t, err)
	m, err := DecodeMethod(f)
	require.NoError(t, err)
	_, ok := m.(*methods.ChannelOpenOk)
	require.True(t, ok)
}

func TestMockConnectionCloseIsIdempotentError(t *testing.T) {
	conn := NewConnection(func(frames.Frame) ([]byte, error) { return nil, nil })
	require.NoError(t, conn.Close())
	require.Error(t, conn.Close())
}
