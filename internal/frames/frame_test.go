package frames

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	f := Frame{Kind: KindMethod, Channel: 7, Payload: []byte{1, 2, 3, 4}}
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, f, 0))

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, f, got)
}

func TestFrameRoundTripEmptyPayload(t *testing.T) {
	f := Heartbeat
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, f, 0))
	require.Equal(t, headerSize+1, buf.Len())

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, KindHeartbeat, got.Kind)
	require.Zero(t, got.Channel)
	require.Empty(t, got.Payload)
}

func TestFrameBadTerminator(t *testing.T) {
	f := Frame{Kind: KindMethod, Channel: 1, Payload: []byte("x")}
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, f, 0))
	raw := buf.Bytes()
	raw[len(raw)-1] = 0x00 // corrupt the terminator

	_, err := ReadFrame(bytes.NewReader(raw))
	require.ErrorIs(t, err, ErrBadTerminator)
}

func TestFrameTruncated(t *testing.T) {
	f := Frame{Kind: KindMethod, Channel: 1, Payload: []byte("hello world")}
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, f, 0))
	truncated := buf.Bytes()[:buf.Len()-3]

	_, err := ReadFrame(bytes.NewReader(truncated))
	require.ErrorIs(t, err, ErrTruncated)
}

func TestWriteFrameTooLarge(t *testing.T) {
	f := Frame{Kind: KindBody, Channel: 1, Payload: make([]byte, 100)}
	var buf bytes.Buffer
	err := WriteFrame(&buf, f, 50)
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestPreludeMismatch(t *testing.T) {
	serverSaid := []byte("AMQP\x00\x00\x00\x09")
	err := ReadPrelude(bytes.NewReader(serverSaid))
	var mismatch *ProtocolMismatch
	require.ErrorAs(t, err, &mismatch)
	require.EqualValues(t, serverSaid, mismatch.ServerPrelude[:])
}

func TestPreludeMatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePrelude(&buf))
	require.Equal(t, "AMQP\x00\x00\x09\x01", buf.String())
	require.NoError(t, ReadPrelude(bytes.NewReader(buf.Bytes())))
}
