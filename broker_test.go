package amqp_test

import (
	"bytes"
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	amqp "github.com/timrosenblatt/amqp091"
	"github.com/timrosenblatt/amqp091/internal/buffer"
	"github.com/timrosenblatt/amqp091/internal/frames"
	"github.com/timrosenblatt/amqp091/internal/methods"
	"github.com/timrosenblatt/amqp091/internal/mocks"
)

// fakeBroker is a minimal scripted AMQP 0-9-1 peer built on
// internal/mocks.MockConnection. It answers the connection handshake and
// Channel.Open automatically; everything else on a given channel is routed
// to a handler registered with on, so each test only scripts the methods it
// cares about (spec §8, "End-to-end scenarios").
type fakeBroker struct {
	t *testing.T

	mu       sync.Mutex
	handlers map[uint16]func(frames.Frame, methods.Method) ([]byte, error)
	mc       *mocks.MockConnection

	mismatchPrelude bool
	tuneHeartbeat   uint16
}

func newFakeBroker(t *testing.T) *fakeBroker {
	b := &fakeBroker{t: t, handlers: make(map[uint16]func(frames.Frame, methods.Method) ([]byte, error))}
	b.mc = mocks.NewConnection(b.respond)
	return b
}

func (b *fakeBroker) on(ch uint16, h func(frames.Frame, methods.Method) ([]byte, error)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[ch] = h
}

// pushMethod injects an unsolicited method frame, for server-initiated
// traffic the client didn't write anything to provoke (Channel.Close,
// Basic.Deliver, Connection.Blocked).
func (b *fakeBroker) pushMethod(ch uint16, m methods.Method) {
	raw, err := mocks.EncodeMethod(ch, m)
	if err != nil {
		b.t.Fatalf("encoding pushed method: %v", err)
	}
	b.mc.Push(raw)
}

func (b *fakeBroker) respond(f frames.Frame) ([]byte, error) {
	if mocks.IsPrelude(f) {
		if b.mismatchPrelude {
			return []byte("AMQP\x00\x00\x00\x09"), nil
		}
		return mocks.EncodeMethod(0, &methods.ConnectionStart{
			VersionMajor: 0,
			VersionMinor: 9,
			Mechanisms:   []byte("PLAIN"),
			Locales:      []byte("en_US"),
		})
	}

	if f.Kind != frames.KindMethod {
		return b.dispatch(f, nil)
	}

	m, err := mocks.DecodeMethod(f)
	if err != nil {
		return nil, err
	}

	if f.Channel == 0 {
		switch m.(type) {
		case *methods.ConnectionStartOk:
			return mocks.EncodeMethod(0, &methods.ConnectionTune{ChannelMax: 2047, FrameMax: 131072, Heartbeat: b.tuneHeartbeat})
		case *methods.ConnectionTuneOk:
			return nil, nil
		case *methods.ConnectionOpen:
			return mocks.EncodeMethod(0, &methods.ConnectionOpenOk{})
		case *methods.ConnectionClose:
			return mocks.EncodeMethod(0, &methods.ConnectionCloseOk{})
		}
	}

	if _, ok := m.(*methods.ChannelOpen); ok {
		return mocks.EncodeMethod(f.Channel, &methods.ChannelOpenOk{})
	}
	if _, ok := m.(*methods.ChannelClose); ok {
		return mocks.EncodeMethod(f.Channel, &methods.ChannelCloseOk{})
	}

	return b.dispatch(f, m)
}

// encodeContentFrames concatenates a method frame with the header/body
// frames of its content (omitting the body frame entirely when empty,
// mirroring how a zero-length message is framed on the wire) into the
// single byte slice a responder returns for one Write call.
func encodeContentFrames(t *testing.T, ch uint16, method methods.Method, body []byte) []byte {
	t.Helper()

	out, err := mocks.EncodeMethod(ch, method)
	require.NoError(t, err)

	h := buffer.New(nil)
	require.NoError(t, (&methods.BasicHeader{BodySize: uint64(len(body))}).Marshal(h))
	var hf bytes.Buffer
	require.NoError(t, frames.WriteFrame(&hf, frames.Frame{Kind: frames.KindHeader, Channel: ch, Payload: h.Bytes()}, 0))
	out = append(out, hf.Bytes()...)

	if len(body) > 0 {
		var bf bytes.Buffer
		require.NoError(t, frames.WriteFrame(&bf, frames.Frame{Kind: frames.KindBody, Channel: ch, Payload: body}, 0))
		out = append(out, bf.Bytes()...)
	}
	return out
}

// pushDelivery injects an unsolicited Basic.Deliver (plus header/body) as a
// broker would when a consumer has an active subscription.
func (b *fakeBroker) pushDelivery(t *testing.T, ch uint16, tag string, deliveryTag uint64, body []byte) {
	t.Helper()
	raw := encodeContentFrames(t, ch, &methods.BasicDeliver{
		ConsumerTag: tag,
		DeliveryTag: deliveryTag,
	}, body)
	b.mc.Push(raw)
}

func (b *fakeBroker) dispatch(f frames.Frame, m methods.Method) ([]byte, error) {
	b.mu.Lock()
	h := b.handlers[f.Channel]
	b.mu.Unlock()
	if h == nil {
		return nil, nil
	}
	return h(f, m)
}

// dial connects cfg's Dial to this broker and runs the handshake.
func (b *fakeBroker) dial(t *testing.T, cfg amqp.Config) (*amqp.Connection, error) {
	t.Helper()
	cfg.Dial = func(ctx context.Context, network, addr string) (net.Conn, error) {
		return b.mc, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return amqp.Dial(ctx, "mock:0", cfg)
}
