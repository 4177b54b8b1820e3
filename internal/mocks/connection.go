// Package mocks provides a scriptable net.Conn that drives connection and
// channel dispatcher tests without a real socket: every frame the
// connection writes is decoded and handed to a caller-supplied responder,
// whose return value (if any) is queued back as the next bytes the
// connection's reader will see.
package mocks

import (
	"bytes"
	"errors"
	"net"
	"time"

	"github.com/timrosenblatt/amqp091/internal/buffer"
	"github.com/timrosenblatt/amqp091/internal/frames"
	"github.com/timrosenblatt/amqp091/internal/methods"
)

// NewConnection creates a new instance of MockConnection. resp is invoked
// with every frame received from a Write call; return a nil slice and nil
// error to swallow the frame, a non-nil error to simulate a write failure,
// or an encoded response to be queued for the next Read.
func NewConnection(resp func(frames.Frame) ([]byte, error)) *MockConnection {
	return &MockConnection{
		resp: resp,
		// the reader and writer goroutines both unwind on readClose being
		// closed, so shutdown order between them is not guaranteed; buffer
		// reads so a write racing a close doesn't block forever.
		readData:  make(chan []byte, 16),
		readClose: make(chan struct{}),
	}
}

// MockConnection is a mock connection that satisfies the net.Conn interface.
type MockConnection struct {
	resp      func(frames.Frame) ([]byte, error)
	readDL    *time.Timer
	readData  chan []byte
	readClose chan struct{}
	closed    bool

	// pending holds bytes handed back by a previous Read call that didn't
	// fit in the caller's buffer, since frame/prelude decoding reads in
	// small fixed-size chunks (7-byte headers, 8-byte preludes) while a
	// response is queued as one whole encoded frame.
	pending []byte
}

// NOTE: Read, Write, and Close are all called by separate goroutines.

// Read is invoked by the connection's reader loop. It blocks until Write or
// Close are called, or the read deadline expires.
func (m *MockConnection) Read(b []byte) (n int, err error) {
	if len(m.pending) > 0 {
		n = copy(b, m.pending)
		m.pending = m.pending[n:]
		return n, nil
	}

	select {
	case <-m.readClose:
		return 0, errors.New("mock connection was closed")
	default:
	}

	var dl <-chan time.Time
	if m.readDL != nil {
		dl = m.readDL.C
	}

	select {
	case <-m.readClose:
		return 0, errors.New("mock connection was closed")
	case <-dl:
		return 0, errors.New("mock connection read deadline exceeded")
	case rd := <-m.readData:
		n = copy(b, rd)
		if n < len(rd) {
			m.pending = rd[n:]
		}
		return n, nil
	}
}

// Write is invoked by the connection's writer loop. Every call decodes the
// bytes as either the 8-byte protocol prelude or a single frame and invokes
// the responder.
func (m *MockConnection) Write(b []byte) (n int, err error) {
	select {
	case <-m.readClose:
		return 0, errors.New("mock connection was closed")
	default:
	}

	f, err := decodeWritten(b)
	if err != nil {
		return 0, err
	}
	resp, err := m.resp(f)
	if err != nil {
		return 0, err
	}
	if resp != nil {
		m.readData <- resp
	}
	return len(b), nil
}

// Push enqueues raw bytes for a future Read to return, without waiting for
// a Write to provoke them. Use it to simulate a frame the server sends
// unprompted — an unsolicited Channel.Close, a Basic.Deliver, a
// Connection.Blocked — rather than one produced by the responder callback.
func (m *MockConnection) Push(b []byte) {
	m.readData <- b
}

// Close is called when the connection's mux unwinds.
func (m *MockConnection) Close() error {
	if m.closed {
		return errors.New("double close")
	}
	m.closed = true
	close(m.readClose)
	return nil
}

func (m *MockConnection) LocalAddr() net.Addr {
	return &net.IPAddr{IP: net.IPv4(127, 0, 0, 1)}
}

func (m *MockConnection) RemoteAddr() net.Addr {
	return &net.IPAddr{IP: net.IPv4(127, 0, 0, 2)}
}

func (m *MockConnection) SetDeadline(t time.Time) error {
	return errors.New("not used")
}

func (m *MockConnection) SetReadDeadline(t time.Time) error {
	if m.readDL != nil && !m.readDL.Stop() {
		select {
		case <-m.readDL.C:
		default:
		}
	}
	m.readDL = time.NewTimer(time.Until(t))
	return nil
}

func (m *MockConnection) SetWriteDeadline(t time.Time) error {
	return nil
}

// preludeFrame is a sentinel Frame used to signal the responder that the
// bytes written were the 8-byte client protocol prelude, not a frame.
var preludeFrame = frames.Frame{Kind: 0, Channel: 0, Payload: nil}

func decodeWritten(b []byte) (frames.Frame, error) {
	if len(b) >= 8 && bytes.Equal(b[:4], []byte("AMQP")) {
		return preludeFrame, nil
	}
	return frames.ReadFrame(bytes.NewReader(b))
}

// IsPrelude reports whether f is the sentinel the responder sees in place
// of the client's protocol-handshake prelude.
func IsPrelude(f frames.Frame) bool {
	return f.Kind == 0 && f.Channel == 0 && f.Payload == nil
}

// Prelude returns the 8-byte server protocol-version echo, to be returned
// from the responder in reply to the client's handshake prelude.
func Prelude() ([]byte, error) {
	var buf bytes.Buffer
	if err := frames.WritePrelude(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeMethod serializes a method frame on channel ch, for use both as a
// responder's return value and to build expected-write assertions.
func EncodeMethod(ch uint16, m methods.Method) ([]byte, error) {
	body := buffer.New(nil)
	if err := methods.Encode(body, m); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := frames.WriteFrame(&out, frames.Frame{Kind: frames.KindMethod, Channel: ch, Payload: body.Bytes()}, 0); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// EncodeHeartbeat serializes a single heartbeat frame.
func EncodeHeartbeat() ([]byte, error) {
	var out bytes.Buffer
	if err := frames.WriteFrame(&out, frames.Heartbeat, 0); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// DecodeMethod is a test convenience that decodes the method payload of a
// frame previously produced by decodeWritten.
func DecodeMethod(f frames.Frame) (methods.Method, error) {
	return methods.Decode(buffer.New(f.Payload))
}
