package amqp

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/timrosenblatt/amqp091/internal/buffer"
	"github.com/timrosenblatt/amqp091/internal/debug"
	"github.com/timrosenblatt/amqp091/internal/encoding"
	"github.com/timrosenblatt/amqp091/internal/frames"
	"github.com/timrosenblatt/amqp091/internal/methods"
	"github.com/timrosenblatt/amqp091/internal/outq"
)

type connState int32

const (
	connHandshake connState = iota
	connOpen
	connClosed
)

// errUnknownChannel and errUnexpectedFrameKind mark the two "wrong frame
// for context" dispatcher faults (spec §4.5) that aren't a decode failure
// in their own right, so fatal's reply-code mapping can tell them apart
// from a malformed frame.
var (
	errUnknownChannel      = errors.New("amqp: frame for unknown channel")
	errUnexpectedFrameKind = errors.New("amqp: unexpected frame kind")
	errFrameTooLarge       = errors.New("amqp: inbound frame exceeds negotiated max-frame-size")
)

// replyCodeFor maps a dispatcher fault to the Connection.Close reply code
// spec §4.3/§4.5/§7 require for it: an unknown (class, method) pair is
// 540 NOT_IMPLEMENTED; a malformed frame (bad terminator, truncated
// stream, codec failure, oversize frame) is 501 FRAME_ERROR; a
// syntactically valid frame that doesn't belong where it arrived (unknown
// channel id, wrong frame kind for the current context) is
// 505 UNEXPECTED_FRAME. Anything else falls back to 541 INTERNAL_ERROR.
func replyCodeFor(err error) uint16 {
	var codecErr *encoding.CodecError
	switch {
	case errors.Is(err, methods.ErrNotImplemented):
		return NotImplemented
	case errors.As(err, &codecErr),
		errors.Is(err, frames.ErrBadTerminator),
		errors.Is(err, frames.ErrTruncated),
		errors.Is(err, errFrameTooLarge):
		return FrameError
	case errors.Is(err, errUnknownChannel),
		errors.Is(err, errUnexpectedFrameKind):
		return UnexpectedFrame
	default:
		return InternalError
	}
}

// Connection is one AMQP 0-9-1 connection: a single transport shared by a
// writer task, a reader/dispatcher task and any number of Channels
// (spec §4.5, §5).
type Connection struct {
	netConn net.Conn
	r       *bufio.Reader
	outq    *outq.Writer
	cfg     Config

	channelMax uint16
	frameMax   uint32
	heartbeat  time.Duration
	heart      *heartbeater

	closed    chan struct{}
	closeOnce sync.Once

	replyMu sync.Mutex
	reply   chan methods.Method

	mu            sync.Mutex
	state         connState
	channels      map[uint16]*Channel
	nextChannelID uint16
	closeErr      error
	blocked       bool
	blockedReason string
}

func newConnection(ctx context.Context, nc net.Conn, cfg Config) (*Connection, error) {
	c := &Connection{
		netConn:  nc,
		r:        bufio.NewReader(nc),
		outq:     outq.New(),
		cfg:      cfg,
		channels: make(map[uint16]*Channel),
		closed:   make(chan struct{}),
	}

	if err := c.handshake(ctx); err != nil {
		return nil, err
	}

	go c.writeLoop()
	go c.readLoop()

	if c.heartbeat > 0 {
		c.heart = newHeartbeater(c.heartbeat)
		go c.heart.run(context.Background(), c.closed, c.outq.Push, func() {
			c.fatal(ErrHeartbeatTimeout)
		})
	}

	return c, nil
}

// handshake runs the synchronous AMQP 0-9-1 connection-startup exchange
// (spec §4.5) directly over the transport, before the writer/reader loops
// exist. ctx bounds only this phase (SPEC_FULL §6, "not held past OPEN").
func (c *Connection) handshake(ctx context.Context) error {
	if dl, ok := ctx.Deadline(); ok {
		_ = c.netConn.SetDeadline(dl)
	}
	defer c.netConn.SetDeadline(time.Time{})

	if err := frames.WritePrelude(c.netConn); err != nil {
		return errors.Wrap(err, "amqp: writing protocol prelude")
	}

	m, err := c.readInitialReply()
	if err != nil {
		return err
	}
	start, ok := m.(*methods.ConnectionStart)
	if !ok {
		return errors.Errorf("amqp: unexpected method %T during handshake (want connection.start)", m)
	}
	_ = start

	auth := c.cfg.SASL
	startOk := &methods.ConnectionStartOk{
		ClientProperties: encoding.Table(c.cfg.Properties),
		Mechanism:        auth.Mechanism(),
		Response:         auth.Response(),
		Locale:           "en_US",
	}
	if err := c.writeMethod(0, startOk); err != nil {
		return err
	}

	m, err = c.readHandshakeMethod()
	if err != nil {
		return err
	}
	for {
		if _, isSecure := m.(*methods.ConnectionSecure); !isSecure {
			break
		}
		if err := c.writeMethod(0, &methods.ConnectionSecureOk{Response: auth.Response()}); err != nil {
			return err
		}
		if m, err = c.readHandshakeMethod(); err != nil {
			return err
		}
	}

	tune, ok := m.(*methods.ConnectionTune)
	if !ok {
		if cc, isClose := m.(*methods.ConnectionClose); isClose {
			return &AuthenticationError{Err: &Error{Code: cc.ReplyCode, Reason: cc.ReplyText, Class: cc.FailingClassID, Method: cc.FailingMethodID}}
		}
		return errors.Errorf("amqp: unexpected method %T during handshake (want connection.tune)", m)
	}

	c.channelMax = negotiateUint16(c.cfg.ChannelMax, tune.ChannelMax)
	c.frameMax = negotiateUint32(c.cfg.FrameMax, tune.FrameMax)
	c.heartbeat = negotiateHeartbeat(c.cfg.Heartbeat, tune.Heartbeat)
	c.nextChannelID = 1

	heartbeatSeconds := uint16(c.heartbeat / time.Second)
	if err := c.writeMethod(0, &methods.ConnectionTuneOk{
		ChannelMax: c.channelMax,
		FrameMax:   c.frameMax,
		Heartbeat:  heartbeatSeconds,
	}); err != nil {
		return err
	}

	if err := c.writeMethod(0, &methods.ConnectionOpen{VirtualHost: c.cfg.VirtualHost}); err != nil {
		return err
	}
	m, err = c.readHandshakeMethod()
	if err != nil {
		return err
	}
	if _, ok := m.(*methods.ConnectionOpenOk); !ok {
		if cc, isClose := m.(*methods.ConnectionClose); isClose {
			return &ConnectionError{Err: &Error{Code: cc.ReplyCode, Reason: cc.ReplyText, Class: cc.FailingClassID, Method: cc.FailingMethodID}}
		}
		return errors.Errorf("amqp: unexpected method %T during handshake (want connection.open-ok)", m)
	}

	c.state = connOpen
	return nil
}

// readInitialReply handles the one ambiguous read of the handshake: the
// server replies either with Connection.Start, or — if it rejects the
// requested protocol version — with its own 8-byte prelude (spec §4.5,
// "ProtocolMismatch").
func (c *Connection) readInitialReply() (methods.Method, error) {
	first, err := c.r.Peek(1)
	if err != nil {
		return nil, errors.Wrap(err, "amqp: reading initial server reply")
	}
	if first[0] == 'A' {
		var got [8]byte
		if _, err := io.ReadFull(c.r, got[:]); err != nil {
			return nil, errors.Wrap(err, "amqp: reading server protocol header")
		}
		return nil, &frames.ProtocolMismatch{ServerPrelude: got}
	}
	return c.readHandshakeMethod()
}

func (c *Connection) readHandshakeMethod() (methods.Method, error) {
	f, err := frames.ReadFrame(c.r)
	if err != nil {
		if mismatch, ok := err.(*frames.ProtocolMismatch); ok {
			return nil, mismatch
		}
		return nil, err
	}
	if f.Kind != frames.KindMethod || f.Channel != 0 {
		return nil, errors.Errorf("amqp: unexpected frame (kind=%v channel=%d) during handshake", f.Kind, f.Channel)
	}
	return methods.Decode(buffer.New(f.Payload))
}

func (c *Connection) writeMethod(ch uint16, m methods.Method) error {
	w := buffer.New(nil)
	if err := methods.Encode(w, m); err != nil {
		return err
	}
	return frames.WriteFrame(c.netConn, frames.Frame{Kind: frames.KindMethod, Channel: ch, Payload: w.Bytes()}, 0)
}

func (c *Connection) writeMethodAsync(ch uint16, m methods.Method) error {
	w := buffer.New(nil)
	if err := methods.Encode(w, m); err != nil {
		return err
	}
	c.outq.Push(frames.Frame{Kind: frames.KindMethod, Channel: ch, Payload: w.Bytes()})
	return nil
}

// negotiateUint16 and negotiateUint32 implement spec §4.5's tuning rule:
// the lower of the two values wins, with 0 meaning "no limit" from either
// side.
func negotiateUint16(desired, server uint16) uint16 {
	switch {
	case desired == 0:
		return server
	case server == 0:
		return desired
	case desired < server:
		return desired
	default:
		return server
	}
}

func negotiateUint32(desired, server uint32) uint32 {
	switch {
	case desired == 0:
		return server
	case server == 0:
		return desired
	case desired < server:
		return desired
	default:
		return server
	}
}

func negotiateHeartbeat(desired time.Duration, serverSeconds uint16) time.Duration {
	desiredSeconds := uint16(desired / time.Second)
	negotiated := negotiateUint16(desiredSeconds, serverSeconds)
	if negotiated == 0 {
		return 0
	}
	return time.Duration(negotiated) * time.Second
}

func (c *Connection) bodyChunkSize() int {
	if c.frameMax == 0 {
		return 1 << 20
	}
	const frameOverhead = 8 // 7-byte header + 0xCE terminator
	if c.frameMax <= frameOverhead {
		return 1
	}
	return int(c.frameMax - frameOverhead)
}

// writeLoop is the connection's single writer task (spec §5, "one writer
// task owns the outbound half of the transport").
func (c *Connection) writeLoop() {
	for {
		select {
		case <-c.outq.Wake():
		case <-c.closed:
			c.drainOutq()
			return
		}
		for {
			f, ok := c.outq.Pop()
			if !ok {
				break
			}
			if err := frames.WriteFrame(c.netConn, f, c.frameMax); err != nil {
				c.fatal(errors.Wrap(err, "amqp: writing frame"))
				return
			}
		}
	}
}

func (c *Connection) drainOutq() {
	for {
		f, ok := c.outq.Pop()
		if !ok {
			return
		}
		_ = frames.WriteFrame(c.netConn, f, c.frameMax)
	}
}

// readLoop is the connection's single reader task and dispatcher
// (spec §4.5, "Dispatcher loop").
func (c *Connection) readLoop() {
	for {
		f, err := frames.ReadFrame(c.r)
		if err != nil {
			c.fatal(errors.Wrap(err, "amqp: reading frame"))
			return
		}
		if c.frameMax != 0 && uint32(len(f.Payload))+8 > c.frameMax {
			c.fatal(errors.Wrapf(errFrameTooLarge, "channel %d: %d bytes", f.Channel, len(f.Payload)))
			return
		}
		if c.heart != nil {
			c.heart.noteActivity()
		}
		if f.Kind == frames.KindHeartbeat {
			continue
		}
		if f.Channel == 0 {
			c.handleConnFrame(f)
			continue
		}

		c.mu.Lock()
		ch := c.channels[f.Channel]
		c.mu.Unlock()
		if ch == nil {
			c.fatal(errors.Wrapf(errUnknownChannel, "channel %d", f.Channel))
			return
		}
		ch.deliverFrame(f)
	}
}

func (c *Connection) handleConnFrame(f frames.Frame) {
	if f.Kind != frames.KindMethod {
		c.fatal(errors.Wrapf(errUnexpectedFrameKind, "kind %v on channel 0", f.Kind))
		return
	}
	m, err := methods.Decode(buffer.New(f.Payload))
	if err != nil {
		c.fatal(errors.Wrap(err, "amqp: decoding connection frame"))
		return
	}

	switch mm := m.(type) {
	case *methods.ConnectionClose:
		connErr := &ConnectionError{Err: &Error{Code: mm.ReplyCode, Reason: mm.ReplyText, Class: mm.FailingClassID, Method: mm.FailingMethodID}}
		_ = c.writeMethodAsync(0, &methods.ConnectionCloseOk{})
		c.finalize(connErr)
	case *methods.ConnectionBlocked:
		c.mu.Lock()
		c.blocked = true
		c.blockedReason = mm.Reason
		c.mu.Unlock()
		debug.Log(context.Background(), slog.LevelWarn, "connection blocked", slog.String("reason", mm.Reason))
	case *methods.ConnectionUnblocked:
		c.mu.Lock()
		c.blocked = false
		c.blockedReason = ""
		c.mu.Unlock()
	default:
		c.deliverReply(m)
	}
}

func (c *Connection) deliverReply(m methods.Method) {
	c.replyMu.Lock()
	rc := c.reply
	c.reply = nil
	c.replyMu.Unlock()
	if rc == nil {
		debug.Assert(context.Background(), false, slog.String("event", "connection reply with no pending request"), slog.Any("value", m))
		return
	}
	rc <- m
}

func (c *Connection) call(ctx context.Context, req methods.Method) (methods.Method, error) {
	replyCh := make(chan methods.Method, 1)
	c.replyMu.Lock()
	c.reply = replyCh
	c.replyMu.Unlock()

	if err := c.writeMethodAsync(0, req); err != nil {
		c.replyMu.Lock()
		c.reply = nil
		c.replyMu.Unlock()
		return nil, err
	}

	select {
	case m := <-replyCh:
		return m, nil
	case <-c.closed:
		return nil, c.closedError()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Connection) closedError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closeErr != nil {
		return c.closeErr
	}
	return ClosedResource
}

// fatal tears the connection down in response to a locally detected
// protocol violation or transport failure (spec §4.5, "Any decode error,
// unknown channel id, wrong frame kind for state, or frame exceeding
// max_frame_size is fatal").
func (c *Connection) fatal(err error) {
	c.mu.Lock()
	already := c.state == connClosed
	c.mu.Unlock()
	if already {
		return
	}

	code := replyCodeFor(err)
	debug.Log(context.Background(), slog.LevelError, "connection fatal", slog.String("error", err.Error()), slog.Int("reply_code", int(code)))
	_ = c.writeMethodAsync(0, &methods.ConnectionClose{ReplyCode: code, ReplyText: err.Error()})
	c.finalize(err)
}

func (c *Connection) finalize(closeErr error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.state = connClosed
		c.closeErr = closeErr
		channels := c.channels
		c.channels = nil
		c.mu.Unlock()

		close(c.closed)
		c.outq.Close()
		_ = c.netConn.Close()

		for _, ch := range channels {
			ch.finalize(closeErr)
		}
	})
}

// Channel allocates and opens a new channel, reserving the lowest free id
// in 1..=channel_max (spec §4.5, "Channel allocation").
func (c *Connection) Channel(ctx context.Context) (*Channel, error) {
	c.mu.Lock()
	if c.state == connClosed {
		err := c.closedErrorLocked()
		c.mu.Unlock()
		return nil, err
	}

	var id uint16
	found := false
	for i := uint16(1); i <= c.channelMax; i++ {
		if _, taken := c.channels[i]; !taken {
			id = i
			found = true
			break
		}
	}
	if !found {
		c.mu.Unlock()
		return nil, ErrChannelAllocationExhausted
	}

	ch := newChannel(c, id)
	c.channels[id] = ch
	c.mu.Unlock()

	if err := ch.open(ctx); err != nil {
		c.mu.Lock()
		delete(c.channels, id)
		c.mu.Unlock()
		return nil, err
	}
	return ch, nil
}

// removeChannel frees id for reuse by a future Channel call. Safe to call
// after the connection itself has finalized, since c.channels is nil by
// then and delete on a nil map is a no-op.
func (c *Connection) removeChannel(id uint16) {
	c.mu.Lock()
	delete(c.channels, id)
	c.mu.Unlock()
}

func (c *Connection) closedErrorLocked() error {
	if c.closeErr != nil {
		return c.closeErr
	}
	return ClosedResource
}

// Close performs a graceful shutdown: best-effort Channel.Close on every
// open channel, then Connection.Close, awaiting Connection.CloseOk bounded
// by ctx, then closes the transport (spec §4.5, "Graceful close").
func (c *Connection) Close(ctx context.Context, code uint16, text string) error {
	c.mu.Lock()
	if c.state == connClosed {
		c.mu.Unlock()
		return nil
	}
	channels := make([]*Channel, 0, len(c.channels))
	for _, ch := range c.channels {
		channels = append(channels, ch)
	}
	c.mu.Unlock()

	for _, ch := range channels {
		_ = ch.CloseWithError(ctx, ReplySuccess, "")
	}

	m, err := c.call(ctx, &methods.ConnectionClose{ReplyCode: code, ReplyText: text})
	c.finalize(nil)
	if err != nil {
		return err
	}
	if _, ok := m.(*methods.ConnectionCloseOk); !ok {
		return errors.Errorf("amqp: unexpected reply %T to connection.close", m)
	}
	return nil
}

// IsBlocked reports whether the broker has signaled a resource alarm via
// Connection.Blocked (SPEC_FULL §4.5); the client does not itself throttle
// publishes on this signal.
func (c *Connection) IsBlocked() (bool, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blocked, c.blockedReason
}
