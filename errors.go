package amqp

import (
	"fmt"

	"github.com/pkg/errors"
)

// Reply codes from the AMQP 0-9-1 spec's constants.xml, reproduced here so
// callers can compare Error.Code without a second import.
const (
	ReplySuccess = 200

	ContentTooLarge   = 311
	NoRoute           = 312
	NoConsumers       = 313
	ConnectionForced  = 320
	InvalidPath       = 402
	AccessRefused     = 403
	NotFound          = 404
	ResourceLocked    = 405
	PreconditionFailed = 406
	FrameError        = 501
	SyntaxError       = 502
	CommandInvalid     = 503
	ChannelErrorCode   = 504
	UnexpectedFrame    = 505
	ResourceError     = 506
	NotAllowed        = 530
	NotImplemented    = 540
	InternalError     = 541
)

// Error is a server-reported close reason, carried by a Connection.Close or
// Channel.Close method (spec §3, "Error handling").
type Error struct {
	Code    uint16
	Reason  string
	Class   uint16
	Method  uint16
}

func (e *Error) Error() string {
	return fmt.Sprintf("amqp: code %d: %s (class=%d, method=%d)", e.Code, e.Reason, e.Class, e.Method)
}

// ConnectionError wraps the reply carried by the Connection.Close that shut
// down the connection. A nil Err means the connection closed because the
// caller requested it, not because of a protocol error.
type ConnectionError struct {
	Err *Error
}

func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return "amqp: connection closed"
	}
	return "amqp: connection closed: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	if e.Err == nil {
		return nil
	}
	return e.Err
}

// ChannelError wraps the reply carried by the Channel.Close that shut down
// a channel. A nil Err means the caller closed the channel itself.
type ChannelError struct {
	Err *Error
}

func (e *ChannelError) Error() string {
	if e.Err == nil {
		return "amqp: channel closed"
	}
	return "amqp: channel closed: " + e.Err.Error()
}

func (e *ChannelError) Unwrap() error {
	if e.Err == nil {
		return nil
	}
	return e.Err
}

// MessageReturnedError records a Basic.Return that arrived while no
// NotifyReturn listener was registered on the channel; Channel.LastReturnError
// retrieves (and clears) the most recent one.
type MessageReturnedError struct {
	ReplyCode  uint16
	ReplyText  string
	Exchange   string
	RoutingKey string
}

func (e *MessageReturnedError) Error() string {
	return fmt.Sprintf("amqp: message returned: %d %s (exchange=%q routing_key=%q)",
		e.ReplyCode, e.ReplyText, e.Exchange, e.RoutingKey)
}

// ClosedResource is returned by any operation attempted on a Connection or
// Channel that has already finished closing.
var ClosedResource = errors.New("amqp: resource is closed")

// ErrProtocolMismatch describes a server that does not speak AMQP 0-9-1.
// Dial does not return this value: it reports a rejected protocol prelude as
// a *frames.ProtocolMismatch.
var ErrProtocolMismatch = errors.New("amqp: server does not support AMQP 0-9-1")

// ErrHeartbeatTimeout is returned when the connection has not heard from the
// server within two full heartbeat intervals (spec §4, "Heartbeat timeout").
var ErrHeartbeatTimeout = errors.New("amqp: missed heartbeats from server")

// AuthenticationError is returned by Dial when the server rejects the
// configured SASL credentials.
type AuthenticationError struct {
	Err *Error
}

func (e *AuthenticationError) Error() string {
	return "amqp: authentication failed: " + e.Err.Error()
}

// ErrChannelAllocationExhausted is returned by Connection.Channel when every
// channel id up to the negotiated channel-max is already in use.
var ErrChannelAllocationExhausted = errors.New("amqp: no channel ids available")
