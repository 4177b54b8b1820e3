// Package amqp is a client for the AMQP 0-9-1 protocol, the wire format
// spoken by RabbitMQ and compatible brokers. It implements the connection
// handshake, channel multiplexing, publishing, consuming and the
// synchronous exchange/queue management operations over a single ordered
// transport.
package amqp

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/pkg/errors"
)

// DialFunc dials the underlying transport. The default is
// (&net.Dialer{}).DialContext; override it in tests or to dial over TLS.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Config holds the tunable inputs to Dial (spec §6, "Configuration").
type Config struct {
	// VirtualHost is sent in Connection.Open. Defaults to "/".
	VirtualHost string

	// SASL is the mechanism used to authenticate. If nil, PlainAuth built
	// from Username/Password is used.
	SASL Authentication

	Username string
	Password string

	// ChannelMax, FrameMax and Heartbeat are the client's desired tuning
	// values; the negotiated values (see spec §4.5, step 5) may be lower.
	// Zero means "use the package default", not "request unlimited" — the
	// protocol's own "0 means unlimited" applies only to the value actually
	// sent on the wire, which these defaults populate first.
	ChannelMax uint16
	FrameMax   uint32
	Heartbeat  time.Duration

	// Properties is the client-properties table advertised in StartOk. If
	// nil, a default table naming this library and its capabilities is
	// sent.
	Properties Table

	// StreamBufferSize is the depth of each channel's delivery queue.
	// Defaults to 16.
	StreamBufferSize int

	// Logger, if set, receives connection/channel diagnostic events.
	Logger *slog.Logger

	// Dial overrides how the transport is established. Defaults to plain
	// TCP via net.Dialer.
	Dial DialFunc
}

func (c *Config) setDefaults() {
	if c.VirtualHost == "" {
		c.VirtualHost = "/"
	}
	if c.ChannelMax == 0 {
		c.ChannelMax = 2047
	}
	if c.FrameMax == 0 {
		c.FrameMax = 131072
	}
	if c.Heartbeat == 0 {
		c.Heartbeat = 60 * time.Second
	}
	if c.StreamBufferSize == 0 {
		c.StreamBufferSize = 16
	}
	if c.Properties == nil {
		c.Properties = Table{
			"product":  "amqp091",
			"version":  "0.1.0",
			"platform": "Go",
			"capabilities": Table{
				"publisher_confirms":           true,
				"consumer_cancel_notify":       true,
				"basic.nack":                   true,
				"connection.blocked":           true,
				"authentication_failure_close": true,
			},
		}
	}
	if c.SASL == nil {
		c.SASL = PlainAuth{Username: c.Username, Password: c.Password}
	}
	if c.Logger != nil {
		RegisterLogger(c.Logger.Handler())
	}
}

// Dial connects to addr (host:port) and runs the AMQP 0-9-1 handshake.
// The returned Connection is ready for Channel() calls.
func Dial(ctx context.Context, addr string, cfg Config) (*Connection, error) {
	cfg.setDefaults()

	dial := cfg.Dial
	if dial == nil {
		var d net.Dialer
		dial = d.DialContext
	}

	nc, err := dial(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "amqp: dial")
	}

	conn, err := newConnection(ctx, nc, cfg)
	if err != nil {
		nc.Close()
		return nil, err
	}
	return conn, nil
}
