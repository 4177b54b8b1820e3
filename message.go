package amqp

import (
	"time"

	"github.com/timrosenblatt/amqp091/internal/encoding"
	"github.com/timrosenblatt/amqp091/internal/methods"
)

// Delivery-mode values for Publishing.DeliveryMode (spec §3, "BasicHeader").
const (
	Transient  uint8 = 1
	Persistent uint8 = 2
)

// Table is an AMQP field table: a self-describing, arbitrarily nested map
// used for message headers, client properties and method arguments
// (spec §4.1).
type Table = encoding.Table

// BasicHeader is the content-properties record carried in the HEADER frame
// that follows a Basic.Publish/Basic.Deliver/Basic.GetOk method frame
// (spec §3, "BasicHeader").
type BasicHeader = methods.BasicHeader

// Publishing is the content a caller hands to Channel.Publish: the
// properties and body of one message (spec §3, "Message").
type Publishing struct {
	ContentType     string
	ContentEncoding string
	Headers         Table
	DeliveryMode    uint8
	Priority        uint8
	CorrelationID   string
	ReplyTo         string
	Expiration      string
	MessageID       string
	Timestamp       time.Time
	Type            string
	UserID          string
	AppID           string
	ClusterID       string

	Body []byte
}

// Delivery is a message the server pushed to a consumer, or returned by
// Channel.Get (spec §3, "Message").
type Delivery struct {
	Publishing

	ConsumerTag string
	DeliveryTag uint64
	Redelivered bool
	Exchange    string
	RoutingKey  string

	channel *Channel
}

func publishingFromHeader(h *BasicHeader) Publishing {
	return Publishing{
		ContentType:     h.ContentType,
		ContentEncoding: h.ContentEncoding,
		Headers:         h.Headers,
		DeliveryMode:    h.DeliveryMode,
		Priority:        h.Priority,
		CorrelationID:   h.CorrelationID,
		ReplyTo:         h.ReplyTo,
		Expiration:      h.Expiration,
		MessageID:       h.MessageID,
		Timestamp:       h.Timestamp,
		Type:            h.Type,
		UserID:          h.UserID,
		AppID:           h.AppID,
		ClusterID:       h.ClusterID,
	}
}

func (p Publishing) toHeader() *BasicHeader {
	return &BasicHeader{
		BodySize:        uint64(len(p.Body)),
		ContentType:     p.ContentType,
		ContentEncoding: p.ContentEncoding,
		Headers:         p.Headers,
		DeliveryMode:    p.DeliveryMode,
		Priority:        p.Priority,
		CorrelationID:   p.CorrelationID,
		ReplyTo:         p.ReplyTo,
		Expiration:      p.Expiration,
		MessageID:       p.MessageID,
		Timestamp:       p.Timestamp,
		Type:            p.Type,
		UserID:          p.UserID,
		AppID:           p.AppID,
		ClusterID:       p.ClusterID,
	}
}

// Return is a message the broker could not route or deliver for a mandatory
// or immediate Basic.Publish (spec §4.4, "Basic.Return routes to a
// per-channel return handler").
type Return struct {
	Publishing

	ReplyCode  uint16
	ReplyText  string
	Exchange   string
	RoutingKey string
}

// Confirmation reports the broker's acknowledgement of one or more
// publishes made on a channel in publisher-confirm mode (SPEC_FULL §4.4,
// "Publisher confirms").
type Confirmation struct {
	DeliveryTag uint64
	Multiple    bool
	Ack         bool
}

// Ack acknowledges this single delivery (Basic.Ack, multiple=false).
func (d Delivery) Ack() error {
	return d.channel.ack(d.DeliveryTag, false)
}

// Nack negatively acknowledges this single delivery, optionally requeueing
// it (Basic.Nack).
func (d Delivery) Nack(requeue bool) error {
	return d.channel.nack(d.DeliveryTag, false, requeue)
}

// Reject is the pre-Nack rejection method (Basic.Reject): equivalent to
// Nack with multiple always false.
func (d Delivery) Reject(requeue bool) error {
	return d.channel.reject(d.DeliveryTag, requeue)
}
