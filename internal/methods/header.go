package methods

import (
	"time"

	"github.com/timrosenblatt/amqp091/internal/buffer"
	"github.com/timrosenblatt/amqp091/internal/encoding"
)

// property-flag bits, high bit of the 16-bit flag word first (spec §3,
// "BasicHeader"). Bit 0 (low bit) is reserved and always zero; when more
// than 15 properties existed the table would continue into a second flag
// word, but BASIC's content-properties fit in one.
const (
	flagContentType     = 1 << 15
	flagContentEncoding = 1 << 14
	flagHeaders         = 1 << 13
	flagDeliveryMode    = 1 << 12
	flagPriority        = 1 << 11
	flagCorrelationID   = 1 << 10
	flagReplyTo         = 1 << 9
	flagExpiration      = 1 << 8
	flagMessageID       = 1 << 7
	flagTimestamp       = 1 << 6
	flagType            = 1 << 5
	flagUserID          = 1 << 4
	flagAppID           = 1 << 3
	flagClusterID       = 1 << 2
)

// BasicHeader is the class-60 content-header payload: the per-message
// properties that accompany a BasicPublish/BasicDeliver/BasicGetOk, carried
// in the HEADER frame that follows the method frame (spec §3 "BasicHeader",
// §4.2 frame kinds).
type BasicHeader struct {
	BodySize uint64

	ContentType     string
	ContentEncoding string
	Headers         encoding.Table
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
}

// classID a content header is framed against; only BASIC (class 60) is used
// by this client, but the wire format names the class so other content
// classes (unused here) can share the frame kind.
const basicHeaderClassID = classBasic

// Marshal encodes the content-header payload: class-id, weight (always 0),
// body-size, then the property-flags word followed by each present
// property's value, in flag-bit order.
func (h *BasicHeader) Marshal(w *buffer.Buffer) error {
	encoding.WriteShort(w, basicHeaderClassID)
	encoding.WriteShort(w, 0) // weight, reserved, always zero
	encoding.WriteLonglong(w, h.BodySize)

	var flags uint16
	if h.ContentType != "" {
		flags |= flagContentType
	}
	if h.ContentEncoding != "" {
		flags |= flagContentEncoding
	}
	if len(h.Headers) > 0 {
		flags |= flagHeaders
	}
	if h.DeliveryMode != 0 {
		flags |= flagDeliveryMode
	}
	if h.Priority != 0 {
		flags |= flagPriority
	}
	if h.CorrelationID != "" {
		flags |= flagCorrelationID
	}
	if h.ReplyTo != "" {
		flags |= flagReplyTo
	}
	if h.Expiration != "" {
		flags |= flagExpiration
	}
	if h.MessageID != "" {
		flags |= flagMessageID
	}
	if !h.Timestamp.IsZero() {
		flags |= flagTimestamp
	}
	if h.Type != "" {
		flags |= flagType
	}
	if h.UserID != "" {
		flags |= flagUserID
	}
	if h.AppID != "" {
		flags |= flagAppID
	}
	if h.ClusterID != "" {
		flags |= flagClusterID
	}
	encoding.WriteShort(w, flags)

	if flags&flagContentType != 0 {
		if err := encoding.WriteShortString(w, h.ContentType); err != nil {
			return err
		}
	}
	if flags&flagContentEncoding != 0 {
		if err := encoding.WriteShortString(w, h.ContentEncoding); err != nil {
			return err
		}
	}
	if flags&flagHeaders != 0 {
		if err := encoding.WriteTable(w, h.Headers); err != nil {
			return err
		}
	}
	if flags&flagDeliveryMode != 0 {
		encoding.WriteOctet(w, h.DeliveryMode)
	}
	if flags&flagPriority != 0 {
		encoding.WriteOctet(w, h.Priority)
	}
	if flags&flagCorrelationID != 0 {
		if err := encoding.WriteShortString(w, h.CorrelationID); err != nil {
			return err
		}
	}
	if flags&flagReplyTo != 0 {
		if err := encoding.WriteShortString(w, h.ReplyTo); err != nil {
			return err
		}
	}
	if flags&flagExpiration != 0 {
		if err := encoding.WriteShortString(w, h.Expiration); err != nil {
			return err
		}
	}
	if flags&flagMessageID != 0 {
		if err := encoding.WriteShortString(w, h.MessageID); err != nil {
			return err
		}
	}
	if flags&flagTimestamp != 0 {
		encoding.WriteTimestamp(w, h.Timestamp)
	}
	if flags&flagType != 0 {
		if err := encoding.WriteShortString(w, h.Type); err != nil {
			return err
		}
	}
	if flags&flagUserID != 0 {
		if err := encoding.WriteShortString(w, h.UserID); err != nil {
			return err
		}
	}
	if flags&flagAppID != 0 {
		if err := encoding.WriteShortString(w, h.AppID); err != nil {
			return err
		}
	}
	if flags&flagClusterID != 0 {
		if err := encoding.WriteShortString(w, h.ClusterID); err != nil {
			return err
		}
	}
	return nil
}

// Unmarshal decodes a content-header payload previously written by Marshal.
// It ignores the class-id and weight fields: a client only ever expects
// content belonging to the channel's open BASIC exchange.
func (h *BasicHeader) Unmarshal(r *buffer.Buffer) error {
	if _, err := encoding.ReadShort(r); err != nil { // class-id
		return err
	}
	if _, err := encoding.ReadShort(r); err != nil { // weight
		return err
	}
	bodySize, err := encoding.ReadLonglong(r)
	if err != nil {
		return err
	}
	h.BodySize = bodySize

	flags, err := encoding.ReadShort(r)
	if err != nil {
		return err
	}

	if flags&flagContentType != 0 {
		if h.ContentType, err = encoding.ReadShortString(r); err != nil {
			return err
		}
	}
	if flags&flagContentEncoding != 0 {
		if h.ContentEncoding, err = encoding.ReadShortString(r); err != nil {
			return err
		}
	}
	if flags&flagHeaders != 0 {
		if h.Headers, err = encoding.ReadTable(r); err != nil {
			return err
		}
	}
	if flags&flagDeliveryMode != 0 {
		if h.DeliveryMode, err = encoding.ReadOctet(r); err != nil {
			return err
		}
	}
	if flags&flagPriority != 0 {
		if h.Priority, err = encoding.ReadOctet(r); err != nil {
			return err
		}
	}
	if flags&flagCorrelationID != 0 {
		if h.CorrelationID, err = encoding.ReadShortString(r); err != nil {
			return err
		}
	}
	if flags&flagReplyTo != 0 {
		if h.ReplyTo, err = encoding.ReadShortString(r); err != nil {
			return err
		}
	}
	if flags&flagExpiration != 0 {
		if h.Expiration, err = encoding.ReadShortString(r); err != nil {
			return err
		}
	}
	if flags&flagMessageID != 0 {
		if h.MessageID, err = encoding.ReadShortString(r); err != nil {
			return err
		}
	}
	if flags&flagTimestamp != 0 {
		if h.Timestamp, err = encoding.ReadTimestamp(r); err != nil {
			return err
		}
	}
	if flags&flagType != 0 {
		if h.Type, err = encoding.ReadShortString(r); err != nil {
			return err
		}
	}
	if flags&flagUserID != 0 {
		if h.UserID, err = encoding.ReadShortString(r); err != nil {
			return err
		}
	}
	if flags&flagAppID != 0 {
		if h.AppID, err = encoding.ReadShortString(r); err != nil {
			return err
		}
	}
	if flags&flagClusterID != 0 {
		if h.ClusterID, err = encoding.ReadShortString(r); err != nil {
			return err
		}
	}
	return nil
}
