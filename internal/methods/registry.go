// Package methods implements the AMQP 0-9-1 method registry (spec §4.3): a
// closed tagged union of one payload variant per (class-id, method-id) pair,
// covering the CONNECTION, CHANNEL, EXCHANGE, QUEUE, BASIC and TX classes
// required by spec §3, plus the CONFIRM extension class used by
// publisher-confirm channels (SPEC_FULL §4.4).
package methods

import (
	"github.com/pkg/errors"

	"github.com/timrosenblatt/amqp091/internal/buffer"
	"github.com/timrosenblatt/amqp091/internal/encoding"
)

// Method is implemented by every method payload variant.
type Method interface {
	ClassID() uint16
	MethodID() uint16
	// IsClientSide reports whether the client may legally encode and send
	// this method. Decoding is unrestricted: the dispatcher must be able to
	// decode anything a broker may legally send.
	IsClientSide() bool
	marshal(w *buffer.Buffer) error
	unmarshal(r *buffer.Buffer) error
}

// ErrNotImplemented is returned by Decode when the (class, method) pair is
// not in the registry. Per spec §4.3 the caller must respond with
// Connection.Close{reply_code: 540}.
var ErrNotImplemented = errors.New("amqp: method not implemented")

type factory func() Method

var registry = map[uint32]factory{}

func register(classID, methodID uint16, f factory) {
	registry[key(classID, methodID)] = f
}

func key(classID, methodID uint16) uint32 {
	return uint32(classID)<<16 | uint32(methodID)
}

// Encode writes the class-id/method-id header followed by m's fields.
func Encode(w *buffer.Buffer, m Method) error {
	encoding.WriteShort(w, m.ClassID())
	encoding.WriteShort(w, m.MethodID())
	return m.marshal(w)
}

// Decode reads the class-id/method-id header and dispatches to the
// corresponding variant's field decoder. Returns ErrNotImplemented for an
// unknown (class, method) pair.
func Decode(r *buffer.Buffer) (Method, error) {
	classID, err := encoding.ReadShort(r)
	if err != nil {
		return nil, err
	}
	methodID, err := encoding.ReadShort(r)
	if err != nil {
		return nil, err
	}
	f, ok := registry[key(classID, methodID)]
	if !ok {
		return nil, errors.Wrapf(ErrNotImplemented, "class=%d method=%d", classID, methodID)
	}
	m := f()
	if err := m.unmarshal(r); err != nil {
		return nil, err
	}
	return m, nil
}
