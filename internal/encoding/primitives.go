// Package encoding implements the AMQP 0-9-1 primitive wire types and the
// field-table codec described in spec §4.1: octet, short, long, longlong,
// shortstr, longstr, timestamp, bit, and the self-describing field table.
package encoding

import (
	"encoding/binary"
	"math"
	"time"
	"unicode/utf8"

	"github.com/timrosenblatt/amqp091/internal/buffer"
)

const maxShortStringLen = 255

// WriteOctet writes a single unsigned byte.
func WriteOctet(w *buffer.Buffer, v uint8) {
	w.AppendByte(v)
}

// ReadOctet reads a single unsigned byte.
func ReadOctet(r *buffer.Buffer) (uint8, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, newCodecError(UnderRun, err)
	}
	return b, nil
}

// WriteShort writes a big-endian uint16.
func WriteShort(w *buffer.Buffer, v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	w.Append(tmp[:])
}

// ReadShort reads a big-endian uint16.
func ReadShort(r *buffer.Buffer) (uint16, error) {
	b, err := r.Next(2)
	if err != nil {
		return 0, newCodecError(UnderRun, err)
	}
	return binary.BigEndian.Uint16(b), nil
}

// WriteLong writes a big-endian uint32.
func WriteLong(w *buffer.Buffer, v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	w.Append(tmp[:])
}

// ReadLong reads a big-endian uint32.
func ReadLong(r *buffer.Buffer) (uint32, error) {
	b, err := r.Next(4)
	if err != nil {
		return 0, newCodecError(UnderRun, err)
	}
	return binary.BigEndian.Uint32(b), nil
}

// WriteLonglong writes a big-endian uint64.
func WriteLonglong(w *buffer.Buffer, v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	w.Append(tmp[:])
}

// ReadLonglong reads a big-endian uint64.
func ReadLonglong(r *buffer.Buffer) (uint64, error) {
	b, err := r.Next(8)
	if err != nil {
		return 0, newCodecError(UnderRun, err)
	}
	return binary.BigEndian.Uint64(b), nil
}

// WriteTimestamp writes t as a longlong of seconds since the Unix epoch.
func WriteTimestamp(w *buffer.Buffer, t time.Time) {
	WriteLonglong(w, uint64(t.Unix()))
}

// ReadTimestamp reads a longlong and returns the corresponding UTC time.
func ReadTimestamp(r *buffer.Buffer) (time.Time, error) {
	v, err := ReadLonglong(r)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(v), 0).UTC(), nil
}

// WriteShortString writes an octet-prefixed string. The caller is expected
// to have already checked len(s) <= 255; exceeding it is an Overflow.
func WriteShortString(w *buffer.Buffer, s string) error {
	if len(s) > maxShortStringLen {
		return newCodecError(Overflow, nil)
	}
	WriteOctet(w, uint8(len(s)))
	w.AppendString(s)
	return nil
}

// ReadShortString reads an octet-prefixed string.
func ReadShortString(r *buffer.Buffer) (string, error) {
	n, err := ReadOctet(r)
	if err != nil {
		return "", err
	}
	b, err := r.Next(int64(n))
	if err != nil {
		return "", newCodecError(UnderRun, err)
	}
	if !utf8.Valid(b) {
		return "", newCodecError(InvalidUtf8, nil)
	}
	return string(b), nil
}

// WriteLongString writes a uint32-length-prefixed byte string.
func WriteLongString(w *buffer.Buffer, b []byte) error {
	if uint64(len(b)) > math.MaxUint32 {
		return newCodecError(Overflow, nil)
	}
	WriteLong(w, uint32(len(b)))
	w.Append(b)
	return nil
}

// ReadLongString reads a uint32-length-prefixed byte string.
func ReadLongString(r *buffer.Buffer) ([]byte, error) {
	n, err := ReadLong(r)
	if err != nil {
		return nil, err
	}
	b, err := r.Next(int64(n))
	if err != nil {
		return nil, newCodecError(UnderRun, err)
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// WriteBool writes a bool as a single octet, 1 for true. Used where a bool
// is encoded outside of a bit run (e.g. inside a field-table value).
func WriteBool(w *buffer.Buffer, v bool) {
	if v {
		WriteOctet(w, 1)
	} else {
		WriteOctet(w, 0)
	}
}

// ReadBool reads a single-octet bool.
func ReadBool(r *buffer.Buffer) (bool, error) {
	b, err := ReadOctet(r)
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// Decimal is the AMQP decimal-value type: a base-10 value (Value) scaled by
// 10^-Scale.
type Decimal struct {
	Scale uint8
	Value int32
}

// WriteDecimal writes a decimal value (octet scale, signed long value).
func WriteDecimal(w *buffer.Buffer, d Decimal) {
	WriteOctet(w, d.Scale)
	WriteLong(w, uint32(d.Value))
}

// ReadDecimal reads a decimal value.
func ReadDecimal(r *buffer.Buffer) (Decimal, error) {
	scale, err := ReadOctet(r)
	if err != nil {
		return Decimal{}, err
	}
	v, err := ReadLong(r)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{Scale: scale, Value: int32(v)}, nil
}
