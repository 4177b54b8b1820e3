package encoding

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies a CodecError. Every kind is fatal to the frame that
// produced it; the caller (the connection dispatcher) treats any CodecError
// as fatal to the whole connection, per spec §4.1.
type ErrorKind int

const (
	// UnderRun means the buffer ran out of bytes before a value finished decoding.
	UnderRun ErrorKind = iota
	// Overflow means an encoded value (a shortstr, a field-table entry count, ...)
	// exceeded the limit the wire format allows for its length prefix.
	Overflow
	// InvalidTypeTag means a field-table entry carried a type tag outside
	// the set this codec understands.
	InvalidTypeTag
	// InvalidUtf8 means a string field failed UTF-8 validation.
	InvalidUtf8
	// LengthMismatch means a declared length prefix didn't match the bytes
	// actually available (e.g. a table's byte-length disagreed with the
	// sum of its entries).
	LengthMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case UnderRun:
		return "under-run"
	case Overflow:
		return "overflow"
	case InvalidTypeTag:
		return "invalid type tag"
	case InvalidUtf8:
		return "invalid utf-8"
	case LengthMismatch:
		return "length mismatch"
	default:
		return "unknown codec error"
	}
}

// CodecError is returned by every encode/decode function in this package.
// It is always fatal to the frame (and, per the connection dispatcher, the
// connection) that produced it.
type CodecError struct {
	Kind ErrorKind
	Err  error
}

func (e *CodecError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("amqp codec: %s", e.Kind)
	}
	return fmt.Sprintf("amqp codec: %s: %v", e.Kind, e.Err)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

func newCodecError(kind ErrorKind, err error) *CodecError {
	return &CodecError{Kind: kind, Err: errors.WithStack(err)}
}
