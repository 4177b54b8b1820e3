// Package frames implements the AMQP 0-9-1 frame layer (spec §4.2): the
// length-prefixed wire envelope shared by method, header, body and
// heartbeat frames, and the connection prelude exchanged before any frame.
package frames

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/timrosenblatt/amqp091/internal/buffer"
)

// Kind is the frame type octet.
type Kind uint8

const (
	KindMethod    Kind = 1
	KindHeader    Kind = 2
	KindBody      Kind = 3
	KindHeartbeat Kind = 8
)

func (k Kind) String() string {
	switch k {
	case KindMethod:
		return "METHOD"
	case KindHeader:
		return "HEADER"
	case KindBody:
		return "BODY"
	case KindHeartbeat:
		return "HEARTBEAT"
	default:
		return "UNKNOWN"
	}
}

// FrameEnd is the mandatory trailing octet of every frame.
const FrameEnd = 0xCE

// headerSize is the fixed 7-byte frame header: type(1) + channel(2) + length(4).
const headerSize = 7

// Prelude is the 8-byte literal the client writes before any frame, and the
// literal the server must echo back if it agrees on the protocol version.
var Prelude = [8]byte{'A', 'M', 'Q', 'P', 0, 0, 9, 1}

// ErrBadTerminator is returned when a frame's trailing octet is not 0xCE.
var ErrBadTerminator = errors.New("amqp frame: bad terminator")

// ErrTruncated is returned when the stream ends in the middle of a frame.
var ErrTruncated = errors.New("amqp frame: truncated")

// ErrTooLarge is returned by WriteFrame when the whole frame (payload plus
// the 8 bytes of header and end marker) exceeds maxFrameSize.
var ErrTooLarge = errors.New("amqp frame: payload exceeds negotiated max-frame-size")

// Frame is a decoded {kind, channel, payload} wire frame, per spec §3.
// HEARTBEAT frames always have Channel == 0 and an empty Payload.
type Frame struct {
	Kind    Kind
	Channel uint16
	Payload []byte
}

// ProtocolMismatch indicates the server replied to the client's protocol
// prelude with a prelude of its own instead of a frame, meaning it does not
// support AMQP 0-9-1.
type ProtocolMismatch struct {
	ServerPrelude [8]byte
}

func (e *ProtocolMismatch) Error() string {
	return "amqp: protocol version mismatch with server"
}

// WritePrelude writes the 8-byte client protocol header.
func WritePrelude(w io.Writer) error {
	_, err := w.Write(Prelude[:])
	return err
}

// ReadPrelude reads 8 bytes and reports whether they equal the expected
// prelude. If they don't, it returns a *ProtocolMismatch carrying the bytes
// read, whatever they contain.
func ReadPrelude(r io.Reader) error {
	var got [8]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		return errors.Wrap(err, "amqp: reading server prelude")
	}
	if got != Prelude {
		return &ProtocolMismatch{ServerPrelude: got}
	}
	return nil
}

// ReadFrame pulls exactly one frame from r. It returns ErrTruncated,
// wrapping the underlying I/O error, if the stream ends mid-frame.
func ReadFrame(r io.Reader) (Frame, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.EOF {
			return Frame{}, ErrTruncated
		}
		return Frame{}, errors.Wrap(ErrTruncated, err.Error())
	}

	kind := Kind(hdr[0])
	channel := binary.BigEndian.Uint16(hdr[1:3])
	length := binary.BigEndian.Uint32(hdr[3:7])

	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Frame{}, errors.Wrap(ErrTruncated, err.Error())
		}
	}

	var end [1]byte
	if _, err := io.ReadFull(r, end[:]); err != nil {
		return Frame{}, errors.Wrap(ErrTruncated, err.Error())
	}
	if end[0] != FrameEnd {
		return Frame{}, ErrBadTerminator
	}

	return Frame{Kind: kind, Channel: channel, Payload: payload}, nil
}

// WriteFrame serializes f into a single buffer and issues one Write call,
// so no partial frame can ever be observed interleaved with another frame
// on the wire (spec §4.2, "Encoder writes the full frame atomically").
func WriteFrame(w io.Writer, f Frame, maxFrameSize uint32) error {
	total := uint32(headerSize+1) + uint32(len(f.Payload))
	if maxFrameSize != 0 && total > maxFrameSize {
		return ErrTooLarge
	}

	var buf buffer.Buffer
	buf.AppendByte(byte(f.Kind))
	var chShort [2]byte
	binary.BigEndian.PutUint16(chShort[:], f.Channel)
	buf.Append(chShort[:])
	var lenLong [4]byte
	binary.BigEndian.PutUint32(lenLong[:], uint32(len(f.Payload)))
	buf.Append(lenLong[:])
	buf.Append(f.Payload)
	buf.AppendByte(FrameEnd)

	_, err := w.Write(buf.Bytes())
	return err
}

// Heartbeat is the canonical empty heartbeat frame.
var Heartbeat = Frame{Kind: KindHeartbeat, Channel: 0, Payload: nil}
