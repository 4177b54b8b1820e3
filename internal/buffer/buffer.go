// Package buffer provides a read/write cursor over a byte slice, shared by
// the codec, frame and method layers so that encoding and decoding never
// need to allocate an intermediate io.Reader/io.Writer.
package buffer

import "errors"

// ErrUnderflow is returned by the read-side methods when fewer bytes remain
// than were requested.
var ErrUnderflow = errors.New("buffer: underflow")

// Buffer is a cursor over a []byte. The same type serves both write
// (Append*) and read (Next/ReadByte/Skip) access; callers only ever use one
// side per instance, but encode and decode share the same shape so field
// codecs in internal/encoding don't need two nearly-identical APIs.
type Buffer struct {
	b   []byte
	off int
}

// New wraps an existing slice for reading.
func New(b []byte) *Buffer {
	return &Buffer{b: b}
}

// Reset clears the buffer for reuse as a write target.
func (b *Buffer) Reset() {
	b.b = b.b[:0]
	b.off = 0
}

// Append writes p to the end of the buffer.
func (b *Buffer) Append(p []byte) {
	b.b = append(b.b, p...)
}

// AppendByte writes a single byte to the end of the buffer.
func (b *Buffer) AppendByte(c byte) {
	b.b = append(b.b, c)
}

// AppendString writes s to the end of the buffer without a conversion copy.
func (b *Buffer) AppendString(s string) {
	b.b = append(b.b, s...)
}

// Bytes returns the unread (or, after a write, the unconsumed) portion of
// the buffer.
func (b *Buffer) Bytes() []byte {
	return b.b[b.off:]
}

// Len returns the number of unread bytes.
func (b *Buffer) Len() int {
	return len(b.b) - b.off
}

// Next returns the next n bytes and advances the cursor. It returns
// ErrUnderflow, without advancing, if fewer than n bytes remain.
func (b *Buffer) Next(n int64) ([]byte, error) {
	if n < 0 || int64(b.Len()) < n {
		return nil, ErrUnderflow
	}
	p := b.b[b.off : b.off+int(n)]
	b.off += int(n)
	return p, nil
}

// ReadByte reads and consumes a single byte.
func (b *Buffer) ReadByte() (byte, error) {
	if b.Len() < 1 {
		return 0, ErrUnderflow
	}
	c := b.b[b.off]
	b.off++
	return c, nil
}

// PeekByte returns the next byte without consuming it.
func (b *Buffer) PeekByte() (byte, error) {
	if b.Len() < 1 {
		return 0, ErrUnderflow
	}
	return b.b[b.off], nil
}

// Skip advances the cursor by n bytes without returning them.
func (b *Buffer) Skip(n int64) error {
	if n < 0 || int64(b.Len()) < n {
		return ErrUnderflow
	}
	b.off += int(n)
	return nil
}
