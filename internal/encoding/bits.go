package encoding

import "github.com/timrosenblatt/amqp091/internal/buffer"

// BitWriter packs consecutive bit fields LSB-first into shared octets, per
// spec §4.1. Any non-bit field flushes the pending octet before it is
// written; call Flush before encoding a non-bit field (or at the end of a
// method) to emit a partially filled octet.
type BitWriter struct {
	cur   byte
	shift uint
}

// WriteBit packs one bit field into the current octet, flushing to w when
// 8 bits have accumulated.
func (bw *BitWriter) WriteBit(w *buffer.Buffer, v bool) {
	if v {
		bw.cur |= 1 << bw.shift
	}
	bw.shift++
	if bw.shift == 8 {
		bw.Flush(w)
	}
}

// Flush emits the current (possibly partial) octet, if any bits have been
// written since the last flush, and resets the accumulator.
func (bw *BitWriter) Flush(w *buffer.Buffer) {
	if bw.shift == 0 {
		return
	}
	WriteOctet(w, bw.cur)
	bw.cur = 0
	bw.shift = 0
}

// BitReader mirrors BitWriter on the decode side.
type BitReader struct {
	cur   byte
	shift uint
	have  bool
}

// ReadBit reads one bit field, pulling a fresh octet from r every 8th call.
func (br *BitReader) ReadBit(r *buffer.Buffer) (bool, error) {
	if !br.have || br.shift == 8 {
		b, err := ReadOctet(r)
		if err != nil {
			return false, err
		}
		br.cur = b
		br.shift = 0
		br.have = true
	}
	v := br.cur&(1<<br.shift) != 0
	br.shift++
	return v, nil
}

// Reset discards any partially consumed octet. Call before decoding a
// non-bit field so the next bit run starts on a fresh octet boundary.
func (br *BitReader) Reset() {
	br.have = false
	br.shift = 0
}
