package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timrosenblatt/amqp091/internal/buffer"
)

func TestBitPackingEightFlush(t *testing.T) {
	var w buffer.Buffer
	var bw BitWriter
	bits := []bool{true, false, true, true, false, false, true, false}
	for _, b := range bits {
		bw.WriteBit(&w, b)
	}
	bw.Flush(&w)

	require.Equal(t, 1, w.Len(), "8 consecutive bits pack into exactly one octet")

	r := buffer.New(w.Bytes())
	var br BitReader
	for i, want := range bits {
		got, err := br.ReadBit(r)
		require.NoError(t, err)
		require.Equalf(t, want, got, "bit %d", i)
	}
}

func TestBitPackingPartialOctet(t *testing.T) {
	var w buffer.Buffer
	var bw BitWriter
	bw.WriteBit(&w, true)
	bw.WriteBit(&w, false)
	bw.WriteBit(&w, true)
	bw.Flush(&w)

	require.Equal(t, 1, w.Len(), "3 bits still flush into one octet (ceil(3/8)=1)")

	r := buffer.New(w.Bytes())
	var br BitReader
	got1, err := br.ReadBit(r)
	require.NoError(t, err)
	got2, err := br.ReadBit(r)
	require.NoError(t, err)
	got3, err := br.ReadBit(r)
	require.NoError(t, err)
	require.Equal(t, []bool{true, false, true}, []bool{got1, got2, got3})
}

func TestBitPackingNonBitFlushes(t *testing.T) {
	var w buffer.Buffer
	var bw BitWriter
	bw.WriteBit(&w, true)
	bw.Flush(&w) // simulates a non-bit field flushing the pending run
	WriteOctet(&w, 0x7F)
	bw.WriteBit(&w, false)
	bw.Flush(&w)

	require.Equal(t, 3, w.Len())
}
