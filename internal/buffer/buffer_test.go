package buffer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendAndNext(t *testing.T) {
	b := New(nil)
	b.Append([]byte("hello"))
	b.AppendByte(' ')
	b.AppendString("world")
	require.Equal(t, "hello world", string(b.Bytes()))

	got, err := b.Next(5)
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))
	require.Equal(t, 6, b.Len())

	c, err := b.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(' '), c)
}

func TestNextUnderflow(t *testing.T) {
	b := New([]byte{1, 2, 3})
	_, err := b.Next(10)
	require.ErrorIs(t, err, ErrUnderflow)
	require.Equal(t, 3, b.Len(), "failed read must not advance the cursor")
}

func TestSkipAndPeek(t *testing.T) {
	b := New([]byte{0xAA, 0xBB, 0xCC})
	peek, err := b.PeekByte()
	require.NoError(t, err)
	require.Equal(t, byte(0xAA), peek)

	require.NoError(t, b.Skip(2))
	require.Equal(t, 1, b.Len())

	_, err = b.ReadByte()
	require.NoError(t, err)
	_, err = b.ReadByte()
	require.ErrorIs(t, err, ErrUnderflow)
}

func TestReset(t *testing.T) {
	b := New(nil)
	b.AppendString("abc")
	b.Reset()
	require.Zero(t, b.Len())
	b.AppendString("xyz")
	require.Equal(t, "xyz", string(b.Bytes()))
}
