package encoding

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/timrosenblatt/amqp091/internal/buffer"
)

func TestPrimitiveRoundTrips(t *testing.T) {
	var w buffer.Buffer
	WriteOctet(&w, 0xAB)
	WriteShort(&w, 0xBEEF)
	WriteLong(&w, 0xDEADBEEF)
	WriteLonglong(&w, 0x0102030405060708)
	require.NoError(t, WriteShortString(&w, "hello"))
	require.NoError(t, WriteLongString(&w, []byte("a longer payload")))
	ts := time.Unix(1700000000, 0).UTC()
	WriteTimestamp(&w, ts)
	WriteBool(&w, true)
	WriteDecimal(&w, Decimal{Scale: 2, Value: 12345})

	r := buffer.New(w.Bytes())

	octet, err := ReadOctet(r)
	require.NoError(t, err)
	require.EqualValues(t, 0xAB, octet)

	short, err := ReadShort(r)
	require.NoError(t, err)
	require.EqualValues(t, 0xBEEF, short)

	long, err := ReadLong(r)
	require.NoError(t, err)
	require.EqualValues(t, 0xDEADBEEF, long)

	ll, err := ReadLonglong(r)
	require.NoError(t, err)
	require.EqualValues(t, 0x0102030405060708, ll)

	s, err := ReadShortString(r)
	require.NoError(t, err)
	require.Equal(t, "hello", s)

	ls, err := ReadLongString(r)
	require.NoError(t, err)
	require.Equal(t, "a longer payload", string(ls))

	gotTS, err := ReadTimestamp(r)
	require.NoError(t, err)
	require.True(t, ts.Equal(gotTS))

	b, err := ReadBool(r)
	require.NoError(t, err)
	require.True(t, b)

	d, err := ReadDecimal(r)
	require.NoError(t, err)
	require.Equal(t, Decimal{Scale: 2, Value: 12345}, d)

	require.Zero(t, r.Len())
}

func TestShortStringOverflow(t *testing.T) {
	var w buffer.Buffer
	long := make([]byte, 256)
	err := WriteShortString(&w, string(long))
	require.Error(t, err)
	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, Overflow, ce.Kind)
}

func TestReadUnderrun(t *testing.T) {
	r := buffer.New([]byte{0x01})
	_, err := ReadLong(r)
	require.Error(t, err)
	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, UnderRun, ce.Kind)
}

func TestInvalidUTF8ShortString(t *testing.T) {
	var raw buffer.Buffer
	raw.AppendByte(2)
	raw.Append([]byte{0xff, 0xfe})
	r := buffer.New(raw.Bytes())
	_, err := ReadShortString(r)
	require.Error(t, err)
	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, InvalidUtf8, ce.Kind)
}

func TestFieldTableRoundTrip(t *testing.T) {
	in := Table{
		"str":     "value",
		"bool":    true,
		"int32":   int32(-7),
		"uint32":  uint32(42),
		"int64":   int64(-123456789),
		"float":   float32(1.5),
		"double":  float64(3.14159),
		"ts":      time.Unix(1600000000, 0).UTC(),
		"decimal": Decimal{Scale: 1, Value: 10},
		"nested": Table{
			"inner": "deep",
		},
		"list":   []interface{}{int32(1), "two", true},
		"absent": nil,
	}

	var w buffer.Buffer
	require.NoError(t, WriteTable(&w, in))

	r := buffer.New(w.Bytes())
	out, err := ReadTable(r)
	require.NoError(t, err)

	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("field table round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldTableUnknownTag(t *testing.T) {
	var w buffer.Buffer
	require.NoError(t, WriteShortString(&w, "k"))
	WriteOctet(&w, 0xFF) // not a recognized tag
	var framed buffer.Buffer
	require.NoError(t, WriteLongString(&framed, w.Bytes()))

	r := buffer.New(framed.Bytes())
	_, err := ReadTable(r)
	require.Error(t, err)
	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, InvalidTypeTag, ce.Kind)
}
