package encoding

import (
	"sort"
	"time"

	"github.com/timrosenblatt/amqp091/internal/buffer"
)

// fieldTag is one of the type tags from spec §4.1:
// {t,b,B,U,u,I,i,L,l,f,d,D,s,S,A,T,F,V}.
type fieldTag byte

const (
	tagBoolean   fieldTag = 't'
	tagI8        fieldTag = 'b'
	tagU8        fieldTag = 'B'
	tagI16       fieldTag = 'U'
	tagU16       fieldTag = 'u'
	tagI32       fieldTag = 'I'
	tagU32       fieldTag = 'i'
	tagI64       fieldTag = 'L'
	tagU64       fieldTag = 'l'
	tagFloat32   fieldTag = 'f'
	tagFloat64   fieldTag = 'd'
	tagDecimal   fieldTag = 'D'
	tagShortStr  fieldTag = 's'
	tagLongStr   fieldTag = 'S'
	tagArray     fieldTag = 'A'
	tagTimestamp fieldTag = 'T'
	tagTable     fieldTag = 'F'
	tagVoid      fieldTag = 'V'
)

// Table is AMQP's field-table: a self-describing, typed string-keyed map
// used for method arguments and message header properties.
type Table map[string]interface{}

// WriteTable encodes t as a longstr-framed sequence of
// {shortstr-name, type-tag, value} entries.
func WriteTable(w *buffer.Buffer, t Table) error {
	var body buffer.Buffer
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys) // stable wire output; the protocol does not require an order

	for _, k := range keys {
		if err := WriteShortString(&body, k); err != nil {
			return err
		}
		if err := writeFieldValue(&body, t[k]); err != nil {
			return err
		}
	}
	return WriteLongString(w, body.Bytes())
}

// ReadTable decodes a longstr-framed field table.
func ReadTable(r *buffer.Buffer) (Table, error) {
	raw, err := ReadLongString(r)
	if err != nil {
		return nil, err
	}
	body := buffer.New(raw)
	t := make(Table)
	for body.Len() > 0 {
		name, err := ReadShortString(body)
		if err != nil {
			return nil, err
		}
		v, err := readFieldValue(body)
		if err != nil {
			return nil, err
		}
		t[name] = v
	}
	return t, nil
}

func writeFieldValue(w *buffer.Buffer, v interface{}) error {
	switch val := v.(type) {
	case nil:
		WriteOctet(w, byte(tagVoid))
	case bool:
		WriteOctet(w, byte(tagBoolean))
		WriteBool(w, val)
	case int8:
		WriteOctet(w, byte(tagI8))
		WriteOctet(w, uint8(val))
	case uint8:
		WriteOctet(w, byte(tagU8))
		WriteOctet(w, val)
	case int16:
		WriteOctet(w, byte(tagI16))
		WriteShort(w, uint16(val))
	case uint16:
		WriteOctet(w, byte(tagU16))
		WriteShort(w, val)
	case int32:
		WriteOctet(w, byte(tagI32))
		WriteLong(w, uint32(val))
	case uint32:
		WriteOctet(w, byte(tagU32))
		WriteLong(w, val)
	case int64:
		WriteOctet(w, byte(tagI64))
		WriteLonglong(w, uint64(val))
	case int:
		WriteOctet(w, byte(tagI64))
		WriteLonglong(w, uint64(val))
	case uint64:
		WriteOctet(w, byte(tagU64))
		WriteLonglong(w, val)
	case float32:
		WriteOctet(w, byte(tagFloat32))
		WriteLong(w, float32bits(val))
	case float64:
		WriteOctet(w, byte(tagFloat64))
		WriteLonglong(w, float64bits(val))
	case Decimal:
		WriteOctet(w, byte(tagDecimal))
		WriteDecimal(w, val)
	case string:
		WriteOctet(w, byte(tagLongStr))
		return WriteLongString(w, []byte(val))
	case []byte:
		WriteOctet(w, byte(tagLongStr))
		return WriteLongString(w, val)
	case time.Time:
		WriteOctet(w, byte(tagTimestamp))
		WriteTimestamp(w, val)
	case Table:
		WriteOctet(w, byte(tagTable))
		return WriteTable(w, val)
	case []interface{}:
		WriteOctet(w, byte(tagArray))
		return writeArray(w, val)
	default:
		return newCodecError(InvalidTypeTag, nil)
	}
	return nil
}

func readFieldValue(r *buffer.Buffer) (interface{}, error) {
	tagByte, err := ReadOctet(r)
	if err != nil {
		return nil, err
	}
	switch fieldTag(tagByte) {
	case tagVoid:
		return nil, nil
	case tagBoolean:
		return ReadBool(r)
	case tagI8:
		v, err := ReadOctet(r)
		return int8(v), err
	case tagU8:
		return ReadOctet(r)
	case tagI16:
		v, err := ReadShort(r)
		return int16(v), err
	case tagU16:
		return ReadShort(r)
	case tagI32:
		v, err := ReadLong(r)
		return int32(v), err
	case tagU32:
		return ReadLong(r)
	case tagI64:
		v, err := ReadLonglong(r)
		return int64(v), err
	case tagU64:
		return ReadLonglong(r)
	case tagFloat32:
		v, err := ReadLong(r)
		if err != nil {
			return nil, err
		}
		return float32frombits(v), nil
	case tagFloat64:
		v, err := ReadLonglong(r)
		if err != nil {
			return nil, err
		}
		return float64frombits(v), nil
	case tagDecimal:
		return ReadDecimal(r)
	case tagShortStr:
		return ReadShortString(r)
	case tagLongStr:
		b, err := ReadLongString(r)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case tagTimestamp:
		return ReadTimestamp(r)
	case tagTable:
		return ReadTable(r)
	case tagArray:
		return readArray(r)
	default:
		return nil, newCodecError(InvalidTypeTag, nil)
	}
}

func writeArray(w *buffer.Buffer, items []interface{}) error {
	var body buffer.Buffer
	for _, it := range items {
		if err := writeFieldValue(&body, it); err != nil {
			return err
		}
	}
	return WriteLongString(w, body.Bytes())
}

func readArray(r *buffer.Buffer) ([]interface{}, error) {
	raw, err := ReadLongString(r)
	if err != nil {
		return nil, err
	}
	body := buffer.New(raw)
	var items []interface{}
	for body.Len() > 0 {
		v, err := readFieldValue(body)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}
