package methods

import (
	"github.com/timrosenblatt/amqp091/internal/buffer"
	"github.com/timrosenblatt/amqp091/internal/encoding"
)

// classConfirm is the RabbitMQ publisher-confirms extension (SPEC_FULL §4.4,
// "Publisher confirms").
const classConfirm = 85

const (
	methodConfirmSelect   = 10
	methodConfirmSelectOk = 11
)

func init() {
	register(classConfirm, methodConfirmSelect, func() Method { return &ConfirmSelect{} })
	register(classConfirm, methodConfirmSelectOk, func() Method { return &ConfirmSelectOk{} })
}

// ConfirmSelect puts the channel into publisher-confirm mode: the broker
// will send a BasicAck or BasicNack for every published message.
type ConfirmSelect struct {
	NoWait bool
}

func (*ConfirmSelect) ClassID() uint16    { return classConfirm }
func (*ConfirmSelect) MethodID() uint16   { return methodConfirmSelect }
func (*ConfirmSelect) IsClientSide() bool { return true }

func (m *ConfirmSelect) marshal(w *buffer.Buffer) error {
	var bw encoding.BitWriter
	bw.WriteBit(w, m.NoWait)
	bw.Flush(w)
	return nil
}

func (m *ConfirmSelect) unmarshal(r *buffer.Buffer) (err error) {
	var br encoding.BitReader
	m.NoWait, err = br.ReadBit(r)
	return err
}

// ConfirmSelectOk confirms a ConfirmSelect.
type ConfirmSelectOk struct{}

func (*ConfirmSelectOk) ClassID() uint16        { return classConfirm }
func (*ConfirmSelectOk) MethodID() uint16       { return methodConfirmSelectOk }
func (*ConfirmSelectOk) IsClientSide() bool     { return false }
func (*ConfirmSelectOk) marshal(*buffer.Buffer) error   { return nil }
func (*ConfirmSelectOk) unmarshal(*buffer.Buffer) error { return nil }
