package methods

import "github.com/timrosenblatt/amqp091/internal/buffer"
import "github.com/timrosenblatt/amqp091/internal/encoding"

const classChannel = 20

const (
	methodChannelOpen    = 10
	methodChannelOpenOk  = 11
	methodChannelFlow    = 20
	methodChannelFlowOk  = 21
	methodChannelClose   = 40
	methodChannelCloseOk = 41
)

func init() {
	register(classChannel, methodChannelOpen, func() Method { return &ChannelOpen{} })
	register(classChannel, methodChannelOpenOk, func() Method { return &ChannelOpenOk{} })
	register(classChannel, methodChannelFlow, func() Method { return &ChannelFlow{} })
	register(classChannel, methodChannelFlowOk, func() Method { return &ChannelFlowOk{} })
	register(classChannel, methodChannelClose, func() Method { return &ChannelClose{} })
	register(classChannel, methodChannelCloseOk, func() Method { return &ChannelCloseOk{} })
}

// ChannelOpen requests allocation of a new channel (spec §4.5, open_channel).
type ChannelOpen struct {
	Reserved1 string
}

func (*ChannelOpen) ClassID() uint16    { return classChannel }
func (*ChannelOpen) MethodID() uint16   { return methodChannelOpen }
func (*ChannelOpen) IsClientSide() bool { return true }

func (m *ChannelOpen) marshal(w *buffer.Buffer) error {
	return encoding.WriteShortString(w, m.Reserved1)
}

func (m *ChannelOpen) unmarshal(r *buffer.Buffer) (err error) {
	m.Reserved1, err = encoding.ReadShortString(r)
	return err
}

// ChannelOpenOk confirms channel allocation.
type ChannelOpenOk struct {
	Reserved1 []byte
}

func (*ChannelOpenOk) ClassID() uint16    { return classChannel }
func (*ChannelOpenOk) MethodID() uint16   { return methodChannelOpenOk }
func (*ChannelOpenOk) IsClientSide() bool { return false }

func (m *ChannelOpenOk) marshal(w *buffer.Buffer) error {
	return encoding.WriteLongString(w, m.Reserved1)
}

func (m *ChannelOpenOk) unmarshal(r *buffer.Buffer) (err error) {
	m.Reserved1, err = encoding.ReadLongString(r)
	return err
}

// ChannelFlow asks the peer to start or stop sending content frames
// (spec §4.4, "Channel.Flow(active)").
type ChannelFlow struct {
	Active bool
}

func (*ChannelFlow) ClassID() uint16    { return classChannel }
func (*ChannelFlow) MethodID() uint16   { return methodChannelFlow }
func (*ChannelFlow) IsClientSide() bool { return true }

func (m *ChannelFlow) marshal(w *buffer.Buffer) error {
	var bw encoding.BitWriter
	bw.WriteBit(w, m.Active)
	bw.Flush(w)
	return nil
}

func (m *ChannelFlow) unmarshal(r *buffer.Buffer) (err error) {
	var br encoding.BitReader
	m.Active, err = br.ReadBit(r)
	return err
}

// ChannelFlowOk acknowledges a ChannelFlow request.
type ChannelFlowOk struct {
	Active bool
}

func (*ChannelFlowOk) ClassID() uint16    { return classChannel }
func (*ChannelFlowOk) MethodID() uint16   { return methodChannelFlowOk }
func (*ChannelFlowOk) IsClientSide() bool { return true }

func (m *ChannelFlowOk) marshal(w *buffer.Buffer) error {
	var bw encoding.BitWriter
	bw.WriteBit(w, m.Active)
	bw.Flush(w)
	return nil
}

func (m *ChannelFlowOk) unmarshal(r *buffer.Buffer) (err error) {
	var br encoding.BitReader
	m.Active, err = br.ReadBit(r)
	return err
}

// ChannelClose may be sent by either peer (spec §3, asymmetric close semantics).
// ChannelClose carries the (class, method) of the request that provoked the
// close alongside the reply code — named FailingClassID/FailingMethodID,
// not ClassID/MethodID, so the field doesn't collide with the Method
// interface's own ClassID()/MethodID() on this type.
type ChannelClose struct {
	ReplyCode       uint16
	ReplyText       string
	FailingClassID  uint16
	FailingMethodID uint16
}

func (*ChannelClose) ClassID() uint16    { return classChannel }
func (*ChannelClose) MethodID() uint16   { return methodChannelClose }
func (*ChannelClose) IsClientSide() bool { return true }

func (m *ChannelClose) marshal(w *buffer.Buffer) error {
	encoding.WriteShort(w, m.ReplyCode)
	if err := encoding.WriteShortString(w, m.ReplyText); err != nil {
		return err
	}
	encoding.WriteShort(w, m.FailingClassID)
	encoding.WriteShort(w, m.FailingMethodID)
	return nil
}

func (m *ChannelClose) unmarshal(r *buffer.Buffer) (err error) {
	if m.ReplyCode, err = encoding.ReadShort(r); err != nil {
		return err
	}
	if m.ReplyText, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	if m.FailingClassID, err = encoding.ReadShort(r); err != nil {
		return err
	}
	m.FailingMethodID, err = encoding.ReadShort(r)
	return err
}

// ChannelCloseOk concludes a channel-close handshake.
type ChannelCloseOk struct{}

func (*ChannelCloseOk) ClassID() uint16        { return classChannel }
func (*ChannelCloseOk) MethodID() uint16       { return methodChannelCloseOk }
func (*ChannelCloseOk) IsClientSide() bool     { return true }
func (*ChannelCloseOk) marshal(*buffer.Buffer) error   { return nil }
func (*ChannelCloseOk) unmarshal(*buffer.Buffer) error { return nil }
