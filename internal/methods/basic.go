package methods

import (
	"github.com/timrosenblatt/amqp091/internal/buffer"
	"github.com/timrosenblatt/amqp091/internal/encoding"
)

const classBasic = 60

const (
	methodBasicQos           = 10
	methodBasicQosOk         = 11
	methodBasicConsume       = 20
	methodBasicConsumeOk     = 21
	methodBasicCancel        = 30
	methodBasicCancelOk      = 31
	methodBasicPublish       = 40
	methodBasicReturn        = 50
	methodBasicDeliver       = 60
	methodBasicGet           = 70
	methodBasicGetOk         = 71
	methodBasicGetEmpty      = 72
	methodBasicAck           = 80
	methodBasicReject        = 90
	methodBasicRecoverAsync  = 100
	methodBasicRecover       = 110
	methodBasicRecoverOk     = 111
	methodBasicNack          = 120
)

func init() {
	register(classBasic, methodBasicQos, func() Method { return &BasicQos{} })
	register(classBasic, methodBasicQosOk, func() Method { return &BasicQosOk{} })
	register(classBasic, methodBasicConsume, func() Method { return &BasicConsume{} })
	register(classBasic, methodBasicConsumeOk, func() Method { return &BasicConsumeOk{} })
	register(classBasic, methodBasicCancel, func() Method { return &BasicCancel{} })
	register(classBasic, methodBasicCancelOk, func() Method { return &BasicCancelOk{} })
	register(classBasic, methodBasicPublish, func() Method { return &BasicPublish{} })
	register(classBasic, methodBasicReturn, func() Method { return &BasicReturn{} })
	register(classBasic, methodBasicDeliver, func() Method { return &BasicDeliver{} })
	register(classBasic, methodBasicGet, func() Method { return &BasicGet{} })
	register(classBasic, methodBasicGetOk, func() Method { return &BasicGetOk{} })
	register(classBasic, methodBasicGetEmpty, func() Method { return &BasicGetEmpty{} })
	register(classBasic, methodBasicAck, func() Method { return &BasicAck{} })
	register(classBasic, methodBasicReject, func() Method { return &BasicReject{} })
	register(classBasic, methodBasicRecoverAsync, func() Method { return &BasicRecoverAsync{} })
	register(classBasic, methodBasicRecover, func() Method { return &BasicRecover{} })
	register(classBasic, methodBasicRecoverOk, func() Method { return &BasicRecoverOk{} })
	register(classBasic, methodBasicNack, func() Method { return &BasicNack{} })
}

// BasicQos sets the channel's (or connection-wide) prefetch limits.
type BasicQos struct {
	PrefetchSize  uint32
	PrefetchCount uint16
	Global        bool
}

func (*BasicQos) ClassID() uint16    { return classBasic }
func (*BasicQos) MethodID() uint16   { return methodBasicQos }
func (*BasicQos) IsClientSide() bool { return true }

func (m *BasicQos) marshal(w *buffer.Buffer) error {
	encoding.WriteLong(w, m.PrefetchSize)
	encoding.WriteShort(w, m.PrefetchCount)
	var bw encoding.BitWriter
	bw.WriteBit(w, m.Global)
	bw.Flush(w)
	return nil
}

func (m *BasicQos) unmarshal(r *buffer.Buffer) (err error) {
	if m.PrefetchSize, err = encoding.ReadLong(r); err != nil {
		return err
	}
	if m.PrefetchCount, err = encoding.ReadShort(r); err != nil {
		return err
	}
	var br encoding.BitReader
	m.Global, err = br.ReadBit(r)
	return err
}

// BasicQosOk confirms a BasicQos.
type BasicQosOk struct{}

func (*BasicQosOk) ClassID() uint16        { return classBasic }
func (*BasicQosOk) MethodID() uint16       { return methodBasicQosOk }
func (*BasicQosOk) IsClientSide() bool     { return false }
func (*BasicQosOk) marshal(*buffer.Buffer) error   { return nil }
func (*BasicQosOk) unmarshal(*buffer.Buffer) error { return nil }

// BasicConsume starts a consumer on a queue (spec §4.4, basic_consume).
type BasicConsume struct {
	Reserved1   uint16
	Queue       string
	ConsumerTag string
	NoLocal     bool
	NoAck       bool
	Exclusive   bool
	NoWait      bool
	Arguments   encoding.Table
}

func (*BasicConsume) ClassID() uint16    { return classBasic }
func (*BasicConsume) MethodID() uint16   { return methodBasicConsume }
func (*BasicConsume) IsClientSide() bool { return true }

func (m *BasicConsume) marshal(w *buffer.Buffer) error {
	encoding.WriteShort(w, m.Reserved1)
	if err := encoding.WriteShortString(w, m.Queue); err != nil {
		return err
	}
	if err := encoding.WriteShortString(w, m.ConsumerTag); err != nil {
		return err
	}
	var bw encoding.BitWriter
	bw.WriteBit(w, m.NoLocal)
	bw.WriteBit(w, m.NoAck)
	bw.WriteBit(w, m.Exclusive)
	bw.WriteBit(w, m.NoWait)
	bw.Flush(w)
	return encoding.WriteTable(w, m.Arguments)
}

func (m *BasicConsume) unmarshal(r *buffer.Buffer) (err error) {
	if m.Reserved1, err = encoding.ReadShort(r); err != nil {
		return err
	}
	if m.Queue, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	if m.ConsumerTag, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	var br encoding.BitReader
	if m.NoLocal, err = br.ReadBit(r); err != nil {
		return err
	}
	if m.NoAck, err = br.ReadBit(r); err != nil {
		return err
	}
	if m.Exclusive, err = br.ReadBit(r); err != nil {
		return err
	}
	if m.NoWait, err = br.ReadBit(r); err != nil {
		return err
	}
	m.Arguments, err = encoding.ReadTable(r)
	return err
}

// BasicConsumeOk confirms a BasicConsume, echoing back the (possibly
// server-generated) consumer tag.
type BasicConsumeOk struct {
	ConsumerTag string
}

func (*BasicConsumeOk) ClassID() uint16    { return classBasic }
func (*BasicConsumeOk) MethodID() uint16   { return methodBasicConsumeOk }
func (*BasicConsumeOk) IsClientSide() bool { return false }

func (m *BasicConsumeOk) marshal(w *buffer.Buffer) error {
	return encoding.WriteShortString(w, m.ConsumerTag)
}

func (m *BasicConsumeOk) unmarshal(r *buffer.Buffer) (err error) {
	m.ConsumerTag, err = encoding.ReadShortString(r)
	return err
}

// BasicCancel ends a consumer, sent by either the client (to stop
// consuming) or the server (consumer-cancel notification, spec §4.4).
type BasicCancel struct {
	ConsumerTag string
	NoWait      bool
}

func (*BasicCancel) ClassID() uint16    { return classBasic }
func (*BasicCancel) MethodID() uint16   { return methodBasicCancel }
func (*BasicCancel) IsClientSide() bool { return true }

func (m *BasicCancel) marshal(w *buffer.Buffer) error {
	if err := encoding.WriteShortString(w, m.ConsumerTag); err != nil {
		return err
	}
	var bw encoding.BitWriter
	bw.WriteBit(w, m.NoWait)
	bw.Flush(w)
	return nil
}

func (m *BasicCancel) unmarshal(r *buffer.Buffer) (err error) {
	if m.ConsumerTag, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	var br encoding.BitReader
	m.NoWait, err = br.ReadBit(r)
	return err
}

// BasicCancelOk confirms a BasicCancel.
type BasicCancelOk struct {
	ConsumerTag string
}

func (*BasicCancelOk) ClassID() uint16    { return classBasic }
func (*BasicCancelOk) MethodID() uint16   { return methodBasicCancelOk }
func (*BasicCancelOk) IsClientSide() bool { return true }

func (m *BasicCancelOk) marshal(w *buffer.Buffer) error {
	return encoding.WriteShortString(w, m.ConsumerTag)
}

func (m *BasicCancelOk) unmarshal(r *buffer.Buffer) (err error) {
	m.ConsumerTag, err = encoding.ReadShortString(r)
	return err
}

// BasicPublish begins a publish (method frame only; header/body follow as
// separate frames per spec §4.4, "Publish sequence").
type BasicPublish struct {
	Reserved1  uint16
	Exchange   string
	RoutingKey string
	Mandatory  bool
	Immediate  bool
}

func (*BasicPublish) ClassID() uint16    { return classBasic }
func (*BasicPublish) MethodID() uint16   { return methodBasicPublish }
func (*BasicPublish) IsClientSide() bool { return true }

func (m *BasicPublish) marshal(w *buffer.Buffer) error {
	encoding.WriteShort(w, m.Reserved1)
	if err := encoding.WriteShortString(w, m.Exchange); err != nil {
		return err
	}
	if err := encoding.WriteShortString(w, m.RoutingKey); err != nil {
		return err
	}
	var bw encoding.BitWriter
	bw.WriteBit(w, m.Mandatory)
	bw.WriteBit(w, m.Immediate)
	bw.Flush(w)
	return nil
}

func (m *BasicPublish) unmarshal(r *buffer.Buffer) (err error) {
	if m.Reserved1, err = encoding.ReadShort(r); err != nil {
		return err
	}
	if m.Exchange, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	if m.RoutingKey, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	var br encoding.BitReader
	if m.Mandatory, err = br.ReadBit(r); err != nil {
		return err
	}
	m.Immediate, err = br.ReadBit(r)
	return err
}

// BasicReturn notifies the client a mandatory/immediate publish could not be
// routed or delivered (spec §4.4, "Basic.Return").
type BasicReturn struct {
	ReplyCode  uint16
	ReplyText  string
	Exchange   string
	RoutingKey string
}

func (*BasicReturn) ClassID() uint16    { return classBasic }
func (*BasicReturn) MethodID() uint16   { return methodBasicReturn }
func (*BasicReturn) IsClientSide() bool { return false }

func (m *BasicReturn) marshal(w *buffer.Buffer) error {
	encoding.WriteShort(w, m.ReplyCode)
	if err := encoding.WriteShortString(w, m.ReplyText); err != nil {
		return err
	}
	if err := encoding.WriteShortString(w, m.Exchange); err != nil {
		return err
	}
	return encoding.WriteShortString(w, m.RoutingKey)
}

func (m *BasicReturn) unmarshal(r *buffer.Buffer) (err error) {
	if m.ReplyCode, err = encoding.ReadShort(r); err != nil {
		return err
	}
	if m.ReplyText, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	if m.Exchange, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	m.RoutingKey, err = encoding.ReadShortString(r)
	return err
}

// BasicDeliver routes a message pushed by the server to a consumer
// (spec §4.4, "Basic.Deliver").
type BasicDeliver struct {
	ConsumerTag string
	DeliveryTag uint64
	Redelivered bool
	Exchange    string
	RoutingKey  string
}

func (*BasicDeliver) ClassID() uint16    { return classBasic }
func (*BasicDeliver) MethodID() uint16   { return methodBasicDeliver }
func (*BasicDeliver) IsClientSide() bool { return false }

func (m *BasicDeliver) marshal(w *buffer.Buffer) error {
	if err := encoding.WriteShortString(w, m.ConsumerTag); err != nil {
		return err
	}
	encoding.WriteLonglong(w, m.DeliveryTag)
	var bw encoding.BitWriter
	bw.WriteBit(w, m.Redelivered)
	bw.Flush(w)
	if err := encoding.WriteShortString(w, m.Exchange); err != nil {
		return err
	}
	return encoding.WriteShortString(w, m.RoutingKey)
}

func (m *BasicDeliver) unmarshal(r *buffer.Buffer) (err error) {
	if m.ConsumerTag, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	if m.DeliveryTag, err = encoding.ReadLonglong(r); err != nil {
		return err
	}
	var br encoding.BitReader
	if m.Redelivered, err = br.ReadBit(r); err != nil {
		return err
	}
	if m.Exchange, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	m.RoutingKey, err = encoding.ReadShortString(r)
	return err
}

// BasicGet requests a single message (spec §4.4, "basic_get").
type BasicGet struct {
	Reserved1 uint16
	Queue     string
	NoAck     bool
}

func (*BasicGet) ClassID() uint16    { return classBasic }
func (*BasicGet) MethodID() uint16   { return methodBasicGet }
func (*BasicGet) IsClientSide() bool { return true }

func (m *BasicGet) marshal(w *buffer.Buffer) error {
	encoding.WriteShort(w, m.Reserved1)
	if err := encoding.WriteShortString(w, m.Queue); err != nil {
		return err
	}
	var bw encoding.BitWriter
	bw.WriteBit(w, m.NoAck)
	bw.Flush(w)
	return nil
}

func (m *BasicGet) unmarshal(r *buffer.Buffer) (err error) {
	if m.Reserved1, err = encoding.ReadShort(r); err != nil {
		return err
	}
	if m.Queue, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	var br encoding.BitReader
	m.NoAck, err = br.ReadBit(r)
	return err
}

// BasicGetOk answers BasicGet with a message (header/body frames follow).
type BasicGetOk struct {
	DeliveryTag  uint64
	Redelivered  bool
	Exchange     string
	RoutingKey   string
	MessageCount uint32
}

func (*BasicGetOk) ClassID() uint16    { return classBasic }
func (*BasicGetOk) MethodID() uint16   { return methodBasicGetOk }
func (*BasicGetOk) IsClientSide() bool { return false }

func (m *BasicGetOk) marshal(w *buffer.Buffer) error {
	encoding.WriteLonglong(w, m.DeliveryTag)
	var bw encoding.BitWriter
	bw.WriteBit(w, m.Redelivered)
	bw.Flush(w)
	if err := encoding.WriteShortString(w, m.Exchange); err != nil {
		return err
	}
	if err := encoding.WriteShortString(w, m.RoutingKey); err != nil {
		return err
	}
	encoding.WriteLong(w, m.MessageCount)
	return nil
}

func (m *BasicGetOk) unmarshal(r *buffer.Buffer) (err error) {
	if m.DeliveryTag, err = encoding.ReadLonglong(r); err != nil {
		return err
	}
	var br encoding.BitReader
	if m.Redelivered, err = br.ReadBit(r); err != nil {
		return err
	}
	if m.Exchange, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	if m.RoutingKey, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	m.MessageCount, err = encoding.ReadLong(r)
	return err
}

// BasicGetEmpty answers BasicGet when the queue has no message ready.
type BasicGetEmpty struct {
	Reserved1 string
}

func (*BasicGetEmpty) ClassID() uint16    { return classBasic }
func (*BasicGetEmpty) MethodID() uint16   { return methodBasicGetEmpty }
func (*BasicGetEmpty) IsClientSide() bool { return false }

func (m *BasicGetEmpty) marshal(w *buffer.Buffer) error {
	return encoding.WriteShortString(w, m.Reserved1)
}

func (m *BasicGetEmpty) unmarshal(r *buffer.Buffer) (err error) {
	m.Reserved1, err = encoding.ReadShortString(r)
	return err
}

// BasicAck acknowledges one or more deliveries (or, on a confirm-mode
// channel, one or more publisher confirms — SPEC_FULL §4.4).
type BasicAck struct {
	DeliveryTag uint64
	Multiple    bool
}

func (*BasicAck) ClassID() uint16    { return classBasic }
func (*BasicAck) MethodID() uint16   { return methodBasicAck }
func (*BasicAck) IsClientSide() bool { return true }

func (m *BasicAck) marshal(w *buffer.Buffer) error {
	encoding.WriteLonglong(w, m.DeliveryTag)
	var bw encoding.BitWriter
	bw.WriteBit(w, m.Multiple)
	bw.Flush(w)
	return nil
}

func (m *BasicAck) unmarshal(r *buffer.Buffer) (err error) {
	if m.DeliveryTag, err = encoding.ReadLonglong(r); err != nil {
		return err
	}
	var br encoding.BitReader
	m.Multiple, err = br.ReadBit(r)
	return err
}

// BasicReject rejects a single delivery, optionally requeueing it.
type BasicReject struct {
	DeliveryTag uint64
	Requeue     bool
}

func (*BasicReject) ClassID() uint16    { return classBasic }
func (*BasicReject) MethodID() uint16   { return methodBasicReject }
func (*BasicReject) IsClientSide() bool { return true }

func (m *BasicReject) marshal(w *buffer.Buffer) error {
	encoding.WriteLonglong(w, m.DeliveryTag)
	var bw encoding.BitWriter
	bw.WriteBit(w, m.Requeue)
	bw.Flush(w)
	return nil
}

func (m *BasicReject) unmarshal(r *buffer.Buffer) (err error) {
	if m.DeliveryTag, err = encoding.ReadLonglong(r); err != nil {
		return err
	}
	var br encoding.BitReader
	m.Requeue, err = br.ReadBit(r)
	return err
}

// BasicRecoverAsync is the legacy (pre-0.9.1) asynchronous Basic.Recover.
type BasicRecoverAsync struct {
	Requeue bool
}

func (*BasicRecoverAsync) ClassID() uint16    { return classBasic }
func (*BasicRecoverAsync) MethodID() uint16   { return methodBasicRecoverAsync }
func (*BasicRecoverAsync) IsClientSide() bool { return true }

func (m *BasicRecoverAsync) marshal(w *buffer.Buffer) error {
	var bw encoding.BitWriter
	bw.WriteBit(w, m.Requeue)
	bw.Flush(w)
	return nil
}

func (m *BasicRecoverAsync) unmarshal(r *buffer.Buffer) (err error) {
	var br encoding.BitReader
	m.Requeue, err = br.ReadBit(r)
	return err
}

// BasicRecover asks the server to redeliver unacked messages.
type BasicRecover struct {
	Requeue bool
}

func (*BasicRecover) ClassID() uint16    { return classBasic }
func (*BasicRecover) MethodID() uint16   { return methodBasicRecover }
func (*BasicRecover) IsClientSide() bool { return true }

func (m *BasicRecover) marshal(w *buffer.Buffer) error {
	var bw encoding.BitWriter
	bw.WriteBit(w, m.Requeue)
	bw.Flush(w)
	return nil
}

func (m *BasicRecover) unmarshal(r *buffer.Buffer) (err error) {
	var br encoding.BitReader
	m.Requeue, err = br.ReadBit(r)
	return err
}

// BasicRecoverOk confirms a BasicRecover.
type BasicRecoverOk struct{}

func (*BasicRecoverOk) ClassID() uint16        { return classBasic }
func (*BasicRecoverOk) MethodID() uint16       { return methodBasicRecoverOk }
func (*BasicRecoverOk) IsClientSide() bool     { return false }
func (*BasicRecoverOk) marshal(*buffer.Buffer) error   { return nil }
func (*BasicRecoverOk) unmarshal(*buffer.Buffer) error { return nil }

// BasicNack is RabbitMQ's extension allowing negative, optionally bulk,
// acknowledgement, sent by either peer depending on confirm-mode (SPEC_FULL §4.4).
type BasicNack struct {
	DeliveryTag uint64
	Multiple    bool
	Requeue     bool
}

func (*BasicNack) ClassID() uint16    { return classBasic }
func (*BasicNack) MethodID() uint16   { return methodBasicNack }
func (*BasicNack) IsClientSide() bool { return true }

func (m *BasicNack) marshal(w *buffer.Buffer) error {
	encoding.WriteLonglong(w, m.DeliveryTag)
	var bw encoding.BitWriter
	bw.WriteBit(w, m.Multiple)
	bw.WriteBit(w, m.Requeue)
	bw.Flush(w)
	return nil
}

func (m *BasicNack) unmarshal(r *buffer.Buffer) (err error) {
	if m.DeliveryTag, err = encoding.ReadLonglong(r); err != nil {
		return err
	}
	var br encoding.BitReader
	if m.Multiple, err = br.ReadBit(r); err != nil {
		return err
	}
	m.Requeue, err = br.ReadBit(r)
	return err
}
