package methods

import (
	"github.com/timrosenblatt/amqp091/internal/buffer"
	"github.com/timrosenblatt/amqp091/internal/encoding"
)

const classQueue = 50

const (
	methodQueueDeclare   = 10
	methodQueueDeclareOk = 11
	methodQueueBind      = 20
	methodQueueBindOk    = 21
	methodQueuePurge     = 30
	methodQueuePurgeOk   = 31
	methodQueueDelete    = 40
	methodQueueDeleteOk  = 41
	methodQueueUnbind    = 50
	methodQueueUnbindOk  = 51
)

func init() {
	register(classQueue, methodQueueDeclare, func() Method { return &QueueDeclare{} })
	register(classQueue, methodQueueDeclareOk, func() Method { return &QueueDeclareOk{} })
	register(classQueue, methodQueueBind, func() Method { return &QueueBind{} })
	register(classQueue, methodQueueBindOk, func() Method { return &QueueBindOk{} })
	register(classQueue, methodQueuePurge, func() Method { return &QueuePurge{} })
	register(classQueue, methodQueuePurgeOk, func() Method { return &QueuePurgeOk{} })
	register(classQueue, methodQueueDelete, func() Method { return &QueueDelete{} })
	register(classQueue, methodQueueDeleteOk, func() Method { return &QueueDeleteOk{} })
	register(classQueue, methodQueueUnbind, func() Method { return &QueueUnbind{} })
	register(classQueue, methodQueueUnbindOk, func() Method { return &QueueUnbindOk{} })
}

// QueueDeclare declares (or asserts) a queue.
type QueueDeclare struct {
	Reserved1  uint16
	Queue      string
	Passive    bool
	Durable    bool
	Exclusive  bool
	AutoDelete bool
	NoWait     bool
	Arguments  encoding.Table
}

func (*QueueDeclare) ClassID() uint16    { return classQueue }
func (*QueueDeclare) MethodID() uint16   { return methodQueueDeclare }
func (*QueueDeclare) IsClientSide() bool { return true }

func (m *QueueDeclare) marshal(w *buffer.Buffer) error {
	encoding.WriteShort(w, m.Reserved1)
	if err := encoding.WriteShortString(w, m.Queue); err != nil {
		return err
	}
	var bw encoding.BitWriter
	bw.WriteBit(w, m.Passive)
	bw.WriteBit(w, m.Durable)
	bw.WriteBit(w, m.Exclusive)
	bw.WriteBit(w, m.AutoDelete)
	bw.WriteBit(w, m.NoWait)
	bw.Flush(w)
	return encoding.WriteTable(w, m.Arguments)
}

func (m *QueueDeclare) unmarshal(r *buffer.Buffer) (err error) {
	if m.Reserved1, err = encoding.ReadShort(r); err != nil {
		return err
	}
	if m.Queue, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	var br encoding.BitReader
	if m.Passive, err = br.ReadBit(r); err != nil {
		return err
	}
	if m.Durable, err = br.ReadBit(r); err != nil {
		return err
	}
	if m.Exclusive, err = br.ReadBit(r); err != nil {
		return err
	}
	if m.AutoDelete, err = br.ReadBit(r); err != nil {
		return err
	}
	if m.NoWait, err = br.ReadBit(r); err != nil {
		return err
	}
	m.Arguments, err = encoding.ReadTable(r)
	return err
}

// QueueDeclareOk returns the (possibly server-generated) queue name and counts.
type QueueDeclareOk struct {
	Queue         string
	MessageCount  uint32
	ConsumerCount uint32
}

func (*QueueDeclareOk) ClassID() uint16    { return classQueue }
func (*QueueDeclareOk) MethodID() uint16   { return methodQueueDeclareOk }
func (*QueueDeclareOk) IsClientSide() bool { return false }

func (m *QueueDeclareOk) marshal(w *buffer.Buffer) error {
	if err := encoding.WriteShortString(w, m.Queue); err != nil {
		return err
	}
	encoding.WriteLong(w, m.MessageCount)
	encoding.WriteLong(w, m.ConsumerCount)
	return nil
}

func (m *QueueDeclareOk) unmarshal(r *buffer.Buffer) (err error) {
	if m.Queue, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	if m.MessageCount, err = encoding.ReadLong(r); err != nil {
		return err
	}
	m.ConsumerCount, err = encoding.ReadLong(r)
	return err
}

// QueueBind binds a queue to an exchange.
type QueueBind struct {
	Reserved1  uint16
	Queue      string
	Exchange   string
	RoutingKey string
	NoWait     bool
	Arguments  encoding.Table
}

func (*QueueBind) ClassID() uint16    { return classQueue }
func (*QueueBind) MethodID() uint16   { return methodQueueBind }
func (*QueueBind) IsClientSide() bool { return true }

func (m *QueueBind) marshal(w *buffer.Buffer) error {
	encoding.WriteShort(w, m.Reserved1)
	if err := encoding.WriteShortString(w, m.Queue); err != nil {
		return err
	}
	if err := encoding.WriteShortString(w, m.Exchange); err != nil {
		return err
	}
	if err := encoding.WriteShortString(w, m.RoutingKey); err != nil {
		return err
	}
	var bw encoding.BitWriter
	bw.WriteBit(w, m.NoWait)
	bw.Flush(w)
	return encoding.WriteTable(w, m.Arguments)
}

func (m *QueueBind) unmarshal(r *buffer.Buffer) (err error) {
	if m.Reserved1, err = encoding.ReadShort(r); err != nil {
		return err
	}
	if m.Queue, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	if m.Exchange, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	if m.RoutingKey, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	var br encoding.BitReader
	if m.NoWait, err = br.ReadBit(r); err != nil {
		return err
	}
	m.Arguments, err = encoding.ReadTable(r)
	return err
}

// QueueBindOk confirms a QueueBind.
type QueueBindOk struct{}

func (*QueueBindOk) ClassID() uint16        { return classQueue }
func (*QueueBindOk) MethodID() uint16       { return methodQueueBindOk }
func (*QueueBindOk) IsClientSide() bool     { return false }
func (*QueueBindOk) marshal(*buffer.Buffer) error   { return nil }
func (*QueueBindOk) unmarshal(*buffer.Buffer) error { return nil }

// QueueUnbind removes a binding created by QueueBind.
type QueueUnbind struct {
	Reserved1  uint16
	Queue      string
	Exchange   string
	RoutingKey string
	Arguments  encoding.Table
}

func (*QueueUnbind) ClassID() uint16    { return classQueue }
func (*QueueUnbind) MethodID() uint16   { return methodQueueUnbind }
func (*QueueUnbind) IsClientSide() bool { return true }

func (m *QueueUnbind) marshal(w *buffer.Buffer) error {
	encoding.WriteShort(w, m.Reserved1)
	if err := encoding.WriteShortString(w, m.Queue); err != nil {
		return err
	}
	if err := encoding.WriteShortString(w, m.Exchange); err != nil {
		return err
	}
	if err := encoding.WriteShortString(w, m.RoutingKey); err != nil {
		return err
	}
	return encoding.WriteTable(w, m.Arguments)
}

func (m *QueueUnbind) unmarshal(r *buffer.Buffer) (err error) {
	if m.Reserved1, err = encoding.ReadShort(r); err != nil {
		return err
	}
	if m.Queue, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	if m.Exchange, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	if m.RoutingKey, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	m.Arguments, err = encoding.ReadTable(r)
	return err
}

// QueueUnbindOk confirms a QueueUnbind.
type QueueUnbindOk struct{}

func (*QueueUnbindOk) ClassID() uint16        { return classQueue }
func (*QueueUnbindOk) MethodID() uint16       { return methodQueueUnbindOk }
func (*QueueUnbindOk) IsClientSide() bool     { return false }
func (*QueueUnbindOk) marshal(*buffer.Buffer) error   { return nil }
func (*QueueUnbindOk) unmarshal(*buffer.Buffer) error { return nil }

// QueuePurge removes all messages from a queue.
type QueuePurge struct {
	Reserved1 uint16
	Queue     string
	NoWait    bool
}

func (*QueuePurge) ClassID() uint16    { return classQueue }
func (*QueuePurge) MethodID() uint16   { return methodQueuePurge }
func (*QueuePurge) IsClientSide() bool { return true }

func (m *QueuePurge) marshal(w *buffer.Buffer) error {
	encoding.WriteShort(w, m.Reserved1)
	if err := encoding.WriteShortString(w, m.Queue); err != nil {
		return err
	}
	var bw encoding.BitWriter
	bw.WriteBit(w, m.NoWait)
	bw.Flush(w)
	return nil
}

func (m *QueuePurge) unmarshal(r *buffer.Buffer) (err error) {
	if m.Reserved1, err = encoding.ReadShort(r); err != nil {
		return err
	}
	if m.Queue, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	var br encoding.BitReader
	m.NoWait, err = br.ReadBit(r)
	return err
}

// QueuePurgeOk reports the number of messages purged.
type QueuePurgeOk struct {
	MessageCount uint32
}

func (*QueuePurgeOk) ClassID() uint16    { return classQueue }
func (*QueuePurgeOk) MethodID() uint16   { return methodQueuePurgeOk }
func (*QueuePurgeOk) IsClientSide() bool { return false }

func (m *QueuePurgeOk) marshal(w *buffer.Buffer) error {
	encoding.WriteLong(w, m.MessageCount)
	return nil
}

func (m *QueuePurgeOk) unmarshal(r *buffer.Buffer) (err error) {
	m.MessageCount, err = encoding.ReadLong(r)
	return err
}

// QueueDelete deletes a queue.
type QueueDelete struct {
	Reserved1 uint16
	Queue     string
	IfUnused  bool
	IfEmpty   bool
	NoWait    bool
}

func (*QueueDelete) ClassID() uint16    { return classQueue }
func (*QueueDelete) MethodID() uint16   { return methodQueueDelete }
func (*QueueDelete) IsClientSide() bool { return true }

func (m *QueueDelete) marshal(w *buffer.Buffer) error {
	encoding.WriteShort(w, m.Reserved1)
	if err := encoding.WriteShortString(w, m.Queue); err != nil {
		return err
	}
	var bw encoding.BitWriter
	bw.WriteBit(w, m.IfUnused)
	bw.WriteBit(w, m.IfEmpty)
	bw.WriteBit(w, m.NoWait)
	bw.Flush(w)
	return nil
}

func (m *QueueDelete) unmarshal(r *buffer.Buffer) (err error) {
	if m.Reserved1, err = encoding.ReadShort(r); err != nil {
		return err
	}
	if m.Queue, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	var br encoding.BitReader
	if m.IfUnused, err = br.ReadBit(r); err != nil {
		return err
	}
	if m.IfEmpty, err = br.ReadBit(r); err != nil {
		return err
	}
	m.NoWait, err = br.ReadBit(r)
	return err
}

// QueueDeleteOk reports the number of messages deleted along with the queue.
type QueueDeleteOk struct {
	MessageCount uint32
}

func (*QueueDeleteOk) ClassID() uint16    { return classQueue }
func (*QueueDeleteOk) MethodID() uint16   { return methodQueueDeleteOk }
func (*QueueDeleteOk) IsClientSide() bool { return false }

func (m *QueueDeleteOk) marshal(w *buffer.Buffer) error {
	encoding.WriteLong(w, m.MessageCount)
	return nil
}

func (m *QueueDeleteOk) unmarshal(r *buffer.Buffer) (err error) {
	m.MessageCount, err = encoding.ReadLong(r)
	return err
}
