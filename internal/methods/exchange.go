package methods

import (
	"github.com/timrosenblatt/amqp091/internal/buffer"
	"github.com/timrosenblatt/amqp091/internal/encoding"
)

const classExchange = 40

const (
	methodExchangeDeclare   = 10
	methodExchangeDeclareOk = 11
	methodExchangeDelete    = 20
	methodExchangeDeleteOk  = 21
	methodExchangeBind      = 30
	methodExchangeBindOk    = 31
	methodExchangeUnbind    = 40
	methodExchangeUnbindOk  = 51
)

func init() {
	register(classExchange, methodExchangeDeclare, func() Method { return &ExchangeDeclare{} })
	register(classExchange, methodExchangeDeclareOk, func() Method { return &ExchangeDeclareOk{} })
	register(classExchange, methodExchangeDelete, func() Method { return &ExchangeDelete{} })
	register(classExchange, methodExchangeDeleteOk, func() Method { return &ExchangeDeleteOk{} })
	register(classExchange, methodExchangeBind, func() Method { return &ExchangeBind{} })
	register(classExchange, methodExchangeBindOk, func() Method { return &ExchangeBindOk{} })
	register(classExchange, methodExchangeUnbind, func() Method { return &ExchangeUnbind{} })
	register(classExchange, methodExchangeUnbindOk, func() Method { return &ExchangeUnbindOk{} })
}

// ExchangeDeclare declares (or asserts) an exchange.
type ExchangeDeclare struct {
	Reserved1  uint16
	Exchange   string
	Type       string
	Passive    bool
	Durable    bool
	AutoDelete bool
	Internal   bool
	NoWait     bool
	Arguments  encoding.Table
}

func (*ExchangeDeclare) ClassID() uint16    { return classExchange }
func (*ExchangeDeclare) MethodID() uint16   { return methodExchangeDeclare }
func (*ExchangeDeclare) IsClientSide() bool { return true }

func (m *ExchangeDeclare) marshal(w *buffer.Buffer) error {
	encoding.WriteShort(w, m.Reserved1)
	if err := encoding.WriteShortString(w, m.Exchange); err != nil {
		return err
	}
	if err := encoding.WriteShortString(w, m.Type); err != nil {
		return err
	}
	var bw encoding.BitWriter
	bw.WriteBit(w, m.Passive)
	bw.WriteBit(w, m.Durable)
	bw.WriteBit(w, m.AutoDelete)
	bw.WriteBit(w, m.Internal)
	bw.WriteBit(w, m.NoWait)
	bw.Flush(w)
	return encoding.WriteTable(w, m.Arguments)
}

func (m *ExchangeDeclare) unmarshal(r *buffer.Buffer) (err error) {
	if m.Reserved1, err = encoding.ReadShort(r); err != nil {
		return err
	}
	if m.Exchange, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	if m.Type, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	var br encoding.BitReader
	if m.Passive, err = br.ReadBit(r); err != nil {
		return err
	}
	if m.Durable, err = br.ReadBit(r); err != nil {
		return err
	}
	if m.AutoDelete, err = br.ReadBit(r); err != nil {
		return err
	}
	if m.Internal, err = br.ReadBit(r); err != nil {
		return err
	}
	if m.NoWait, err = br.ReadBit(r); err != nil {
		return err
	}
	m.Arguments, err = encoding.ReadTable(r)
	return err
}

// ExchangeDeclareOk confirms an ExchangeDeclare.
type ExchangeDeclareOk struct{}

func (*ExchangeDeclareOk) ClassID() uint16        { return classExchange }
func (*ExchangeDeclareOk) MethodID() uint16       { return methodExchangeDeclareOk }
func (*ExchangeDeclareOk) IsClientSide() bool     { return false }
func (*ExchangeDeclareOk) marshal(*buffer.Buffer) error   { return nil }
func (*ExchangeDeclareOk) unmarshal(*buffer.Buffer) error { return nil }

// ExchangeDelete deletes an exchange.
type ExchangeDelete struct {
	Reserved1 uint16
	Exchange  string
	IfUnused  bool
	NoWait    bool
}

func (*ExchangeDelete) ClassID() uint16    { return classExchange }
func (*ExchangeDelete) MethodID() uint16   { return methodExchangeDelete }
func (*ExchangeDelete) IsClientSide() bool { return true }

func (m *ExchangeDelete) marshal(w *buffer.Buffer) error {
	encoding.WriteShort(w, m.Reserved1)
	if err := encoding.WriteShortString(w, m.Exchange); err != nil {
		return err
	}
	var bw encoding.BitWriter
	bw.WriteBit(w, m.IfUnused)
	bw.WriteBit(w, m.NoWait)
	bw.Flush(w)
	return nil
}

func (m *ExchangeDelete) unmarshal(r *buffer.Buffer) (err error) {
	if m.Reserved1, err = encoding.ReadShort(r); err != nil {
		return err
	}
	if m.Exchange, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	var br encoding.BitReader
	if m.IfUnused, err = br.ReadBit(r); err != nil {
		return err
	}
	m.NoWait, err = br.ReadBit(r)
	return err
}

// ExchangeDeleteOk confirms an ExchangeDelete.
type ExchangeDeleteOk struct{}

func (*ExchangeDeleteOk) ClassID() uint16        { return classExchange }
func (*ExchangeDeleteOk) MethodID() uint16       { return methodExchangeDeleteOk }
func (*ExchangeDeleteOk) IsClientSide() bool     { return false }
func (*ExchangeDeleteOk) marshal(*buffer.Buffer) error   { return nil }
func (*ExchangeDeleteOk) unmarshal(*buffer.Buffer) error { return nil }

// ExchangeBind binds one exchange to another (RabbitMQ extension the client
// must still be able to speak, used by exchange_bind).
type ExchangeBind struct {
	Reserved1   uint16
	Destination string
	Source      string
	RoutingKey  string
	NoWait      bool
	Arguments   encoding.Table
}

func (*ExchangeBind) ClassID() uint16    { return classExchange }
func (*ExchangeBind) MethodID() uint16   { return methodExchangeBind }
func (*ExchangeBind) IsClientSide() bool { return true }

func (m *ExchangeBind) marshal(w *buffer.Buffer) error {
	encoding.WriteShort(w, m.Reserved1)
	if err := encoding.WriteShortString(w, m.Destination); err != nil {
		return err
	}
	if err := encoding.WriteShortString(w, m.Source); err != nil {
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

func (m *ExchangeBind) unmarshal(r *buffer.Buffer) (err error) {
	if m.Reserved1, err = encoding.ReadShort(r); err != nil {
		return err
	}
	if m.Destination, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	if m.Source, err = encoding.ReadShortString(r); err != nil {
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

// ExchangeBindOk confirms an ExchangeBind.
type ExchangeBindOk struct{}

func (*ExchangeBindOk) ClassID() uint16        { return classExchange }
func (*ExchangeBindOk) MethodID() uint16       { return methodExchangeBindOk }
func (*ExchangeBindOk) IsClientSide() bool     { return false }
func (*ExchangeBindOk) marshal(*buffer.Buffer) error   { return nil }
func (*ExchangeBindOk) unmarshal(*buffer.Buffer) error { return nil }

// ExchangeUnbind removes a binding created by ExchangeBind.
type ExchangeUnbind struct {
	Reserved1   uint16
	Destination string
	Source      string
	RoutingKey  string
	NoWait      bool
	Arguments   encoding.Table
}

func (*ExchangeUnbind) ClassID() uint16    { return classExchange }
func (*ExchangeUnbind) MethodID() uint16   { return methodExchangeUnbind }
func (*ExchangeUnbind) IsClientSide() bool { return true }

func (m *ExchangeUnbind) marshal(w *buffer.Buffer) error {
	encoding.WriteShort(w, m.Reserved1)
	if err := encoding.WriteShortString(w, m.Destination); err != nil {
		return err
	}
	if err := encoding.WriteShortString(w, m.Source); err != nil {
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

func (m *ExchangeUnbind) unmarshal(r *buffer.Buffer) (err error) {
	if m.Reserved1, err = encoding.ReadShort(r); err != nil {
		return err
	}
	if m.Destination, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	if m.Source, err = encoding.ReadShortString(r); err != nil {
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

// ExchangeUnbindOk confirms an ExchangeUnbind.
type ExchangeUnbindOk struct{}

func (*ExchangeUnbindOk) ClassID() uint16        { return classExchange }
func (*ExchangeUnbindOk) MethodID() uint16       { return methodExchangeUnbindOk }
func (*ExchangeUnbindOk) IsClientSide() bool     { return false }
func (*ExchangeUnbindOk) marshal(*buffer.Buffer) error   { return nil }
func (*ExchangeUnbindOk) unmarshal(*buffer.Buffer) error { return nil }
