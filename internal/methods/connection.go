package methods

import (
	"github.com/timrosenblatt/amqp091/internal/buffer"
	"github.com/timrosenblatt/amqp091/internal/encoding"
)

const classConnection = 10

const (
	methodConnectionStart      = 10
	methodConnectionStartOk    = 11
	methodConnectionSecure     = 20
	methodConnectionSecureOk   = 21
	methodConnectionTune       = 30
	methodConnectionTuneOk     = 31
	methodConnectionOpen       = 40
	methodConnectionOpenOk     = 41
	methodConnectionClose      = 50
	methodConnectionCloseOk    = 51
	methodConnectionBlocked    = 60
	methodConnectionUnblocked  = 61
)

func init() {
	register(classConnection, methodConnectionStart, func() Method { return &ConnectionStart{} })
	register(classConnection, methodConnectionStartOk, func() Method { return &ConnectionStartOk{} })
	register(classConnection, methodConnectionSecure, func() Method { return &ConnectionSecure{} })
	register(classConnection, methodConnectionSecureOk, func() Method { return &ConnectionSecureOk{} })
	register(classConnection, methodConnectionTune, func() Method { return &ConnectionTune{} })
	register(classConnection, methodConnectionTuneOk, func() Method { return &ConnectionTuneOk{} })
	register(classConnection, methodConnectionOpen, func() Method { return &ConnectionOpen{} })
	register(classConnection, methodConnectionOpenOk, func() Method { return &ConnectionOpenOk{} })
	register(classConnection, methodConnectionClose, func() Method { return &ConnectionClose{} })
	register(classConnection, methodConnectionCloseOk, func() Method { return &ConnectionCloseOk{} })
	register(classConnection, methodConnectionBlocked, func() Method { return &ConnectionBlocked{} })
	register(classConnection, methodConnectionUnblocked, func() Method { return &ConnectionUnblocked{} })
}

// ConnectionStart is sent by the server to begin the handshake (spec §4.5 step 2).
type ConnectionStart struct {
	VersionMajor     uint8
	VersionMinor     uint8
	ServerProperties encoding.Table
	Mechanisms       []byte // space-separated SASL mechanism names
	Locales          []byte
}

func (*ConnectionStart) ClassID() uint16    { return classConnection }
func (*ConnectionStart) MethodID() uint16   { return methodConnectionStart }
func (*ConnectionStart) IsClientSide() bool { return false }

func (m *ConnectionStart) marshal(w *buffer.Buffer) error {
	encoding.WriteOctet(w, m.VersionMajor)
	encoding.WriteOctet(w, m.VersionMinor)
	if err := encoding.WriteTable(w, m.ServerProperties); err != nil {
		return err
	}
	if err := encoding.WriteLongString(w, m.Mechanisms); err != nil {
		return err
	}
	return encoding.WriteLongString(w, m.Locales)
}

func (m *ConnectionStart) unmarshal(r *buffer.Buffer) (err error) {
	if m.VersionMajor, err = encoding.ReadOctet(r); err != nil {
		return err
	}
	if m.VersionMinor, err = encoding.ReadOctet(r); err != nil {
		return err
	}
	if m.ServerProperties, err = encoding.ReadTable(r); err != nil {
		return err
	}
	if m.Mechanisms, err = encoding.ReadLongString(r); err != nil {
		return err
	}
	m.Locales, err = encoding.ReadLongString(r)
	return err
}

// ConnectionStartOk is the client's SASL mechanism selection and response.
type ConnectionStartOk struct {
	ClientProperties encoding.Table
	Mechanism        string
	Response         []byte
	Locale           string
}

func (*ConnectionStartOk) ClassID() uint16    { return classConnection }
func (*ConnectionStartOk) MethodID() uint16   { return methodConnectionStartOk }
func (*ConnectionStartOk) IsClientSide() bool { return true }

func (m *ConnectionStartOk) marshal(w *buffer.Buffer) error {
	if err := encoding.WriteTable(w, m.ClientProperties); err != nil {
		return err
	}
	if err := encoding.WriteShortString(w, m.Mechanism); err != nil {
		return err
	}
	if err := encoding.WriteLongString(w, m.Response); err != nil {
		return err
	}
	return encoding.WriteShortString(w, m.Locale)
}

func (m *ConnectionStartOk) unmarshal(r *buffer.Buffer) (err error) {
	if m.ClientProperties, err = encoding.ReadTable(r); err != nil {
		return err
	}
	if m.Mechanism, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	if m.Response, err = encoding.ReadLongString(r); err != nil {
		return err
	}
	m.Locale, err = encoding.ReadShortString(r)
	return err
}

// ConnectionSecure is an optional repeatable SASL challenge (spec §4.5 step 4).
type ConnectionSecure struct {
	Challenge []byte
}

func (*ConnectionSecure) ClassID() uint16    { return classConnection }
func (*ConnectionSecure) MethodID() uint16   { return methodConnectionSecure }
func (*ConnectionSecure) IsClientSide() bool { return false }

func (m *ConnectionSecure) marshal(w *buffer.Buffer) error {
	return encoding.WriteLongString(w, m.Challenge)
}

func (m *ConnectionSecure) unmarshal(r *buffer.Buffer) (err error) {
	m.Challenge, err = encoding.ReadLongString(r)
	return err
}

// ConnectionSecureOk answers a ConnectionSecure challenge.
type ConnectionSecureOk struct {
	Response []byte
}

func (*ConnectionSecureOk) ClassID() uint16    { return classConnection }
func (*ConnectionSecureOk) MethodID() uint16   { return methodConnectionSecureOk }
func (*ConnectionSecureOk) IsClientSide() bool { return true }

func (m *ConnectionSecureOk) marshal(w *buffer.Buffer) error {
	return encoding.WriteLongString(w, m.Response)
}

func (m *ConnectionSecureOk) unmarshal(r *buffer.Buffer) (err error) {
	m.Response, err = encoding.ReadLongString(r)
	return err
}

// ConnectionTune carries the server's proposed tuning values (spec §4.5 step 5).
type ConnectionTune struct {
	ChannelMax uint16
	FrameMax   uint32
	Heartbeat  uint16
}

func (*ConnectionTune) ClassID() uint16    { return classConnection }
func (*ConnectionTune) MethodID() uint16   { return methodConnectionTune }
func (*ConnectionTune) IsClientSide() bool { return false }

func (m *ConnectionTune) marshal(w *buffer.Buffer) error {
	encoding.WriteShort(w, m.ChannelMax)
	encoding.WriteLong(w, m.FrameMax)
	encoding.WriteShort(w, m.Heartbeat)
	return nil
}

func (m *ConnectionTune) unmarshal(r *buffer.Buffer) (err error) {
	if m.ChannelMax, err = encoding.ReadShort(r); err != nil {
		return err
	}
	if m.FrameMax, err = encoding.ReadLong(r); err != nil {
		return err
	}
	m.Heartbeat, err = encoding.ReadShort(r)
	return err
}

// ConnectionTuneOk carries the negotiated tuning values back to the server.
type ConnectionTuneOk struct {
	ChannelMax uint16
	FrameMax   uint32
	Heartbeat  uint16
}

func (*ConnectionTuneOk) ClassID() uint16    { return classConnection }
func (*ConnectionTuneOk) MethodID() uint16   { return methodConnectionTuneOk }
func (*ConnectionTuneOk) IsClientSide() bool { return true }

func (m *ConnectionTuneOk) marshal(w *buffer.Buffer) error {
	encoding.WriteShort(w, m.ChannelMax)
	encoding.WriteLong(w, m.FrameMax)
	encoding.WriteShort(w, m.Heartbeat)
	return nil
}

func (m *ConnectionTuneOk) unmarshal(r *buffer.Buffer) (err error) {
	if m.ChannelMax, err = encoding.ReadShort(r); err != nil {
		return err
	}
	if m.FrameMax, err = encoding.ReadLong(r); err != nil {
		return err
	}
	m.Heartbeat, err = encoding.ReadShort(r)
	return err
}

// ConnectionOpen selects the virtual host (spec §4.5 step 7).
type ConnectionOpen struct {
	VirtualHost string
	Reserved1   string
	Reserved2   bool
}

func (*ConnectionOpen) ClassID() uint16    { return classConnection }
func (*ConnectionOpen) MethodID() uint16   { return methodConnectionOpen }
func (*ConnectionOpen) IsClientSide() bool { return true }

func (m *ConnectionOpen) marshal(w *buffer.Buffer) error {
	if err := encoding.WriteShortString(w, m.VirtualHost); err != nil {
		return err
	}
	if err := encoding.WriteShortString(w, m.Reserved1); err != nil {
		return err
	}
	var bw encoding.BitWriter
	bw.WriteBit(w, m.Reserved2)
	bw.Flush(w)
	return nil
}

func (m *ConnectionOpen) unmarshal(r *buffer.Buffer) (err error) {
	if m.VirtualHost, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	if m.Reserved1, err = encoding.ReadShortString(r); err != nil {
		return err
	}
	var br encoding.BitReader
	m.Reserved2, err = br.ReadBit(r)
	return err
}

// ConnectionOpenOk confirms the virtual host selection.
type ConnectionOpenOk struct {
	Reserved1 string
}

func (*ConnectionOpenOk) ClassID() uint16    { return classConnection }
func (*ConnectionOpenOk) MethodID() uint16   { return methodConnectionOpenOk }
func (*ConnectionOpenOk) IsClientSide() bool { return false }

func (m *ConnectionOpenOk) marshal(w *buffer.Buffer) error {
	return encoding.WriteShortString(w, m.Reserved1)
}

func (m *ConnectionOpenOk) unmarshal(r *buffer.Buffer) (err error) {
	m.Reserved1, err = encoding.ReadShortString(r)
	return err
}

// ConnectionClose may be sent by either peer to begin a connection-level
// close handshake (spec §3, "asymmetric close semantics").
// ConnectionClose carries the (class, method) of the request that provoked
// the close alongside the reply code — named FailingClassID/FailingMethodID,
// not ClassID/MethodID, so the field doesn't collide with the Method
// interface's own ClassID()/MethodID() on this type.
type ConnectionClose struct {
	ReplyCode       uint16
	ReplyText       string
	FailingClassID  uint16
	FailingMethodID uint16
}

func (*ConnectionClose) ClassID() uint16    { return classConnection }
func (*ConnectionClose) MethodID() uint16   { return methodConnectionClose }
func (*ConnectionClose) IsClientSide() bool { return true }

func (m *ConnectionClose) marshal(w *buffer.Buffer) error {
	encoding.WriteShort(w, m.ReplyCode)
	if err := encoding.WriteShortString(w, m.ReplyText); err != nil {
		return err
	}
	encoding.WriteShort(w, m.FailingClassID)
	encoding.WriteShort(w, m.FailingMethodID)
	return nil
}

func (m *ConnectionClose) unmarshal(r *buffer.Buffer) (err error) {
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

// ConnectionCloseOk concludes a connection-close handshake.
type ConnectionCloseOk struct{}

func (*ConnectionCloseOk) ClassID() uint16        { return classConnection }
func (*ConnectionCloseOk) MethodID() uint16       { return methodConnectionCloseOk }
func (*ConnectionCloseOk) IsClientSide() bool     { return true }
func (*ConnectionCloseOk) marshal(*buffer.Buffer) error   { return nil }
func (*ConnectionCloseOk) unmarshal(*buffer.Buffer) error { return nil }

// ConnectionBlocked is RabbitMQ's resource-alarm notification (SPEC_FULL §4.5).
type ConnectionBlocked struct {
	Reason string
}

func (*ConnectionBlocked) ClassID() uint16    { return classConnection }
func (*ConnectionBlocked) MethodID() uint16   { return methodConnectionBlocked }
func (*ConnectionBlocked) IsClientSide() bool { return false }

func (m *ConnectionBlocked) marshal(w *buffer.Buffer) error {
	return encoding.WriteShortString(w, m.Reason)
}

func (m *ConnectionBlocked) unmarshal(r *buffer.Buffer) (err error) {
	m.Reason, err = encoding.ReadShortString(r)
	return err
}

// ConnectionUnblocked clears a previously signaled ConnectionBlocked state.
type ConnectionUnblocked struct{}

func (*ConnectionUnblocked) ClassID() uint16        { return classConnection }
func (*ConnectionUnblocked) MethodID() uint16       { return methodConnectionUnblocked }
func (*ConnectionUnblocked) IsClientSide() bool     { return false }
func (*ConnectionUnblocked) marshal(*buffer.Buffer) error   { return nil }
func (*ConnectionUnblocked) unmarshal(*buffer.Buffer) error { return nil }
