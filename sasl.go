package amqp

import (
	"fmt"

	"github.com/timrosenblatt/amqp091/internal/buffer"
	"github.com/timrosenblatt/amqp091/internal/encoding"
)

// Authentication is an AMQP SASL mechanism. Implementations encode a single
// SASL response to send in Connection.StartOk (or Connection.SecureOk, for
// challenge/response mechanisms this client does not yet implement).
type Authentication interface {
	// Mechanism is the name advertised to the server (e.g. "PLAIN").
	Mechanism() string
	// Response returns the initial SASL response bytes.
	Response() []byte
}

// PlainAuth implements the SASL PLAIN mechanism (RFC 4616): a single
// response of the form "\0authzid\0authcid\0passwd", authzid left empty.
type PlainAuth struct {
	Username string
	Password string
}

func (PlainAuth) Mechanism() string { return "PLAIN" }

func (a PlainAuth) Response() []byte {
	return []byte(fmt.Sprintf("\x00%s\x00%s", a.Username, a.Password))
}

// AMQPPlainAuth implements RabbitMQ's AMQPLAIN mechanism: the same
// credentials as PLAIN, but carried as an AMQP field table (LOGIN/PASSWORD
// short strings) rather than a NUL-delimited string, for servers that speak
// it but not SASL PLAIN.
type AMQPPlainAuth struct {
	Username string
	Password string
}

func (AMQPPlainAuth) Mechanism() string { return "AMQPLAIN" }

// Response encodes LOGIN/PASSWORD as a sequence of field-name/field-value
// pairs (shortstr name, 'S'-tagged longstr value), the same shape as a
// field table's body but without the table's own length prefix — the
// overall response is already length-framed as the StartOk.Response
// longstr field.
func (a AMQPPlainAuth) Response() []byte {
	w := buffer.New(nil)
	writeAMQPlainField(w, "LOGIN", a.Username)
	writeAMQPlainField(w, "PASSWORD", a.Password)
	return w.Bytes()
}

func writeAMQPlainField(w *buffer.Buffer, name, value string) {
	// Field names here are fixed ASCII well under the short-string limit,
	// and a value would have to reach 4 GiB to exceed the long-string
	// limit, so these errors are ignored.
	_ = encoding.WriteShortString(w, name)
	encoding.WriteOctet(w, 'S')
	_ = encoding.WriteLongString(w, []byte(value))
}
