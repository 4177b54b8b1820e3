package methods

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/timrosenblatt/amqp091/internal/buffer"
	"github.com/timrosenblatt/amqp091/internal/encoding"
)

// roundTrip encodes m, decodes the result, and returns the decoded value.
func roundTrip(t *testing.T, m Method) Method {
	t.Helper()
	w := buffer.New(nil)
	require.NoError(t, Encode(w, m))

	r := buffer.New(w.Bytes())
	got, err := Decode(r)
	require.NoError(t, err)
	require.Equal(t, 0, r.Len(), "decoder left unread bytes")
	return got
}

func TestMethodRoundTrips(t *testing.T) {
	cases := []Method{
		&ConnectionStart{VersionMajor: 0, VersionMinor: 9, ServerProperties: encoding.Table{"product": "broker"}, Mechanisms: []byte("PLAIN AMQPLAIN"), Locales: []byte("en_US")},
		&ConnectionStartOk{ClientProperties: encoding.Table{"product": "client"}, Mechanism: "PLAIN", Response: []byte("\x00guest\x00guest"), Locale: "en_US"},
		&ConnectionSecure{Challenge: []byte("challenge")},
		&ConnectionSecureOk{Response: []byte("response")},
		&ConnectionTune{ChannelMax: 2047, FrameMax: 131072, Heartbeat: 60},
		&ConnectionTuneOk{ChannelMax: 2047, FrameMax: 131072, Heartbeat: 60},
		&ConnectionOpen{VirtualHost: "/", Reserved1: "", Reserved2: false},
		&ConnectionOpenOk{Reserved1: ""},
		&ConnectionClose{ReplyCode: 200, ReplyText: "bye", FailingClassID: 10, FailingMethodID: 40},
		&ConnectionCloseOk{},
		&ConnectionBlocked{Reason: "low on memory"},
		&ConnectionUnblocked{},

		&ChannelOpen{Reserved1: ""},
		&ChannelOpenOk{Reserved1: []byte{}},
		&ChannelFlow{Active: true},
		&ChannelFlowOk{Active: false},
		&ChannelClose{ReplyCode: 320, ReplyText: "closed", FailingClassID: 60, FailingMethodID: 40},
		&ChannelCloseOk{},

		&ExchangeDeclare{Exchange: "logs", Type: "topic", Durable: true, Arguments: encoding.Table{"x-foo": int32(1)}},
		&ExchangeDeclareOk{},
		&ExchangeDelete{Exchange: "logs", IfUnused: true},
		&ExchangeDeleteOk{},
		&ExchangeBind{Destination: "a", Source: "b", RoutingKey: "rk"},
		&ExchangeBindOk{},
		&ExchangeUnbind{Destination: "a", Source: "b", RoutingKey: "rk"},
		&ExchangeUnbindOk{},

		&QueueDeclare{Queue: "q1", Durable: true, Arguments: encoding.Table{}},
		&QueueDeclareOk{Queue: "q1", MessageCount: 3, ConsumerCount: 1},
		&QueueBind{Queue: "q1", Exchange: "logs", RoutingKey: "rk"},
		&QueueBindOk{},
		&QueuePurge{Queue: "q1"},
		&QueuePurgeOk{MessageCount: 5},
		&QueueDelete{Queue: "q1", IfEmpty: true},
		&QueueDeleteOk{MessageCount: 5},
		&QueueUnbind{Queue: "q1", Exchange: "logs", RoutingKey: "rk"},
		&QueueUnbindOk{},

		&BasicQos{PrefetchSize: 0, PrefetchCount: 10, Global: false},
		&BasicQosOk{},
		&BasicConsume{Queue: "q1", ConsumerTag: "ctag-1", NoAck: true},
		&BasicConsumeOk{ConsumerTag: "ctag-1"},
		&BasicCancel{ConsumerTag: "ctag-1"},
		&BasicCancelOk{ConsumerTag: "ctag-1"},
		&BasicPublish{Exchange: "logs", RoutingKey: "rk", Mandatory: true},
		&BasicReturn{ReplyCode: 312, ReplyText: "no route", Exchange: "logs", RoutingKey: "rk"},
		&BasicDeliver{ConsumerTag: "ctag-1", DeliveryTag: 42, Exchange: "logs", RoutingKey: "rk"},
		&BasicGet{Queue: "q1"},
		&BasicGetOk{DeliveryTag: 1, Exchange: "logs", RoutingKey: "rk", MessageCount: 0},
		&BasicGetEmpty{},
		&BasicAck{DeliveryTag: 42, Multiple: true},
		&BasicReject{DeliveryTag: 42, Requeue: true},
		&BasicRecoverAsync{Requeue: true},
		&BasicRecover{Requeue: true},
		&BasicRecoverOk{},
		&BasicNack{DeliveryTag: 42, Multiple: false, Requeue: true},

		&TxSelect{},
		&TxSelectOk{},
		&TxCommit{},
		&TxCommitOk{},
		&TxRollback{},
		&TxRollbackOk{},

		&ConfirmSelect{NoWait: true},
		&ConfirmSelectOk{},
	}

	for _, m := range cases {
		m := m
		t.Run(fmt.Sprintf("%T", m), func(t *testing.T) {
			got := roundTrip(t, m)
			if diff := cmp.Diff(m, got, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeUnknownMethod(t *testing.T) {
	w := buffer.New(nil)
	encoding.WriteShort(w, 9999)
	encoding.WriteShort(w, 9999)

	_, err := Decode(buffer.New(w.Bytes()))
	require.ErrorIs(t, err, ErrNotImplemented)
}

func TestBasicHeaderRoundTrip(t *testing.T) {
	h := &BasicHeader{
		BodySize:        128,
		ContentType:     "application/json",
		ContentEncoding: "utf-8",
		Headers:         encoding.Table{"x-retry": int32(2)},
		DeliveryMode:    2,
		Priority:        5,
		CorrelationID:   "corr-1",
		ReplyTo:         "reply-queue",
		Expiration:      "60000",
		MessageID:       "msg-1",
		Timestamp:       time.Unix(1700000000, 0).UTC(),
		Type:            "order.created",
		UserID:          "guest",
		AppID:           "billing",
		ClusterID:       "cluster-a",
	}

	w := buffer.New(nil)
	require.NoError(t, h.Marshal(w))

	got := &BasicHeader{}
	require.NoError(t, got.Unmarshal(buffer.New(w.Bytes())))

	if diff := cmp.Diff(h, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("header round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestBasicHeaderOmitsUnsetProperties(t *testing.T) {
	h := &BasicHeader{BodySize: 0}
	w := buffer.New(nil)
	require.NoError(t, h.Marshal(w))

	got := &BasicHeader{}
	require.NoError(t, got.Unmarshal(buffer.New(w.Bytes())))
	require.Equal(t, "", got.ContentType)
	require.True(t, got.Timestamp.IsZero())
}
