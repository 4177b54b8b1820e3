package amqp_test

import (
	"context"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/require"

	amqp "github.com/timrosenblatt/amqp091"
	"github.com/timrosenblatt/amqp091/internal/frames"
	"github.com/timrosenblatt/amqp091/internal/methods"
	"github.com/timrosenblatt/amqp091/internal/mocks"
)

// Scenario 2 (spec §8): declare a queue, publish a message to it, then fetch
// it back with Basic.Get, exercising the header/body assembly path that
// turns a 3-frame sequence into a single *Delivery.
func TestQueueDeclarePublishGetRoundTrip(t *testing.T) {
	defer leaktest.Check(t)()

	b := newFakeBroker(t)
	conn, err := b.dial(t, amqp.Config{})
	require.NoError(t, err)
	defer conn.Close(context.Background(), amqp.ReplySuccess, "")

	ctx := context.Background()
	ch, err := conn.Channel(ctx)
	require.NoError(t, err)

	const queueName = "amq.gen-test"
	var published []byte

	b.on(ch.ID(), func(f frames.Frame, m methods.Method) ([]byte, error) {
		switch f.Kind {
		case frames.KindHeader:
			return nil, nil
		case frames.KindBody:
			published = append(published, f.Payload...)
			return nil, nil
		}
		switch m.(type) {
		case *methods.QueueDeclare:
			return mocks.EncodeMethod(f.Channel, &methods.QueueDeclareOk{Queue: queueName})
		case *methods.BasicPublish:
			return nil, nil
		case *methods.BasicGet:
			return encodeContentFrames(t, f.Channel, &methods.BasicGetOk{
				DeliveryTag: 1,
				RoutingKey:  queueName,
			}, published)
		}
		return nil, nil
	})

	info, err := ch.QueueDeclare(ctx, "", false, false, true, false, false, nil)
	require.NoError(t, err)
	require.Equal(t, queueName, info.Name)

	err = ch.Publish(ctx, "", info.Name, false, false, amqp.Publishing{Body: []byte("hello")})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return string(published) == "hello"
	}, time.Second, time.Millisecond, "publish frames never reached the broker")

	d, ok, err := ch.Get(ctx, info.Name, true)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("hello"), d.Body)
	require.Equal(t, queueName, d.RoutingKey)
}

// Scenario 4 (spec §8): the peer closes a channel out from under a pending
// request. The caller sees an error carrying the reply code, and the
// connection itself keeps serving other channels.
func TestPeerInitiatedChannelClose(t *testing.T) {
	defer leaktest.Check(t)()

	b := newFakeBroker(t)
	conn, err := b.dial(t, amqp.Config{})
	require.NoError(t, err)
	defer conn.Close(context.Background(), amqp.ReplySuccess, "")

	ch, err := conn.Channel(context.Background())
	require.NoError(t, err)

	b.on(ch.ID(), func(f frames.Frame, m methods.Method) ([]byte, error) {
		if _, ok := m.(*methods.QueueBind); ok {
			b.pushMethod(ch.ID(), &methods.ChannelClose{
				ReplyCode:       amqp.NotFound,
				ReplyText:       "NOT_FOUND - no queue 'q' in vhost '/'",
				FailingClassID:  50,
				FailingMethodID: 20,
			})
		}
		return nil, nil
	})

	err = ch.QueueBind(context.Background(), "q", "ex", "rk", false, nil)
	require.Error(t, err)

	var chErr *amqp.ChannelError
	require.ErrorAs(t, err, &chErr)
	require.Equal(t, uint16(amqp.NotFound), chErr.Err.Code)

	ch2, err := conn.Channel(context.Background())
	require.NoError(t, err)

	b.on(ch2.ID(), func(f frames.Frame, m methods.Method) ([]byte, error) {
		if _, ok := m.(*methods.QueueDeclare); ok {
			return mocks.EncodeMethod(f.Channel, &methods.QueueDeclareOk{Queue: "q2"})
		}
		return nil, nil
	})
	info, err := ch2.QueueDeclare(context.Background(), "q2", false, false, false, false, false, nil)
	require.NoError(t, err)
	require.Equal(t, "q2", info.Name)
}

// Scenario 3 (spec §8): a request blocked waiting on one channel's reply
// never delays another channel's request, since each channel serializes its
// own request/reply pairs independently of its siblings.
func TestChannelsOperateIndependently(t *testing.T) {
	defer leaktest.Check(t)()

	b := newFakeBroker(t)
	conn, err := b.dial(t, amqp.Config{})
	require.NoError(t, err)
	defer conn.Close(context.Background(), amqp.ReplySuccess, "")

	ch1, err := conn.Channel(context.Background())
	require.NoError(t, err)
	ch2, err := conn.Channel(context.Background())
	require.NoError(t, err)

	// ch1 never gets a reply to its QueueDeclare; ch2's own request must
	// still complete promptly.
	b.on(ch2.ID(), func(f frames.Frame, m methods.Method) ([]byte, error) {
		if _, ok := m.(*methods.QueueDeclare); ok {
			return mocks.EncodeMethod(f.Channel, &methods.QueueDeclareOk{Queue: "q2"})
		}
		return nil, nil
	})

	ch1Done := make(chan struct{})
	go func() {
		defer close(ch1Done)
		_, _ = ch1.QueueDeclare(context.Background(), "stuck", false, false, false, false, false, nil)
	}()

	done := make(chan struct{})
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		info, err := ch2.QueueDeclare(ctx, "q2", false, false, false, false, false, nil)
		require.NoError(t, err)
		require.Equal(t, "q2", info.Name)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("channel 2 stalled behind channel 1's unanswered request")
	}

	// Unstick channel 1's still-pending request so the deferred Close
	// doesn't wait on a call whose per-channel lock is held until its
	// reply (or the channel's close) arrives.
	reply, err := mocks.EncodeMethod(ch1.ID(), &methods.QueueDeclareOk{Queue: "stuck"})
	require.NoError(t, err)
	b.mc.Push(reply)

	select {
	case <-ch1Done:
	case <-time.After(2 * time.Second):
		t.Fatal("channel 1's request never unblocked")
	}
}
