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

// Scenario 6 (spec §8): a consumer that never drains its delivery queue only
// stalls its own channel's dispatch loop; a second channel on the same
// connection keeps completing requests normally.
func TestConsumerBackpressureDoesNotStallOtherChannels(t *testing.T) {
	defer leaktest.Check(t)()

	b := newFakeBroker(t)
	conn, err := b.dial(t, amqp.Config{StreamBufferSize: 2})
	require.NoError(t, err)
	defer conn.Close(context.Background(), amqp.ReplySuccess, "")

	ch1, err := conn.Channel(context.Background())
	require.NoError(t, err)
	ch2, err := conn.Channel(context.Background())
	require.NoError(t, err)

	b.on(ch1.ID(), func(f frames.Frame, m methods.Method) ([]byte, error) {
		if _, ok := m.(*methods.BasicConsume); ok {
			return mocks.EncodeMethod(f.Channel, &methods.BasicConsumeOk{ConsumerTag: "tag1"})
		}
		return nil, nil
	})
	b.on(ch2.ID(), func(f frames.Frame, m methods.Method) ([]byte, error) {
		if _, ok := m.(*methods.QueueDeclare); ok {
			return mocks.EncodeMethod(f.Channel, &methods.QueueDeclareOk{Queue: "q2"})
		}
		return nil, nil
	})

	consumer, err := ch1.Consume(context.Background(), "q1", "", false, false, false, false, false, nil)
	require.NoError(t, err)

	// Saturate the bounded delivery queue (size 2) well past capacity;
	// nothing ever drains consumer.Deliveries().
	for i := 0; i < 5; i++ {
		b.pushDelivery(t, ch1.ID(), "tag1", uint64(i+1), nil)
	}

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
		t.Fatal("channel 2 stalled behind channel 1's saturated consumer queue")
	}

	_ = consumer // deliberately left undrained; the deferred Close unblocks its dispatch loop
}
