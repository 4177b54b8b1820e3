package amqp

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pkg/errors"

	"github.com/timrosenblatt/amqp091/internal/buffer"
	"github.com/timrosenblatt/amqp091/internal/debug"
	"github.com/timrosenblatt/amqp091/internal/frames"
	"github.com/timrosenblatt/amqp091/internal/methods"
	"github.com/timrosenblatt/amqp091/internal/outq"
)

type channelState int32

const (
	channelOpening channelState = iota
	channelOpen
	channelClosing
	channelClosed
)

// assembly tracks an in-progress Basic.Deliver/Basic.Return/Basic.GetOk
// while its Header and Body frames are still arriving (spec §4.4, "begin
// assembly; store method and switch to awaiting a Header frame").
type assembly struct {
	method methods.Method
	header *BasicHeader
	body   []byte
}

// Channel is one multiplexed stream over a Connection: every exchange,
// queue, publish and consume operation happens on a Channel (spec §4.4).
type Channel struct {
	id   uint16
	conn *Connection

	sem chan struct{} // 1-buffered; held for the duration of one request/reply pair

	replyMu sync.Mutex
	reply   chan interface{} // non-nil while a request awaits its synchronous reply

	flow *flowGate // gates Publish while the server has paused the channel

	inbox     *outq.Writer // frames routed here by the connection's reader loop
	closed    chan struct{}
	closeOnce sync.Once

	mu         sync.Mutex
	state      channelState
	closeErr   error
	assembling *assembly
	consumers  map[string]*Consumer

	confirmMode  bool
	publishSeqNo uint64

	returnListeners  []chan Return
	publishListeners []chan Confirmation

	// lastReturn records a Basic.Return that arrived with no NotifyReturn
	// listener registered, so a mandatory publisher that never registered
	// one can still observe the failure (spec §9, "Basic.Return
	// correlation"; DESIGN.md, "implemented both ways per the spec's
	// SHOULD").
	lastReturn *MessageReturnedError
}

func newChannel(conn *Connection, id uint16) *Channel {
	return &Channel{
		id:        id,
		conn:      conn,
		sem:       make(chan struct{}, 1),
		flow:      newFlowGate(),
		inbox:     outq.New(),
		closed:    make(chan struct{}),
		consumers: make(map[string]*Consumer),
		state:     channelOpening,
	}
}

// ID is the channel number allocated by the connection.
func (ch *Channel) ID() uint16 { return ch.id }

func (ch *Channel) open(ctx context.Context) error {
	go ch.dispatchLoop()

	v, err := ch.call(ctx, &methods.ChannelOpen{})
	if err != nil {
		return err
	}
	if _, ok := v.(*methods.ChannelOpenOk); !ok {
		return errors.Errorf("amqp: unexpected reply %T to channel.open", v)
	}
	ch.mu.Lock()
	ch.state = channelOpen
	ch.mu.Unlock()
	return nil
}

// Close requests an orderly shutdown of the channel (spec §4.4, "close").
func (ch *Channel) Close(ctx context.Context) error {
	return ch.CloseWithError(ctx, ReplySuccess, "")
}

// CloseWithError closes the channel, reporting code/text to the peer.
func (ch *Channel) CloseWithError(ctx context.Context, code uint16, text string) error {
	ch.mu.Lock()
	if ch.state == channelClosed || ch.state == channelClosing {
		ch.mu.Unlock()
		return nil
	}
	ch.state = channelClosing
	consumers := make([]*Consumer, 0, len(ch.consumers))
	for _, c := range ch.consumers {
		consumers = append(consumers, c)
	}
	ch.mu.Unlock()

	// End every consumer stream before waiting for Channel.CloseOk: a
	// consumer blocked on a full delivery queue would otherwise keep the
	// dispatch loop from ever reaching the reply.
	for _, c := range consumers {
		c.shutdown(ClosedResource)
	}

	v, err := ch.call(ctx, &methods.ChannelClose{ReplyCode: code, ReplyText: text})
	ch.finalize(nil)
	if err != nil {
		return err
	}
	if _, ok := v.(*methods.ChannelCloseOk); !ok {
		return errors.Errorf("amqp: unexpected reply %T to channel.close", v)
	}
	return nil
}

// finalize transitions the channel to CLOSED, records closeErr (nil for a
// caller-initiated close), and releases every waiter and consumer stream
// (spec §4.4, "transition CLOSING→CLOSED ... wake all waiters").
func (ch *Channel) finalize(closeErr error) {
	ch.closeOnce.Do(func() {
		ch.mu.Lock()
		ch.state = channelClosed
		ch.closeErr = closeErr
		consumers := ch.consumers
		ch.consumers = nil
		ch.mu.Unlock()

		close(ch.closed)
		ch.inbox.Close()
		ch.conn.removeChannel(ch.id)

		closedErr := ch.closedError()
		for _, c := range consumers {
			c.shutdown(closedErr)
		}
	})
}

func (ch *Channel) closedErrorLocked() error {
	if ch.closeErr != nil {
		return ch.closeErr
	}
	return ClosedResource
}

func (ch *Channel) closedError() error {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.closedErrorLocked()
}

// send marshals and enqueues m without waiting for any reply.
func (ch *Channel) send(m methods.Method) error {
	w := buffer.New(nil)
	if err := methods.Encode(w, m); err != nil {
		return err
	}
	ch.conn.outq.Push(frames.Frame{Kind: frames.KindMethod, Channel: ch.id, Payload: w.Bytes()})
	return nil
}

// call sends req and waits for the matching synchronous reply, serialized
// by ch.sem so a later request's reply is never attributed to this one.
// Cancelling ctx returns control to the caller immediately, but a
// background goroutine keeps draining the reply slot (or the channel's
// close) before releasing sem — see DESIGN.md, "Cancellation of an
// in-flight synchronous request".
func (ch *Channel) call(ctx context.Context, req methods.Method) (interface{}, error) {
	select {
	case ch.sem <- struct{}{}:
	case <-ch.closed:
		return nil, ch.closedError()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	replyCh := make(chan interface{}, 1)
	ch.replyMu.Lock()
	ch.reply = replyCh
	ch.replyMu.Unlock()

	if err := ch.send(req); err != nil {
		ch.replyMu.Lock()
		ch.reply = nil
		ch.replyMu.Unlock()
		<-ch.sem
		return nil, err
	}

	done := make(chan struct{})
	var result interface{}
	var resultErr error
	go func() {
		select {
		case result = <-replyCh:
		case <-ch.closed:
			resultErr = ch.closedError()
		}
		close(done)
		<-ch.sem
	}()

	select {
	case <-done:
		return result, resultErr
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// dispatchLoop is the channel's own goroutine draining frames the
// connection's reader routed to it. Running per-channel, rather than on the
// connection's shared reader, means a consumer falling behind on this
// channel's delivery queue only ever blocks this goroutine (spec §5,
// "the dispatcher MUST NOT block indefinitely on one channel's queue").
func (ch *Channel) dispatchLoop() {
	for {
		select {
		case <-ch.inbox.Wake():
		case <-ch.closed:
			return
		}
		for {
			f, ok := ch.inbox.Pop()
			if !ok {
				break
			}
			ch.handleFrame(f)
		}

		ch.mu.Lock()
		done := ch.state == channelClosed
		ch.mu.Unlock()
		if done {
			return
		}
	}
}

// deliverFrame is called by the connection's reader loop to route an
// inbound frame for this channel; it never blocks.
func (ch *Channel) deliverFrame(f frames.Frame) {
	ch.inbox.Push(f)
}

func (ch *Channel) handleFrame(f frames.Frame) {
	switch f.Kind {
	case frames.KindMethod:
		m, err := methods.Decode(buffer.New(f.Payload))
		if err != nil {
			ch.conn.fatal(errors.Wrap(err, "amqp: decoding method frame"))
			return
		}
		ch.handleMethod(m)
	case frames.KindHeader:
		ch.handleHeader(f.Payload)
	case frames.KindBody:
		ch.handleBody(f.Payload)
	}
}

func (ch *Channel) handleMethod(m methods.Method) {
	switch mm := m.(type) {
	case *methods.ChannelClose:
		chErr := &ChannelError{Err: &Error{Code: mm.ReplyCode, Reason: mm.ReplyText, Class: mm.FailingClassID, Method: mm.FailingMethodID}}
		_ = ch.send(&methods.ChannelCloseOk{})
		ch.finalize(chErr)
	case *methods.ChannelFlow:
		ch.flow.SetActive(mm.Active)
		_ = ch.send(&methods.ChannelFlowOk{Active: mm.Active})
	case *methods.BasicDeliver:
		ch.beginAssembly(mm)
	case *methods.BasicReturn:
		ch.beginAssembly(mm)
	case *methods.BasicGetOk:
		ch.beginAssembly(mm)
	case *methods.BasicCancel:
		ch.cancelConsumer(mm.ConsumerTag)
	case *methods.BasicAck:
		ch.handleConfirm(mm.DeliveryTag, mm.Multiple, true)
	case *methods.BasicNack:
		ch.handleConfirm(mm.DeliveryTag, mm.Multiple, false)
	default:
		ch.deliverReply(m)
	}
}

func (ch *Channel) deliverReply(v interface{}) {
	ch.replyMu.Lock()
	rc := ch.reply
	ch.reply = nil
	ch.replyMu.Unlock()
	if rc == nil {
		debug.Assert(context.Background(), false, slog.String("event", "reply with no pending request"), slog.Any("value", v))
		return
	}
	rc <- v
}

func (ch *Channel) beginAssembly(m methods.Method) {
	ch.mu.Lock()
	ch.assembling = &assembly{method: m}
	ch.mu.Unlock()
}

func (ch *Channel) handleHeader(payload []byte) {
	h := &BasicHeader{}
	if err := h.Unmarshal(buffer.New(payload)); err != nil {
		ch.conn.fatal(errors.Wrap(err, "amqp: decoding header frame"))
		return
	}

	ch.mu.Lock()
	a := ch.assembling
	if a == nil {
		ch.mu.Unlock()
		debug.Assert(context.Background(), false, slog.String("event", "header frame with no pending assembly"))
		return
	}
	a.header = h
	complete := h.BodySize == 0
	if complete {
		ch.assembling = nil
	}
	ch.mu.Unlock()

	if complete {
		ch.emitAssembly(a)
	}
}

func (ch *Channel) handleBody(payload []byte) {
	ch.mu.Lock()
	a := ch.assembling
	if a == nil {
		ch.mu.Unlock()
		debug.Assert(context.Background(), false, slog.String("event", "body frame with no pending assembly"))
		return
	}
	a.body = append(a.body, payload...)
	complete := a.header != nil && uint64(len(a.body)) >= a.header.BodySize
	if complete {
		ch.assembling = nil
	}
	ch.mu.Unlock()

	if complete {
		ch.emitAssembly(a)
	}
}

func (ch *Channel) emitAssembly(a *assembly) {
	pub := publishingFromHeader(a.header)
	pub.Body = a.body

	switch m := a.method.(type) {
	case *methods.BasicDeliver:
		ch.routeDelivery(Delivery{
			Publishing:  pub,
			ConsumerTag: m.ConsumerTag,
			DeliveryTag: m.DeliveryTag,
			Redelivered: m.Redelivered,
			Exchange:    m.Exchange,
			RoutingKey:  m.RoutingKey,
			channel:     ch,
		})
	case *methods.BasicGetOk:
		d := Delivery{
			Publishing:  pub,
			DeliveryTag: m.DeliveryTag,
			Redelivered: m.Redelivered,
			Exchange:    m.Exchange,
			RoutingKey:  m.RoutingKey,
			channel:     ch,
		}
		ch.deliverReply(&d)
	case *methods.BasicReturn:
		ch.routeReturn(Return{
			Publishing: pub,
			ReplyCode:  m.ReplyCode,
			ReplyText:  m.ReplyText,
			Exchange:   m.Exchange,
			RoutingKey: m.RoutingKey,
		})
	}
}

func (ch *Channel) routeDelivery(d Delivery) {
	ch.mu.Lock()
	c := ch.consumers[d.ConsumerTag]
	ch.mu.Unlock()
	if c == nil {
		debug.Log(context.Background(), slog.LevelWarn, "delivery for unknown consumer", slog.String("consumer_tag", d.ConsumerTag))
		return
	}
	c.push(d)
}

func (ch *Channel) routeReturn(r Return) {
	ch.mu.Lock()
	listeners := append([]chan Return(nil), ch.returnListeners...)
	ch.mu.Unlock()

	if len(listeners) == 0 {
		debug.Log(context.Background(), slog.LevelWarn, "message returned with no listener registered",
			slog.Int("reply_code", int(r.ReplyCode)), slog.String("reply_text", r.ReplyText))
		ch.mu.Lock()
		ch.lastReturn = &MessageReturnedError{
			ReplyCode:  r.ReplyCode,
			ReplyText:  r.ReplyText,
			Exchange:   r.Exchange,
			RoutingKey: r.RoutingKey,
		}
		ch.mu.Unlock()
		return
	}
	for _, l := range listeners {
		select {
		case l <- r:
		default:
		}
	}
}

// LastReturnError returns and clears the most recent Basic.Return this
// channel recorded because no NotifyReturn listener was registered to
// receive it (spec §9, "Basic.Return correlation" open question) — the
// mandatory-publish error path a caller can poll instead of registering a
// listener. Returns nil if no such return is pending.
func (ch *Channel) LastReturnError() error {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.lastReturn == nil {
		return nil
	}
	err := ch.lastReturn
	ch.lastReturn = nil
	return err
}

func (ch *Channel) handleConfirm(tag uint64, multiple, ack bool) {
	ch.mu.Lock()
	listeners := append([]chan Confirmation(nil), ch.publishListeners...)
	ch.mu.Unlock()

	c := Confirmation{DeliveryTag: tag, Multiple: multiple, Ack: ack}
	for _, l := range listeners {
		select {
		case l <- c:
		default:
		}
	}
}

func (ch *Channel) cancelConsumer(tag string) {
	ch.mu.Lock()
	c := ch.consumers[tag]
	delete(ch.consumers, tag)
	ch.mu.Unlock()
	if c != nil {
		c.shutdown(errors.Errorf("amqp: consumer %q canceled by server", tag))
	}
}

// NotifyReturn registers c to receive every Basic.Return the broker sends
// on this channel (spec §4.4, "Basic.Return routes to a per-channel return
// handler").
func (ch *Channel) NotifyReturn(c chan Return) chan Return {
	ch.mu.Lock()
	ch.returnListeners = append(ch.returnListeners, c)
	ch.mu.Unlock()
	return c
}

// NotifyPublish registers c to receive a Confirmation for every publish
// made once the channel is in publisher-confirm mode (SPEC_FULL §4.4).
func (ch *Channel) NotifyPublish(c chan Confirmation) chan Confirmation {
	ch.mu.Lock()
	ch.publishListeners = append(ch.publishListeners, c)
	ch.mu.Unlock()
	return c
}

// Qos sets the channel's (or, with global=true, the connection's) prefetch
// limits (Basic.Qos).
func (ch *Channel) Qos(ctx context.Context, prefetchCount uint16, prefetchSize uint32, global bool) error {
	v, err := ch.call(ctx, &methods.BasicQos{PrefetchSize: prefetchSize, PrefetchCount: prefetchCount, Global: global})
	if err != nil {
		return err
	}
	if _, ok := v.(*methods.BasicQosOk); !ok {
		return errors.Errorf("amqp: unexpected reply %T to basic.qos", v)
	}
	return nil
}

// Confirm puts the channel into publisher-confirm mode (SPEC_FULL §4.4,
// "Publisher confirms").
func (ch *Channel) Confirm(ctx context.Context, noWait bool) error {
	req := &methods.ConfirmSelect{NoWait: noWait}
	if noWait {
		if err := ch.send(req); err != nil {
			return err
		}
	} else {
		v, err := ch.call(ctx, req)
		if err != nil {
			return err
		}
		if _, ok := v.(*methods.ConfirmSelectOk); !ok {
			return errors.Errorf("amqp: unexpected reply %T to confirm.select", v)
		}
	}
	ch.mu.Lock()
	ch.confirmMode = true
	ch.mu.Unlock()
	return nil
}

// TxSelect puts the channel into transactional mode (Tx.Select).
func (ch *Channel) TxSelect(ctx context.Context) error {
	v, err := ch.call(ctx, &methods.TxSelect{})
	if err != nil {
		return err
	}
	if _, ok := v.(*methods.TxSelectOk); !ok {
		return errors.Errorf("amqp: unexpected reply %T to tx.select", v)
	}
	return nil
}

// TxCommit commits the current transaction (Tx.Commit).
func (ch *Channel) TxCommit(ctx context.Context) error {
	v, err := ch.call(ctx, &methods.TxCommit{})
	if err != nil {
		return err
	}
	if _, ok := v.(*methods.TxCommitOk); !ok {
		return errors.Errorf("amqp: unexpected reply %T to tx.commit", v)
	}
	return nil
}

// TxRollback rolls back the current transaction (Tx.Rollback).
func (ch *Channel) TxRollback(ctx context.Context) error {
	v, err := ch.call(ctx, &methods.TxRollback{})
	if err != nil {
		return err
	}
	if _, ok := v.(*methods.TxRollbackOk); !ok {
		return errors.Errorf("amqp: unexpected reply %T to tx.rollback", v)
	}
	return nil
}

// Ack acknowledges one or more deliveries (Basic.Ack).
func (ch *Channel) Ack(deliveryTag uint64, multiple bool) error {
	return ch.ack(deliveryTag, multiple)
}

// Nack negatively acknowledges one or more deliveries (Basic.Nack).
func (ch *Channel) Nack(deliveryTag uint64, multiple, requeue bool) error {
	return ch.nack(deliveryTag, multiple, requeue)
}

// Reject is the pre-Nack single-delivery rejection (Basic.Reject).
func (ch *Channel) Reject(deliveryTag uint64, requeue bool) error {
	return ch.reject(deliveryTag, requeue)
}

func (ch *Channel) ack(tag uint64, multiple bool) error {
	return ch.send(&methods.BasicAck{DeliveryTag: tag, Multiple: multiple})
}

func (ch *Channel) nack(tag uint64, multiple, requeue bool) error {
	return ch.send(&methods.BasicNack{DeliveryTag: tag, Multiple: multiple, Requeue: requeue})
}

func (ch *Channel) reject(tag uint64, requeue bool) error {
	return ch.send(&methods.BasicReject{DeliveryTag: tag, Requeue: requeue})
}

// Publish sends a message (spec §4.4, "Publish sequence"). Under the
// channel's serialization lock it emits the Basic.Publish method frame,
// then one Header frame, then the body split into the connection's
// negotiated max-frame-size chunks; the lock keeps these from interleaving
// with another operation on the same channel without blocking any other
// channel.
func (ch *Channel) Publish(ctx context.Context, exchange, routingKey string, mandatory, immediate bool, msg Publishing) error {
	if err := ch.flow.Wait(ctx, ch.closed, ch.closedError); err != nil {
		return err
	}

	select {
	case ch.sem <- struct{}{}:
	case <-ch.closed:
		return ch.closedError()
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-ch.sem }()

	if err := ch.send(&methods.BasicPublish{
		Exchange:   exchange,
		RoutingKey: routingKey,
		Mandatory:  mandatory,
		Immediate:  immediate,
	}); err != nil {
		return err
	}

	header := msg.toHeader()
	w := buffer.New(nil)
	if err := header.Marshal(w); err != nil {
		return err
	}
	ch.conn.outq.Push(frames.Frame{Kind: frames.KindHeader, Channel: ch.id, Payload: append([]byte(nil), w.Bytes()...)})

	chunk := ch.conn.bodyChunkSize()
	body := msg.Body
	for len(body) > 0 {
		n := chunk
		if n > len(body) {
			n = len(body)
		}
		ch.conn.outq.Push(frames.Frame{Kind: frames.KindBody, Channel: ch.id, Payload: body[:n]})
		body = body[n:]
	}

	if ch.confirmMode {
		ch.mu.Lock()
		ch.publishSeqNo++
		ch.mu.Unlock()
	}
	return nil
}

// Get fetches a single message by polling (Basic.Get). ok is false if the
// queue was empty.
func (ch *Channel) Get(ctx context.Context, queue string, noAck bool) (delivery *Delivery, ok bool, err error) {
	v, err := ch.call(ctx, &methods.BasicGet{Queue: queue, NoAck: noAck})
	if err != nil {
		return nil, false, err
	}
	switch r := v.(type) {
	case *Delivery:
		return r, true, nil
	case *methods.BasicGetEmpty:
		return nil, false, nil
	default:
		return nil, false, errors.Errorf("amqp: unexpected reply %T to basic.get", v)
	}
}

// Consume registers a consumer and returns the delivery stream (spec §4.6).
func (ch *Channel) Consume(ctx context.Context, queue, tag string, noAck, autoAck, noLocal, exclusive, noWait bool, args Table) (*Consumer, error) {
	req := &methods.BasicConsume{
		Queue:       queue,
		ConsumerTag: tag,
		NoLocal:     noLocal,
		NoAck:       noAck,
		Exclusive:   exclusive,
		NoWait:      noWait,
		Arguments:   args,
	}

	resultTag := tag
	if noWait {
		if err := ch.send(req); err != nil {
			return nil, err
		}
	} else {
		v, err := ch.call(ctx, req)
		if err != nil {
			return nil, err
		}
		ok, isOk := v.(*methods.BasicConsumeOk)
		if !isOk {
			return nil, errors.Errorf("amqp: unexpected reply %T to basic.consume", v)
		}
		resultTag = ok.ConsumerTag
	}

	c := newConsumer(ch, resultTag, noAck, autoAck, ch.conn.cfg.StreamBufferSize)
	ch.mu.Lock()
	ch.consumers[resultTag] = c
	ch.mu.Unlock()
	return c, nil
}

// cancel sends Basic.Cancel for tag and awaits Basic.CancelOk (spec §4.6,
// "on exit ... sends Basic.Cancel and awaits Basic.CancelOk").
func (ch *Channel) cancel(ctx context.Context, tag string, noWait bool) error {
	req := &methods.BasicCancel{ConsumerTag: tag, NoWait: noWait}
	if noWait {
		return ch.send(req)
	}
	v, err := ch.call(ctx, req)
	if err != nil {
		return err
	}
	if _, ok := v.(*methods.BasicCancelOk); !ok {
		return errors.Errorf("amqp: unexpected reply %T to basic.cancel", v)
	}
	return nil
}

// QueueInfo is the result of a successful QueueDeclare.
type QueueInfo struct {
	Name          string
	MessageCount  uint32
	ConsumerCount uint32
}

// QueueDeclare declares (or, with passive=true, asserts) a queue.
func (ch *Channel) QueueDeclare(ctx context.Context, name string, passive, durable, exclusive, autoDelete, noWait bool, args Table) (QueueInfo, error) {
	req := &methods.QueueDeclare{
		Queue:      name,
		Passive:    passive,
		Durable:    durable,
		Exclusive:  exclusive,
		AutoDelete: autoDelete,
		NoWait:     noWait,
		Arguments:  args,
	}
	if noWait {
		return QueueInfo{Name: name}, ch.send(req)
	}
	v, err := ch.call(ctx, req)
	if err != nil {
		return QueueInfo{}, err
	}
	ok, isOk := v.(*methods.QueueDeclareOk)
	if !isOk {
		return QueueInfo{}, errors.Errorf("amqp: unexpected reply %T to queue.declare", v)
	}
	return QueueInfo{Name: ok.Queue, MessageCount: ok.MessageCount, ConsumerCount: ok.ConsumerCount}, nil
}

// QueueBind binds a queue to an exchange.
func (ch *Channel) QueueBind(ctx context.Context, queue, exchange, routingKey string, noWait bool, args Table) error {
	req := &methods.QueueBind{Queue: queue, Exchange: exchange, RoutingKey: routingKey, NoWait: noWait, Arguments: args}
	if noWait {
		return ch.send(req)
	}
	v, err := ch.call(ctx, req)
	if err != nil {
		return err
	}
	if _, ok := v.(*methods.QueueBindOk); !ok {
		return errors.Errorf("amqp: unexpected reply %T to queue.bind", v)
	}
	return nil
}

// QueueUnbind removes a binding created by QueueBind.
func (ch *Channel) QueueUnbind(ctx context.Context, queue, exchange, routingKey string, args Table) error {
	v, err := ch.call(ctx, &methods.QueueUnbind{Queue: queue, Exchange: exchange, RoutingKey: routingKey, Arguments: args})
	if err != nil {
		return err
	}
	if _, ok := v.(*methods.QueueUnbindOk); !ok {
		return errors.Errorf("amqp: unexpected reply %T to queue.unbind", v)
	}
	return nil
}

// QueuePurge removes all messages from a queue, returning the count removed.
func (ch *Channel) QueuePurge(ctx context.Context, name string, noWait bool) (uint32, error) {
	req := &methods.QueuePurge{Queue: name, NoWait: noWait}
	if noWait {
		return 0, ch.send(req)
	}
	v, err := ch.call(ctx, req)
	if err != nil {
		return 0, err
	}
	ok, isOk := v.(*methods.QueuePurgeOk)
	if !isOk {
		return 0, errors.Errorf("amqp: unexpected reply %T to queue.purge", v)
	}
	return ok.MessageCount, nil
}

// QueueDelete deletes a queue, returning the number of messages it held.
func (ch *Channel) QueueDelete(ctx context.Context, name string, ifUnused, ifEmpty, noWait bool) (uint32, error) {
	req := &methods.QueueDelete{Queue: name, IfUnused: ifUnused, IfEmpty: ifEmpty, NoWait: noWait}
	if noWait {
		return 0, ch.send(req)
	}
	v, err := ch.call(ctx, req)
	if err != nil {
		return 0, err
	}
	ok, isOk := v.(*methods.QueueDeleteOk)
	if !isOk {
		return 0, errors.Errorf("amqp: unexpected reply %T to queue.delete", v)
	}
	return ok.MessageCount, nil
}

// ExchangeDeclare declares (or asserts) an exchange.
func (ch *Channel) ExchangeDeclare(ctx context.Context, name, kind string, passive, durable, autoDelete, internal, noWait bool, args Table) error {
	req := &methods.ExchangeDeclare{
		Exchange:   name,
		Type:       kind,
		Passive:    passive,
		Durable:    durable,
		AutoDelete: autoDelete,
		Internal:   internal,
		NoWait:     noWait,
		Arguments:  args,
	}
	if noWait {
		return ch.send(req)
	}
	v, err := ch.call(ctx, req)
	if err != nil {
		return err
	}
	if _, ok := v.(*methods.ExchangeDeclareOk); !ok {
		return errors.Errorf("amqp: unexpected reply %T to exchange.declare", v)
	}
	return nil
}

// ExchangeDelete deletes an exchange.
func (ch *Channel) ExchangeDelete(ctx context.Context, name string, ifUnused, noWait bool) error {
	req := &methods.ExchangeDelete{Exchange: name, IfUnused: ifUnused, NoWait: noWait}
	if noWait {
		return ch.send(req)
	}
	v, err := ch.call(ctx, req)
	if err != nil {
		return err
	}
	if _, ok := v.(*methods.ExchangeDeleteOk); !ok {
		return errors.Errorf("amqp: unexpected reply %T to exchange.delete", v)
	}
	return nil
}

// ExchangeBind binds one exchange to another (a RabbitMQ extension).
func (ch *Channel) ExchangeBind(ctx context.Context, destination, source, routingKey string, noWait bool, args Table) error {
	req := &methods.ExchangeBind{Destination: destination, Source: source, RoutingKey: routingKey, NoWait: noWait, Arguments: args}
	if noWait {
		return ch.send(req)
	}
	v, err := ch.call(ctx, req)
	if err != nil {
		return err
	}
	if _, ok := v.(*methods.ExchangeBindOk); !ok {
		return errors.Errorf("amqp: unexpected reply %T to exchange.bind", v)
	}
	return nil
}

// ExchangeUnbind removes a binding created by ExchangeBind.
func (ch *Channel) ExchangeUnbind(ctx context.Context, destination, source, routingKey string, noWait bool, args Table) error {
	req := &methods.ExchangeUnbind{Destination: destination, Source: source, RoutingKey: routingKey, NoWait: noWait, Arguments: args}
	if noWait {
		return ch.send(req)
	}
	v, err := ch.call(ctx, req)
	if err != nil {
		return err
	}
	if _, ok := v.(*methods.ExchangeUnbindOk); !ok {
		return errors.Errorf("amqp: unexpected reply %T to exchange.unbind", v)
	}
	return nil
}
