package amqp

import "context"

// flowGate blocks a channel's publishers while the server has asked the
// channel to pause (Channel.Flow(active=false)), and releases them the
// moment the server resumes it. Adapted from the credit-gate shape used to
// throttle a single outgoing stream: a mutex-guarded state flag plus a
// channel that's recreated (not reused) across the inactive->active edge,
// so a waiter that arrived during one stall never gets woken by the next.
type flowGate struct {
	mu     chan struct{} // 1-buffered mutex; lets Wait select on a lock attempt
	active bool
	resume chan struct{}
}

func newFlowGate() *flowGate {
	g := &flowGate{
		mu:     make(chan struct{}, 1),
		active: true,
	}
	g.mu <- struct{}{}
	return g
}

func (g *flowGate) lock()   { <-g.mu }
func (g *flowGate) unlock() { g.mu <- struct{}{} }

// SetActive applies a Channel.Flow transition. It is a no-op if active is
// unchanged.
func (g *flowGate) SetActive(active bool) {
	g.lock()
	defer g.unlock()

	if active == g.active {
		return
	}
	g.active = active
	if active {
		close(g.resume)
		g.resume = nil
	} else {
		g.resume = make(chan struct{})
	}
}

// Wait blocks until the gate is active, the channel is closed (closed
// fires, and errOf then supplies the error returned), or the caller's
// context is canceled. It returns immediately if the gate is already active.
func (g *flowGate) Wait(ctx context.Context, closed <-chan struct{}, errOf func() error) error {
	g.lock()
	if g.active {
		g.unlock()
		return nil
	}
	resume := g.resume
	g.unlock()

	select {
	case <-resume:
		return nil
	case <-closed:
		if err := errOf(); err != nil {
			return err
		}
		return ClosedResource
	case <-ctx.Done():
		return ctx.Err()
	}
}
