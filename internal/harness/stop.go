package harness

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
)

// Stopper tells a measurement loop to end early.
//
// Implementations must be safe for concurrent use:
//   - the loop calls Stopped() while another goroutine may call Stop()
//   - Stop() may be called more than once
type Stopper interface {
	// Stopped reports whether Stop has been called.
	Stopped() bool

	// Stop requests the loop to end. Safe to call multiple times.
	Stop()
}

// AtomicStopper is a Stopper backed by an atomic.Bool. Stopped is a single
// atomic load, cheap enough to poll from a timed loop.
type AtomicStopper struct {
	stopped atomic.Bool
}

// NewAtomicStopper returns a Stopper that is not yet stopped.
func NewAtomicStopper() *AtomicStopper {
	return &AtomicStopper{}
}

// Stopped reports whether Stop has been called.
func (a *AtomicStopper) Stopped() bool {
	return a.stopped.Load()
}

// Stop sets the flag; later calls are no-ops.
func (a *AtomicStopper) Stop() {
	a.stopped.Store(true)
}

// Reset clears the flag for reuse. Not safe concurrently with Stop.
func (a *AtomicStopper) Reset() {
	a.stopped.Store(false)
}

// ContextStopper is a Stopper backed by a context. Stopped performs a
// non-blocking select on ctx.Done(), so it costs more per poll than
// AtomicStopper.
type ContextStopper struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewContextStopper returns a Stopper that stops when parent is done or
// Stop is called.
func NewContextStopper(parent context.Context) *ContextStopper {
	ctx, cancel := context.WithCancel(parent)
	return &ContextStopper{ctx: ctx, cancel: cancel}
}

// OnSignal returns a Stopper that stops when one of sigs arrives (os.Interrupt
// if none are given). Stop also releases the signal registration.
func OnSignal(parent context.Context, sigs ...os.Signal) *ContextStopper {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt}
	}
	ctx, cancel := signal.NotifyContext(parent, sigs...)
	return &ContextStopper{ctx: ctx, cancel: cancel}
}

// Stopped reports whether the context is done.
func (c *ContextStopper) Stopped() bool {
	select {
	case <-c.ctx.Done():
		return true
	default:
		return false
	}
}

// Stop cancels the context.
func (c *ContextStopper) Stop() {
	c.cancel()
}

// Context returns the underlying context.
func (c *ContextStopper) Context() context.Context {
	return c.ctx
}
