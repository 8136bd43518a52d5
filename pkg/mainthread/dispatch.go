// Package mainthread serializes work onto the single UI execution context.
//
// All view hierarchy mutations must happen on one goroutine. The host
// registers a Dispatcher for that goroutine once at startup; Run and Sync
// then either execute a function inline (already on the UI context) or hand
// it to the dispatcher.
//
// When no dispatcher is registered the calling goroutine is treated as the
// UI context. This keeps single-goroutine programs and tests free of setup.
package mainthread

import (
	"errors"
	"sync"

	herrors "github.com/go-drift/harvester/pkg/errors"
)

// ErrLoopStopped is reported when work is posted to a dispatcher that no
// longer accepts tasks.
var ErrLoopStopped = errors.New("mainthread: loop stopped")

// Dispatcher schedules callbacks on the UI context.
type Dispatcher interface {
	// Post queues fn to run on the UI context. It must not block waiting for
	// fn to run. Returns false if the dispatcher no longer accepts work.
	Post(fn func()) bool
	// IsCurrent reports whether the calling goroutine is the UI context.
	IsCurrent() bool
}

var (
	dispatchMu sync.RWMutex
	dispatcher Dispatcher
)

// Register sets the dispatcher used to schedule callbacks on the UI context
// and returns the previously registered one. Pass nil to unregister.
func Register(d Dispatcher) (previous Dispatcher) {
	dispatchMu.Lock()
	previous = dispatcher
	dispatcher = d
	dispatchMu.Unlock()
	return previous
}

// Current returns the registered dispatcher, or nil.
func Current() Dispatcher {
	dispatchMu.RLock()
	defer dispatchMu.RUnlock()
	return dispatcher
}

// Dispatch schedules a callback to run on the UI context.
// Returns true if the callback was successfully scheduled, false if no
// dispatcher is registered, it refused the callback, or the callback is nil.
func Dispatch(callback func()) bool {
	d := Current()
	if d == nil || callback == nil {
		return false
	}
	return d.Post(callback)
}

// IsMain reports whether the caller is on the UI context.
// Without a registered dispatcher every goroutine counts.
func IsMain() bool {
	d := Current()
	return d == nil || d.IsCurrent()
}

// Run executes fn on the UI context. It runs fn inline when the caller is
// already there, and otherwise posts it without waiting. If the dispatcher
// refuses the task, fn is dropped and the failure is reported.
func Run(fn func()) {
	if fn == nil {
		return
	}
	d := Current()
	if d == nil || d.IsCurrent() {
		fn()
		return
	}
	if !d.Post(fn) {
		herrors.ReportError("mainthread.Run", herrors.KindDispatch, ErrLoopStopped)
	}
}

// Sync executes fn on the UI context and waits for it to finish.
// If the dispatcher refuses the task, fn runs inline on the caller so that
// teardown work is never lost.
//
// Calling Sync from a goroutine the UI context itself is blocked on
// deadlocks, exactly like any synchronous dispatch.
func Sync(fn func()) {
	if fn == nil {
		return
	}
	d := Current()
	if d == nil || d.IsCurrent() {
		fn()
		return
	}
	done := make(chan struct{})
	if !d.Post(func() {
		defer close(done)
		fn()
	}) {
		fn()
		return
	}
	<-done
}
