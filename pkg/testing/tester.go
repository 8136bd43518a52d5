package testing

import (
	"sync"
	"testing"

	"github.com/petermattis/goid"

	"github.com/go-drift/harvester/pkg/mainthread"
)

// Tester is a mainthread.Dispatcher that treats the goroutine that created
// it as the UI context. Work posted from other goroutines is queued until
// Pump.
type Tester struct {
	mu     sync.Mutex
	queue  []func()
	gid    int64
	prev   mainthread.Dispatcher
	closed bool
}

// NewTester creates a tester and registers it as the UI dispatcher.
// Call Cleanup() when done, or use NewTesterWithT() instead.
func NewTester() *Tester {
	t := &Tester{gid: goid.Get()}
	t.prev = mainthread.Register(t)
	return t
}

// NewTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewTesterWithT(tb testing.TB) *Tester {
	tester := NewTester()
	tb.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup runs any queued work and restores the previous dispatcher.
func (t *Tester) Cleanup() {
	t.Pump()
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	mainthread.Register(t.prev)
}

// Post queues fn for the next Pump.
func (t *Tester) Post(fn func()) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || fn == nil {
		return false
	}
	t.queue = append(t.queue, fn)
	return true
}

// IsCurrent reports whether the caller is the tester's goroutine.
func (t *Tester) IsCurrent() bool {
	return goid.Get() == t.gid
}

// Pending returns the number of queued callbacks.
func (t *Tester) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.queue)
}

// Pump runs queued callbacks, including ones queued while pumping, until
// the queue is empty. Returns how many callbacks ran.
func (t *Tester) Pump() int {
	ran := 0
	for {
		t.mu.Lock()
		queue := t.queue
		t.queue = nil
		t.mu.Unlock()
		if len(queue) == 0 {
			return ran
		}
		for _, fn := range queue {
			fn()
			ran++
		}
	}
}
