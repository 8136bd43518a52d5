package mainthread

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"

	herrors "github.com/go-drift/harvester/pkg/errors"
)

// ErrLoopRunning is returned by Loop.Run when the loop is already running.
var ErrLoopRunning = errors.New("mainthread: loop already running")

// Loop is a FIFO task loop bound to the goroutine that calls Run.
// It implements Dispatcher.
//
// Tasks run one at a time in the order they were posted. A panicking task is
// recovered and reported; the loop keeps going.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	running bool
	stopped bool
	wake    chan struct{}
	gid     atomic.Int64
}

// NewLoop creates a loop. Tasks posted before Run are kept and run first.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Run processes tasks on the calling goroutine until ctx is done.
// Tasks still queued when ctx ends are run before Run returns, and the loop
// accepts no further work. A Loop can be run once; later calls return
// ErrLoopStopped.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	switch {
	case l.stopped:
		l.mu.Unlock()
		return ErrLoopStopped
	case l.running:
		l.mu.Unlock()
		return ErrLoopRunning
	}
	l.running = true
	l.mu.Unlock()

	l.gid.Store(goid.Get())
	defer l.gid.Store(0)

	for {
		l.drain()
		select {
		case <-ctx.Done():
			l.mu.Lock()
			l.stopped = true
			l.running = false
			l.mu.Unlock()
			l.drain()
			return nil
		case <-l.wake:
		}
	}
}

// Post queues fn. Returns false once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// IsCurrent reports whether the caller is the goroutine running the loop.
func (l *Loop) IsCurrent() bool {
	gid := l.gid.Load()
	return gid != 0 && gid == goid.Get()
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		tasks := l.queue
		l.queue = nil
		l.mu.Unlock()
		if len(tasks) == 0 {
			return
		}
		for _, task := range tasks {
			l.runTask(task)
		}
	}
}

func (l *Loop) runTask(task func()) {
	defer herrors.Recover("mainthread.Loop.Run")
	task()
}
