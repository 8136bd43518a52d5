package cmd

import (
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/petermattis/goid"

	herrors "github.com/go-drift/harvester/pkg/errors"
)

// flushMsg asks the program to run posted tasks.
type flushMsg struct{}

// teaDispatcher makes a bubbletea program's event loop the UI context.
// Posted tasks are queued and run from Update when a flushMsg arrives.
type teaDispatcher struct {
	mu      sync.Mutex
	queue   []func()
	send    func(tea.Msg)
	stopped bool
	gid     atomic.Int64
}

// bind routes wake-ups to send, usually a tea.Program's Send method.
func (d *teaDispatcher) bind(send func(tea.Msg)) {
	d.mu.Lock()
	d.send = send
	d.mu.Unlock()
}

func (d *teaDispatcher) Post(fn func()) bool {
	d.mu.Lock()
	if d.stopped || d.send == nil || fn == nil {
		d.mu.Unlock()
		return false
	}
	d.queue = append(d.queue, fn)
	send := d.send
	d.mu.Unlock()

	// Send blocks until the event loop reads the message.
	go send(flushMsg{})
	return true
}

func (d *teaDispatcher) IsCurrent() bool {
	gid := d.gid.Load()
	return gid != 0 && gid == goid.Get()
}

// enter marks the calling goroutine as the event loop. Call it from Init
// and Update.
func (d *teaDispatcher) enter() {
	d.gid.Store(goid.Get())
}

// flush runs every queued task in order.
func (d *teaDispatcher) flush() {
	for {
		d.mu.Lock()
		tasks := d.queue
		d.queue = nil
		d.mu.Unlock()
		if len(tasks) == 0 {
			return
		}
		for _, task := range tasks {
			runTask(task)
		}
	}
}

// stop refuses further posts and runs what is still queued on the calling
// goroutine, which takes over as the UI context. Call it once the program
// has exited.
func (d *teaDispatcher) stop() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
	d.enter()
	d.flush()
}

func runTask(task func()) {
	defer herrors.Recover("cmd.teaDispatcher.flush")
	task()
}
