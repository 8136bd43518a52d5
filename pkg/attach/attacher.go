package attach

import (
	"sync"
	"sync/atomic"
	"weak"

	"github.com/go-drift/harvester/pkg/geometry"
	"github.com/go-drift/harvester/pkg/mainthread"
	"github.com/go-drift/harvester/pkg/stream"
	"github.com/go-drift/harvester/pkg/view"
)

// ChildAttacher is a stream.Subscriber[bool] that adds its child to the
// parent on true and removes it on false. Completion and Cancel remove the
// child too.
type ChildAttacher struct {
	parent         weak.Pointer[view.Controller]
	child          *view.Controller
	insets         geometry.EdgeInsets
	lockNavigation bool

	mu   sync.Mutex
	sub  stream.Subscription
	done atomic.Bool
}

// NewChildAttacher creates an attacher. Subscribe it to a boolean stream,
// or use AttachChild which does both.
func NewChildAttacher(child, parent *view.Controller, lockNavigation bool, insets geometry.EdgeInsets) *ChildAttacher {
	return &ChildAttacher{
		parent:         weak.Make(parent),
		child:          child,
		insets:         insets,
		lockNavigation: lockNavigation,
	}
}

// OnSubscribe requests every value.
func (a *ChildAttacher) OnSubscribe(sub stream.Subscription) {
	a.mu.Lock()
	a.sub = sub
	a.mu.Unlock()
	sub.Request(stream.Unlimited)
}

// OnNext attaches on true and detaches on false, on the UI context.
func (a *ChildAttacher) OnNext(attached bool) stream.Demand {
	mainthread.Run(func() {
		if a.done.Load() {
			return
		}
		if attached {
			a.lock(true)
			a.attach()
		} else {
			a.detach()
			a.lock(false)
		}
	})
	return stream.None
}

// OnComplete detaches the child and unlocks navigation.
func (a *ChildAttacher) OnComplete(error) {
	if !a.done.CompareAndSwap(false, true) {
		return
	}
	a.release()
	mainthread.Run(a.teardown)
}

// Cancel detaches the child, unlocks navigation, and stops the
// subscription. The detach has happened by the time Cancel returns.
// Only the first call has an effect.
func (a *ChildAttacher) Cancel() {
	if !a.done.CompareAndSwap(false, true) {
		return
	}
	mainthread.Sync(a.teardown)
	if sub := a.release(); sub != nil {
		sub.Cancel()
	}
}

func (a *ChildAttacher) release() stream.Subscription {
	a.mu.Lock()
	defer a.mu.Unlock()
	sub := a.sub
	a.sub = nil
	return sub
}

func (a *ChildAttacher) teardown() {
	a.detach()
	a.lock(false)
}

func (a *ChildAttacher) lock(locked bool) {
	if !a.lockNavigation {
		return
	}
	parent := a.parent.Value()
	if parent == nil {
		return
	}
	parent.SetModalInPresentation(locked)
	parent.NavigationItem().HidesBackButton = locked
}

func (a *ChildAttacher) attach() {
	parent := a.parent.Value()
	if parent == nil || a.child.Parent() == parent {
		return
	}
	childView := a.child.View()
	// Hosting an ancestor view would close a cycle; leave the child where
	// it is.
	if parent.View().IsDescendant(childView) {
		return
	}

	parent.AddChild(a.child)
	if err := parent.View().AddSubview(childView); err != nil {
		a.child.RemoveFromParent()
		return
	}
	_ = childView.PinEdges(parent.View(), a.insets)

	a.child.DidMove(parent)
}

func (a *ChildAttacher) detach() {
	parent := a.parent.Value()
	if parent == nil || a.child.Parent() != parent {
		return
	}

	a.child.WillMove(nil)
	a.child.View().RemoveFromSuperview()
	a.child.RemoveFromParent()
}
