// Package attach shows and hides a child controller in response to a
// boolean stream.
//
// The typical use is a loading overlay driven by a view model:
//
//	// view model
//	isLoading := stream.NewSubject[bool]("isLoading")
//
//	// controller setup
//	bag.Add(attach.AttachLoader(isLoading, spinner, screen, 0))
//
//	// anywhere, on any goroutine
//	isLoading.Send(true)  // spinner covers screen, back navigation locked
//	isLoading.Send(false) // spinner removed, navigation unlocked
//
// Every mutation runs on the UI context (see package mainthread), so
// publishers may emit from any goroutine.
//
// The attacher keeps the child alive but holds the parent weakly: once the
// parent is garbage collected, further events do nothing.
//
// Targeting one child from two attachers with different parents is a race.
// The child ends up in exactly one parent, whichever attached last, and
// which one that is depends on event delivery order.
package attach

import (
	"github.com/go-drift/harvester/pkg/geometry"
	"github.com/go-drift/harvester/pkg/stream"
	"github.com/go-drift/harvester/pkg/view"
)

type options struct {
	lockNavigation bool
	insets         geometry.EdgeInsets
}

// Option configures AttachChild.
type Option func(*options)

// WithNavigationLock makes the parent non-dismissable and hides its back
// button while the child is attached.
func WithNavigationLock(lock bool) Option {
	return func(o *options) {
		o.lockNavigation = lock
	}
}

// WithInsets positions the child view inside the parent view with insets.
func WithInsets(insets geometry.EdgeInsets) Option {
	return func(o *options) {
		o.insets = insets
	}
}

// WithPadding is WithInsets(geometry.Padding(padding)).
func WithPadding(padding float64) Option {
	return WithInsets(geometry.Padding(padding))
}

// AttachChild subscribes a ChildAttacher for child and parent to p and
// returns its cancellation handle. By default the child fills the parent
// and navigation is not locked.
func AttachChild(p stream.Publisher[bool], child, parent *view.Controller, opts ...Option) stream.Cancellable {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	a := NewChildAttacher(child, parent, o.lockNavigation, o.insets)
	p.Subscribe(a)
	return a
}

// AttachLoader attaches a loading controller: AttachChild with navigation
// locked and the given padding.
func AttachLoader(p stream.Publisher[bool], loader, parent *view.Controller, padding float64) stream.Cancellable {
	return AttachChild(p, loader, parent, WithNavigationLock(true), WithPadding(padding))
}
