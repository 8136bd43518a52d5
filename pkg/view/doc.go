// Package view models the parts of a view-controller UI toolkit that
// harvester drives: a tree of views laid out with edge constraints, and a
// tree of controllers with explicit child containment.
//
// Nothing in this package is safe for concurrent use. Like every UI
// toolkit it expects to be touched only from the UI context; mutations made
// from another goroutine while a dispatcher is registered are reported
// through the errors package (but still performed).
//
// Containment follows the usual protocol:
//
//	parent.AddChild(child)                // child.WillMove(parent) is sent
//	parent.View().AddSubview(child.View())
//	child.View().PinEdges(parent.View(), insets)
//	child.DidMove(parent)
//
//	child.WillMove(nil)
//	child.View().RemoveFromSuperview()
//	child.RemoveFromParent()              // child.DidMove(nil) is sent
package view

import (
	"errors"

	herrors "github.com/go-drift/harvester/pkg/errors"
	"github.com/go-drift/harvester/pkg/mainthread"
)

var (
	// ErrOffMainThread is reported when the hierarchy is mutated away from
	// the UI context.
	ErrOffMainThread = errors.New("view: hierarchy mutated off the UI context")
	// ErrNotSuperview is returned when pinning a view to a view that is not
	// its superview.
	ErrNotSuperview = errors.New("view: constraint target is not the superview")
	// ErrCycle is returned when a view would become its own ancestor.
	ErrCycle = errors.New("view: hierarchy cycle")
)

func checkMain(op string) {
	if mainthread.IsMain() {
		return
	}
	herrors.ReportError(op, herrors.KindHierarchy, ErrOffMainThread)
}
