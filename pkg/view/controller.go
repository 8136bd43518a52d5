package view

import (
	"slices"
	"weak"

	"github.com/google/uuid"
)

// NavigationItem holds what a navigation bar shows for a controller.
type NavigationItem struct {
	Title           string
	HidesBackButton bool
}

// Controller manages a view and may contain child controllers.
type Controller struct {
	// OnWillMove, if set, is called from WillMove.
	OnWillMove func(parent *Controller)
	// OnDidMove, if set, is called from DidMove.
	OnDidMove func(parent *Controller)

	id                  uuid.UUID
	title               string
	view                *View
	parent              weak.Pointer[Controller]
	children            []*Controller
	navigationItem      NavigationItem
	modalInPresentation bool
}

// NewController creates a controller with its own root view.
func NewController(title string) *Controller {
	return &Controller{
		id:             uuid.New(),
		title:          title,
		view:           NewView(title),
		navigationItem: NavigationItem{Title: title},
	}
}

// ID returns the controller's unique identifier.
func (c *Controller) ID() uuid.UUID {
	return c.id
}

// Title returns the controller title.
func (c *Controller) Title() string {
	return c.title
}

// View returns the controller's root view.
func (c *Controller) View() *View {
	return c.view
}

// Parent returns the containing controller, or nil. A child does not keep
// its parent alive.
func (c *Controller) Parent() *Controller {
	return c.parent.Value()
}

// Children returns a copy of the child controllers in insertion order.
func (c *Controller) Children() []*Controller {
	return slices.Clone(c.children)
}

// NavigationItem returns the controller's navigation item for mutation.
func (c *Controller) NavigationItem() *NavigationItem {
	return &c.navigationItem
}

// ModalInPresentation reports whether interactive dismissal is locked.
func (c *Controller) ModalInPresentation() bool {
	return c.modalInPresentation
}

// SetModalInPresentation locks or unlocks interactive dismissal.
func (c *Controller) SetModalInPresentation(locked bool) {
	checkMain("view.Controller.SetModalInPresentation")
	c.modalInPresentation = locked
}

// AddChild makes child a child of c. It sends child.WillMove(c) first. A
// child held by another controller is removed from it; adding an existing
// child again is a no-op.
func (c *Controller) AddChild(child *Controller) {
	checkMain("view.Controller.AddChild")
	if child == nil || child == c || child.Parent() == c {
		return
	}
	if child.Parent() != nil {
		child.RemoveFromParent()
	}
	child.WillMove(c)
	child.parent = weak.Make(c)
	c.children = append(c.children, child)
}

// RemoveFromParent detaches c from its parent and sends c.DidMove(nil).
// No-op when c has no parent.
func (c *Controller) RemoveFromParent() {
	checkMain("view.Controller.RemoveFromParent")
	parent := c.Parent()
	if parent == nil {
		return
	}
	parent.children = slices.DeleteFunc(parent.children, func(ch *Controller) bool { return ch == c })
	c.parent = weak.Pointer[Controller]{}
	c.DidMove(nil)
}

// WillMove notifies c that it is about to move to parent (nil when being
// removed).
func (c *Controller) WillMove(parent *Controller) {
	if c.OnWillMove != nil {
		c.OnWillMove(parent)
	}
}

// DidMove notifies c that it moved to parent (nil after removal).
func (c *Controller) DidMove(parent *Controller) {
	if c.OnDidMove != nil {
		c.OnDidMove(parent)
	}
}

// Walk visits c and its descendants depth first. Returning false from fn
// skips the subtree of that controller.
func (c *Controller) Walk(fn func(ctrl *Controller, depth int) bool) {
	c.walk(fn, 0)
}

func (c *Controller) walk(fn func(*Controller, int) bool, depth int) {
	if !fn(c, depth) {
		return
	}
	for _, child := range c.children {
		child.walk(fn, depth+1)
	}
}
