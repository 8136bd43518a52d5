package view

import (
	"slices"
	"weak"

	"github.com/google/uuid"

	"github.com/go-drift/harvester/pkg/geometry"
)

// Edge identifies a side of a view for constraints.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeLeading
	EdgeBottom
	EdgeTrailing
)

func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeLeading:
		return "leading"
	case EdgeBottom:
		return "bottom"
	case EdgeTrailing:
		return "trailing"
	default:
		return "unknown"
	}
}

// EdgeConstraint pins Edge of Item to the same edge of To, offset by
// Constant. To is always the superview of Item.
type EdgeConstraint struct {
	Item     *View
	To       *View
	Edge     Edge
	Constant float64
}

// View is a rectangular node in the view tree.
type View struct {
	// Name labels the view in tree dumps.
	Name string

	id        uuid.UUID
	superview weak.Pointer[View]
	subviews  []*View
	frame     geometry.Rect
	// pins holds the constant per pinned edge; the target is the superview.
	pins []edgePin
}

type edgePin struct {
	edge     Edge
	constant float64
}

// NewView creates a detached view.
func NewView(name string) *View {
	return &View{Name: name, id: uuid.New()}
}

// ID returns the view's unique identifier.
func (v *View) ID() uuid.UUID {
	return v.id
}

// Superview returns the parent view, or nil. A view does not keep its
// superview alive.
func (v *View) Superview() *View {
	return v.superview.Value()
}

// Subviews returns a copy of the subviews, back to front.
func (v *View) Subviews() []*View {
	return slices.Clone(v.subviews)
}

// Frame returns the view's rectangle in its superview's coordinates.
func (v *View) Frame() geometry.Rect {
	return v.frame
}

// SetFrame sets the frame directly. Constrained views get their frame
// overwritten by the superview's LayoutSubviews.
func (v *View) SetFrame(r geometry.Rect) {
	v.frame = r
}

// Bounds returns the view's own coordinate space.
func (v *View) Bounds() geometry.Rect {
	return geometry.RectFromLTWH(0, 0, v.frame.Width(), v.frame.Height())
}

// IsDescendant reports whether v is other or lies below it.
func (v *View) IsDescendant(other *View) bool {
	for cur := v; cur != nil; cur = cur.Superview() {
		if cur == other {
			return true
		}
	}
	return false
}

// AddSubview inserts sub on top of v's subviews. A view that already has a
// different superview is removed from it first; re-adding an existing
// subview brings it to the front.
func (v *View) AddSubview(sub *View) error {
	checkMain("view.View.AddSubview")
	if v.IsDescendant(sub) {
		return ErrCycle
	}
	if sub.Superview() == v {
		v.subviews = slices.DeleteFunc(v.subviews, func(s *View) bool { return s == sub })
		v.subviews = append(v.subviews, sub)
		return nil
	}
	sub.RemoveFromSuperview()
	sub.superview = weak.Make(v)
	v.subviews = append(v.subviews, sub)
	return nil
}

// RemoveFromSuperview detaches v and drops its constraints to the old
// superview. No-op for a detached view.
func (v *View) RemoveFromSuperview() {
	checkMain("view.View.RemoveFromSuperview")
	parent := v.Superview()
	if parent == nil {
		return
	}
	parent.subviews = slices.DeleteFunc(parent.subviews, func(s *View) bool { return s == v })
	v.superview = weak.Pointer[View]{}
	v.pins = nil
}

// PinEdges constrains all four edges of v to its superview to, offset by
// insets. Any earlier pin is replaced, so pinning twice never stacks
// constraints.
func (v *View) PinEdges(to *View, insets geometry.EdgeInsets) error {
	checkMain("view.View.PinEdges")
	if to == nil || v.Superview() != to {
		return ErrNotSuperview
	}
	v.pins = []edgePin{
		{EdgeLeading, insets.Left},
		{EdgeTrailing, insets.Right},
		{EdgeTop, insets.Top},
		{EdgeBottom, insets.Bottom},
	}
	v.frame = v.pinnedInsets().Inset(to.Bounds())
	return nil
}

// Constraints returns the active constraints of v, none once its
// superview is gone.
func (v *View) Constraints() []EdgeConstraint {
	to := v.Superview()
	if len(v.pins) == 0 || to == nil {
		return nil
	}
	out := make([]EdgeConstraint, len(v.pins))
	for i, p := range v.pins {
		out[i] = EdgeConstraint{Item: v, To: to, Edge: p.edge, Constant: p.constant}
	}
	return out
}

// LayoutSubviews resolves the frames of constrained subviews from v's
// bounds, recursively.
func (v *View) LayoutSubviews() {
	bounds := v.Bounds()
	for _, sub := range v.subviews {
		if len(sub.pins) > 0 {
			sub.frame = sub.pinnedInsets().Inset(bounds)
		}
		sub.LayoutSubviews()
	}
}

func (v *View) pinnedInsets() geometry.EdgeInsets {
	var insets geometry.EdgeInsets
	for _, p := range v.pins {
		switch p.edge {
		case EdgeTop:
			insets.Top = p.constant
		case EdgeLeading:
			insets.Left = p.constant
		case EdgeBottom:
			insets.Bottom = p.constant
		case EdgeTrailing:
			insets.Right = p.constant
		}
	}
	return insets
}
