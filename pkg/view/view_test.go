package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/harvester/pkg/geometry"
)

func TestView_AddSubviewReparents(t *testing.T) {
	a := NewView("a")
	b := NewView("b")
	child := NewView("child")

	require.NoError(t, a.AddSubview(child))
	require.NoError(t, b.AddSubview(child))

	assert.Empty(t, a.Subviews())
	assert.Equal(t, []*View{child}, b.Subviews())
	assert.Same(t, b, child.Superview())
}

func TestView_AddSubviewTwiceBringsToFront(t *testing.T) {
	parent := NewView("parent")
	first := NewView("first")
	second := NewView("second")
	require.NoError(t, parent.AddSubview(first))
	require.NoError(t, parent.AddSubview(second))

	require.NoError(t, parent.AddSubview(first))

	assert.Equal(t, []*View{second, first}, parent.Subviews())
}

func TestView_AddSubviewRejectsCycle(t *testing.T) {
	root := NewView("root")
	leaf := NewView("leaf")
	require.NoError(t, root.AddSubview(leaf))

	assert.ErrorIs(t, leaf.AddSubview(root), ErrCycle)
	assert.ErrorIs(t, root.AddSubview(root), ErrCycle)
}

func TestView_PinEdges(t *testing.T) {
	parent := NewView("parent")
	parent.SetFrame(geometry.RectFromLTWH(0, 0, 200, 100))
	child := NewView("child")

	assert.ErrorIs(t, child.PinEdges(parent, geometry.EdgeInsets{}), ErrNotSuperview)

	require.NoError(t, parent.AddSubview(child))
	require.NoError(t, child.PinEdges(parent, geometry.Padding(10)))
	require.NoError(t, child.PinEdges(parent, geometry.Padding(10)))

	assert.Len(t, child.Constraints(), 4, "pinning twice must not stack constraints")
	assert.True(t, child.Frame().Equal(geometry.Rect{Left: 10, Top: 10, Right: 190, Bottom: 90}))

	parent.SetFrame(geometry.RectFromLTWH(0, 0, 400, 300))
	parent.LayoutSubviews()
	assert.True(t, child.Frame().Equal(geometry.Rect{Left: 10, Top: 10, Right: 390, Bottom: 290}))

	child.RemoveFromSuperview()
	assert.Empty(t, child.Constraints())
	assert.Nil(t, child.Superview())
	child.RemoveFromSuperview()
}

func TestEdge_String(t *testing.T) {
	assert.Equal(t, "top", EdgeTop.String())
	assert.Equal(t, "leading", EdgeLeading.String())
	assert.Equal(t, "bottom", EdgeBottom.String())
	assert.Equal(t, "trailing", EdgeTrailing.String())
	assert.Equal(t, "unknown", Edge(9).String())
}
