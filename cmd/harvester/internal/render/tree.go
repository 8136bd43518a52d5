// Package render draws controller hierarchies for the harvester CLI.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/go-drift/harvester/pkg/view"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	frameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	lockStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	branchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).MarginRight(1)
)

// Label describes a controller on one line: title, frame, lock flags and
// the short form of its ID.
func Label(c *view.Controller) string {
	return strings.Join(labelParts(c, false), " ")
}

// Tree renders c and its descendants.
// Call it on the UI context.
func Tree(c *view.Controller) string {
	return node(c).String()
}

// Forest renders several hierarchies separated by blank lines.
func Forest(roots []*view.Controller) string {
	parts := make([]string, 0, len(roots))
	for _, r := range roots {
		parts = append(parts, Tree(r))
	}
	return strings.Join(parts, "\n\n")
}

func node(c *view.Controller) *tree.Tree {
	t := tree.Root(strings.Join(labelParts(c, true), " ")).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(branchStyle)
	for _, child := range c.Children() {
		t.Child(node(child))
	}
	return t
}

func labelParts(c *view.Controller, styled bool) []string {
	f := c.View().Frame()
	frame := fmt.Sprintf("(%g,%g %gx%g)", f.Left, f.Top, f.Width(), f.Height())
	var flags []string
	if c.ModalInPresentation() {
		flags = append(flags, "[modal]")
	}
	if c.NavigationItem().HidesBackButton {
		flags = append(flags, "[no-back]")
	}
	id := ShortID(c)
	if !styled {
		return append(append([]string{c.Title(), frame}, flags...), id)
	}
	parts := []string{titleStyle.Render(c.Title()), frameStyle.Render(frame)}
	for _, flag := range flags {
		parts = append(parts, lockStyle.Render(flag))
	}
	return append(parts, frameStyle.Render(id))
}

// ShortID returns "#" and the first eight hex digits of c's ID, enough to
// tell apart controllers sharing a title.
func ShortID(c *view.Controller) string {
	return "#" + c.ID().String()[:8]
}
