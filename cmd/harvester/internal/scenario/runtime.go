package scenario

import (
	"github.com/go-drift/harvester/pkg/attach"
	"github.com/go-drift/harvester/pkg/geometry"
	"github.com/go-drift/harvester/pkg/stream"
	"github.com/go-drift/harvester/pkg/view"
)

// Runtime is a scenario wired to live controllers, subjects and attachers.
type Runtime struct {
	controllers []*view.Controller
	byTitle     map[string]*view.Controller
	streams     map[string]*stream.Subject[bool]
	attachments map[string]stream.Cancellable
	bag         stream.Bag
}

// Build creates the controllers and streams of sc and subscribes its
// attachments. sc must have been validated.
func Build(sc *Scenario) *Runtime {
	rt := &Runtime{
		byTitle:     make(map[string]*view.Controller, len(sc.Controllers)),
		streams:     make(map[string]*stream.Subject[bool], len(sc.Streams)),
		attachments: make(map[string]stream.Cancellable, len(sc.Attachments)),
	}
	for _, c := range sc.Controllers {
		ctrl := view.NewController(c.Title)
		ctrl.View().SetFrame(geometry.RectFromLTWH(0, 0, c.Width, c.Height))
		rt.controllers = append(rt.controllers, ctrl)
		rt.byTitle[c.Title] = ctrl
	}
	for _, name := range sc.Streams {
		rt.streams[name] = stream.NewSubject[bool](name)
	}
	for _, a := range sc.Attachments {
		c := attach.AttachChild(
			rt.streams[a.Stream],
			rt.byTitle[a.Child],
			rt.byTitle[a.Parent],
			attach.WithNavigationLock(a.LockNavigation),
			attach.WithInsets(a.EdgeInsets()),
		)
		rt.attachments[a.ID] = c
		rt.bag.Add(c)
	}
	return rt
}

// Apply performs one step. Values and completions go through the stream,
// so their effect may be posted to the UI context rather than applied
// before Apply returns.
func (rt *Runtime) Apply(step Step) {
	switch {
	case step.Cancel != "":
		if c, ok := rt.attachments[step.Cancel]; ok {
			c.Cancel()
		}
	case step.Complete:
		if s, ok := rt.streams[step.Stream]; ok {
			s.Complete()
		}
	case step.Value != nil:
		if s, ok := rt.streams[step.Stream]; ok {
			s.Send(*step.Value)
		}
	}
}

// Controller returns the controller with the given title, or nil.
func (rt *Runtime) Controller(title string) *view.Controller {
	return rt.byTitle[title]
}

// Roots returns the controllers without a parent, in declaration order.
// Call it on the UI context.
func (rt *Runtime) Roots() []*view.Controller {
	var roots []*view.Controller
	for _, c := range rt.controllers {
		if c.Parent() == nil {
			roots = append(roots, c)
		}
	}
	return roots
}

// Close cancels every attachment.
func (rt *Runtime) Close() {
	rt.bag.CancelAll()
}
