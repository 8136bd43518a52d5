// Package notify implements a notification center: a broadcast bus keyed
// by notification name and sender, observed through streams.
package notify

import "github.com/go-drift/harvester/pkg/stream"

// Name identifies a kind of notification.
type Name string

// Notification is a single broadcast.
type Notification struct {
	Name     Name
	Object   any
	UserInfo map[string]any
}

// Center delivers posted notifications to matching observers. It is safe
// for concurrent use; observers run on the posting goroutine.
type Center struct {
	bus *stream.Subject[Notification]
}

// Default is the process-wide center.
var Default = NewCenter()

// NewCenter creates an empty center.
func NewCenter() *Center {
	return &Center{bus: stream.NewSubject[Notification]("notify.Center")}
}

// Post broadcasts n to every observer whose filter matches.
func (c *Center) Post(n Notification) {
	c.bus.Send(n)
}

// Publisher returns a stream of notifications called name. When object is
// non-nil only notifications posted by that object are delivered. Objects
// are compared by identity, so pass pointers.
func (c *Center) Publisher(name Name, object any) stream.Publisher[Notification] {
	return stream.CompactMap[Notification](c.bus, func(n Notification) (Notification, bool) {
		if n.Name != name {
			return Notification{}, false
		}
		if object != nil && !sameObject(n.Object, object) {
			return Notification{}, false
		}
		return n, true
	})
}

// ObserverCount returns the number of active observers.
func (c *Center) ObserverCount() int {
	return c.bus.SubscriberCount()
}

func sameObject(a, b any) (same bool) {
	// Non-comparable senders never match rather than panic.
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
