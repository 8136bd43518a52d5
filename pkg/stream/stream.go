// Package stream provides a small push-based reactive streams layer.
//
// A Publisher delivers values to a Subscriber after handing it a
// Subscription. Subscribers pull with Subscription.Request and stop with
// Subscription.Cancel. Completion is signalled once through OnComplete with
// a nil error for streams that finish normally.
//
// The streams consumed by the UI helpers in this module never fail; the
// error argument exists for the few adapters (First, the test Await helper)
// that have to report upstream failures.
package stream

import (
	"math"
	"sync"
)

// Demand is the number of values a subscriber is willing to receive.
type Demand int64

const (
	// None requests no additional values.
	None Demand = 0
	// Unlimited requests every value the publisher produces.
	Unlimited Demand = math.MaxInt64
)

// Add returns d+n, saturating at Unlimited.
func (d Demand) Add(n Demand) Demand {
	if d == Unlimited || n == Unlimited || d > Unlimited-n {
		return Unlimited
	}
	return d + n
}

// take consumes one unit of demand. Unlimited is never consumed.
func (d Demand) take() Demand {
	if d == Unlimited || d <= 0 {
		return d
	}
	return d - 1
}

// Subscription links a subscriber to a publisher.
type Subscription interface {
	// Request asks for n more values.
	Request(n Demand)
	// Cancel stops delivery. Calling it more than once is a no-op.
	Cancel()
}

// Subscriber receives values from a Publisher.
type Subscriber[T any] interface {
	// OnSubscribe is called exactly once, before any other callback.
	OnSubscribe(sub Subscription)
	// OnNext delivers a value and returns how many more values to add to
	// the outstanding demand.
	OnNext(value T) Demand
	// OnComplete is called at most once. err is nil on normal completion.
	OnComplete(err error)
}

// Publisher produces values for subscribers.
type Publisher[T any] interface {
	Subscribe(sub Subscriber[T])
}

// PublisherFunc implements Publisher with a function.
type PublisherFunc[T any] func(sub Subscriber[T])

// Subscribe calls f(sub).
func (f PublisherFunc[T]) Subscribe(sub Subscriber[T]) {
	f(sub)
}

// Cancellable is anything that can be cancelled, typically the handle
// returned by Sink or by attaching a subscriber.
type Cancellable interface {
	Cancel()
}

// CancelFunc adapts a function to Cancellable.
type CancelFunc func()

// Cancel calls f.
func (f CancelFunc) Cancel() {
	f()
}

// Bag collects cancellables so they can be cancelled together, usually
// when the owning screen goes away.
type Bag struct {
	mu    sync.Mutex
	items []Cancellable
}

// Add stores c in the bag.
func (b *Bag) Add(c Cancellable) {
	if c == nil {
		return
	}
	b.mu.Lock()
	b.items = append(b.items, c)
	b.mu.Unlock()
}

// Len returns the number of stored cancellables.
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// CancelAll cancels every stored cancellable in insertion order and empties
// the bag.
func (b *Bag) CancelAll() {
	b.mu.Lock()
	items := b.items
	b.items = nil
	b.mu.Unlock()

	for _, c := range items {
		c.Cancel()
	}
}

type emptySubscription struct{}

func (emptySubscription) Request(Demand) {}
func (emptySubscription) Cancel()        {}
