package stream

import (
	"sync"
	"sync/atomic"
	"time"

	herrors "github.com/go-drift/harvester/pkg/errors"
)

// Subject is a passthrough publisher: it forwards every value sent to it to
// the subscribers that currently have outstanding demand. Values sent while
// a subscriber has no demand are dropped for that subscriber.
//
// Subject is safe for concurrent use. Subscriber callbacks run on the
// goroutine that calls Send or Complete.
type Subject[T any] struct {
	name          string
	mu            sync.Mutex
	subscriptions []*subjectSubscription[T]
	finished      bool
	completion    error
}

// NewSubject creates a subject. The name identifies it in error reports.
func NewSubject[T any](name string) *Subject[T] {
	return &Subject[T]{name: name}
}

// Name returns the subject name.
func (s *Subject[T]) Name() string {
	return s.name
}

// Subscribe attaches sub. If the subject already finished, sub receives the
// completion immediately.
func (s *Subject[T]) Subscribe(sub Subscriber[T]) {
	s.mu.Lock()
	if s.finished {
		err := s.completion
		s.mu.Unlock()
		sub.OnSubscribe(emptySubscription{})
		sub.OnComplete(err)
		return
	}
	ss := &subjectSubscription[T]{subject: s, subscriber: sub}
	s.subscriptions = append(s.subscriptions, ss)
	s.mu.Unlock()

	sub.OnSubscribe(ss)
}

// Send delivers value to every subscriber with outstanding demand.
// A panicking subscriber is reported and skipped; the rest still receive
// the value.
func (s *Subject[T]) Send(value T) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	subs := make([]*subjectSubscription[T], len(s.subscriptions))
	copy(subs, s.subscriptions)
	s.mu.Unlock()

	for _, sub := range subs {
		if sub.IsCanceled() || !sub.takeDemand() {
			continue
		}
		sub.deliver(value)
	}
}

// Complete finishes the subject normally.
func (s *Subject[T]) Complete() {
	s.finish(nil)
}

// Fail finishes the subject with err.
func (s *Subject[T]) Fail(err error) {
	s.finish(err)
}

// SubscriberCount returns the number of active subscriptions.
func (s *Subject[T]) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscriptions)
}

func (s *Subject[T]) finish(err error) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.finished = true
	s.completion = err
	subs := s.subscriptions
	s.subscriptions = nil
	s.mu.Unlock()

	for _, sub := range subs {
		if sub.canceled.CompareAndSwap(false, true) {
			sub.complete(err)
		}
	}
}

func (s *Subject[T]) remove(sub *subjectSubscription[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ss := range s.subscriptions {
		if ss == sub {
			s.subscriptions = append(s.subscriptions[:i], s.subscriptions[i+1:]...)
			return
		}
	}
}

type subjectSubscription[T any] struct {
	subject    *Subject[T]
	subscriber Subscriber[T]
	demandMu   sync.Mutex
	demand     Demand
	canceled   atomic.Bool
}

func (s *subjectSubscription[T]) Request(n Demand) {
	if n <= 0 {
		return
	}
	s.demandMu.Lock()
	s.demand = s.demand.Add(n)
	s.demandMu.Unlock()
}

func (s *subjectSubscription[T]) Cancel() {
	if s.canceled.CompareAndSwap(false, true) {
		s.subject.remove(s)
	}
}

func (s *subjectSubscription[T]) IsCanceled() bool {
	return s.canceled.Load()
}

func (s *subjectSubscription[T]) takeDemand() bool {
	s.demandMu.Lock()
	defer s.demandMu.Unlock()
	if s.demand <= 0 {
		return false
	}
	s.demand = s.demand.take()
	return true
}

func (s *subjectSubscription[T]) deliver(value T) {
	defer s.recoverCallback("stream.Subject.Send")
	s.Request(s.subscriber.OnNext(value))
}

func (s *subjectSubscription[T]) complete(err error) {
	defer s.recoverCallback("stream.Subject.Complete")
	s.subscriber.OnComplete(err)
}

// recoverCallback reports a panicking subscriber as a stream error naming
// the subject. Use it deferred.
func (s *subjectSubscription[T]) recoverCallback(op string) {
	r := recover()
	if r == nil {
		return
	}
	stack := herrors.CaptureStack()
	herrors.Report(&herrors.HarvesterError{
		Op:         op,
		Kind:       herrors.KindStream,
		Stream:     s.subject.name,
		Err:        &herrors.PanicError{Op: op, Value: r, StackTrace: stack, Timestamp: time.Now()},
		StackTrace: stack,
	})
}
