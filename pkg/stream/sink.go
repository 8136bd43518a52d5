package stream

import "sync"

// Sink subscribes with unlimited demand and calls onNext for each value and
// onComplete once the stream ends. Either callback may be nil. The returned
// handle cancels the subscription.
func Sink[T any](p Publisher[T], onNext func(T), onComplete func(error)) Cancellable {
	s := &sink[T]{onNext: onNext, onComplete: onComplete}
	p.Subscribe(s)
	return s
}

type sink[T any] struct {
	mu         sync.Mutex
	sub        Subscription
	done       bool
	onNext     func(T)
	onComplete func(error)
}

func (s *sink[T]) OnSubscribe(sub Subscription) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		sub.Cancel()
		return
	}
	s.sub = sub
	s.mu.Unlock()
	sub.Request(Unlimited)
}

func (s *sink[T]) OnNext(value T) Demand {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if !done && s.onNext != nil {
		s.onNext(value)
	}
	return None
}

func (s *sink[T]) OnComplete(err error) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	s.sub = nil
	s.mu.Unlock()
	if s.onComplete != nil {
		s.onComplete(err)
	}
}

func (s *sink[T]) Cancel() {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()
	if sub != nil {
		sub.Cancel()
	}
}
