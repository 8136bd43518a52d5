package stream

import (
	"context"
	"errors"
	"sync"
)

// ErrNoValue is returned by First when the stream completes without
// emitting anything.
var ErrNoValue = errors.New("stream: completed without a value")

// First subscribes to p and blocks until its first value arrives.
// It returns ErrNoValue if p completes empty, the completion error if p
// fails, and ctx.Err() if ctx ends first. The subscription is cancelled
// before First returns.
func First[T any](ctx context.Context, p Publisher[T]) (T, error) {
	f := &firstSubscriber[T]{result: make(chan firstResult[T], 1)}
	p.Subscribe(f)

	select {
	case r := <-f.result:
		f.cancel()
		return r.value, r.err
	case <-ctx.Done():
		f.cancel()
		var zero T
		return zero, ctx.Err()
	}
}

type firstResult[T any] struct {
	value T
	err   error
}

type firstSubscriber[T any] struct {
	mu       sync.Mutex
	sub      Subscription
	resolved bool
	result   chan firstResult[T]
}

func (f *firstSubscriber[T]) OnSubscribe(sub Subscription) {
	f.mu.Lock()
	f.sub = sub
	f.mu.Unlock()
	sub.Request(1)
}

func (f *firstSubscriber[T]) OnNext(value T) Demand {
	if f.resolve(firstResult[T]{value: value}) {
		f.cancel()
	}
	return None
}

func (f *firstSubscriber[T]) OnComplete(err error) {
	if err == nil {
		err = ErrNoValue
	}
	f.resolve(firstResult[T]{err: err})
}

func (f *firstSubscriber[T]) resolve(r firstResult[T]) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resolved {
		return false
	}
	f.resolved = true
	f.result <- r
	return true
}

func (f *firstSubscriber[T]) cancel() {
	f.mu.Lock()
	sub := f.sub
	f.sub = nil
	f.mu.Unlock()
	if sub != nil {
		sub.Cancel()
	}
}
