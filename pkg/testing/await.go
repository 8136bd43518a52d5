package testing

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-drift/harvester/pkg/stream"
)

// DefaultAwaitTimeout is a reasonable timeout for Await in most tests.
const DefaultAwaitTimeout = 10 * time.Second

// Await subscribes to p and waits until it completes, then returns the
// last value it produced. The test fails if p fails, completes without a
// value, or does not complete within timeout.
//
// Streams that never complete on their own can be limited first:
//
//	v := harvesttest.Await(t, harvesttest.Take(updates, 1), time.Second)
func Await[T any](tb testing.TB, p stream.Publisher[T], timeout time.Duration) T {
	tb.Helper()

	var (
		mu     sync.Mutex
		last   T
		gotOne bool
	)
	done := make(chan error, 1)

	c := stream.Sink(p, func(v T) {
		mu.Lock()
		last, gotOne = v, true
		mu.Unlock()
	}, func(err error) {
		done <- err
	})
	defer c.Cancel()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		require.NoError(tb, err, "awaited stream failed")
	case <-timer.C:
		require.FailNow(tb, "awaited stream did not complete", "timeout after %s", timeout)
	}

	mu.Lock()
	defer mu.Unlock()
	require.True(tb, gotOne, "awaited stream did not produce any output")
	return last
}

// Take limits p to its first n values, completing right after the n-th.
func Take[T any](p stream.Publisher[T], n int) stream.Publisher[T] {
	return stream.PublisherFunc[T](func(sub stream.Subscriber[T]) {
		p.Subscribe(&takeSubscriber[T]{downstream: sub, remaining: n})
	})
}

type takeSubscriber[T any] struct {
	mu         sync.Mutex
	downstream stream.Subscriber[T]
	upstream   stream.Subscription
	remaining  int
	finished   bool
}

func (s *takeSubscriber[T]) OnSubscribe(sub stream.Subscription) {
	s.mu.Lock()
	s.upstream = sub
	finished := s.remaining <= 0
	s.finished = finished
	s.mu.Unlock()

	s.downstream.OnSubscribe(sub)
	if finished {
		sub.Cancel()
		s.downstream.OnComplete(nil)
	}
}

func (s *takeSubscriber[T]) OnNext(v T) stream.Demand {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return stream.None
	}
	s.remaining--
	last := s.remaining == 0
	if last {
		s.finished = true
	}
	s.mu.Unlock()

	demand := s.downstream.OnNext(v)
	if last {
		s.upstream.Cancel()
		s.downstream.OnComplete(nil)
		return stream.None
	}
	return demand
}

func (s *takeSubscriber[T]) OnComplete(err error) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.finished = true
	s.mu.Unlock()
	s.downstream.OnComplete(err)
}
