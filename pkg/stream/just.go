package stream

import "sync"

// Just returns a publisher that emits values in order and then completes.
// Each subscriber gets its own pass over values.
func Just[T any](values ...T) Publisher[T] {
	return PublisherFunc[T](func(sub Subscriber[T]) {
		js := &justSubscription[T]{values: values, subscriber: sub}
		sub.OnSubscribe(js)
	})
}

type justSubscription[T any] struct {
	mu         sync.Mutex
	values     []T
	next       int
	demand     Demand
	emitting   bool
	finished   bool
	subscriber Subscriber[T]
}

func (j *justSubscription[T]) Request(n Demand) {
	j.mu.Lock()
	if j.finished {
		j.mu.Unlock()
		return
	}
	j.demand = j.demand.Add(n)
	if j.emitting {
		// The emit loop below picks up the new demand.
		j.mu.Unlock()
		return
	}
	j.emitting = true
	for j.demand > 0 && j.next < len(j.values) && !j.finished {
		v := j.values[j.next]
		j.next++
		j.demand = j.demand.take()
		j.mu.Unlock()
		more := j.subscriber.OnNext(v)
		j.mu.Lock()
		j.demand = j.demand.Add(more)
	}
	j.emitting = false
	complete := !j.finished && j.next == len(j.values)
	if complete {
		j.finished = true
	}
	j.mu.Unlock()

	if complete {
		j.subscriber.OnComplete(nil)
	}
}

func (j *justSubscription[T]) Cancel() {
	j.mu.Lock()
	j.finished = true
	j.mu.Unlock()
}
