package stream

// Map transforms every value with fn.
func Map[T, U any](p Publisher[T], fn func(T) U) Publisher[U] {
	return CompactMap(p, func(v T) (U, bool) { return fn(v), true })
}

// CompactMap transforms values with fn and drops those for which fn
// reports false. A dropped value is replaced by a request for one more, so
// downstream demand is preserved.
func CompactMap[T, U any](p Publisher[T], fn func(T) (U, bool)) Publisher[U] {
	return PublisherFunc[U](func(sub Subscriber[U]) {
		p.Subscribe(&compactMapSubscriber[T, U]{downstream: sub, fn: fn})
	})
}

type compactMapSubscriber[T, U any] struct {
	downstream Subscriber[U]
	fn         func(T) (U, bool)
}

func (m *compactMapSubscriber[T, U]) OnSubscribe(sub Subscription) {
	m.downstream.OnSubscribe(sub)
}

func (m *compactMapSubscriber[T, U]) OnNext(value T) Demand {
	out, ok := m.fn(value)
	if !ok {
		return 1
	}
	return m.downstream.OnNext(out)
}

func (m *compactMapSubscriber[T, U]) OnComplete(err error) {
	m.downstream.OnComplete(err)
}
