package stream

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	herrors "github.com/go-drift/harvester/pkg/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recorder is a Subscriber that records every callback.
type recorder[T any] struct {
	sub       Subscription
	initial   Demand
	perValue  Demand
	values    []T
	completed bool
	err       error
}

func (r *recorder[T]) OnSubscribe(sub Subscription) {
	r.sub = sub
	if r.initial > 0 {
		sub.Request(r.initial)
	}
}

func (r *recorder[T]) OnNext(v T) Demand {
	r.values = append(r.values, v)
	return r.perValue
}

func (r *recorder[T]) OnComplete(err error) {
	r.completed = true
	r.err = err
}

func TestSubject_DeliversToAllSubscribers(t *testing.T) {
	s := NewSubject[int]("numbers")
	a := &recorder[int]{initial: Unlimited}
	b := &recorder[int]{initial: Unlimited}
	s.Subscribe(a)
	s.Subscribe(b)

	s.Send(1)
	s.Send(2)
	s.Complete()

	assert.Equal(t, []int{1, 2}, a.values)
	assert.Equal(t, []int{1, 2}, b.values)
	assert.True(t, a.completed)
	assert.NoError(t, a.err)
	assert.Equal(t, 0, s.SubscriberCount())
}

func TestSubject_HonorsDemand(t *testing.T) {
	s := NewSubject[int]("numbers")
	r := &recorder[int]{initial: 1}
	s.Subscribe(r)

	s.Send(1)
	s.Send(2)
	r.sub.Request(1)
	s.Send(3)

	assert.Equal(t, []int{1, 3}, r.values)
}

func TestSubject_DemandFromOnNext(t *testing.T) {
	s := NewSubject[int]("numbers")
	r := &recorder[int]{initial: 1, perValue: 1}
	s.Subscribe(r)

	for i := range 5 {
		s.Send(i)
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4}, r.values)
}

func TestSubject_Cancel(t *testing.T) {
	s := NewSubject[string]("names")
	r := &recorder[string]{initial: Unlimited}
	s.Subscribe(r)

	s.Send("a")
	r.sub.Cancel()
	r.sub.Cancel()
	s.Send("b")
	s.Complete()

	assert.Equal(t, []string{"a"}, r.values)
	assert.False(t, r.completed, "cancelled subscriber must not see completion")
	assert.Equal(t, 0, s.SubscriberCount())
}

func TestSubject_SubscribeAfterFinish(t *testing.T) {
	errClosed := errors.New("closed")
	s := NewSubject[int]("numbers")
	s.Fail(errClosed)
	s.Send(1)

	r := &recorder[int]{initial: Unlimited}
	s.Subscribe(r)

	assert.Empty(t, r.values)
	assert.True(t, r.completed)
	assert.ErrorIs(t, r.err, errClosed)
}

func TestSubject_CompleteOnce(t *testing.T) {
	s := NewSubject[int]("numbers")
	calls := 0
	Sink[int](s, nil, func(error) { calls++ })

	s.Complete()
	s.Complete()
	s.Fail(errors.New("late"))

	assert.Equal(t, 1, calls)
}

func TestSubject_RecoversPanickingSubscriber(t *testing.T) {
	var reported []*herrors.HarvesterError
	prev := herrors.SetHandler(errorCollector(func(err *herrors.HarvesterError) { reported = append(reported, err) }))
	t.Cleanup(func() { herrors.SetHandler(prev) })

	s := NewSubject[int]("numbers")
	Sink[int](s, func(int) { panic("bad subscriber") }, nil)
	var got []int
	Sink[int](s, func(v int) { got = append(got, v) }, nil)

	s.Send(7)

	assert.Equal(t, []int{7}, got)
	require.Len(t, reported, 1)
	assert.Equal(t, "stream.Subject.Send", reported[0].Op)
	assert.Equal(t, herrors.KindStream, reported[0].Kind)
	assert.Equal(t, "numbers", reported[0].Stream)
	assert.NotEmpty(t, reported[0].StackTrace)

	var perr *herrors.PanicError
	require.ErrorAs(t, reported[0], &perr)
	assert.Equal(t, "bad subscriber", perr.Value)
}

func TestSubject_RecoversPanickingCompletion(t *testing.T) {
	var reported []*herrors.HarvesterError
	prev := herrors.SetHandler(errorCollector(func(err *herrors.HarvesterError) { reported = append(reported, err) }))
	t.Cleanup(func() { herrors.SetHandler(prev) })

	s := NewSubject[int]("numbers")
	Sink[int](s, nil, func(error) { panic("bad completion") })
	var completed bool
	Sink[int](s, nil, func(error) { completed = true })

	s.Complete()

	assert.True(t, completed)
	require.Len(t, reported, 1)
	assert.Equal(t, "stream.Subject.Complete", reported[0].Op)
	assert.Equal(t, "numbers", reported[0].Stream)
	assert.EqualError(t, reported[0], "stream.Subject.Complete [stream] stream=numbers: panic in stream.Subject.Complete: bad completion")
}

func TestBag_CancelAll(t *testing.T) {
	var bag Bag
	cancelled := 0
	bag.Add(CancelFunc(func() { cancelled++ }))
	bag.Add(CancelFunc(func() { cancelled++ }))
	bag.Add(nil)

	assert.Equal(t, 2, bag.Len())
	bag.CancelAll()
	bag.CancelAll()

	assert.Equal(t, 2, cancelled)
	assert.Equal(t, 0, bag.Len())
}

func TestDemand_Add(t *testing.T) {
	assert.Equal(t, Demand(3), Demand(1).Add(2))
	assert.Equal(t, Unlimited, Unlimited.Add(1))
	assert.Equal(t, Unlimited, Demand(5).Add(Unlimited))
	assert.Equal(t, Unlimited, (Unlimited - 1).Add(2))
	assert.Equal(t, Unlimited, Unlimited.take())
	assert.Equal(t, Demand(0), Demand(1).take())
}

type errorCollector func(*herrors.HarvesterError)

func (h errorCollector) HandleError(err *herrors.HarvesterError) { h(err) }
func (h errorCollector) HandlePanic(*herrors.PanicError)         {}
