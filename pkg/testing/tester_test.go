package testing

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/harvester/pkg/mainthread"
	"github.com/go-drift/harvester/pkg/stream"
	"github.com/go-drift/harvester/pkg/view"
)

func TestTester_IsUIContext(t *testing.T) {
	tester := NewTesterWithT(t)

	assert.True(t, tester.IsCurrent())
	assert.True(t, mainthread.IsMain())

	ran := false
	mainthread.Run(func() { ran = true })
	assert.True(t, ran, "work on the tester goroutine runs inline")
	assert.Equal(t, 0, tester.Pending())
}

func TestTester_QueuesOffGoroutineWork(t *testing.T) {
	tester := NewTesterWithT(t)

	var order []int
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.False(t, tester.IsCurrent())
		mainthread.Run(func() { order = append(order, 1) })
		mainthread.Run(func() {
			order = append(order, 2)
			mainthread.Dispatch(func() { order = append(order, 3) })
		})
	}()
	<-done

	assert.Equal(t, 2, tester.Pending())
	assert.Equal(t, 3, tester.Pump())
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestTester_CleanupRestoresDispatcher(t *testing.T) {
	before := mainthread.Current()
	tester := NewTester()
	assert.Same(t, tester, mainthread.Current())

	tester.Cleanup()

	assert.Equal(t, before, mainthread.Current())
	assert.False(t, tester.Post(func() {}))
}

func TestAwait_Just(t *testing.T) {
	assert.Equal(t, "b", Await(t, stream.Just("a", "b"), time.Second))
}

func TestAwait_Async(t *testing.T) {
	s := stream.NewSubject[int]("numbers")
	go func() {
		for s.SubscriberCount() == 0 {
			time.Sleep(time.Millisecond)
		}
		s.Send(42)
		s.Complete()
	}()

	assert.Equal(t, 42, Await[int](t, s, DefaultAwaitTimeout))
}

func TestAwait_Take(t *testing.T) {
	s := stream.NewSubject[string]("titles")
	go func() {
		for s.SubscriberCount() == 0 {
			time.Sleep(time.Millisecond)
		}
		s.Send("first")
	}()

	assert.Equal(t, "first", Await(t, Take[string](s, 1), DefaultAwaitTimeout))
	assert.Equal(t, 0, s.SubscriberCount())
}

func TestAwait_Failures(t *testing.T) {
	tests := []struct {
		name string
		pub  stream.Publisher[int]
	}{
		{"empty", stream.Just[int]()},
		{"failed", failed(errors.New("boom"))},
		{"timeout", stream.NewSubject[int]("never")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingTB{TB: t}
			finished := make(chan struct{})
			// FailNow calls runtime.Goexit, so run in a separate goroutine.
			go func() {
				defer close(finished)
				Await(rec, tt.pub, 20*time.Millisecond)
			}()
			<-finished
			assert.True(t, rec.failed, "expected Await to fail the test")
		})
	}
}

func TestFind_Finders(t *testing.T) {
	root := view.NewController("root")
	loader := view.NewController("loader")
	other := view.NewController("loader")
	root.AddChild(loader)
	loader.AddChild(other)

	assert.Equal(t, 2, Find(root, ByTitle("loader")).Count())
	assert.Same(t, loader, Find(root, ByTitle("loader")).First())
	assert.Same(t, other, Find(root, ByController(other)).First())
	assert.Same(t, other, Find(root, ByID(other.ID())).First())
	assert.Equal(t, 1, Find(root, ByID(loader.ID())).Count())
	assert.False(t, Find(root, ByID(uuid.New())).Exists())
	assert.False(t, Find(root, ByTitle("missing")).Exists())
	assert.Nil(t, Find(root, ByTitle("missing")).FirstOrNil())
	assert.Len(t, Find(root, ByPredicate("has children", func(c *view.Controller) bool {
		return len(c.Children()) > 0
	})).All(), 2)
	assert.False(t, Find(nil, ByTitle("root")).Exists())

	require.PanicsWithValue(t, `Finder found no controllers: ByTitle("missing")`, func() {
		Find(root, ByTitle("missing")).First()
	})
}

func failed(err error) stream.Publisher[int] {
	s := stream.NewSubject[int]("failed")
	s.Fail(err)
	return s
}

// recordingTB records failures instead of failing the enclosing test.
type recordingTB struct {
	testing.TB
	failed bool
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Errorf(string, ...any) {
	r.failed = true
}

func (r *recordingTB) FailNow() {
	r.failed = true
	runtime.Goexit()
}
