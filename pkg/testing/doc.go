// Package testing provides test helpers for code built on harvester.
//
// # Quick Start
//
// Create a tester to make the test goroutine the UI context, drive a
// stream, and assert on the controller tree:
//
//	func TestLoader(t *testing.T) {
//	    tester := harvesttest.NewTesterWithT(t)
//	    isLoading := stream.NewSubject[bool]("isLoading")
//	    screen := view.NewController("screen")
//	    attach.AttachLoader(isLoading, view.NewController("spinner"), screen, 0)
//
//	    isLoading.Send(true)
//	    tester.Pump()
//
//	    if !harvesttest.Find(screen, harvesttest.ByTitle("spinner")).Exists() {
//	        t.Error("expected spinner")
//	    }
//	}
//
// Work posted from other goroutines waits in the tester's queue until Pump
// runs it, which keeps assertions deterministic.
//
// # Awaiting Streams
//
// Await blocks until a stream completes and returns its last value:
//
//	title := harvesttest.Await(t, stream.Just("a", "b"), time.Second) // "b"
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import harvesttest "github.com/go-drift/harvester/pkg/testing"
package testing
