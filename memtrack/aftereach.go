package memtrack

import (
	"fmt"

	"github.com/c-linkage/software-post/framework/selftest"
)

// AfterEachTest returns a hook for selftest.PaddedBackend.AfterEach. After every test it
// compares Outstanding with the count seen after the previous test, and reports a warning if
// the test left tracked allocations live in some Heap.
func AfterEachTest() func(selftest.Reporter) {
	last := Outstanding()
	return func(report selftest.Reporter) {
		now := Outstanding()
		if now > last {
			report(fmt.Sprintf("self-test: warning: %d tracked allocation(s) still live after test", now-last),
				selftest.NoLocation)
		}
		last = now
	}
}
