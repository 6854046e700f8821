// Package memtrack is a debug allocator that records the source line of every allocation, so
// that anything still live when a Heap is torn down can be reported as a leak at the line that
// made it.
//
// Each Heap is an independent context with an explicit lifecycle:
//
//	var h memtrack.Heap
//	h.Init()
//	p := memtrack.Create[int](&h)
//	...
//	h.Free(p)
//	if !h.Uninit(reportLeak, os.Stderr) {
//		// something leaked; reportLeak has already been told where
//	}
//
// Ring updates are serialized with a mutex, but callers normally drive a Heap from a single
// goroutine, as the self-test harness does.
package memtrack
