package memtrack

import (
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"
)

// marker records where an allocation was made. Markers form a circular doubly-linked ring
// anchored by the sentinel of their owner; a marker with nil links is not in any ring.
type marker struct {
	prev  *marker
	next  *marker
	owner *Heap
	file  string
	line  int
	size  int
}

// outstanding counts markers linked into any Heap's ring, across the whole process.
var outstanding atomic.Int64 //nolint:gochecknoglobals

// Outstanding returns the number of tracked allocations that are live in any Heap.
func Outstanding() int {
	return int(outstanding.Load())
}

const headerSize = int(unsafe.Sizeof(marker{}))

// Allocation is implemented by every value a Heap hands out.
type Allocation interface {
	tracking() *marker
	release()
}

// Tracked is one allocation: the provenance marker and the caller's payload, owned together.
type Tracked[T any] struct {
	m     marker
	Value T
}

func (t *Tracked[T]) tracking() *marker {
	if t == nil {
		return nil
	}
	return &t.m
}

func (t *Tracked[T]) release() {
	var zero T
	t.Value = zero
}

// File returns the source file recorded when t was allocated.
func (t *Tracked[T]) File() string { return t.m.file }

// Line returns the source line recorded when t was allocated.
func (t *Tracked[T]) Line() int { return t.m.line }

// LeakReporter is called once per allocation still live when a Heap is torn down. data is
// whatever the caller passed to Uninit.
type LeakReporter func(file string, line int, data interface{})

// Heap tracks live allocations so that leaks can be attributed to the line that made them.
//
// The zero value is uninitialized: allocations fail until Init is called. A Heap must not be
// copied after Init.
type Heap struct {
	// Limit caps the bytes, headers included, that may be live at once. Zero means no cap.
	Limit int

	lock     sync.Mutex
	sentinel marker
	bytes    int
	live     int
}

// Init resets h to an empty ring. Calling it again forgets anything still live: those
// allocations are detached, the same as after Uninit, and are not reported.
func (h *Heap) Init() {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.detachAll(nil)
	h.sentinel.prev = &h.sentinel
	h.sentinel.next = &h.sentinel
	h.bytes = 0
	h.live = 0
}

func (h *Heap) initialized() bool {
	return h.sentinel.next != nil
}

// Initialized returns true between Init and Uninit.
func (h *Heap) Initialized() bool {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.initialized()
}

// Live returns the number of allocations that have not been freed.
func (h *Heap) Live() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.live
}

// Bytes returns the bytes, headers included, held by live allocations.
func (h *Heap) Bytes() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.bytes
}

// Alloc returns a tracked buffer of size bytes, attributed to the calling line. It returns nil
// if h is not initialized, if size is negative, or if the allocation would exceed Limit.
func (h *Heap) Alloc(size int) *Tracked[[]byte] {
	_, file, line, _ := runtime.Caller(1)
	return h.AllocAt(size, file, line)
}

// AllocAt is Alloc with an explicit call site.
func (h *Heap) AllocAt(size int, file string, line int) *Tracked[[]byte] {
	if size < 0 {
		return nil
	}
	h.lock.Lock()
	defer h.lock.Unlock()
	if !h.reserve(size) {
		return nil
	}
	t := &Tracked[[]byte]{Value: make([]byte, size)}
	h.link(&t.m, size, file, line)
	return t
}

// Create returns a tracked zero value of T, attributed to the calling line, or nil under the
// same conditions as Alloc.
func Create[T any](h *Heap) *Tracked[T] {
	_, file, line, _ := runtime.Caller(1)
	return CreateAt[T](h, file, line)
}

// CreateAt is Create with an explicit call site.
func CreateAt[T any](h *Heap, file string, line int) *Tracked[T] {
	var zero T
	size := int(unsafe.Sizeof(zero))

	h.lock.Lock()
	defer h.lock.Unlock()
	if !h.reserve(size) {
		return nil
	}
	t := new(Tracked[T])
	h.link(&t.m, size, file, line)
	return t
}

func (h *Heap) reserve(size int) bool {
	if !h.initialized() {
		return false
	}
	need := headerSize + size
	if h.Limit > 0 && (need > h.Limit || h.bytes > h.Limit-need) {
		return false
	}
	h.bytes += need
	h.live++
	return true
}

// link appends m at the tail of the ring, so that walking from the sentinel visits
// allocations oldest first.
func (h *Heap) link(m *marker, size int, file string, line int) {
	m.owner = h
	m.file = file
	m.line = line
	m.size = size
	s := &h.sentinel
	m.prev = s.prev
	m.next = s
	s.prev.next = m
	s.prev = m
	outstanding.Add(1)
}

// Free releases a. Freeing nil, or an allocation still live in another Heap, does nothing. If
// a was already released or was detached by Init or Uninit, the ring is left alone but the
// payload is still dropped.
func (h *Heap) Free(a Allocation) {
	if a == nil {
		return
	}
	m := a.tracking()
	if m == nil {
		return
	}

	h.lock.Lock()
	if m.owner != nil && m.owner != h {
		// still live in another heap
		h.lock.Unlock()
		return
	}
	if h.initialized() && m.owner == h && m.next != nil {
		m.next.prev = m.prev
		m.prev.next = m.next
		h.bytes -= headerSize + m.size
		h.live--
		outstanding.Add(-1)
	}
	m.next = nil
	m.prev = nil
	m.owner = nil
	h.lock.Unlock()

	a.release()
}

type leak struct {
	file string
	line int
}

// detachAll unlinks every marker in the ring, appending each to leaks if it is not nil. The
// caller holds h.lock.
func (h *Heap) detachAll(leaks *[]leak) {
	if !h.initialized() {
		return
	}
	s := &h.sentinel
	for m := s.next; m != s; {
		next := m.next
		if leaks != nil {
			*leaks = append(*leaks, leak{file: m.file, line: m.line})
		}
		m.prev = nil
		m.next = nil
		m.owner = nil
		outstanding.Add(-1)
		m = next
	}
	h.sentinel = marker{}
}

// Uninit tears h down. It returns true if nothing was live. Otherwise, if report is not nil,
// it is called once for every live allocation, oldest first, with data passed through.
//
// Leaked allocations are not released; they are only detached so that freeing them later is
// harmless. h is left uninitialized either way, ready for another Init.
func (h *Heap) Uninit(report LeakReporter, data interface{}) bool {
	h.lock.Lock()
	var leaks []leak
	h.detachAll(&leaks)
	h.sentinel = marker{}
	h.bytes = 0
	h.live = 0
	h.lock.Unlock()

	if report != nil {
		for _, l := range leaks {
			report(l.file, l.line, data)
		}
	}
	return len(leaks) == 0
}
