package intlist

import (
	"github.com/stretchr/testify/assert"

	"github.com/c-linkage/software-post/framework/selftest"
	"github.com/c-linkage/software-post/memtrack"
)

func init() {
	selftest.Register(selftest.LevelDefault, "list", listSelfTest)
}

func listSelfTest(report selftest.Reporter) bool {
	t := selftest.Check(report)
	var h memtrack.Heap
	h.Init()
	defer h.Uninit(nil, nil)

	var s List
	l := &s

	// initialization
	l.Init(&h)
	if !t.Assert(l.next == nil, "l.next == nil") || !assert.Equal(t, 0, l.Count()) {
		return false
	}

	// clearing an empty list
	l.Clear()
	if !t.Assert(l.next == nil, "l.next == nil") || !assert.Equal(t, 0, l.Count()) {
		return false
	}

	// one element
	if !t.Assert(l.Add(100), "l.Add(100)") ||
		!t.Assert(l.next != nil, "l.next != nil") ||
		!assert.Equal(t, 100, l.next.Value.value) ||
		!assert.Equal(t, 1, l.Count()) ||
		!t.Assert(l.Contains(100), "l.Contains(100)") ||
		!t.Assert(!l.Contains(200), "!l.Contains(200)") {
		return false
	}

	// clearing a non-empty list
	l.Clear()
	if !t.Assert(l.next == nil, "l.next == nil") || !assert.Equal(t, 0, l.Count()) {
		return false
	}

	// two elements
	if !t.Assert(l.Add(100), "l.Add(100)") ||
		!t.Assert(l.Add(200), "l.Add(200)") ||
		!t.Assert(l.next != nil, "l.next != nil") ||
		!assert.Equal(t, 2, l.Count()) ||
		!t.Assert(l.Contains(100), "l.Contains(100)") ||
		!t.Assert(l.Contains(200), "l.Contains(200)") {
		return false
	}
	l.Clear()
	if !t.Assert(l.next == nil, "l.next == nil") || !assert.Equal(t, 0, l.Count()) {
		return false
	}

	// rebuild and remove one element at a time
	if !t.Assert(l.Add(100), "l.Add(100)") || !t.Assert(l.Add(200), "l.Add(200)") {
		return false
	}
	l.Remove(300)
	if !t.Assert(l.Contains(100), "l.Contains(100)") ||
		!t.Assert(l.Contains(200), "l.Contains(200)") ||
		!assert.Equal(t, 2, l.Count()) {
		return false
	}
	l.Remove(100)
	if !t.Assert(!l.Contains(100), "!l.Contains(100)") ||
		!t.Assert(l.Contains(200), "l.Contains(200)") ||
		!assert.Equal(t, 1, l.Count()) {
		return false
	}
	l.Remove(200)
	if !t.Assert(!l.Contains(100), "!l.Contains(100)") ||
		!t.Assert(!l.Contains(200), "!l.Contains(200)") ||
		!assert.Equal(t, 0, l.Count()) {
		return false
	}

	// duplicates are kept, and Remove takes out one at a time
	if !t.Assert(l.Add(100), "l.Add(100)") ||
		!t.Assert(l.Add(100), "l.Add(100)") ||
		!assert.Equal(t, 2, l.Count()) ||
		!t.Assert(l.Contains(100), "l.Contains(100)") {
		return false
	}
	l.Remove(100)
	if !assert.Equal(t, 1, l.Count()) || !t.Assert(l.Contains(100), "l.Contains(100)") {
		return false
	}
	l.Remove(100)
	if !assert.Equal(t, 0, l.Count()) || !t.Assert(!l.Contains(100), "!l.Contains(100)") {
		return false
	}

	return t.Assert(h.Uninit(nil, nil), "h.Uninit(nil, nil)")
}
