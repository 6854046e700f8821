// Package intlist is a singly-linked list of integers whose nodes come from a memtrack.Heap,
// so that a forgotten Clear or Remove shows up as a leak.
package intlist

import (
	"github.com/c-linkage/software-post/memtrack"
)

type link struct {
	value int
	next  *memtrack.Tracked[link]
}

// List keeps integers in insertion order. The same value may appear more than once.
type List struct {
	heap *memtrack.Heap
	next *memtrack.Tracked[link]
}

// New returns an empty list that allocates from h.
func New(h *memtrack.Heap) *List {
	l := &List{}
	l.Init(h)
	return l
}

// Init makes l an empty list that allocates from h. It does not release existing nodes; use
// Clear for that.
func (l *List) Init(h *memtrack.Heap) {
	l.heap = h
	l.next = nil
}

// Clear releases every node and leaves the list empty.
func (l *List) Clear() {
	for l.next != nil {
		n := l.next
		l.next = n.Value.next
		l.heap.Free(n)
	}
}

// Count returns the number of values in the list.
func (l *List) Count() int {
	count := 0
	for n := l.next; n != nil; n = n.Value.next {
		count++
	}
	return count
}

// Contains returns true if value is in the list at least once.
func (l *List) Contains(value int) bool {
	for n := l.next; n != nil; n = n.Value.next {
		if n.Value.value == value {
			return true
		}
	}
	return false
}

// Add appends value to the end of the list. It returns false if no node could be allocated.
func (l *List) Add(value int) bool {
	n := memtrack.Create[link](l.heap)
	if n == nil {
		return false
	}
	n.Value.value = value

	ptr := &l.next
	for *ptr != nil {
		ptr = &(*ptr).Value.next
	}
	*ptr = n
	return true
}

// Remove deletes the first occurrence of value. It does nothing if value is not present.
func (l *List) Remove(value int) {
	for ptr := &l.next; *ptr != nil; ptr = &(*ptr).Value.next {
		if (*ptr).Value.value == value {
			n := *ptr
			*ptr = n.Value.next
			l.heap.Free(n)
			return
		}
	}
}

// Values returns the list's contents in order.
func (l *List) Values() []int {
	var ret []int
	for n := l.next; n != nil; n = n.Value.next {
		ret = append(ret, n.Value.value)
	}
	return ret
}
