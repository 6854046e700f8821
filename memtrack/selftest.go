package memtrack

import (
	"runtime"

	"github.com/stretchr/testify/assert"

	"github.com/c-linkage/software-post/framework/selftest"
)

func init() {
	selftest.Register(selftest.Level1, "memory", memorySelfTest)
}

type leakTally struct {
	report selftest.Reporter
	line   int
	count  int
}

func reportSelfTestLeak(file string, line int, data interface{}) {
	tally := data.(*leakTally)
	tally.line = line
	tally.count++
	tally.report("info: self-test leak detected", selftest.At(file, line))
}

func (l *leakTally) reset() {
	l.line = 0
	l.count = 0
}

func currentLine() int {
	_, _, line, _ := runtime.Caller(1)
	return line
}

func memorySelfTest(report selftest.Reporter) bool {
	t := selftest.Check(report)
	tally := &leakTally{report: report}
	var h Heap
	defer h.Uninit(nil, nil)

	// allocation and release balance out
	h.Init()
	p1 := Create[int](&h)
	if !t.Assert(p1 != nil, "p1 != nil") {
		return false
	}
	h.Free(p1)
	h.Uninit(reportSelfTestLeak, tally)
	if !assert.Equal(t, 0, tally.count) || !assert.Equal(t, 0, tally.line) {
		return false
	}

	// one leak, attributed to its line
	tally.reset()
	h.Init()
	p1, line := Create[int](&h), currentLine()
	if !t.Assert(p1 != nil, "p1 != nil") {
		return false
	}
	h.Uninit(reportSelfTestLeak, tally)
	if !assert.Equal(t, 1, tally.count) || !assert.Equal(t, line, tally.line) {
		return false
	}
	h.Free(p1)

	// two leaks
	tally.reset()
	h.Init()
	p1 = Create[int](&h)
	p2 := Create[int](&h)
	if !t.Assert(p1 != nil, "p1 != nil") || !t.Assert(p2 != nil, "p2 != nil") {
		return false
	}
	h.Uninit(reportSelfTestLeak, tally)
	if !assert.Equal(t, 2, tally.count) {
		return false
	}
	h.Free(p1)
	h.Free(p2)

	// leak the first of two
	tally.reset()
	h.Init()
	p1, line = Create[int](&h), currentLine()
	p2 = Create[int](&h)
	if !t.Assert(p1 != nil, "p1 != nil") || !t.Assert(p2 != nil, "p2 != nil") {
		return false
	}
	h.Free(p2)
	h.Uninit(reportSelfTestLeak, tally)
	if !assert.Equal(t, 1, tally.count) || !assert.Equal(t, line, tally.line) {
		return false
	}
	h.Free(p1)

	// leak the second of two
	tally.reset()
	h.Init()
	p1 = Create[int](&h)
	p2, line = Create[int](&h), currentLine()
	if !t.Assert(p1 != nil, "p1 != nil") || !t.Assert(p2 != nil, "p2 != nil") {
		return false
	}
	h.Free(p1)
	h.Uninit(reportSelfTestLeak, tally)
	if !assert.Equal(t, 1, tally.count) || !assert.Equal(t, line, tally.line) {
		return false
	}
	h.Free(p2)

	// a torn-down heap refuses to allocate
	return t.Assert(Create[int](&h) == nil, "Create[int](&h) == nil")
}
