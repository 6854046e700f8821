package memtrack

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c-linkage/software-post/framework/selftest"
)

type recordedLeak struct {
	file string
	line int
}

func collectLeaks(file string, line int, data interface{}) {
	leaks := data.(*[]recordedLeak)
	*leaks = append(*leaks, recordedLeak{file: filepath.Base(file), line: line})
}

func TestAllocBeforeInitFails(t *testing.T) {
	var h Heap
	assert.False(t, h.Initialized())
	assert.Nil(t, h.Alloc(8))
	assert.Nil(t, Create[int](&h))
	assert.True(t, h.Uninit(nil, nil))
}

func TestRoundTripReportsNoLeaks(t *testing.T) {
	var h Heap
	h.Init()
	p := h.Alloc(16)
	require.NotNil(t, p)
	assert.Len(t, p.Value, 16)
	assert.Equal(t, 1, h.Live())
	assert.Equal(t, headerSize+16, h.Bytes())

	h.Free(p)
	assert.Nil(t, p.Value)
	assert.Equal(t, 0, h.Live())
	assert.Equal(t, 0, h.Bytes())

	var leaks []recordedLeak
	assert.True(t, h.Uninit(collectLeaks, &leaks))
	assert.Len(t, leaks, 0)
}

func TestLeakIsAttributedToAllocatingLine(t *testing.T) {
	var h Heap
	h.Init()
	p, line := Create[int](&h), currentLine()
	require.NotNil(t, p)
	assert.Equal(t, line, p.Line())
	assert.Equal(t, "heap_test.go", filepath.Base(p.File()))

	var leaks []recordedLeak
	assert.False(t, h.Uninit(collectLeaks, &leaks))
	assert.Equal(t, []recordedLeak{{file: "heap_test.go", line: line}}, leaks)

	// freeing after teardown neither panics nor reports again
	h.Free(p)
	assert.True(t, h.Uninit(collectLeaks, &leaks))
	assert.Len(t, leaks, 1)
}

func TestLeaksAreReportedOldestFirst(t *testing.T) {
	var h Heap
	h.Init()
	a, lineA := h.Alloc(1), currentLine()
	b := h.Alloc(2)
	c, lineC := h.Alloc(3), currentLine()
	require.NotNil(t, a)
	require.NotNil(t, c)
	h.Free(b)

	var leaks []recordedLeak
	assert.False(t, h.Uninit(collectLeaks, &leaks))
	require.Len(t, leaks, 2)
	assert.Equal(t, lineA, leaks[0].line)
	assert.Equal(t, lineC, leaks[1].line)
}

func TestLeakCountMatchesUnfreedAllocations(t *testing.T) {
	var h Heap
	h.Init()
	var all []*Tracked[[]byte]
	for i := 0; i < 10; i++ {
		all = append(all, h.Alloc(i))
	}
	for i := 0; i < 10; i += 3 {
		h.Free(all[i])
	}
	assert.Equal(t, 6, h.Live())

	var leaks []recordedLeak
	assert.False(t, h.Uninit(collectLeaks, &leaks))
	assert.Len(t, leaks, 6)
}

func TestUninitAlwaysLeavesAFreshStart(t *testing.T) {
	var h Heap
	h.Init()
	leaked := Create[string](&h)
	require.NotNil(t, leaked)
	assert.False(t, h.Uninit(nil, nil))
	assert.False(t, h.Initialized())
	assert.Nil(t, Create[string](&h))

	h.Init()
	assert.Equal(t, 0, h.Live())
	fresh := Create[string](&h)
	require.NotNil(t, fresh)

	// a pointer leaked from the previous cycle must not disturb the new ring
	h.Free(leaked)
	assert.Equal(t, 1, h.Live())

	h.Free(fresh)
	assert.True(t, h.Uninit(nil, nil))
}

func TestFreeNilIsANoOp(t *testing.T) {
	var h Heap
	h.Init()
	h.Free(nil)
	var p *Tracked[int]
	h.Free(p)
	assert.True(t, h.Uninit(nil, nil))
}

func TestDoubleFreeIsHarmless(t *testing.T) {
	var h Heap
	h.Init()
	p := Create[int](&h)
	q := Create[int](&h)
	h.Free(p)
	h.Free(p)
	assert.Equal(t, 1, h.Live())
	h.Free(q)
	assert.True(t, h.Uninit(nil, nil))
}

func TestLimit(t *testing.T) {
	h := Heap{Limit: headerSize*2 + 10}
	h.Init()
	assert.Nil(t, h.Alloc(headerSize*2+10), "single allocation above the limit")

	p := h.Alloc(6)
	require.NotNil(t, p)
	q := h.Alloc(4)
	require.NotNil(t, q)
	assert.Nil(t, h.Alloc(0), "limit reached")

	h.Free(q)
	assert.NotNil(t, h.Alloc(0))
	assert.Nil(t, h.Alloc(-1))
	h.Uninit(nil, nil)
}

func TestAllocAtRecordsGivenLocation(t *testing.T) {
	var h Heap
	h.Init()
	p := h.AllocAt(4, "list.c", 77)
	require.NotNil(t, p)
	q := CreateAt[float64](&h, "mem.c", 12)
	require.NotNil(t, q)

	var leaks []recordedLeak
	h.Uninit(collectLeaks, &leaks)
	assert.Equal(t, []recordedLeak{{"list.c", 77}, {"mem.c", 12}}, leaks)
}

func TestMemorySelfTest(t *testing.T) {
	var rec selftest.Recorder
	assert.True(t, memorySelfTest(rec.Reporter()))
	assert.Equal(t, 0, rec.Count("error:"))
	assert.Equal(t, 5, rec.Count("info: self-test leak detected"))
}

func TestMemorySelfTestIsRegisteredFirst(t *testing.T) {
	level1 := selftest.Default.Bucket(selftest.Level1)
	found := false
	for _, d := range level1 {
		if d.Name.Value() == "self-test: info: test memory" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestReinitWithoutUninitKeepsNewAllocations(t *testing.T) {
	var h Heap
	h.Init()
	before := Create[int](&h)
	require.NotNil(t, before)

	h.Init()
	assert.Equal(t, 0, h.Live())
	after, line := Create[int](&h), currentLine()
	require.NotNil(t, after)

	bytes := h.Bytes()

	// an allocation forgotten by the second Init must not disturb the new ring
	h.Free(before)
	assert.Equal(t, 1, h.Live())
	assert.Equal(t, bytes, h.Bytes())

	var leaks []recordedLeak
	assert.False(t, h.Uninit(collectLeaks, &leaks))
	assert.Equal(t, []recordedLeak{{file: "heap_test.go", line: line}}, leaks)
}

func TestFreeIgnoresAllocationsFromAnotherHeap(t *testing.T) {
	var a, b Heap
	a.Init()
	b.Init()
	p, line := Create[int](&a), currentLine()
	require.NotNil(t, p)
	q := Create[int](&b)
	require.NotNil(t, q)

	p.Value = 7
	b.Free(p)
	assert.Equal(t, 7, p.Value)
	assert.Equal(t, 1, a.Live())
	assert.Equal(t, 1, b.Live())
	assert.Equal(t, a.Bytes(), b.Bytes())

	var leaks []recordedLeak
	assert.False(t, a.Uninit(collectLeaks, &leaks))
	assert.Equal(t, []recordedLeak{{file: "heap_test.go", line: line}}, leaks)

	b.Free(q)
	assert.True(t, b.Uninit(nil, nil))
}

func TestOutstandingCountsEveryHeap(t *testing.T) {
	start := Outstanding()
	var a, b Heap
	a.Init()
	b.Init()
	p := Create[int](&a)
	Create[int](&b)
	Create[int](&b)
	assert.Equal(t, start+3, Outstanding())

	a.Free(p)
	assert.Equal(t, start+2, Outstanding())

	b.Init()
	assert.Equal(t, start, Outstanding())
	Create[int](&b)
	assert.False(t, b.Uninit(nil, nil))
	assert.Equal(t, start, Outstanding())
	assert.True(t, a.Uninit(nil, nil))
}

func TestAfterEachTest(t *testing.T) {
	var rec selftest.Recorder
	check := AfterEachTest()

	check(rec.Reporter())
	assert.Len(t, rec.Messages, 0)

	var h Heap
	h.Init()
	defer h.Uninit(nil, nil)
	Create[int](&h)
	Create[int](&h)
	check(rec.Reporter())
	assert.Equal(t, []string{"self-test: warning: 2 tracked allocation(s) still live after test"}, rec.Texts())

	// the same survivors are not reported twice
	check(rec.Reporter())
	assert.Len(t, rec.Messages, 1)

	h.Uninit(nil, nil)
	check(rec.Reporter())
	assert.Len(t, rec.Messages, 1)
}

func TestAfterEachTestWithPaddedBackend(t *testing.T) {
	var h Heap
	defer h.Uninit(nil, nil)

	var reg selftest.Registry
	require.NoError(t, reg.Register(selftest.Level1, "keeps one", func(selftest.Reporter) bool {
		h.Init()
		return Create[string](&h) != nil
	}))
	require.NoError(t, reg.Register(selftest.Level2, "memory", memorySelfTest))

	backend := selftest.NewPaddedBackend(nil)
	backend.AfterEach = AfterEachTest()
	var rec selftest.Recorder
	assert.True(t, backend.Run(&reg, rec.Reporter(), selftest.FlagNone))
	assert.Equal(t, 1, rec.Count("still live after test"))
}
