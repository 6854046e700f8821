package selftest

import (
	"fmt"

	"github.com/c-linkage/software-post/framework/opt"
)

// Driver runs one unit's test sequence, reporting problems through report. It returns true
// if every check passed.
type Driver func(report Reporter) bool

// Descriptor binds a driver to the display name that is reported before it runs. Descriptors
// are created once, normally from an init function, and are never modified afterward.
type Descriptor struct {
	Driver Driver
	Name   opt.Maybe[string]
}

// Level is a priority bucket. All tests in a lower level run before any test in a higher one;
// the order of tests within one level is the order in which they were registered, which
// depends on package initialization order and should not be relied on.
type Level int

const (
	Level1 Level = iota + 1
	Level2
	Level3
	Level4
	Level5
	Level6
	Level7
	Level8
	Level9
	Level10

	// LevelDefault is for tests that have no ordering preference.
	LevelDefault = Level5
)

const levelCount = int(Level10)

// Valid returns true for Level1 through Level10.
func (l Level) Valid() bool {
	return l >= Level1 && l <= Level10
}

func (l Level) String() string {
	return fmt.Sprintf("level %d", int(l))
}

// Flags modify how a run behaves.
type Flags uint

const (
	FlagNone Flags = 0

	// FlagStopOnFailure aborts the run as soon as one driver fails. Without it, the remaining
	// tests still run and the overall result is a failure.
	FlagStopOnFailure Flags = 1 << 0
)

func (f Flags) has(flag Flags) bool {
	return f&flag != 0
}
