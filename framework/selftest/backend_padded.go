package selftest

import (
	"github.com/c-linkage/software-post/framework"
)

const defaultPaddedAlign = 4

// paddedBoundary fills the boundary slots of a padded region. It is never executed.
var paddedBoundary = &Descriptor{} //nolint:gochecknoglobals

// PaddedBackend lays each level out at a fixed stride, filling the rest of the stride with empty
// slots, the way the Microsoft linker may leave zeroed gaps between grouped sections. Its
// boundary slots are occupied. It reports in "file(line):" form to a debug logger.
type PaddedBackend struct {
	// Align is the stride, in slots, that each level is padded up to. Values below 1 mean
	// the default of 4.
	Align int

	// AfterEach, if set, runs after every test that does not end the run. It is the place to
	// check for leaks that a test left behind.
	AfterEach func(report Reporter)

	debug framework.Logger
}

// NewPaddedBackend creates a PaddedBackend whose default reporter writes to debug.
func NewPaddedBackend(debug framework.Logger) *PaddedBackend {
	if debug == nil {
		debug = framework.NullLogger()
	}
	return &PaddedBackend{debug: debug}
}

func (b *PaddedBackend) Name() string { return BackendPadded }

func (b *PaddedBackend) Report(message string, loc Location) {
	b.debug.Println(FormatParen(message, loc))
}

func (b *PaddedBackend) align() int {
	if b.Align < 1 {
		return defaultPaddedAlign
	}
	return b.Align
}

// Region returns the slots that Run scans: a boundary slot, each level's descriptors followed
// by empty padding up to the next multiple of Align, and a closing boundary slot.
func (b *PaddedBackend) Region(reg *Registry) []*Descriptor {
	align := b.align()
	region := []*Descriptor{paddedBoundary}
	for level := Level1; level <= Level10; level++ {
		bucket := reg.bucket(level)
		region = append(region, bucket...)
		if gap := len(bucket) % align; gap != 0 {
			region = append(region, make([]*Descriptor, align-gap)...)
		}
	}
	return append(region, paddedBoundary)
}

func (b *PaddedBackend) Run(reg *Registry, report Reporter, flags Flags) bool {
	return scan(b.Region(reg), report, flags, b.AfterEach)
}
