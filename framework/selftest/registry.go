package selftest

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/c-linkage/software-post/framework/opt"
)

const testNamePrefix = "self-test: info: test "

var (
	ErrInvalidLevel = errors.New("self-test level must be between 1 and 10")
	ErrNilDriver    = errors.New("self-test descriptor has no driver")
)

// Registry holds descriptors in ten ordered buckets. The zero value is empty and ready to use.
//
// A Registry is not safe for concurrent mutation; registration is expected to happen during
// package initialization, which Go runs sequentially.
type Registry struct {
	buckets [levelCount][]*Descriptor
}

// Default is the process-wide registry that Register adds to and Run scans.
var Default = &Registry{} //nolint:gochecknoglobals

// Register adds a named driver to the Default registry. It is meant to be called from an init
// function, so a bad level or a nil driver is treated as a programming error and panics.
func Register(level Level, name string, driver Driver) {
	if err := Default.Register(level, name, driver); err != nil {
		panic(fmt.Sprintf("selftest: cannot register %q: %s", name, err))
	}
}

// Register adds a driver at the given level. The descriptor's display name is derived from
// name; an empty name produces a descriptor that runs without announcing itself.
func (r *Registry) Register(level Level, name string, driver Driver) error {
	d := &Descriptor{Driver: driver}
	if name != "" {
		d.Name = opt.Some(testNamePrefix + name)
	}
	return r.Add(level, d)
}

// Add places an existing descriptor in the bucket for level.
func (r *Registry) Add(level Level, d *Descriptor) error {
	if !level.Valid() {
		return fmt.Errorf("%w: got %d", ErrInvalidLevel, int(level))
	}
	if d == nil || d.Driver == nil {
		return ErrNilDriver
	}
	r.buckets[level-1] = append(r.buckets[level-1], d)
	return nil
}

// Len returns the total number of registered descriptors.
func (r *Registry) Len() int {
	n := 0
	for _, b := range r.buckets {
		n += len(b)
	}
	return n
}

// Bucket returns a copy of the descriptors registered at level, in registration order.
func (r *Registry) Bucket(level Level) []*Descriptor {
	if !level.Valid() {
		return nil
	}
	return slices.Clone(r.buckets[level-1])
}

func (r *Registry) bucket(level Level) []*Descriptor {
	return r.buckets[level-1]
}
