package selftest

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
)

// Backend is a platform-specific way of laying out the registry and running it.
//
// Every backend builds a region of descriptor slots bracketed by two boundary slots, with the
// ten levels laid out in ascending order in between, and then scans the slots strictly between
// the boundaries. Backends differ in how much empty padding the region contains, in how they
// format decorated messages, and in where their default reporter writes.
type Backend interface {
	// Name identifies the backend in diagnostics and configuration.
	Name() string

	// Report is the backend's default Reporter.
	Report(message string, loc Location)

	// Run executes every descriptor in reg and returns true if none of them failed.
	Run(reg *Registry, report Reporter, flags Flags) bool
}

const (
	BackendSection = "section"
	BackendPadded  = "padded"
)

// DefaultBackend returns the backend native to the current platform, reporting to stderr.
func DefaultBackend() Backend {
	return defaultBackendFor(os.Stderr)
}

func defaultBackendFor(out io.Writer) Backend {
	if runtime.GOOS == "windows" {
		return NewPaddedBackend(log.New(out, "", 0))
	}
	return NewSectionBackend(out)
}

// BackendByName returns a backend by its configured name, with its default reporter writing
// to out. An empty name selects the platform's native backend.
func BackendByName(name string, out io.Writer) (Backend, error) {
	switch name {
	case "":
		return defaultBackendFor(out), nil
	case BackendSection:
		return NewSectionBackend(out), nil
	case BackendPadded:
		return NewPaddedBackend(log.New(out, "", 0)), nil
	default:
		return nil, fmt.Errorf("unknown self-test backend %q (expected %q or %q)", name, BackendSection, BackendPadded)
	}
}

// scan runs the live descriptors found strictly between the first and last slot of region.
// Empty slots are padding and are skipped. afterEach, if not nil, is called after every test
// that does not end the run.
func scan(region []*Descriptor, report Reporter, flags Flags, afterEach func(Reporter)) bool {
	ok := true
	executed := 0

	for i := 1; i < len(region)-1; i++ {
		d := region[i]
		if d == nil {
			continue
		}
		executed++

		if d.Name.IsDefined() {
			report(d.Name.Value(), NoLocation)
		}
		if !d.Driver(report) {
			if flags.has(FlagStopOnFailure) {
				return false
			}
			ok = false
		}
		if afterEach != nil {
			afterEach(report)
		}
	}

	if executed == 0 {
		report(msgNoTests, NoLocation)
	}
	return ok
}
