package selftest

import (
	"fmt"
	"io"
)

// SectionBackend lays the levels out back to back with no padding, the way an ELF linker
// concatenates sorted sections. Its boundary slots are empty. It reports in "file:line:" form
// to a console writer, coloring errors and warnings.
type SectionBackend struct {
	out io.Writer
}

// NewSectionBackend creates a SectionBackend whose default reporter writes to out.
func NewSectionBackend(out io.Writer) *SectionBackend {
	return &SectionBackend{out: out}
}

func (b *SectionBackend) Name() string { return BackendSection }

func (b *SectionBackend) Report(message string, loc Location) {
	line := FormatColon(message, loc)
	if c := severityColor(message); c != nil {
		_, _ = c.Fprintln(b.out, line)
		return
	}
	_, _ = fmt.Fprintln(b.out, line)
}

// Region returns the slots that Run scans: an empty start slot, every level's descriptors in
// order, and an empty end slot.
func (b *SectionBackend) Region(reg *Registry) []*Descriptor {
	region := make([]*Descriptor, 0, reg.Len()+2)
	region = append(region, nil)
	for level := Level1; level <= Level10; level++ {
		region = append(region, reg.bucket(level)...)
	}
	return append(region, nil)
}

func (b *SectionBackend) Run(reg *Registry, report Reporter, flags Flags) bool {
	return scan(b.Region(reg), report, flags, nil)
}
