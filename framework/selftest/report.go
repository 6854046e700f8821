package selftest

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/c-linkage/software-post/framework/opt"
)

// Location identifies the source line a message refers to. A Location with no file means the
// message is not tied to source, such as a banner or a test name.
type Location struct {
	File opt.Maybe[string]
	Line uint
}

// NoLocation is the Location for undecorated messages.
var NoLocation = Location{File: opt.None[string]()} //nolint:gochecknoglobals

// At returns the Location for a file and line. An empty file gives NoLocation.
func At(file string, line int) Location {
	if file == "" {
		return NoLocation
	}
	if line < 0 {
		line = 0
	}
	return Location{File: opt.Some(file), Line: uint(line)}
}

// Reporter receives every diagnostic produced during a run: banners, test names, assertion
// failures and anything a driver chooses to report. Callers can substitute their own to
// redirect or capture output.
type Reporter func(message string, loc Location)

// Messages that the harness itself emits.
const (
	msgStart      = "self-test: info: starting self test..."
	msgComplete   = "self-test: info: self test complete"
	msgFailed     = "self-test: error: self test failed"
	msgNoTests    = "self-test: warning: no self tests executed; were any self tests registered before the run?"
	msgAssertion  = "error: self-test failed assertion: "
	severityError = "error:"
	severityWarn  = "warning:"
)

// FormatColon renders a message the way compilers on ELF platforms do: "file:line: message".
func FormatColon(message string, loc Location) string {
	if !loc.File.IsDefined() {
		return message
	}
	return fmt.Sprintf("%s:%d: %s", loc.File.Value(), loc.Line, message)
}

// FormatParen renders a message the way Microsoft tools do: "file(line): message".
func FormatParen(message string, loc Location) string {
	if !loc.File.IsDefined() {
		return message
	}
	return fmt.Sprintf("%s(%d): %s", loc.File.Value(), loc.Line, message)
}

var consoleErrorColor = color.New(color.FgRed)      //nolint:gochecknoglobals
var consoleWarningColor = color.New(color.FgYellow) //nolint:gochecknoglobals

// severityColor picks the console color for a message, or nil for plain output.
func severityColor(message string) *color.Color {
	switch {
	case strings.Contains(message, severityError):
		return consoleErrorColor
	case strings.Contains(message, severityWarn):
		return consoleWarningColor
	default:
		return nil
	}
}

// Recorded is one message captured by a Recorder.
type Recorded struct {
	Message  string
	Location Location
}

// Recorder is a Reporter sink that keeps everything it is given. It is mostly useful for
// checking the output of a run, including from inside another self-test.
type Recorder struct {
	Messages []Recorded
}

// Reporter returns a Reporter that appends to r.
func (r *Recorder) Reporter() Reporter {
	return func(message string, loc Location) {
		r.Messages = append(r.Messages, Recorded{Message: message, Location: loc})
	}
}

// Texts returns just the message texts, in order.
func (r *Recorder) Texts() []string {
	ret := make([]string, 0, len(r.Messages))
	for _, m := range r.Messages {
		ret = append(ret, m.Message)
	}
	return ret
}

// Count returns how many recorded messages contain substr.
func (r *Recorder) Count(substr string) int {
	n := 0
	for _, m := range r.Messages {
		if strings.Contains(m.Message, substr) {
			n++
		}
	}
	return n
}
