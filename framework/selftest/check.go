package selftest

import (
	"fmt"
	"runtime"

	"golang.org/x/exp/slices"
)

// T is the assertion scope for one driver invocation. It implements testify's assert.TestingT,
// so drivers can use assert.Equal and friends as well as the plain Assert method.
//
// Nothing in T stops a driver: a failed check is reported with the location of the calling
// line, and the check returns false so that the driver can return early. Deferred cleanup in
// the driver then runs as usual and the run moves on to the next test.
type T struct {
	report    Reporter
	failed    bool
	helperFns []string
}

// Check starts an assertion scope that reports through report.
func Check(report Reporter) *T {
	return &T{report: report}
}

// Reporter returns the Reporter this scope writes to.
func (t *T) Reporter() Reporter {
	return t.report
}

// Failed returns true if any check in this scope has failed.
func (t *T) Failed() bool {
	return t.failed
}

// Assert reports a failed assertion naming expr if cond is false. It returns cond.
func (t *T) Assert(cond bool, expr string) bool {
	if !cond {
		t.fail(expr, callerLocation(t.helperFns))
	}
	return cond
}

// Errorf reports a failure. It exists so that T satisfies assert.TestingT; drivers normally
// reach it through an assert function rather than calling it directly.
func (t *T) Errorf(format string, args ...interface{}) {
	t.fail(cleanAssertionMessage(fmt.Sprintf(format, args...)), callerLocation(t.helperFns))
}

// Infof reports an informational message attributed to the calling line.
func (t *T) Infof(format string, args ...interface{}) {
	t.report("info: "+fmt.Sprintf(format, args...), callerLocation(t.helperFns))
}

func (t *T) fail(what string, loc Location) {
	t.failed = true
	t.report(msgAssertion+what, loc)
}

// Helper marks the function that calls it as a helper, so that failures are attributed to its
// caller instead. Equivalent to Go's testing.T.Helper().
func (t *T) Helper() {
	pc, _, _, ok := runtime.Caller(1) // 0 is Helper() itself, 1 is who called it
	if !ok {
		return
	}
	f := runtime.FuncForPC(pc)
	if f == nil {
		return
	}
	if !slices.Contains(t.helperFns, f.Name()) {
		t.helperFns = append(t.helperFns, f.Name())
	}
}
