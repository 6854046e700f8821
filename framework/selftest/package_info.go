// Package selftest is a self-test harness that runs inside the application binary rather than
// under "go test".
//
// Any package can contribute a test by calling Register from its init function. Each test is
// placed in one of ten priority levels; Run executes every registered test, lowest level
// first, through a platform backend that scans the registry's slot region and reports
// progress and failures through a Reporter. No package needs to know which other packages
// have registered tests.
//
// A driver looks like this:
//
//	func init() { selftest.Register(selftest.LevelDefault, "basic", basicSelfTest) }
//
//	func basicSelfTest(report selftest.Reporter) bool {
//		t := selftest.Check(report)
//		success, failure := 1, 3
//		if !t.Assert(success == 1, "success == 1") {
//			return false
//		}
//		return assert.Equal(t, 0, failure)
//	}
//
// which produces output like:
//
//	self-test: info: starting self test...
//	self-test: info: test basic
//	basic.go:12: error: self-test failed assertion: Not equal: expected: 0 actual  : 3
//	self-test: error: self test failed
package selftest
