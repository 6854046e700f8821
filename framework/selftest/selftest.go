package selftest

// Run executes every test in the Default registry with the platform's default backend. If
// report is nil, the backend's own reporter is used.
//
// Run reports a starting banner, then each test, then either a completion or a failure
// banner, and returns true if no test failed. A run that finds no tests at all reports a
// warning but still counts as a success.
func Run(report Reporter, flags Flags) bool {
	return RunWith(DefaultBackend(), Default, report, flags)
}

// RunWith is Run with an explicit backend and registry.
func RunWith(backend Backend, reg *Registry, report Reporter, flags Flags) bool {
	if report == nil {
		report = backend.Report
	}

	report(msgStart, NoLocation)

	if backend.Run(reg, report, flags) {
		report(msgComplete, NoLocation)
		return true
	}
	report(msgFailed, NoLocation)
	return false
}
