// Package framework contains the shared, domain-neutral pieces of the self-test harness.
// The base package holds the Logger abstraction; the subpackages are:
//
// selftest: descriptor registration, the two scanning backends and the run driver
//
// opt: a small optional-value type used where the harness protocol allows "no value"
//
// Packages under test register their drivers with selftest from their own init functions,
// so nothing in this tree needs to know which packages contribute tests.
package framework
