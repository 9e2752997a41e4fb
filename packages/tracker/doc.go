// Package tracker records the lifecycle of test suites and test results.
//
// A Tracker hands out explicit handles: StartSuite returns a *Suite and
// StartTest returns a *TestResult, and every later call takes the handle it
// applies to. Nothing is addressed through a shared "current test" pointer,
// so concurrent workers can each hold their own result within one suite.
//
// A result moves from RUNNING to exactly one terminal status. Assertion and
// extraction records are append-only and are accepted only while the result
// is still running. Suite aggregates are always computed from the recorded
// results and never stored.
//
// Summary produces a serializable snapshot of every suite and the run
// aggregates; Save writes it as indented JSON.
package tracker
