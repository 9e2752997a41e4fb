// Package output prints run summaries for people.
//
// The console formatter renders a tracker.Summary as colored terminal
// output: one block per suite, one line per test, the failed assertions of
// each failed test and the run totals. Machine-readable output is the JSON
// artifact written by the tracker.
package output
