// Package runner executes yhspec test cases and manages test execution.
//
// It provides functionality for:
//   - Substituting bound variables into each request before it is sent
//   - Managing test dependencies and execution order
//   - Parallel test execution with configurable concurrency
//   - Extracting values from responses and binding them for later cases
//   - Evaluating assertions and recording every outcome on the tracker
//
// The runner never talks to the network itself; requests go through a
// Transport supplied by the caller.
package runner
