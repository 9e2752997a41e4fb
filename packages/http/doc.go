// Package http models the HTTP side of a test case for yhspec.
//
// It provides:
//   - Response: the request/response carrier handed over by the transport
//   - RequestSpec: the declarative request of a test case
//   - Variable substitution over every string field of a RequestSpec
//
// The package does not perform network I/O. A transport collaborator builds
// a Response from whatever client it uses.
package http
