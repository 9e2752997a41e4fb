// Package assertions checks received responses against declared expectations.
//
// Supported assertion types:
//   - status_code: the carrier status equals expected
//   - response_time: the response took at most expected milliseconds
//   - json_path, jmes_path, regex: the value the named engine extracts by path
//     equals expected
//   - contains: the extracted value (or the body text) contains expected
//   - equals: the extracted value (or the decoded body) equals expected
//   - length_equals: the extracted value has expected length
//   - json_schema: the extracted value (or the body) validates against a schema
//
// A mismatch is a failed Outcome, never an error. Errors are reserved for
// definitions that cannot be evaluated at all: a malformed expression, a body
// that is not JSON where JSON is required, an unknown type or a broken schema.
package assertions
