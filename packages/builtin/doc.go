// Package builtin provides functions callable from ${...} placeholders.
//
// Available functions:
//   - uuid(): random UUID v4
//   - now(): current UTC time, RFC 3339
//   - date(layout): current UTC date, Go layout, default 2006-01-02
//   - timestamp(), timestamp_ms(): Unix time in seconds / milliseconds
//   - random_int(min, max): random integer in [min, max]
//   - random_string(length): random alphanumeric string
//   - base64(value), md5(value), sha256(value)
//   - env(name): value of an OS environment variable
//
// A placeholder such as ${uuid()} or ${random_int(1, 9)} is replaced by the
// function result each time it is resolved.
package builtin
