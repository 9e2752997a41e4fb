// Package env holds the variables of a test run and substitutes them into
// test case definitions.
//
// It provides functionality for:
//   - Binding extracted values by name for later test cases
//   - ${name} interpolation, leaving unknown names untouched
//   - Dotted lookups into structured values: ${user.id}, ${items[0].name}
//   - Built-in function calls: ${uuid()}, ${timestamp()}
//   - Seeding variables from .env files
package env
