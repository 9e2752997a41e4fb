// Package cmd implements the yhspec CLI commands using Cobra.
//
// Available commands:
//   - extract: Evaluate an extraction expression against a saved response
//   - assert: Evaluate assertions against a saved response
//   - summary: Print the aggregates of a saved results file
//   - init: Write a default .yhspec.yaml
//   - completion: Generate shell completion scripts
//   - version: Show yhspec version information
//
// Global flags select the config file, the log level and colored output.
// Every global setting can also come from YHSPEC_* environment variables.
package cmd
