// Package config handles configuration loading and management for yhspec.
//
// It provides functionality for:
//   - Loading configuration from .yhspec.yaml, yhspec.yaml or .yhspec.yml files
//   - Default configuration values
//   - YHSPEC_* environment overrides
//   - Merging command-line overrides over file settings
package config
