package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the yhspec configuration
type Config struct {
	ResultsDir  string         `yaml:"resultsDir,omitempty"`
	LogLevel    string         `yaml:"logLevel,omitempty"`
	SchemaDir   string         `yaml:"schemaDir,omitempty"` // Base directory for json_schema files
	Variables   map[string]any `yaml:"variables,omitempty"` // Seed values for ${name} substitution
	EnvFile     string         `yaml:"envFile,omitempty"`
	Parallel    *bool          `yaml:"parallel,omitempty"`
	Concurrency int            `yaml:"concurrency,omitempty"` // Number of cases run at once in parallel mode
	Bail        *bool          `yaml:"bail,omitempty"`
	NoColor     *bool          `yaml:"noColor,omitempty"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		ResultsDir:  "test_results",
		LogLevel:    "info",
		Concurrency: 5,
		Parallel:    boolPtr(false),
		Bail:        boolPtr(false),
		NoColor:     boolPtr(false),
	}
}

func boolPtr(b bool) *bool {
	return &b
}

// BoolPtr is exported version of boolPtr for external use
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetParallel returns the parallel setting, defaulting to false
func (c *Config) GetParallel() bool {
	return getBool(c.Parallel, false)
}

// GetBail returns the bail setting, defaulting to false
func (c *Config) GetBail() bool {
	return getBool(c.Bail, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ConfigFilenames contains the possible config file names, in search order
var ConfigFilenames = []string{
	".yhspec.yaml",
	"yhspec.yaml",
	".yhspec.yml",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	// Relative paths in a config file are relative to the file
	base := filepath.Dir(path)
	if config.SchemaDir != "" && !filepath.IsAbs(config.SchemaDir) {
		config.SchemaDir = filepath.Join(base, config.SchemaDir)
	}
	if config.EnvFile != "" && !filepath.IsAbs(config.EnvFile) {
		config.EnvFile = filepath.Join(base, config.EnvFile)
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.ResultsDir != "" {
		result.ResultsDir = other.ResultsDir
	}
	if other.LogLevel != "" {
		result.LogLevel = other.LogLevel
	}
	if other.SchemaDir != "" {
		result.SchemaDir = other.SchemaDir
	}
	if other.EnvFile != "" {
		result.EnvFile = other.EnvFile
	}
	if other.Concurrency > 0 {
		result.Concurrency = other.Concurrency
	}

	// Boolean flags - only override if explicitly set in other config
	if other.Parallel != nil {
		result.Parallel = other.Parallel
	}
	if other.Bail != nil {
		result.Bail = other.Bail
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	if len(other.Variables) > 0 {
		vars := make(map[string]any, len(c.Variables)+len(other.Variables))
		for k, v := range c.Variables {
			vars[k] = v
		}
		for k, v := range other.Variables {
			vars[k] = v
		}
		result.Variables = vars
	}

	return &result
}

// FromEnv returns the overrides set through YHSPEC_* environment variables.
// Unset variables leave their fields empty so Merge ignores them.
func FromEnv() *Config {
	c := &Config{
		ResultsDir:  os.Getenv("YHSPEC_RESULTS_DIR"),
		LogLevel:    os.Getenv("YHSPEC_LOG_LEVEL"),
		SchemaDir:   os.Getenv("YHSPEC_SCHEMA_DIR"),
		EnvFile:     os.Getenv("YHSPEC_ENV_FILE"),
		Concurrency: getEnvInt("YHSPEC_CONCURRENCY", 0),
		Parallel:    getEnvBool("YHSPEC_PARALLEL"),
		Bail:        getEnvBool("YHSPEC_BAIL"),
		NoColor:     getEnvBool("YHSPEC_NO_COLOR"),
	}
	return c
}

func getEnvBool(key string) *bool {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	return boolPtr(val == "true" || val == "1" || val == "yes")
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
