// SPDX-FileCopyrightText: 2026 api2test
// SPDX-License-Identifier: FSL-1.1-MIT

// Package config provides configuration loading and validation for api2test.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the api2test configuration.
type Config struct {
	// Output is the directory generated artifacts are written to
	Output string `mapstructure:"output" yaml:"output" json:"output"`

	// Python is the interpreter used to execute generated tests
	Python string `mapstructure:"python" yaml:"python" json:"python"`

	// TimeoutSeconds bounds the generated-test child process run time
	TimeoutSeconds int `mapstructure:"timeoutSeconds" yaml:"timeoutSeconds" json:"timeoutSeconds"`

	// Run determines whether generated tests are executed after generation
	Run bool `mapstructure:"run" yaml:"run" json:"run"`

	// Source contains source discovery configuration
	Source SourceConfig `mapstructure:"source" yaml:"source" json:"source"`

	// LLM contains the delegated-generation configuration
	LLM LLMConfig `mapstructure:"llm" yaml:"llm" json:"llm"`

	// Watch contains file watching configuration
	Watch WatchConfig `mapstructure:"watch" yaml:"watch" json:"watch"`
}

// SourceConfig contains source discovery configuration, used when the input
// argument is a directory rather than a single file.
type SourceConfig struct {
	// Include is a list of glob patterns to include
	Include []string `mapstructure:"include" yaml:"include" json:"include"`

	// Exclude is a list of glob patterns to exclude
	Exclude []string `mapstructure:"exclude" yaml:"exclude" json:"exclude"`
}

// LLMConfig contains configuration for the LLM-delegated generation variant.
type LLMConfig struct {
	// Enabled switches generation from templates to the LLM pipeline
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`

	// Provider is the LLM provider ("openai")
	Provider string `mapstructure:"provider" yaml:"provider" json:"provider"`

	// Model is the model identifier sent to the provider
	Model string `mapstructure:"model" yaml:"model" json:"model"`

	// Temperature controls sampling randomness
	Temperature float64 `mapstructure:"temperature" yaml:"temperature" json:"temperature"`

	// APIKeyEnv names the environment variable holding the API key
	APIKeyEnv string `mapstructure:"apiKeyEnv" yaml:"apiKeyEnv" json:"apiKeyEnv"`

	// TestMaxTokens limits the generated test completion length
	TestMaxTokens int `mapstructure:"testMaxTokens" yaml:"testMaxTokens" json:"testMaxTokens"`

	// DocMaxTokens limits the generated documentation completion length
	DocMaxTokens int `mapstructure:"docMaxTokens" yaml:"docMaxTokens" json:"docMaxTokens"`
}

// WatchConfig contains file watching configuration.
type WatchConfig struct {
	// Debounce is the debounce duration in milliseconds
	Debounce int `mapstructure:"debounce" yaml:"debounce" json:"debounce"`
}

// configFileNames is the list of config file names to search for (in order).
var configFileNames = []string{
	"api2test.yaml",
	"api2test.json",
	".api2test.yaml",
	".api2test.json",
}

// supportedProviders is the list of supported LLM providers.
var supportedProviders = []string{
	"openai",
}

// ErrConfigNotFound is returned when no config file is found.
var ErrConfigNotFound = errors.New("config file not found")

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("config validation errors:\n")
	for _, err := range e {
		sb.WriteString("  - ")
		sb.WriteString(err.Field)
		sb.WriteString(": ")
		sb.WriteString(err.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Output:         "output",
		Python:         "python3",
		TimeoutSeconds: 30,
		Run:            true,
		Source: SourceConfig{
			Include: []string{"**/*.py"},
			Exclude: []string{
				"**/test_*.py",
				"**/*_test.py",
				"**/venv/**",
				"**/.venv/**",
				"**/site-packages/**",
				"**/__pycache__/**",
				".git/**",
			},
		},
		LLM: LLMConfig{
			Enabled:       false,
			Provider:      "openai",
			Model:         "gpt-4",
			Temperature:   0.1,
			APIKeyEnv:     "OPENAI_API_KEY",
			TestMaxTokens: 800,
			DocMaxTokens:  600,
		},
		Watch: WatchConfig{
			Debounce: 500,
		},
	}
}

// Load loads the configuration from a file.
// It searches for config files in the following order:
// 1. api2test.yaml
// 2. api2test.json
// 3. .api2test.yaml
// 4. .api2test.json
//
// If configPath is provided, it will use that path instead.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		found := false
		for _, name := range configFileNames {
			if _, err := os.Stat(name); err == nil {
				v.SetConfigFile(name)
				found = true
				break
			}
		}
		if !found {
			return Default(), nil
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadFromPath loads the configuration from a specific directory.
func LoadFromPath(dir string) (*Config, error) {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

// setDefaults sets the default values for viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("output", "output")
	v.SetDefault("python", "python3")
	v.SetDefault("timeoutSeconds", 30)
	v.SetDefault("run", true)
	v.SetDefault("source.include", []string{"**/*.py"})
	v.SetDefault("source.exclude", []string{
		"**/test_*.py",
		"**/*_test.py",
		"**/venv/**",
		"**/.venv/**",
		"**/site-packages/**",
		"**/__pycache__/**",
		".git/**",
	})
	v.SetDefault("llm.enabled", false)
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-4")
	v.SetDefault("llm.temperature", 0.1)
	v.SetDefault("llm.apiKeyEnv", "OPENAI_API_KEY")
	v.SetDefault("llm.testMaxTokens", 800)
	v.SetDefault("llm.docMaxTokens", 600)
	v.SetDefault("watch.debounce", 500)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Output == "" {
		errs = append(errs, ValidationError{
			Field:   "output",
			Message: "output directory is required",
		})
	}

	if c.Python == "" {
		errs = append(errs, ValidationError{
			Field:   "python",
			Message: "python interpreter is required",
		})
	}

	if c.TimeoutSeconds <= 0 {
		errs = append(errs, ValidationError{
			Field:   "timeoutSeconds",
			Message: "timeout must be positive",
		})
	}

	if c.LLM.Provider != "" && !contains(supportedProviders, c.LLM.Provider) {
		errs = append(errs, ValidationError{
			Field:   "llm.provider",
			Message: fmt.Sprintf("unsupported provider %q, must be one of: %s", c.LLM.Provider, strings.Join(supportedProviders, ", ")),
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	if c.Watch.Debounce < 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce",
			Message: "debounce must be non-negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ConfigFilePath returns the path of the loaded config file, if any.
func ConfigFilePath() string {
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
