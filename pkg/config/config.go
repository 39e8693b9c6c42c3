// Package config provides configuration loading for Arbor.
//
// Configuration is a single YAML document with ${ENV_VAR} substitution,
// organized into a logging section and a CSV ingestion section. Every field
// has a default, so an empty or absent file is a valid configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the engine and CLI.
type Config struct {
	// Log controls the global zap logger
	Log LogConfig `yaml:"log" json:"log"`

	// CSV controls the Arrow CSV ingestion boundary
	CSV CSVConfig `yaml:"csv" json:"csv"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	// Level is a zap level string: debug, info, warn, error
	Level string `yaml:"level" json:"level"`
	// Encoding is json or console
	Encoding string `yaml:"encoding" json:"encoding"`
	// Development enables colored, human-oriented output
	Development bool `yaml:"development" json:"development"`
}

// CSVConfig carries the options handed to the Arrow CSV reader.
// Parsing and schema inference themselves are wholly the reader's business.
type CSVConfig struct {
	// Comma is the field delimiter, one rune
	Comma string `yaml:"comma" json:"comma"`
	// NoHeader indicates the first row is data, not column names
	NoHeader bool `yaml:"no_header" json:"no_header"`
	// ChunkSize is the number of rows per record batch; each batch becomes
	// one physical chunk of every ingested column
	ChunkSize int `yaml:"chunk_size" json:"chunk_size"`
	// NullStrings are cell spellings treated as null
	NullStrings []string `yaml:"null_strings" json:"null_strings"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML configuration file, substituting ${ENV_VAR} references
// and applying defaults for any omitted field.
func Load(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: path is caller-controlled
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	content := substituteEnvVars(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values that defaults cannot repair.
func (c *Config) Validate() error {
	if len([]rune(c.CSV.Comma)) != 1 {
		return fmt.Errorf("csv.comma must be a single rune, got %q", c.CSV.Comma)
	}
	if c.CSV.ChunkSize <= 0 {
		return fmt.Errorf("csv.chunk_size must be positive, got %d", c.CSV.ChunkSize)
	}
	switch c.Log.Encoding {
	case "json", "console":
	default:
		return fmt.Errorf("log.encoding must be json or console, got %q", c.Log.Encoding)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Encoding == "" {
		c.Log.Encoding = "json"
	}
	if c.CSV.Comma == "" {
		c.CSV.Comma = ","
	}
	if c.CSV.ChunkSize == 0 {
		c.CSV.ChunkSize = 1024
	}
	if c.CSV.NullStrings == nil {
		c.CSV.NullStrings = []string{"", "null", "NULL", "NA"}
	}
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
func substituteEnvVars(content string) string {
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		varName := content[start+2 : end]
		envValue := os.Getenv(varName)
		content = content[:start] + envValue + content[end+1:]
	}
	return content
}
