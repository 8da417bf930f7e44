package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/fastqstream/pkg/fastq"
)

// Config represents the reader configuration in file form.
type Config struct {
	Input   Input   `yaml:"input"`
	Logging Logging `yaml:"logging"`
}

// Input contains the record-parsing configuration.
type Input struct {
	Policy     string `yaml:"policy"`      // "skip" or "return"
	LineMode   string `yaml:"line_mode"`   // "single" or "multi"
	FastqOnly  bool   `yaml:"fastq_only"`  // reject '>' headers as FASTA intrusions
	BufferSize int    `yaml:"buffer_size"` // read buffer size in bytes, 0 for default
}

// Logging contains logging configuration.
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the configuration matching CD-HIT input
// handling defaults.
func DefaultConfig() *Config {
	return &Config{
		Input: Input{
			Policy:     "skip",
			LineMode:   "single",
			FastqOnly:  true,
			BufferSize: fastq.DefaultBufferSize,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from the specified path.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path.
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that every field holds a recognized value.
func (c *Config) Validate() error {
	switch c.Input.Policy {
	case "skip", "return":
	default:
		return fmt.Errorf("invalid input.policy %q: must be \"skip\" or \"return\"", c.Input.Policy)
	}
	switch c.Input.LineMode {
	case "single", "multi":
	default:
		return fmt.Errorf("invalid input.line_mode %q: must be \"single\" or \"multi\"", c.Input.LineMode)
	}
	if c.Input.BufferSize < 0 {
		return fmt.Errorf("invalid input.buffer_size %d: must not be negative", c.Input.BufferSize)
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level %q: %w", c.Logging.Level, err)
	}
	return nil
}

// ReaderOptions converts the configuration into reader options. The
// logger writes to w at the configured level.
func (c *Config) ReaderOptions(w io.Writer) (fastq.ReaderOptions, error) {
	if err := c.Validate(); err != nil {
		return fastq.ReaderOptions{}, err
	}

	opts := fastq.ReaderOptions{
		FastqOnly:  c.Input.FastqOnly,
		BufferSize: c.Input.BufferSize,
	}
	if c.Input.Policy == "return" {
		opts.Policy = fastq.PolicyReturn
	}
	if c.Input.LineMode == "multi" {
		opts.LineMode = fastq.LineMulti
	}
	if w != nil {
		level, _ := zerolog.ParseLevel(c.Logging.Level)
		logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
		opts.Logger = &logger
	}
	return opts, nil
}

// ConfigExists checks if a configuration file exists.
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
