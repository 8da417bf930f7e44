package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/fastqstream/pkg/fastq"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "skip", config.Input.Policy)
	assert.Equal(t, "single", config.Input.LineMode)
	assert.True(t, config.Input.FastqOnly)
	assert.Equal(t, fastq.DefaultBufferSize, config.Input.BufferSize)
	assert.Equal(t, "info", config.Logging.Level)
	assert.NoError(t, config.Validate())
}

func TestLoadConfig(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	t.Run("valid file with partial settings", func(t *testing.T) {
		path := filepath.Join(tmpDir, "reader.yaml")
		data := "input:\n  policy: return\n  line_mode: multi\nlogging:\n  level: warn\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0600))

		config, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "return", config.Input.Policy)
		assert.Equal(t, "multi", config.Input.LineMode)
		assert.Equal(t, "warn", config.Logging.Level)
		// untouched fields keep their defaults
		assert.Equal(t, fastq.DefaultBufferSize, config.Input.BufferSize)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(tmpDir, "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(tmpDir, "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("input: ["), 0600))

		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("invalid policy value", func(t *testing.T) {
		path := filepath.Join(tmpDir, "badpolicy.yaml")
		require.NoError(t, os.WriteFile(path, []byte("input:\n  policy: ignore\n"), 0600))

		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "input.policy")
	})
}

func TestSaveConfig(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config_save_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "nested", "reader.yaml")
	require.NoError(t, SaveConfig(DefaultConfig(), path))
	assert.True(t, ConfigExists(path))

	back, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), back)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "unknown policy",
			mutate: func(c *Config) { c.Input.Policy = "drop" },
		},
		{
			name:   "unknown line mode",
			mutate: func(c *Config) { c.Input.LineMode = "wrapped" },
		},
		{
			name:   "negative buffer size",
			mutate: func(c *Config) { c.Input.BufferSize = -1 },
		},
		{
			name:   "unknown log level",
			mutate: func(c *Config) { c.Logging.Level = "loud" },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.mutate(config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestConfig_ReaderOptions(t *testing.T) {
	config := DefaultConfig()
	config.Input.Policy = "return"
	config.Input.LineMode = "multi"
	config.Input.FastqOnly = false

	var logBuf bytes.Buffer
	opts, err := config.ReaderOptions(&logBuf)
	require.NoError(t, err)

	assert.Equal(t, fastq.PolicyReturn, opts.Policy)
	assert.Equal(t, fastq.LineMulti, opts.LineMode)
	assert.False(t, opts.FastqOnly)
	assert.Equal(t, fastq.DefaultBufferSize, opts.BufferSize)
	require.NotNil(t, opts.Logger)

	t.Run("nil writer leaves logger unset", func(t *testing.T) {
		opts, err := DefaultConfig().ReaderOptions(nil)
		require.NoError(t, err)
		assert.Nil(t, opts.Logger)
	})
}
