package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 79, cfg.Style.LineLength)
	assert.Equal(t, 2.0, cfg.Style.PenaltyPerViolation)
	assert.Equal(t, 20.0, cfg.Complexity.Ceiling)
	assert.Equal(t, 10, cfg.Complexity.FunctionMax)
	assert.Equal(t, 6, cfg.Duplication.MinBlockSize)
	assert.Equal(t, float64(100), cfg.Weights.Sum())
	assert.NoError(t, cfg.Validate())
}

func TestValidate_Weights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights.Duplication = 24 // sum = 99

	err := cfg.Validate()
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "weights", cfgErr.Field)
	assert.Contains(t, cfgErr.Error(), "sum to 100")
}

func TestValidate_Thresholds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"negative penalty", func(c *Config) { c.Style.PenaltyPerViolation = -1 }, "style.penalty_per_violation"},
		{"zero line length", func(c *Config) { c.Style.LineLength = 0 }, "style.line_length"},
		{"low ceiling", func(c *Config) { c.Complexity.Ceiling = 5 }, "complexity.ceiling"},
		{"tiny block size", func(c *Config) { c.Duplication.MinBlockSize = 1 }, "duplication.min_block_size"},
		{"zero sensitivity", func(c *Config) { c.Duplication.Sensitivity = 0 }, "duplication.sensitivity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			var cfgErr *ConfigurationError
			require.ErrorAs(t, cfg.Validate(), &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestLoad_TOML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "assay.toml")
	content := `[style]
line_length = 100

[weights]
style = 40
complexity = 30
docs = 10
duplication = 20
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Style.LineLength)
	assert.Equal(t, 40.0, cfg.Weights.Style)
	// Unset sections keep defaults.
	assert.Equal(t, 6, cfg.Duplication.MinBlockSize)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "assay.yaml")
	content := `duplication:
  min_block_size: 4
  sensitivity: 1.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Duplication.MinBlockSize)
	assert.Equal(t, 1.5, cfg.Duplication.Sensitivity)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/assay.toml")
	assert.Error(t, err)
}
