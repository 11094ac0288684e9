package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigurationError reports an invalid configuration value. It is fatal:
// the engine refuses to start a run with a broken configuration.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

// Config holds all configuration options for assay.
type Config struct {
	Style       StyleConfig       `koanf:"style"`
	Complexity  ComplexityConfig  `koanf:"complexity"`
	Duplication DuplicationConfig `koanf:"duplication"`
	Weights     WeightsConfig     `koanf:"weights"`
	Exclude     ExcludeConfig     `koanf:"exclude"`
	Output      OutputConfig      `koanf:"output"`
}

// StyleConfig controls the raw-text style rules.
type StyleConfig struct {
	LineLength          int     `koanf:"line_length"`
	PenaltyPerViolation float64 `koanf:"penalty_per_violation"`
}

// ComplexityConfig controls cyclomatic complexity scoring.
type ComplexityConfig struct {
	// Ceiling is the mean complexity at which the sub-score reaches 0.
	Ceiling float64 `koanf:"ceiling"`
	// FunctionMax flags individual functions above this complexity.
	FunctionMax int `koanf:"function_max"`
}

// DuplicationConfig controls cross-unit duplicate block detection.
type DuplicationConfig struct {
	MinBlockSize int     `koanf:"min_block_size"`
	Sensitivity  float64 `koanf:"sensitivity"`
}

// WeightsConfig defines the share of each metric in the overall score.
// The four values must sum to 100.
type WeightsConfig struct {
	Style       float64 `koanf:"style"`
	Complexity  float64 `koanf:"complexity"`
	Docs        float64 `koanf:"docs"`
	Duplication float64 `koanf:"duplication"`
}

// Sum returns the total of all weights.
func (w WeightsConfig) Sum() float64 {
	return w.Style + w.Complexity + w.Docs + w.Duplication
}

// ExcludeConfig defines file exclusion patterns for the CLI scanner.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns"`
	Dirs      []string `koanf:"dirs"`
	Gitignore bool     `koanf:"gitignore"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format"` // text, json, markdown, html
	Color  bool   `koanf:"color"`
}

// DefaultConfig returns a config with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Style: StyleConfig{
			LineLength:          79,
			PenaltyPerViolation: 2.0,
		},
		Complexity: ComplexityConfig{
			Ceiling:     20.0,
			FunctionMax: 10,
		},
		Duplication: DuplicationConfig{
			MinBlockSize: 6,
			Sensitivity:  2.0,
		},
		Weights: WeightsConfig{
			Style:       25,
			Complexity:  30,
			Docs:        20,
			Duplication: 25,
		},
		Exclude: ExcludeConfig{
			Dirs: []string{
				"__pycache__",
				".git",
				".venv",
				"venv",
				"node_modules",
			},
			Gitignore: true,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// Validate checks all thresholds and weights. It returns a
// *ConfigurationError describing the first problem found.
func (c *Config) Validate() error {
	if c.Style.LineLength < 1 {
		return &ConfigurationError{Field: "style.line_length", Message: "must be at least 1"}
	}
	if c.Style.PenaltyPerViolation < 0 {
		return &ConfigurationError{Field: "style.penalty_per_violation", Message: "must not be negative"}
	}
	if c.Complexity.Ceiling <= 5 {
		return &ConfigurationError{Field: "complexity.ceiling", Message: "must be greater than 5"}
	}
	if c.Complexity.FunctionMax < 1 {
		return &ConfigurationError{Field: "complexity.function_max", Message: "must be at least 1"}
	}
	if c.Duplication.MinBlockSize < 2 {
		return &ConfigurationError{Field: "duplication.min_block_size", Message: "must be at least 2"}
	}
	if c.Duplication.Sensitivity <= 0 {
		return &ConfigurationError{Field: "duplication.sensitivity", Message: "must be positive"}
	}
	if sum := c.Weights.Sum(); math.Abs(sum-100) > 1e-9 {
		return &ConfigurationError{
			Field:   "weights",
			Message: fmt.Sprintf("must sum to 100, got %g", sum),
		}
	}
	return nil
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"assay.toml",
		"assay.yaml",
		"assay.yml",
		"assay.json",
		".assay.toml",
		".assay.yaml",
		".assay.yml",
		".assay.json",
	}

	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			cfg, err := Load(name)
			if err == nil {
				return cfg
			}
		}
	}

	return DefaultConfig()
}
