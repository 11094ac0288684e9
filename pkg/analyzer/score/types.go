package score

import (
	"time"

	"github.com/assay-dev/assay/pkg/analyzer/complexity"
	"github.com/assay-dev/assay/pkg/analyzer/docs"
	"github.com/assay-dev/assay/pkg/analyzer/duplicates"
	"github.com/assay-dev/assay/pkg/analyzer/style"
	"github.com/assay-dev/assay/pkg/config"
	"github.com/assay-dev/assay/pkg/parser"
)

// Band is the qualitative interpretation of a 0-100 score.
type Band string

const (
	BandExcellent        Band = "excellent"
	BandGood             Band = "good"
	BandNeedsImprovement Band = "needs improvement"
	BandPoor             Band = "poor"
)

// BandFor maps a score to its band.
func BandFor(score float64) Band {
	switch {
	case score >= 90:
		return BandExcellent
	case score >= 70:
		return BandGood
	case score >= 50:
		return BandNeedsImprovement
	default:
		return BandPoor
	}
}

// Weights defines the share of each metric in the composite score.
// The four values must sum to 100.
type Weights struct {
	Style       float64 `json:"style" toml:"style"`
	Complexity  float64 `json:"complexity" toml:"complexity"`
	Docs        float64 `json:"docs" toml:"docs"`
	Duplication float64 `json:"duplication" toml:"duplication"`
}

// DefaultWeights returns the default composite weights.
func DefaultWeights() Weights {
	return Weights{
		Style:       25,
		Complexity:  30,
		Docs:        20,
		Duplication: 25,
	}
}

// WeightsFromConfig converts the configuration weights.
func WeightsFromConfig(cfg config.WeightsConfig) Weights {
	return Weights{
		Style:       cfg.Style,
		Complexity:  cfg.Complexity,
		Docs:        cfg.Docs,
		Duplication: cfg.Duplication,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Style + w.Complexity + w.Docs + w.Duplication
}

// ComponentScores holds the corpus-wide sub-scores (0-100 each).
type ComponentScores struct {
	Style       float64 `json:"style"`
	Complexity  float64 `json:"complexity"`
	Docs        float64 `json:"docs"`
	Duplication float64 `json:"duplication"`
}

// UnitResult is the per-unit breakdown. Complexity and Docs are nil for
// units that failed to parse; ParseError records why.
type UnitResult struct {
	Unit       string             `json:"unit"`
	ParseError *parser.ParseError `json:"parse_error,omitempty"`
	Style      *style.Result      `json:"style"`
	Complexity *complexity.Result `json:"complexity,omitempty"`
	Docs       *docs.Coverage     `json:"docs,omitempty"`
	Score      float64            `json:"score"`
	Band       Band               `json:"band"`
}

// Result is the complete analysis result for a corpus of units.
type Result struct {
	Units         []UnitResult         `json:"units"`
	Duplication   *duplicates.Analysis `json:"duplication"`
	Components    ComponentScores      `json:"components"`
	Weights       Weights              `json:"weights"`
	Score         float64              `json:"score"`
	Band          Band                 `json:"band"`
	UnitsAnalyzed int                  `json:"units_analyzed"`
	ParseFailures int                  `json:"parse_failures"`
	Timestamp     time.Time            `json:"timestamp"`
}
