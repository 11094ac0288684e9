// Package score combines the per-metric analyzers into a composite quality
// score. It owns the run orchestration: per-unit analysis fans out over a
// worker pool, duplication joins after every unit has parsed, and the
// weighted aggregate is computed last.
package score

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/assay-dev/assay/internal/fileproc"
	"github.com/assay-dev/assay/pkg/analyzer/complexity"
	"github.com/assay-dev/assay/pkg/analyzer/docs"
	"github.com/assay-dev/assay/pkg/analyzer/duplicates"
	"github.com/assay-dev/assay/pkg/analyzer/style"
	"github.com/assay-dev/assay/pkg/config"
	"github.com/assay-dev/assay/pkg/parser"
	"github.com/assay-dev/assay/pkg/source"
	"github.com/assay-dev/assay/pkg/stats"
)

// Aggregate combines the four sub-scores into an overall score and band
// using the given weights. It is pure: identical inputs always produce
// identical output. The only error is an invalid weight configuration.
func Aggregate(styleScore, complexityScore, docsScore, duplicationScore float64, w Weights) (float64, Band, error) {
	if err := ValidateWeights(w); err != nil {
		return 0, "", err
	}

	overall := (styleScore*w.Style +
		complexityScore*w.Complexity +
		docsScore*w.Docs +
		duplicationScore*w.Duplication) / 100

	overall = clamp(overall)
	return overall, BandFor(overall), nil
}

// ValidateWeights checks that weights are non-negative and sum to 100.
func ValidateWeights(w Weights) error {
	if w.Style < 0 || w.Complexity < 0 || w.Docs < 0 || w.Duplication < 0 {
		return &config.ConfigurationError{Field: "weights", Message: "must not be negative"}
	}
	if sum := w.Sum(); math.Abs(sum-100) > 1e-9 {
		return &config.ConfigurationError{
			Field:   "weights",
			Message: fmt.Sprintf("must sum to 100, got %g", sum),
		}
	}
	return nil
}

func clamp(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}

// Analyzer orchestrates the component analyzers over a corpus of units.
type Analyzer struct {
	cfg        *config.Config
	maxWorkers int
	onProgress fileproc.ProgressFunc
}

// Option configures the Analyzer.
type Option func(*Analyzer)

// WithConfig sets the full configuration for the run.
func WithConfig(cfg *config.Config) Option {
	return func(a *Analyzer) {
		a.cfg = cfg
	}
}

// WithMaxWorkers limits the per-unit worker pool.
func WithMaxWorkers(n int) Option {
	return func(a *Analyzer) {
		a.maxWorkers = n
	}
}

// WithProgress sets a callback invoked after each unit is analyzed.
func WithProgress(fn fileproc.ProgressFunc) Option {
	return func(a *Analyzer) {
		a.onProgress = fn
	}
}

// New creates a new composite analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		cfg: config.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type unitAnalysis struct {
	result UnitResult
	parsed *parser.ParseResult
}

// Analyze runs the full pipeline over the units. Configuration problems
// fail the run before any analysis starts; parse failures do not, they are
// recorded on the affected unit and the run completes.
func (a *Analyzer) Analyze(ctx context.Context, units []source.Unit) (*Result, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	weights := WeightsFromConfig(a.cfg.Weights)

	styleAnalyzer := style.New(style.WithConfig(a.cfg.Style))
	complexityAnalyzer := complexity.New(complexity.WithConfig(a.cfg.Complexity))
	docsAnalyzer := docs.New()
	duplicatesAnalyzer := duplicates.New(duplicates.WithConfig(a.cfg.Duplication))

	// Per-unit pass: parse once, then every analyzer that only needs this
	// unit. Style runs on raw text so it covers unparseable units too.
	analyses := fileproc.MapUnitsN(ctx, units, a.maxWorkers, func(psr *parser.Parser, unit source.Unit) unitAnalysis {
		parsed := psr.Parse([]byte(unit.Text), unit.ID)

		ua := unitAnalysis{parsed: parsed}
		ua.result.Unit = unit.ID
		ua.result.Style = styleAnalyzer.Analyze(unit.Text)

		if parsed.OK() {
			ua.result.Complexity = complexityAnalyzer.Analyze(parsed)
			ua.result.Docs = docsAnalyzer.Analyze(parsed)
		} else {
			ua.result.ParseError = parsed.Err
		}
		return ua
	}, a.onProgress)

	if err := ctx.Err(); err != nil {
		for _, ua := range analyses {
			if ua.parsed != nil {
				ua.parsed.Close()
			}
		}
		return nil, err
	}

	// Join barrier: duplication needs the complete set of parsed trees.
	acc := duplicates.NewAccumulator()
	for _, ua := range analyses {
		duplicatesAnalyzer.Add(acc, ua.parsed)
	}
	duplication := duplicatesAnalyzer.Finish(acc)

	for _, ua := range analyses {
		ua.parsed.Close()
	}

	result := &Result{
		Duplication:   duplication,
		Weights:       weights,
		UnitsAnalyzed: len(units),
		Timestamp:     time.Now().UTC(),
	}

	var styleScores, complexityScores, docsScores []float64
	for _, ua := range analyses {
		styleScores = append(styleScores, ua.result.Style.Score)
		if ua.result.ParseError != nil {
			result.ParseFailures++
			continue
		}
		complexityScores = append(complexityScores, ua.result.Complexity.Score)
		docsScores = append(docsScores, ua.result.Docs.Score)
	}

	result.Components = ComponentScores{
		Style:       meanOrPerfect(styleScores),
		Complexity:  meanOrPerfect(complexityScores),
		Docs:        meanOrPerfect(docsScores),
		Duplication: duplication.Score,
	}

	overall, band, err := Aggregate(
		result.Components.Style,
		result.Components.Complexity,
		result.Components.Docs,
		result.Components.Duplication,
		weights,
	)
	if err != nil {
		return nil, err
	}
	result.Score = overall
	result.Band = band

	result.Units = make([]UnitResult, 0, len(analyses))
	for _, ua := range analyses {
		ua.result.Score, ua.result.Band = unitScore(ua.result, duplication.Score, weights)
		result.Units = append(result.Units, ua.result)
	}
	sort.Slice(result.Units, func(i, j int) bool {
		return result.Units[i].Unit < result.Units[j].Unit
	})

	return result, nil
}

// unitScore computes a per-unit composite using the run weights. The
// duplication component is the corpus-wide sub-score. For units that failed
// to parse only the style component exists, so the remaining weight is
// redistributed onto it rather than scoring the missing metrics as zero.
func unitScore(r UnitResult, duplicationScore float64, w Weights) (float64, Band) {
	if r.ParseError != nil {
		s := clamp(r.Style.Score)
		return s, BandFor(s)
	}

	overall := (r.Style.Score*w.Style +
		r.Complexity.Score*w.Complexity +
		r.Docs.Score*w.Docs +
		duplicationScore*w.Duplication) / 100

	overall = clamp(overall)
	return overall, BandFor(overall)
}

// meanOrPerfect averages the collected sub-scores. No data means nothing
// was penalized, which scores 100 rather than 0.
func meanOrPerfect(scores []float64) float64 {
	if len(scores) == 0 {
		return 100
	}
	return stats.Mean(scores)
}
