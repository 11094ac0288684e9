// Package complexity computes cyclomatic complexity per function by
// counting decision points in the syntax tree.
package complexity

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/assay-dev/assay/pkg/config"
	"github.com/assay-dev/assay/pkg/parser"
)

// Analyzer computes per-function cyclomatic complexity and the file-level
// sub-score derived from the mean.
type Analyzer struct {
	ceiling     float64
	functionMax int
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithCeiling sets the mean complexity at which the sub-score reaches 0.
func WithCeiling(ceiling float64) Option {
	return func(a *Analyzer) {
		a.ceiling = ceiling
	}
}

// WithFunctionMax sets the hard per-function complexity limit above which a
// function is individually flagged.
func WithFunctionMax(limit int) Option {
	return func(a *Analyzer) {
		a.functionMax = limit
	}
}

// WithConfig sets all complexity options from a config struct.
func WithConfig(cfg config.ComplexityConfig) Option {
	return func(a *Analyzer) {
		a.ceiling = cfg.Ceiling
		a.functionMax = cfg.FunctionMax
	}
}

// New creates a complexity analyzer with default thresholds.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		ceiling:     20.0,
		functionMax: 10,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// decisionTypes are the Python node types that add one decision point each.
var decisionTypes = map[string]bool{
	"if_statement":           true,
	"elif_clause":            true,
	"for_statement":          true,
	"while_statement":        true,
	"except_clause":          true,
	"conditional_expression": true, // ternary
	"if_clause":              true, // comprehension/generator guard
}

// Analyze computes complexity for every function in a parsed unit. Nested
// functions are scored independently of their enclosing function.
func (a *Analyzer) Analyze(parsed *parser.ParseResult) *Result {
	result := &Result{
		Functions: make([]FunctionResult, 0),
	}

	for _, fn := range parser.GetFunctions(parsed) {
		complexity := 1
		if fn.Body != nil {
			complexity += countDecisionPoints(fn.Body, parsed.Source)
		}

		result.Functions = append(result.Functions, FunctionResult{
			Name:       fn.Name,
			StartLine:  fn.StartLine,
			EndLine:    fn.EndLine,
			Complexity: complexity,
			Flagged:    complexity > a.functionMax,
		})

		if complexity > result.Max {
			result.Max = complexity
		}
	}

	if n := len(result.Functions); n > 0 {
		total := 0
		for _, fn := range result.Functions {
			total += fn.Complexity
		}
		result.Mean = float64(total) / float64(n)
	}

	result.Score = a.ScoreFromMean(result.Mean, len(result.Functions))
	return result
}

// ScoreFromMean maps a mean complexity to the 0-100 sub-score: <=5 is a
// perfect score, scaling linearly down to 0 at the ceiling. A unit with no
// functions has nothing to penalize.
func (a *Analyzer) ScoreFromMean(mean float64, functions int) float64 {
	if functions == 0 || mean <= 5 {
		return 100
	}
	if mean >= a.ceiling {
		return 0
	}
	return 100 * (a.ceiling - mean) / (a.ceiling - 5)
}

// countDecisionPoints counts branching constructs under node, not
// descending into nested function definitions (they are scored on their
// own).
func countDecisionPoints(node *sitter.Node, source []byte) int {
	count := 0

	parser.WalkTyped(node, source, func(n *sitter.Node, nodeType string, src []byte) bool {
		if nodeType == "function_definition" {
			return false
		}
		if decisionTypes[nodeType] || nodeType == "boolean_operator" {
			count++
		}
		return true
	})

	return count
}
