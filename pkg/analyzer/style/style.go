// Package style checks raw source text against line- and token-level style
// rules. It needs no syntax tree, so it still applies to units that fail to
// parse.
package style

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/assay-dev/assay/pkg/config"
)

// Analyzer runs the style rule set over raw text.
type Analyzer struct {
	lineLength int
	penalty    float64
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithLineLength sets the maximum allowed line length in columns.
func WithLineLength(columns int) Option {
	return func(a *Analyzer) {
		a.lineLength = columns
	}
}

// WithPenalty sets the score penalty per violation.
func WithPenalty(penalty float64) Option {
	return func(a *Analyzer) {
		a.penalty = penalty
	}
}

// WithConfig sets all style options from a config struct.
func WithConfig(cfg config.StyleConfig) Option {
	return func(a *Analyzer) {
		a.lineLength = cfg.LineLength
		a.penalty = cfg.PenaltyPerViolation
	}
}

// New creates a style analyzer with default thresholds.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		lineLength: 79,
		penalty:    2.0,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// defPattern matches a function definition and captures its name.
var defPattern = regexp.MustCompile(`^\s*def\s+([A-Za-z_][A-Za-z0-9_]*)`)

// snakeCasePattern matches conventional Python function names, including
// leading/trailing underscores (private and dunder names).
var snakeCasePattern = regexp.MustCompile(`^_*[a-z0-9_]+_*$`)

// Analyze runs all rules against the text and returns the violations plus
// the normalized 0-100 sub-score. Pure function of the text.
func (a *Analyzer) Analyze(text string) *Result {
	lines := strings.Split(text, "\n")
	var violations []Violation

	for i, line := range lines {
		lineNum := i + 1

		if width := utf8.RuneCountInString(line); width > a.lineLength {
			violations = append(violations, Violation{
				Rule:     RuleLineTooLong,
				Severity: SeverityWarning,
				Line:     lineNum,
				Message:  fmt.Sprintf("line is %d columns, limit is %d", width, a.lineLength),
			})
		}

		if trimmed := strings.TrimRight(line, " \t"); trimmed != line && strings.TrimSpace(line) != "" {
			violations = append(violations, Violation{
				Rule:     RuleTrailingWhitespace,
				Severity: SeverityWarning,
				Line:     lineNum,
				Message:  "trailing whitespace",
			})
		}

		if indent := leadingWhitespace(line); strings.Contains(indent, " ") && strings.Contains(indent, "\t") {
			violations = append(violations, Violation{
				Rule:     RuleMixedIndentation,
				Severity: SeverityError,
				Line:     lineNum,
				Message:  "indentation mixes tabs and spaces",
			})
		}

		if m := defPattern.FindStringSubmatch(line); m != nil && !snakeCasePattern.MatchString(m[1]) {
			violations = append(violations, Violation{
				Rule:     RuleFunctionNaming,
				Severity: SeverityWarning,
				Line:     lineNum,
				Message:  fmt.Sprintf("function %q is not snake_case", m[1]),
			})
		}
	}

	violations = append(violations, checkBlankLineSeparation(lines)...)

	return &Result{
		Violations: violations,
		Score:      a.score(len(violations)),
	}
}

// score maps a violation count to the 0-100 sub-score.
func (a *Analyzer) score(count int) float64 {
	penalty := float64(count) * a.penalty
	if penalty > 100 {
		penalty = 100
	}
	return 100 - penalty
}

// checkBlankLineSeparation flags top-level def/class declarations that
// follow another statement with no blank line in between. Decorators and
// comments directly above a declaration belong to it and do not count as
// separators or as violations.
func checkBlankLineSeparation(lines []string) []Violation {
	var violations []Violation
	sawStatement := false

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			sawStatement = false
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			continue // not top level
		}

		isDecl := strings.HasPrefix(line, "def ") || strings.HasPrefix(line, "class ")
		isAttached := strings.HasPrefix(line, "@") || strings.HasPrefix(line, "#")

		if isDecl && sawStatement {
			violations = append(violations, Violation{
				Rule:     RuleMissingBlankLine,
				Severity: SeverityWarning,
				Line:     i + 1,
				Message:  "top-level declaration not separated by a blank line",
			})
		}
		if !isAttached {
			sawStatement = true
		}
	}

	return violations
}

// leadingWhitespace returns the indentation prefix of a line.
func leadingWhitespace(line string) string {
	for i, r := range line {
		if r != ' ' && r != '\t' {
			return line[:i]
		}
	}
	return line
}
