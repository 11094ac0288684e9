package style

// Severity indicates how serious a style violation is.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Violation is one style rule breach at a specific line. Immutable once
// created.
type Violation struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Line     int      `json:"line"`
	Message  string   `json:"message"`
}

// Rule identifiers for the built-in checks.
const (
	RuleLineTooLong        = "line-too-long"
	RuleTrailingWhitespace = "trailing-whitespace"
	RuleMixedIndentation   = "mixed-indentation"
	RuleMissingBlankLine   = "missing-blank-line"
	RuleFunctionNaming     = "function-naming"
)

// Result holds the violations found in one unit and the normalized
// sub-score derived from them.
type Result struct {
	Violations []Violation `json:"violations"`
	Score      float64     `json:"score"`
}
