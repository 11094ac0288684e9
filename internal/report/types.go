package report

import "time"

// Metadata describes the run that produced the report.
type Metadata struct {
	GeneratedAt time.Time `json:"generated_at"`
	Version     string    `json:"version"`
	Paths       []string  `json:"paths"`
}

// UnitView is the per-unit slice of the result prepared for rendering.
type UnitView struct {
	Name        string
	Score       float64
	Band        string
	ScoreClass  string
	ParseError  string
	StyleScore  float64
	Violations  []ViolationView
	MoreIssues  int
	Complexity  *ComplexityView
	Docs        *DocsView
	Suggestions []string
}

// ViolationView is one style violation row.
type ViolationView struct {
	Line    int
	Rule    string
	Message string
}

// ComplexityView summarizes cyclomatic complexity for one unit.
type ComplexityView struct {
	Mean      float64
	Max       int
	Score     float64
	Functions []FunctionView
}

// FunctionView is one function row in the complexity table.
type FunctionView struct {
	Name       string
	Line       uint32
	Complexity int
	Flagged    bool
}

// DocsView summarizes docstring coverage for one unit.
type DocsView struct {
	Score               float64
	FunctionsDocumented int
	FunctionsTotal      int
	ClassesDocumented   int
	ClassesTotal        int
	ModuleDocumented    bool
}

// DuplicationView summarizes the corpus-wide duplication analysis.
type DuplicationView struct {
	Percentage float64
	Score      float64
	Blocks     []BlockView
}

// BlockView is one duplicate block with its locations.
type BlockView struct {
	Statements int
	Locations  []string
}
