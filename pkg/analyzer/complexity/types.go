package complexity

// FunctionResult represents cyclomatic complexity for a single function.
type FunctionResult struct {
	Name       string `json:"name"`
	StartLine  uint32 `json:"start_line"`
	EndLine    uint32 `json:"end_line"`
	Complexity int    `json:"complexity"`
	// Flagged marks functions whose complexity exceeds the hard per-function
	// maximum, regardless of the file mean.
	Flagged bool `json:"flagged,omitempty"`
}

// Result represents complexity metrics for one unit.
type Result struct {
	Functions []FunctionResult `json:"functions"`
	Mean      float64          `json:"mean"`
	Max       int              `json:"max"`
	Score     float64          `json:"score"`
}
