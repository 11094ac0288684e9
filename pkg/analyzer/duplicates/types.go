package duplicates

// Location is one occurrence of a duplicated block.
type Location struct {
	Unit      string `json:"unit"`
	StartLine uint32 `json:"start_line"`
	EndLine   uint32 `json:"end_line"`
}

// Block is a group of two or more locations whose normalized content is
// identical. Statements is the matched window size, a lower bound on the
// clone length when overlapping windows were merged.
type Block struct {
	Signature  uint64     `json:"signature"`
	Statements int        `json:"statements"`
	Locations  []Location `json:"locations"`
}

// Analysis is the corpus-wide duplication result.
type Analysis struct {
	// Ratio is duplicated lines over total analyzable lines, in [0,1].
	// Lines covered by overlapping blocks are counted once.
	Ratio           float64 `json:"ratio"`
	Blocks          []Block `json:"blocks"`
	TotalLines      int     `json:"total_lines"`
	DuplicatedLines int     `json:"duplicated_lines"`
	Score           float64 `json:"score"`
}
