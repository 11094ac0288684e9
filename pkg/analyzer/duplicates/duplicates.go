// Package duplicates detects near-identical statement blocks across the
// whole corpus. It is the only analyzer with cross-unit state: every unit's
// normalized windows feed one accumulator, and grouping happens after all
// units have been added.
package duplicates

import (
	"encoding/binary"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/zeebo/blake3"

	"github.com/assay-dev/assay/pkg/config"
	"github.com/assay-dev/assay/pkg/parser"
)

// Analyzer detects duplicated statement blocks by canonical signature
// grouping: each window of statements is normalized to a structural shape
// and hashed, so grouping is a single map pass instead of pairwise
// comparison.
type Analyzer struct {
	minBlockSize int
	sensitivity  float64
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithMinBlockSize sets the minimum number of statements in a window.
func WithMinBlockSize(size int) Option {
	return func(a *Analyzer) {
		a.minBlockSize = size
	}
}

// WithSensitivity sets the factor applied to the ratio when scoring.
func WithSensitivity(factor float64) Option {
	return func(a *Analyzer) {
		a.sensitivity = factor
	}
}

// WithConfig sets all duplication options from a config struct.
func WithConfig(cfg config.DuplicationConfig) Option {
	return func(a *Analyzer) {
		a.minBlockSize = cfg.MinBlockSize
		a.sensitivity = cfg.Sensitivity
	}
}

// New creates a duplication analyzer with default config.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		minBlockSize: 6,
		sensitivity:  2.0,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// window is one normalized statement sequence occurrence.
type window struct {
	signature  uint64
	statements int
	loc        Location
}

// Accumulator gathers normalized windows across units. Callers build one
// per run, feed every parsed unit into it, and finish it once; there is no
// hidden package-level state.
type Accumulator struct {
	windows    []window
	totalLines int
}

// NewAccumulator creates an empty cross-unit accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Add extracts and normalizes all statement windows from one parsed unit.
// Units that failed to parse contribute nothing.
func (a *Analyzer) Add(acc *Accumulator, parsed *parser.ParseResult) {
	if parsed.Tree == nil {
		return
	}

	acc.totalLines += countMeaningfulLines(parsed.Source)

	for _, fn := range parser.GetFunctions(parsed) {
		if fn.Body == nil {
			continue
		}
		stmts := bodyStatements(fn.Body)
		if len(stmts) < a.minBlockSize {
			continue
		}

		shapes := make([]uint64, len(stmts))
		for i, stmt := range stmts {
			shapes[i] = xxhash.Sum64String(shapeOf(stmt))
		}

		for i := 0; i+a.minBlockSize <= len(stmts); i++ {
			end := i + a.minBlockSize
			acc.windows = append(acc.windows, window{
				signature:  signatureOf(shapes[i:end]),
				statements: a.minBlockSize,
				loc: Location{
					Unit:      parsed.Name,
					StartLine: stmts[i].StartPoint().Row + 1,
					EndLine:   stmts[end-1].EndPoint().Row + 1,
				},
			})
		}
	}
}

// Finish groups the accumulated windows by signature and computes the
// corpus duplication ratio. The result is independent of the order units
// were added in.
func (a *Analyzer) Finish(acc *Accumulator) *Analysis {
	analysis := &Analysis{
		Blocks:     make([]Block, 0),
		TotalLines: acc.totalLines,
	}

	groups := make(map[uint64][]window)
	for _, w := range acc.windows {
		groups[w.signature] = append(groups[w.signature], w)
	}

	covered := make(map[string]map[uint32]bool)
	for sig, members := range groups {
		if len(members) < 2 {
			continue
		}

		block := Block{
			Signature:  sig,
			Statements: members[0].statements,
		}
		for _, w := range members {
			block.Locations = append(block.Locations, w.loc)

			lines, ok := covered[w.loc.Unit]
			if !ok {
				lines = make(map[uint32]bool)
				covered[w.loc.Unit] = lines
			}
			for line := w.loc.StartLine; line <= w.loc.EndLine; line++ {
				lines[line] = true
			}
		}
		sort.Slice(block.Locations, func(i, j int) bool {
			if block.Locations[i].Unit != block.Locations[j].Unit {
				return block.Locations[i].Unit < block.Locations[j].Unit
			}
			return block.Locations[i].StartLine < block.Locations[j].StartLine
		})
		analysis.Blocks = append(analysis.Blocks, block)
	}

	// A clone longer than the window size shows up as a chain of
	// overlapping windows; merge those chains into maximal blocks.
	analysis.Blocks = mergeOverlapping(analysis.Blocks)

	sort.Slice(analysis.Blocks, func(i, j int) bool {
		li, lj := analysis.Blocks[i].Locations[0], analysis.Blocks[j].Locations[0]
		if li.Unit != lj.Unit {
			return li.Unit < lj.Unit
		}
		if li.StartLine != lj.StartLine {
			return li.StartLine < lj.StartLine
		}
		return analysis.Blocks[i].Signature < analysis.Blocks[j].Signature
	})

	for _, lines := range covered {
		analysis.DuplicatedLines += len(lines)
	}
	if acc.totalLines > 0 {
		ratio := float64(analysis.DuplicatedLines) / float64(acc.totalLines)
		if ratio > 1.0 {
			ratio = 1.0
		}
		analysis.Ratio = ratio
	}

	analysis.Score = a.score(analysis.Ratio)
	return analysis
}

// mergeOverlapping unions blocks whose occurrences overlap position-wise in
// every unit, using union-find the same way clone pairs are grouped. Two
// blocks chain when they have the same number of locations and each
// location overlaps or touches its counterpart.
func mergeOverlapping(blocks []Block) []Block {
	if len(blocks) < 2 {
		return blocks
	}

	parent := make([]int, len(blocks))
	for i := range parent {
		parent[i] = i
	}

	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}

	union := func(x, y int) {
		px, py := find(x), find(y)
		if px != py {
			parent[px] = py
		}
	}

	for i := 0; i < len(blocks); i++ {
		for j := i + 1; j < len(blocks); j++ {
			if chained(blocks[i], blocks[j]) {
				union(i, j)
			}
		}
	}

	groups := make(map[int][]int)
	for i := range blocks {
		root := find(i)
		groups[root] = append(groups[root], i)
	}

	merged := make([]Block, 0, len(groups))
	for _, members := range groups {
		out := blocks[members[0]]
		for _, idx := range members[1:] {
			b := blocks[idx]
			for k := range out.Locations {
				if b.Locations[k].StartLine < out.Locations[k].StartLine {
					out.Locations[k].StartLine = b.Locations[k].StartLine
				}
				if b.Locations[k].EndLine > out.Locations[k].EndLine {
					out.Locations[k].EndLine = b.Locations[k].EndLine
				}
			}
		}
		merged = append(merged, out)
	}

	return merged
}

// chained reports whether two blocks are overlapping occurrences of one
// longer clone.
func chained(a, b Block) bool {
	if len(a.Locations) != len(b.Locations) {
		return false
	}
	for k := range a.Locations {
		la, lb := a.Locations[k], b.Locations[k]
		if la.Unit != lb.Unit {
			return false
		}
		if la.StartLine > lb.EndLine+1 || lb.StartLine > la.EndLine+1 {
			return false
		}
	}
	return true
}

// Analyze runs the full accumulate-then-group pipeline over a set of
// parsed units.
func (a *Analyzer) Analyze(units []*parser.ParseResult) *Analysis {
	acc := NewAccumulator()
	for _, parsed := range units {
		a.Add(acc, parsed)
	}
	return a.Finish(acc)
}

// score maps the duplication ratio to the 0-100 sub-score.
func (a *Analyzer) score(ratio float64) float64 {
	penalty := ratio * 100 * a.sensitivity
	if penalty > 100 {
		penalty = 100
	}
	return 100 - penalty
}

// bodyStatements returns the direct statements of a function body,
// skipping comments.
func bodyStatements(body *sitter.Node) []*sitter.Node {
	var stmts []*sitter.Node
	for i := range int(body.NamedChildCount()) {
		child := body.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		stmts = append(stmts, child)
	}
	return stmts
}

// literalTypes are leaf node types whose concrete value is stripped during
// normalization.
var literalTypes = map[string]bool{
	"integer": true,
	"float":   true,
	"string":  true,
	"true":    true,
	"false":   true,
	"none":    true,
}

// shapeOf canonicalizes a statement subtree to its structural shape:
// statement and expression kinds with nesting preserved, identifiers and
// literal values stripped.
func shapeOf(node *sitter.Node) string {
	var sb strings.Builder
	writeShape(&sb, node)
	return sb.String()
}

func writeShape(sb *strings.Builder, node *sitter.Node) {
	nodeType := node.Type()
	switch {
	case nodeType == "comment":
		return
	case nodeType == "identifier":
		sb.WriteString("ID")
		return
	case literalTypes[nodeType]:
		sb.WriteString("LIT")
		return
	}

	sb.WriteString(nodeType)
	if node.NamedChildCount() == 0 {
		return
	}

	sb.WriteByte('(')
	for i := range int(node.NamedChildCount()) {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeShape(sb, node.NamedChild(i))
	}
	sb.WriteByte(')')
}

// signatureOf hashes a sequence of statement shapes into one window
// signature.
func signatureOf(shapes []uint64) uint64 {
	h := blake3.New()
	var buf [8]byte
	for _, shape := range shapes {
		binary.LittleEndian.PutUint64(buf[:], shape)
		h.Write(buf[:])
	}
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum[:8])
}

// countMeaningfulLines counts non-blank, non-comment lines; this is the
// analyzable-line denominator for the duplication ratio.
func countMeaningfulLines(source []byte) int {
	count := 0
	for _, line := range strings.Split(string(source), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		count++
	}
	return count
}
