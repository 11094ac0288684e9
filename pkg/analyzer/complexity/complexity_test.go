package complexity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assay-dev/assay/pkg/parser"
)

func analyzeSource(t *testing.T, code string) *Result {
	t.Helper()
	p := parser.New()
	defer p.Close()

	parsed := p.Parse([]byte(code), "test.py")
	require.True(t, parsed.OK(), "test source must parse")

	return New().Analyze(parsed)
}

func TestAnalyze_StraightLineFunction(t *testing.T) {
	result := analyzeSource(t, `def plain():
    x = 1
    y = 2
    return x + y
`)
	require.Len(t, result.Functions, 1)
	assert.Equal(t, 1, result.Functions[0].Complexity)
	assert.Equal(t, 1.0, result.Mean)
	assert.Equal(t, 100.0, result.Score)
}

func TestAnalyze_IfAndLoop(t *testing.T) {
	// One if plus one for loop: 1 + 1 + 1 = 3.
	result := analyzeSource(t, `def branchy(items):
    total = 0
    for item in items:
        if item > 0:
            total += item
    return total
`)
	require.Len(t, result.Functions, 1)
	assert.Equal(t, 3, result.Functions[0].Complexity)
}

func TestAnalyze_ElifAndBooleanOperators(t *testing.T) {
	// if (+1), elif (+1), two 'and'/'or' operators (+2): 1 + 4 = 5.
	result := analyzeSource(t, `def classify(x, y):
    if x > 0 and y > 0:
        return "both"
    elif x > 0 or y > 0:
        return "one"
    return "none"
`)
	require.Len(t, result.Functions, 1)
	assert.Equal(t, 5, result.Functions[0].Complexity)
}

func TestAnalyze_ExceptClauses(t *testing.T) {
	// Two except clauses: 1 + 2 = 3.
	result := analyzeSource(t, `def safe_parse(raw):
    try:
        return int(raw)
    except ValueError:
        return 0
    except TypeError:
        return 0
`)
	require.Len(t, result.Functions, 1)
	assert.Equal(t, 3, result.Functions[0].Complexity)
}

func TestAnalyze_TernaryAndComprehensionGuard(t *testing.T) {
	// Conditional expression (+1) and comprehension if-clause (+1): 3.
	result := analyzeSource(t, `def pick(values, flag):
    first = values[0] if flag else None
    positives = [v for v in values if v > 0]
    return first, positives
`)
	require.Len(t, result.Functions, 1)
	assert.Equal(t, 3, result.Functions[0].Complexity)
}

func TestAnalyze_NestedFunctionsScoredIndependently(t *testing.T) {
	result := analyzeSource(t, `def outer(items):
    def inner(x):
        if x > 0:
            return x
        return -x
    return [inner(i) for i in items]
`)
	require.Len(t, result.Functions, 2)

	byName := map[string]int{}
	for _, fn := range result.Functions {
		byName[fn.Name] = fn.Complexity
	}
	// inner's if must not leak into outer's count.
	assert.Equal(t, 1, byName["outer"])
	assert.Equal(t, 2, byName["inner"])
}

func TestAnalyze_NoFunctions(t *testing.T) {
	result := analyzeSource(t, "x = 1\ny = 2\n")
	assert.Empty(t, result.Functions)
	assert.Equal(t, 0.0, result.Mean)
	assert.Equal(t, 100.0, result.Score)
}

func TestAnalyze_FlagsFunctionsAboveHardMax(t *testing.T) {
	p := parser.New()
	defer p.Close()

	code := `def tangled(x):
    if x == 1:
        return 1
    elif x == 2:
        return 2
    elif x == 3:
        return 3
    return 0
`
	parsed := p.Parse([]byte(code), "test.py")
	require.True(t, parsed.OK())

	result := New(WithFunctionMax(2)).Analyze(parsed)
	require.Len(t, result.Functions, 1)
	assert.True(t, result.Functions[0].Flagged)

	relaxed := New(WithFunctionMax(20)).Analyze(parsed)
	assert.False(t, relaxed.Functions[0].Flagged)
}

func TestScoreFromMean(t *testing.T) {
	a := New() // ceiling 20

	assert.Equal(t, 100.0, a.ScoreFromMean(0, 0))
	assert.Equal(t, 100.0, a.ScoreFromMean(5, 3))
	assert.Equal(t, 0.0, a.ScoreFromMean(20, 3))
	assert.Equal(t, 0.0, a.ScoreFromMean(35, 3))
	// Midpoint of the linear band.
	assert.InDelta(t, 50.0, a.ScoreFromMean(12.5, 3), 1e-9)
}

func TestComplexityAlwaysAtLeastOne(t *testing.T) {
	result := analyzeSource(t, `def a():
    pass

def b():
    return None
`)
	for _, fn := range result.Functions {
		assert.GreaterOrEqual(t, fn.Complexity, 1)
	}
}
