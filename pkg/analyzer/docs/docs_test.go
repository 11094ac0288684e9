package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assay-dev/assay/pkg/parser"
)

func analyzeSource(t *testing.T, code string) *Coverage {
	t.Helper()
	p := parser.New()
	defer p.Close()

	parsed := p.Parse([]byte(code), "test.py")
	require.True(t, parsed.OK(), "test source must parse")

	return New().Analyze(parsed)
}

func TestAnalyze_MixedCoverage(t *testing.T) {
	// Module docstring + documented class + undocumented function:
	// documentable=3, documented=2, ratio=2/3.
	cov := analyzeSource(t, `"""Utility helpers."""


class Widget:
    """A widget."""


def helper():
    return 1
`)
	assert.Equal(t, 3, cov.Documentable)
	assert.Equal(t, 2, cov.Documented)
	assert.InDelta(t, 2.0/3.0, cov.Ratio, 1e-9)
	require.Len(t, cov.Missing, 1)
	assert.Equal(t, KindFunction, cov.Missing[0].Kind)
	assert.Equal(t, "helper", cov.Missing[0].Name)
}

func TestAnalyze_EmptyUnitStillCountsModule(t *testing.T) {
	cov := analyzeSource(t, "")
	// The module entity itself is documentable, so an empty file is not at
	// full coverage: only a module docstring satisfies it.
	assert.Equal(t, 1, cov.Documentable)
	assert.Equal(t, 0, cov.Documented)
}

func TestAnalyze_DunderMethodsExcluded(t *testing.T) {
	cov := analyzeSource(t, `"""Module."""


class Point:
    """A point."""

    def __init__(self, x):
        self.x = x

    def _scale(self, k):
        return self.x * k
`)
	// __init__ excluded, _scale counted (and undocumented).
	assert.Equal(t, 3, cov.Documentable)
	assert.Equal(t, 2, cov.Documented)
	assert.Equal(t, 1, cov.FunctionsTotal)
	assert.Equal(t, 0, cov.FunctionsDocumented)
}

func TestAnalyze_TrivialDocstringDoesNotCount(t *testing.T) {
	cov := analyzeSource(t, `def noisy():
    """   """
    return 1
`)
	assert.Equal(t, 2, cov.Documentable) // module + function
	assert.Equal(t, 0, cov.Documented)
}

func TestAnalyze_DocumentedRatioBounds(t *testing.T) {
	cov := analyzeSource(t, `"""Doc."""


def documented():
    """Does a thing."""
    return 1
`)
	assert.LessOrEqual(t, cov.Documented, cov.Documentable)
	assert.GreaterOrEqual(t, cov.Ratio, 0.0)
	assert.LessOrEqual(t, cov.Ratio, 1.0)
	assert.Equal(t, 100.0, cov.Score)
	assert.True(t, cov.ModuleDocumented)
}

func TestAnalyze_UnparsedUnit(t *testing.T) {
	p := parser.New()
	defer p.Close()

	parsed := p.Parse([]byte("def broken(:\n    pass\n"), "broken.py")
	require.False(t, parsed.OK())

	cov := New().Analyze(parsed)
	assert.Equal(t, 0, cov.Documentable)
	assert.Equal(t, 1.0, cov.Ratio)
}

func TestStripQuotes(t *testing.T) {
	assert.Equal(t, "doc", stripQuotes(`"""doc"""`))
	assert.Equal(t, "doc", stripQuotes(`'doc'`))
	assert.Equal(t, "doc", stripQuotes(`r"doc"`))
	assert.Equal(t, "", stripQuotes(`""`))
}

func TestIsDunder(t *testing.T) {
	assert.True(t, isDunder("__init__"))
	assert.False(t, isDunder("_private"))
	assert.False(t, isDunder("__"))
	assert.False(t, isDunder("plain"))
}
