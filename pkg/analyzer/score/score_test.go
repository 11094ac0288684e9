package score

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assay-dev/assay/pkg/config"
	"github.com/assay-dev/assay/pkg/source"
)

func TestAggregate_WeightedSum(t *testing.T) {
	overall, band, err := Aggregate(80, 60, 40, 100, DefaultWeights())
	require.NoError(t, err)
	assert.InDelta(t, 71.0, overall, 1e-9)
	assert.Equal(t, BandGood, band)
}

func TestAggregate_Deterministic(t *testing.T) {
	first, _, err := Aggregate(73.5, 88.2, 61.0, 95.4, DefaultWeights())
	require.NoError(t, err)
	second, _, err := Aggregate(73.5, 88.2, 61.0, 95.4, DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAggregate_RejectsBadWeights(t *testing.T) {
	w := Weights{Style: 25, Complexity: 30, Docs: 20, Duplication: 24}
	_, _, err := Aggregate(100, 100, 100, 100, w)
	require.Error(t, err)

	var cfgErr *config.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "weights", cfgErr.Field)
}

func TestAggregate_RejectsNegativeWeight(t *testing.T) {
	w := Weights{Style: -10, Complexity: 50, Docs: 30, Duplication: 30}
	_, _, err := Aggregate(100, 100, 100, 100, w)
	require.Error(t, err)
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		score float64
		want  Band
	}{
		{100, BandExcellent},
		{90, BandExcellent},
		{89.9, BandGood},
		{70, BandGood},
		{69.9, BandNeedsImprovement},
		{50, BandNeedsImprovement},
		{49.9, BandPoor},
		{0, BandPoor},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BandFor(tt.score), "score %v", tt.score)
	}
}

func TestAnalyze_CleanCorpus(t *testing.T) {
	units := []source.Unit{
		{ID: "util.py", Text: "\"\"\"Utility helpers.\"\"\"\n\n\ndef add_numbers(a, b):\n    \"\"\"Add two numbers.\"\"\"\n    return a + b\n"},
		{ID: "fmt.py", Text: "\"\"\"Formatting helpers.\"\"\"\n\n\ndef format_name(name):\n    \"\"\"Normalize a display name.\"\"\"\n    return name.strip()\n"},
	}

	result, err := New().Analyze(context.Background(), units)
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.Score)
	assert.Equal(t, BandExcellent, result.Band)
	assert.Equal(t, 2, result.UnitsAnalyzed)
	assert.Equal(t, 0, result.ParseFailures)

	require.Len(t, result.Units, 2)
	assert.Equal(t, "fmt.py", result.Units[0].Unit)
	assert.Equal(t, "util.py", result.Units[1].Unit)
	for _, unit := range result.Units {
		assert.Nil(t, unit.ParseError)
		require.NotNil(t, unit.Complexity)
		require.NotNil(t, unit.Docs)
		assert.Equal(t, 100.0, unit.Score)
	}
}

func TestAnalyze_ParseFailureIsIsolated(t *testing.T) {
	units := []source.Unit{
		{ID: "good.py", Text: "\"\"\"Doc.\"\"\"\n\n\ndef helper(x):\n    \"\"\"Help.\"\"\"\n    return x\n"},
		{ID: "broken.py", Text: "def broken(:\n    pass\n"},
	}

	result, err := New().Analyze(context.Background(), units)
	require.NoError(t, err, "one bad unit must not fail the corpus")

	assert.Equal(t, 1, result.ParseFailures)
	require.Len(t, result.Units, 2)

	broken := result.Units[0]
	require.Equal(t, "broken.py", broken.Unit)
	require.NotNil(t, broken.ParseError)
	assert.Nil(t, broken.Complexity)
	assert.Nil(t, broken.Docs)
	require.NotNil(t, broken.Style, "style runs on raw text")
	assert.Equal(t, broken.Style.Score, broken.Score)

	good := result.Units[1]
	assert.Nil(t, good.ParseError)
	require.NotNil(t, good.Complexity)
}

func TestAnalyze_BadWeightsFailFast(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Weights.Duplication = 24

	_, err := New(WithConfig(cfg)).Analyze(context.Background(), []source.Unit{
		{ID: "a.py", Text: "x = 1\n"},
	})
	require.Error(t, err)

	var cfgErr *config.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestAnalyze_EmptyCorpus(t *testing.T) {
	result, err := New().Analyze(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.UnitsAnalyzed)
	assert.Empty(t, result.Units)
	assert.Equal(t, 100.0, result.Score)
	assert.Equal(t, BandExcellent, result.Band)
}

func TestAnalyze_Deterministic(t *testing.T) {
	units := []source.Unit{
		{ID: "a.py", Text: "def first(x):\n    if x:\n        return 1\n    return 0\n"},
		{ID: "b.py", Text: "def second(y):\n    for item in y:\n        print(item)\n"},
	}

	first, err := New().Analyze(context.Background(), units)
	require.NoError(t, err)
	second, err := New().Analyze(context.Background(), units)
	require.NoError(t, err)

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Components, second.Components)
	for i := range first.Units {
		assert.Equal(t, first.Units[i].Unit, second.Units[i].Unit)
		assert.Equal(t, first.Units[i].Score, second.Units[i].Score)
	}
}

func TestAnalyze_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Analyze(ctx, []source.Unit{{ID: "a.py", Text: "x = 1\n"}})
	require.ErrorIs(t, err, context.Canceled)
}
