package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultWithScore(score float64) *BenchmarkResult {
	return &BenchmarkResult{
		AgentID:       "agent-1",
		BenchmarkType: "humaneval-mini",
		Score:         score,
		Metrics: map[string]float64{
			PassAtKey(1):         score,
			MetricTotalProblems:  10,
			MetricSolvedProblems: score * 10,
		},
		Timestamp: time.Now().UTC(),
	}
}

func TestFeedbackFromResult_Thresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  FeedbackType
	}{
		{0.85, FeedbackPositive},
		{0.7, FeedbackPositive},
		{0.5, FeedbackNeutral},
		{0.4, FeedbackNeutral},
		{0.39, FeedbackNegative},
		{0.0, FeedbackNegative},
	}

	for _, tt := range tests {
		ev := FeedbackFromResult(resultWithScore(tt.score))
		assert.Equal(t, tt.want, ev.Type, "score %.2f", tt.score)
		assert.Equal(t, "agent-1", ev.AgentID)
		assert.Equal(t, SourceBenchmark, ev.Source)
		assert.NotEmpty(t, ev.ID)
		assert.Equal(t, "humaneval-mini", ev.Context["benchmark_type"])
	}
}

func TestLearningExampleFrom(t *testing.T) {
	ev := FeedbackEvent{
		ID:      "fb-1",
		AgentID: "agent-1",
		Source:  SourceHuman,
		Type:    FeedbackSuggestion,
		Context: map[string]any{
			"input":  "write a sort function",
			"output": "def sort(xs): return sorted(xs)",
		},
	}

	ex, ok := LearningExampleFrom(ev)
	require.True(t, ok)
	assert.Equal(t, "write a sort function", ex.Input)
	assert.Equal(t, "def sort(xs): return sorted(xs)", ex.ExpectedOutput)
	assert.Equal(t, "fb-1", ex.Context["feedback_id"])
}

func TestLearningExampleFrom_MissingContext(t *testing.T) {
	tests := []struct {
		name string
		ctx  map[string]any
	}{
		{"nil context", nil},
		{"input only", map[string]any{"input": "x"}},
		{"output only", map[string]any{"output": "y"}},
		{"empty strings", map[string]any{"input": "", "output": ""}},
		{"non-string values", map[string]any{"input": 3, "output": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := LearningExampleFrom(FeedbackEvent{Context: tt.ctx})
			assert.False(t, ok)
		})
	}
}

func TestResultDetailsSolved(t *testing.T) {
	d := ResultDetails{Problems: []ProblemOutcome{
		{ProblemID: "p1", Passed: true},
		{ProblemID: "p2", Passed: false},
		{ProblemID: "p3", Passed: true},
	}}
	assert.Equal(t, 2, d.Solved())
}
