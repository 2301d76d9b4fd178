package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FeedbackType classifies a feedback event.
type FeedbackType string

const (
	FeedbackPositive   FeedbackType = "positive"
	FeedbackNegative   FeedbackType = "negative"
	FeedbackNeutral    FeedbackType = "neutral"
	FeedbackSuggestion FeedbackType = "suggestion"
)

// Feedback sources.
const (
	SourceBenchmark = "benchmark"
	SourceHuman     = "human"
)

// Score thresholds for converting a benchmark result into feedback.
const (
	positiveScoreThreshold = 0.7
	neutralScoreThreshold  = 0.4
)

// FeedbackEvent is a unit of signal about an agent's behavior, either
// submitted directly or derived from a benchmark result. Immutable once
// ingested; identity is the generated ID.
type FeedbackEvent struct {
	ID        string         `json:"id"`
	AgentID   string         `json:"agent_id"`
	Source    string         `json:"source"`
	Type      FeedbackType   `json:"type"`
	Content   string         `json:"content"`
	Context   map[string]any `json:"context,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// FeedbackFromResult converts a benchmark result into a feedback event so
// benchmark outcomes and manual feedback share one consumption path.
// Score ≥ 0.7 is positive, ≥ 0.4 neutral, anything below negative.
func FeedbackFromResult(r *BenchmarkResult) FeedbackEvent {
	t := FeedbackNegative
	switch {
	case r.Score >= positiveScoreThreshold:
		t = FeedbackPositive
	case r.Score >= neutralScoreThreshold:
		t = FeedbackNeutral
	}

	return FeedbackEvent{
		ID:      uuid.NewString(),
		AgentID: r.AgentID,
		Source:  SourceBenchmark,
		Type:    t,
		Content: fmt.Sprintf("benchmark %s scored %.3f (%d/%d problems solved)",
			r.BenchmarkType, r.Score,
			int(r.Metrics[MetricSolvedProblems]), int(r.Metrics[MetricTotalProblems])),
		Context: map[string]any{
			"benchmark_type": r.BenchmarkType,
			"score":          r.Score,
		},
		Timestamp: r.Timestamp,
	}
}

// LearningExample is an (input, expected output) pair distilled from a
// feedback event for downstream training or analysis.
type LearningExample struct {
	Input          string         `json:"input"`
	ExpectedOutput string         `json:"expected_output"`
	Context        map[string]any `json:"context,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// LearningExampleFrom derives a learning example from a feedback event.
// Events whose context lacks both an input and an output are not usable and
// yield ok=false.
func LearningExampleFrom(ev FeedbackEvent) (LearningExample, bool) {
	input, okIn := ev.Context["input"].(string)
	output, okOut := ev.Context["output"].(string)
	if !okIn || !okOut || input == "" || output == "" {
		return LearningExample{}, false
	}

	return LearningExample{
		Input:          input,
		ExpectedOutput: output,
		Context: map[string]any{
			"feedback_id":   ev.ID,
			"feedback_type": string(ev.Type),
			"source":        ev.Source,
		},
		Metadata: ev.Metadata,
	}, true
}
