package models

import (
	"fmt"
	"time"
)

// Metric keys populated by the benchmark orchestrator.
const (
	MetricTotalProblems  = "total_problems"
	MetricSolvedProblems = "solved_problems"
)

// PassAtKey returns the metric key for a pass@k value, e.g. "pass@1".
func PassAtKey(k int) string {
	return fmt.Sprintf("pass@%d", k)
}

// BenchmarkResult is the outcome of one orchestrator run for one agent.
// Results are persisted append-only; a new run produces a new result, never
// an update.
type BenchmarkResult struct {
	AgentID       string `json:"agent_id"`
	BenchmarkType string `json:"benchmark_type"`
	// Score is always metrics["pass@1"]; it is never set independently.
	Score     float64            `json:"score"`
	Metrics   map[string]float64 `json:"metrics"`
	Details   ResultDetails      `json:"details"`
	Timestamp time.Time          `json:"timestamp"`
}

// ResultDetails carries the per-problem breakdown of a run.
type ResultDetails struct {
	Language string           `json:"language,omitempty"`
	Problems []ProblemOutcome `json:"problems"`
	// CI95Lo/CI95Hi bound the bootstrap 95% confidence interval over the
	// per-problem pass signal, when at least two problems were evaluated.
	CI95Lo *float64 `json:"ci95_lo,omitempty"`
	CI95Hi *float64 `json:"ci95_hi,omitempty"`
}

// ProblemOutcome records pass/fail and error text for a single problem.
type ProblemOutcome struct {
	ProblemID  string `json:"problem_id"`
	Passed     bool   `json:"passed"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Solved returns the number of problems that passed.
func (d ResultDetails) Solved() int {
	n := 0
	for _, p := range d.Problems {
		if p.Passed {
			n++
		}
	}
	return n
}
