package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kaizenhq/kaizen/internal/benchmark"
	"github.com/kaizenhq/kaizen/internal/models"
)

func TestProgressReporterCompact(t *testing.T) {
	var buf bytes.Buffer
	r := newProgressReporter(&buf, false)

	r.Listen(benchmark.ProgressEvent{EventType: benchmark.EventBenchmarkStart, TotalProblems: 2})
	r.Listen(benchmark.ProgressEvent{EventType: benchmark.EventProblemComplete, ProblemID: "add", ProblemNum: 1, TotalProblems: 2, Passed: true})
	r.Listen(benchmark.ProgressEvent{EventType: benchmark.EventProblemComplete, ProblemID: "sub", ProblemNum: 2, TotalProblems: 2, Passed: false, Error: "assertion failed"})
	r.Listen(benchmark.ProgressEvent{EventType: benchmark.EventBenchmarkComplete, TotalProblems: 2, DurationMs: 1500})

	out := buf.String()
	assert.Contains(t, out, "Running 2 problems...")
	assert.Contains(t, out, ".F")
	assert.Contains(t, out, "Done in 1.5s")
}

func TestProgressReporterVerbose(t *testing.T) {
	var buf bytes.Buffer
	r := newProgressReporter(&buf, true)

	r.Listen(benchmark.ProgressEvent{
		EventType: benchmark.EventProblemComplete,
		ProblemID: "add", ProblemNum: 1, TotalProblems: 3,
		Passed: false, Error: "assertion failed\nsecond line", DurationMs: 120,
	})

	out := buf.String()
	assert.Contains(t, out, "[1/3]")
	assert.Contains(t, out, "add")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "assertion failed")
	assert.NotContains(t, out, "second line")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, &models.BenchmarkResult{
		AgentID:       "agent-1",
		BenchmarkType: "humaneval-mini",
		Score:         0.8,
		Metrics: map[string]float64{
			"pass@1":         0.8,
			"total_problems": 5,
		},
		Timestamp: time.Now(),
	})

	out := buf.String()
	assert.Contains(t, out, "humaneval-mini — agent agent-1")
	assert.Contains(t, out, "Score: 0.800")
	assert.Contains(t, out, "pass@1")
	assert.Contains(t, out, "total_problems")
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "abcdef", padRight("abcdef", 5))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250ms", formatDuration(250*time.Millisecond))
	assert.Equal(t, "2.5s", formatDuration(2500*time.Millisecond))
}
