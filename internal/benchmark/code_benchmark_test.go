package benchmark

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaizenhq/kaizen/internal/evaluator"
	"github.com/kaizenhq/kaizen/internal/generation"
	"github.com/kaizenhq/kaizen/internal/models"
)

// scriptedEvaluator returns canned verdicts keyed by problem ID.
type scriptedEvaluator struct {
	mu       sync.Mutex
	verdicts map[string]evaluator.Verdict
	calls    []string
}

func (s *scriptedEvaluator) Evaluate(_ context.Context, p models.Problem, _ string) evaluator.Verdict {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, p.ID)
	return s.verdicts[p.ID]
}

func testCatalog(n int) *Catalog {
	problems := make([]models.Problem, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("p%d", i+1)
		problems = append(problems, models.Problem{
			ID:         id,
			Prompt:     "prompt " + id,
			EntryPoint: "solve",
			Test:       "def check(candidate):\n    assert True\n",
			Language:   "python",
		})
	}
	return &Catalog{family: "test-family", problems: problems}
}

func TestCodeBenchmarkScoresSolvedOverTotal(t *testing.T) {
	catalog := testCatalog(3)
	gen := &generation.StubService{Solutions: map[string]string{
		"prompt p1": "def solve(): pass",
		"prompt p2": "def solve(): pass",
		"prompt p3": "def solve(): pass",
	}}
	eval := &scriptedEvaluator{verdicts: map[string]evaluator.Verdict{
		"p1": {Passed: true},
		"p2": {Passed: true},
		"p3": {Passed: false, Error: "assertion failed"},
	}}

	cb := NewCodeBenchmark(catalog, gen, eval)
	result, err := cb.Run(context.Background(), "agent-1", Options{})
	require.NoError(t, err)

	assert.Equal(t, "agent-1", result.AgentID)
	assert.Equal(t, "test-family", result.BenchmarkType)
	assert.InDelta(t, 2.0/3.0, result.Score, 1e-9)
	assert.InDelta(t, 2.0/3.0, result.Metrics[models.PassAtKey(1)], 1e-9)
	assert.Equal(t, 3.0, result.Metrics[models.MetricTotalProblems])
	assert.Equal(t, 2.0, result.Metrics[models.MetricSolvedProblems])
	require.Len(t, result.Details.Problems, 3)
	assert.Equal(t, "assertion failed", result.Details.Problems[2].Error)
	require.NotNil(t, result.Details.CI95Lo)
	require.NotNil(t, result.Details.CI95Hi)
	assert.LessOrEqual(t, *result.Details.CI95Lo, result.Score)
	assert.GreaterOrEqual(t, *result.Details.CI95Hi, result.Score)
}

func TestCodeBenchmarkLabelsEveryRequestedK(t *testing.T) {
	catalog := testCatalog(2)
	gen := &generation.StubService{Solutions: map[string]string{
		"prompt p1": "src", "prompt p2": "src",
	}}
	eval := &scriptedEvaluator{verdicts: map[string]evaluator.Verdict{
		"p1": {Passed: true},
		"p2": {Passed: false},
	}}

	cb := NewCodeBenchmark(catalog, gen, eval)
	result, err := cb.Run(context.Background(), "agent-1", Options{PassAtK: []int{1, 5, 10}})
	require.NoError(t, err)

	// Single-attempt semantics: every k labels the same ratio.
	assert.InDelta(t, 0.5, result.Metrics["pass@1"], 1e-9)
	assert.InDelta(t, 0.5, result.Metrics["pass@5"], 1e-9)
	assert.InDelta(t, 0.5, result.Metrics["pass@10"], 1e-9)
}

func TestCodeBenchmarkGenerationFailureDegradesToFailedSolution(t *testing.T) {
	catalog := testCatalog(2)
	gen := &generation.StubService{
		GenerateSolutionFn: func(_ context.Context, _, prompt, _ string) (string, error) {
			if prompt == "prompt p1" {
				return "", errors.New("backend unavailable")
			}
			return "src", nil
		},
	}
	eval := &scriptedEvaluator{verdicts: map[string]evaluator.Verdict{
		"p2": {Passed: true},
	}}

	cb := NewCodeBenchmark(catalog, gen, eval)
	result, err := cb.Run(context.Background(), "agent-1", Options{})
	require.NoError(t, err)

	assert.InDelta(t, 0.5, result.Score, 1e-9)
	assert.False(t, result.Details.Problems[0].Passed)
	assert.Contains(t, result.Details.Problems[0].Error, "generation failed")

	// The failed problem was never handed to the evaluator.
	assert.Equal(t, []string{"p2"}, eval.calls)
}

func TestCodeBenchmarkUnknownLanguage(t *testing.T) {
	cb := NewCodeBenchmark(testCatalog(1), &generation.StubService{}, &scriptedEvaluator{})

	_, err := cb.Run(context.Background(), "agent-1", Options{Language: "cobol"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCodeBenchmarkParallelMatchesSequential(t *testing.T) {
	catalog := testCatalog(8)
	solutions := map[string]string{}
	verdicts := map[string]evaluator.Verdict{}
	for i := 1; i <= 8; i++ {
		id := fmt.Sprintf("p%d", i)
		solutions["prompt "+id] = "src"
		verdicts[id] = evaluator.Verdict{Passed: i%2 == 0}
	}
	gen := &generation.StubService{Solutions: solutions}

	seq := NewCodeBenchmark(catalog, gen, &scriptedEvaluator{verdicts: verdicts})
	seqResult, err := seq.Run(context.Background(), "agent-1", Options{})
	require.NoError(t, err)

	par := NewCodeBenchmark(catalog, gen, &scriptedEvaluator{verdicts: verdicts})
	parResult, err := par.Run(context.Background(), "agent-1", Options{Parallel: true, Workers: 3})
	require.NoError(t, err)

	assert.Equal(t, seqResult.Score, parResult.Score)
	assert.Equal(t, seqResult.Metrics, parResult.Metrics)

	// Outcomes stay in catalog order regardless of completion order.
	require.Len(t, parResult.Details.Problems, 8)
	for i, outcome := range parResult.Details.Problems {
		assert.Equal(t, fmt.Sprintf("p%d", i+1), outcome.ProblemID)
	}
}

func TestCodeBenchmarkEmitsProgressEvents(t *testing.T) {
	catalog := testCatalog(2)
	gen := &generation.StubService{Solutions: map[string]string{
		"prompt p1": "src", "prompt p2": "src",
	}}
	eval := &scriptedEvaluator{verdicts: map[string]evaluator.Verdict{
		"p1": {Passed: true}, "p2": {Passed: true},
	}}

	cb := NewCodeBenchmark(catalog, gen, eval)

	var mu sync.Mutex
	var events []EventType
	cb.OnProgress(func(ev ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev.EventType)
	})

	_, err := cb.Run(context.Background(), "agent-1", Options{})
	require.NoError(t, err)

	require.Len(t, events, 6)
	assert.Equal(t, EventBenchmarkStart, events[0])
	assert.Equal(t, EventBenchmarkComplete, events[5])
}

func TestCodeBenchmarkSerializesListenersUnderParallelism(t *testing.T) {
	const n = 16
	catalog := testCatalog(n)
	solutions := map[string]string{}
	verdicts := map[string]evaluator.Verdict{}
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("p%d", i)
		solutions["prompt "+id] = "src"
		verdicts[id] = evaluator.Verdict{Passed: true}
	}
	gen := &generation.StubService{Solutions: solutions}

	cb := NewCodeBenchmark(catalog, gen, &scriptedEvaluator{verdicts: verdicts})

	// The listener keeps unsynchronized state, relying on the serialized
	// delivery guarantee. Running under -race verifies it.
	var events []ProgressEvent
	inFlight := 0
	maxInFlight := 0
	cb.OnProgress(func(ev ProgressEvent) {
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		events = append(events, ev)
		inFlight--
	})

	_, err := cb.Run(context.Background(), "agent-1", Options{Parallel: true, Workers: 4})
	require.NoError(t, err)

	assert.Equal(t, 1, maxInFlight)
	// start + complete per problem, plus the run-level pair.
	require.Len(t, events, 2*n+2)
	completed := 0
	for _, ev := range events {
		if ev.EventType == EventProblemComplete {
			completed++
			assert.True(t, ev.Passed)
		}
	}
	assert.Equal(t, n, completed)
}
