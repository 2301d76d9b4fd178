package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaizenhq/kaizen/internal/models"
	"github.com/kaizenhq/kaizen/internal/quality"
)

type stubAnalyzer struct {
	report *quality.Report
	err    error
}

func (s *stubAnalyzer) Analyze(_ context.Context, _, _ string) (*quality.Report, error) {
	return s.report, s.err
}

func TestPlanLowScoresYieldOptimizeImprovements(t *testing.T) {
	p := New()

	results := map[string]*models.BenchmarkResult{
		"humaneval-mini": {BenchmarkType: "humaneval-mini", Score: 0.4},
		"refactor-suite": {BenchmarkType: "refactor-suite", Score: 0.55},
		"style-suite":    {BenchmarkType: "style-suite", Score: 0.9},
	}

	plan, err := p.Plan(context.Background(), "agent-1", results, nil)
	require.NoError(t, err)

	require.Len(t, plan.Improvements, 2)
	for _, imp := range plan.Improvements {
		assert.Equal(t, models.ImprovementOptimize, imp.Type)
		assert.Equal(t, models.PriorityHigh, imp.Priority)
		assert.Equal(t, models.StatusPlanned, imp.Status)
	}
	// Sorted benchmark order.
	assert.Equal(t, "humaneval-mini", plan.Improvements[0].Target)
	assert.Equal(t, "refactor-suite", plan.Improvements[1].Target)

	// Two optimize improvements at 0.2 performance each.
	assert.InDelta(t, 0.4, plan.ExpectedImpact.Performance, 1e-9)
	assert.InDelta(t, 0.2, plan.ExpectedImpact.Benchmarks["humaneval-mini"], 1e-9)
	assert.InDelta(t, 0.2, plan.ExpectedImpact.Benchmarks["refactor-suite"], 1e-9)
}

func TestPlanScoreAtThresholdNotPlanned(t *testing.T) {
	p := New()

	plan, err := p.Plan(context.Background(), "agent-1", map[string]*models.BenchmarkResult{
		"humaneval-mini": {BenchmarkType: "humaneval-mini", Score: 0.7},
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, plan.Improvements)
}

func TestPlanClassifiesFindings(t *testing.T) {
	analyzer := &stubAnalyzer{report: &quality.Report{Issues: []quality.Issue{
		{Category: quality.CategoryBug, Severity: quality.SeverityCritical, Message: "bare except swallows errors"},
		{Category: quality.CategorySecurity, Severity: quality.SeverityError, Message: "eval on untrusted input"},
		{Category: quality.CategoryPerformance, Severity: quality.SeverityWarning, Message: "quadratic concatenation"},
		{Category: quality.CategoryStyle, Severity: quality.SeverityInfo, Message: "line exceeds 120 chars"},
		{Category: quality.CategoryMaintainability, Severity: quality.SeverityWarning, Message: "deeply nested branches"},
		{Category: "mystery", Severity: "unheard-of", Message: "unknown finding"},
	}}}
	p := New(WithAnalyzer(analyzer))

	artifact := &models.Artifact{AgentID: "agent-1", Version: 1, Source: "code", Language: "python"}
	plan, err := p.Plan(context.Background(), "agent-1", nil, artifact)
	require.NoError(t, err)
	require.Len(t, plan.Improvements, 6)

	expected := []struct {
		typ models.ImprovementType
		pri models.Priority
	}{
		{models.ImprovementFix, models.PriorityCritical},
		{models.ImprovementFix, models.PriorityHigh},
		{models.ImprovementOptimize, models.PriorityMedium},
		{models.ImprovementEnhance, models.PriorityLow},
		{models.ImprovementEnhance, models.PriorityMedium},
		{models.ImprovementRefactor, models.PriorityMedium},
	}
	for i, want := range expected {
		assert.Equal(t, want.typ, plan.Improvements[i].Type, "improvement %d type", i)
		assert.Equal(t, want.pri, plan.Improvements[i].Priority, "improvement %d priority", i)
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	results := map[string]*models.BenchmarkResult{
		"humaneval-mini": {BenchmarkType: "humaneval-mini", Score: 0.3},
		"refactor-suite": {BenchmarkType: "refactor-suite", Score: 0.6},
	}
	p := New()

	first, err := p.Plan(context.Background(), "agent-1", results, nil)
	require.NoError(t, err)
	second, err := p.Plan(context.Background(), "agent-1", results, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Version, second.Version)
	assert.Equal(t, first.Improvements, second.Improvements)
	assert.Equal(t, first.ExpectedImpact, second.ExpectedImpact)
}

func TestPlanVersionChangesWithInputs(t *testing.T) {
	p := New()

	a, err := p.Plan(context.Background(), "agent-1", map[string]*models.BenchmarkResult{
		"humaneval-mini": {BenchmarkType: "humaneval-mini", Score: 0.3},
	}, nil)
	require.NoError(t, err)
	b, err := p.Plan(context.Background(), "agent-1", map[string]*models.BenchmarkResult{
		"humaneval-mini": {BenchmarkType: "humaneval-mini", Score: 0.5},
	}, nil)
	require.NoError(t, err)

	assert.NotEqual(t, a.Version, b.Version)
}

func TestPlanDoesNotMutateInputs(t *testing.T) {
	result := &models.BenchmarkResult{BenchmarkType: "humaneval-mini", Score: 0.3}
	results := map[string]*models.BenchmarkResult{"humaneval-mini": result}
	p := New()

	_, err := p.Plan(context.Background(), "agent-1", results, nil)
	require.NoError(t, err)

	assert.Equal(t, 0.3, result.Score)
	assert.Len(t, results, 1)
}

func TestPlanAnalyzerSkippedWithoutArtifact(t *testing.T) {
	analyzer := &stubAnalyzer{report: &quality.Report{Issues: []quality.Issue{
		{Category: quality.CategoryBug, Severity: quality.SeverityError, Message: "should not appear"},
	}}}
	p := New(WithAnalyzer(analyzer))

	plan, err := p.Plan(context.Background(), "agent-1", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, plan.Improvements)
}
