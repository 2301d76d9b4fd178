package applier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaizenhq/kaizen/internal/generation"
	"github.com/kaizenhq/kaizen/internal/models"
)

func newTestStore(t *testing.T) *ArtifactStore {
	t.Helper()
	s, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func baseArtifact() *models.Artifact {
	return &models.Artifact{
		AgentID:   "agent-1",
		Version:   1,
		Source:    "def solve(): pass",
		Language:  "python",
		CreatedAt: time.Now().UTC(),
	}
}

func TestApplyOrdersByPriority(t *testing.T) {
	var order []string
	gen := &generation.StubService{
		OptimizeCodeFn: func(_ context.Context, source, _ string) (string, error) {
			order = append(order, "optimize")
			return source, nil
		},
		FixCodeFn: func(_ context.Context, source, _, _ string) (string, error) {
			order = append(order, "fix")
			return source, nil
		},
		RefactorCodeFn: func(_ context.Context, source, _, _ string) (string, error) {
			order = append(order, "refactor")
			return source, nil
		},
	}
	a := New(gen, newTestStore(t))

	plan := &models.OptimizationPlan{
		AgentID: "agent-1",
		Version: "plan-1",
		Improvements: []models.Improvement{
			{Type: models.ImprovementOptimize, Priority: models.PriorityLow, Status: models.StatusPlanned},
			{Type: models.ImprovementFix, Priority: models.PriorityCritical, Status: models.StatusPlanned},
			{Type: models.ImprovementRefactor, Priority: models.PriorityMedium, Status: models.StatusPlanned},
		},
	}

	_, err := a.Apply(context.Background(), plan, baseArtifact())
	require.NoError(t, err)

	assert.Equal(t, []string{"fix", "refactor", "optimize"}, order)
	for _, imp := range plan.Improvements {
		assert.Equal(t, models.StatusImplemented, imp.Status)
	}
}

func TestApplyThreadsSourceThroughStrategies(t *testing.T) {
	gen := &generation.StubService{
		FixCodeFn: func(_ context.Context, source, _, _ string) (string, error) {
			return source + "\n# fixed", nil
		},
		OptimizeCodeFn: func(_ context.Context, source, _ string) (string, error) {
			return source + "\n# optimized", nil
		},
	}
	store := newTestStore(t)
	a := New(gen, store)

	plan := &models.OptimizationPlan{
		AgentID: "agent-1",
		Improvements: []models.Improvement{
			{Type: models.ImprovementFix, Priority: models.PriorityHigh, Status: models.StatusPlanned},
			{Type: models.ImprovementOptimize, Priority: models.PriorityLow, Status: models.StatusPlanned},
		},
	}

	next, err := a.Apply(context.Background(), plan, baseArtifact())
	require.NoError(t, err)

	assert.Equal(t, 2, next.Version)
	assert.Equal(t, "def solve(): pass\n# fixed\n# optimized", next.Source)

	loaded, err := store.Latest("agent-1")
	require.NoError(t, err)
	assert.Equal(t, next.Source, loaded.Source)
}

func TestApplyEnhanceFormatsThenDocuments(t *testing.T) {
	gen := &generation.StubService{
		FormatCodeFn: func(_ context.Context, source, _ string) (string, error) {
			return source + "\n# formatted", nil
		},
		DocumentCodeFn: func(_ context.Context, source, _ string) (string, error) {
			return source + "\n# documented", nil
		},
	}
	a := New(gen, newTestStore(t))

	plan := &models.OptimizationPlan{
		AgentID: "agent-1",
		Improvements: []models.Improvement{
			{Type: models.ImprovementEnhance, Priority: models.PriorityMedium, Status: models.StatusPlanned},
		},
	}

	next, err := a.Apply(context.Background(), plan, baseArtifact())
	require.NoError(t, err)
	assert.Equal(t, "def solve(): pass\n# formatted\n# documented", next.Source)
}

func TestApplyStrategyFailureLeavesSourceUnchanged(t *testing.T) {
	gen := &generation.StubService{
		FixCodeFn: func(_ context.Context, _, _, _ string) (string, error) {
			return "", errors.New("backend unavailable")
		},
		OptimizeCodeFn: func(_ context.Context, source, _ string) (string, error) {
			return source + "\n# optimized", nil
		},
	}
	a := New(gen, newTestStore(t))

	plan := &models.OptimizationPlan{
		AgentID: "agent-1",
		Improvements: []models.Improvement{
			{Type: models.ImprovementFix, Priority: models.PriorityCritical, Status: models.StatusPlanned},
			{Type: models.ImprovementOptimize, Priority: models.PriorityLow, Status: models.StatusPlanned},
		},
	}

	next, err := a.Apply(context.Background(), plan, baseArtifact())
	require.NoError(t, err)

	// The failed fix contributed nothing; the optimize still ran.
	assert.Equal(t, "def solve(): pass\n# optimized", next.Source)

	assert.Equal(t, models.StatusImplemented, plan.Improvements[0].Status)
	assert.Contains(t, plan.Improvements[0].Notes, "backend unavailable")
	assert.Empty(t, plan.Improvements[1].Notes)
}

func TestApplyEmptyPlanStillVersions(t *testing.T) {
	a := New(&generation.StubService{}, newTestStore(t))

	next, err := a.Apply(context.Background(), &models.OptimizationPlan{AgentID: "agent-1"}, baseArtifact())
	require.NoError(t, err)
	assert.Equal(t, 2, next.Version)
	assert.Equal(t, "def solve(): pass", next.Source)
}

func TestArtifactStoreAppendOnly(t *testing.T) {
	store := newTestStore(t)
	artifact := baseArtifact()

	require.NoError(t, store.Save(artifact))
	err := store.Save(artifact)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestArtifactStoreLatest(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Latest("agent-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoArtifact)

	v1 := baseArtifact()
	require.NoError(t, store.Save(v1))
	v2 := v1.Next("def solve(): return 42")
	require.NoError(t, store.Save(v2))

	latest, err := store.Latest("agent-1")
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Version)
	assert.Equal(t, "def solve(): return 42", latest.Source)

	// Prior versions stay loadable.
	old, err := store.Load("agent-1", 1)
	require.NoError(t, err)
	assert.Equal(t, "def solve(): pass", old.Source)
}
