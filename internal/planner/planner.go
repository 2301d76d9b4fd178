// Package planner turns benchmark outcomes and quality findings into
// deterministic optimization plans.
package planner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kaizenhq/kaizen/internal/models"
	"github.com/kaizenhq/kaizen/internal/quality"
)

// Benchmark scores below this threshold trigger an optimize improvement.
const improvementScoreThreshold = 0.7

// Expected score delta attributed to one benchmark-driven optimization.
const benchmarkImpactDelta = 0.2

// Planner derives optimization plans. Given identical inputs it produces an
// identical plan, version string included.
type Planner struct {
	analyzer quality.Analyzer
	logger   *zap.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithAnalyzer attaches a static analyzer whose findings become
// finding-driven improvements. Without one, plans contain only
// benchmark-driven improvements.
func WithAnalyzer(a quality.Analyzer) Option {
	return func(p *Planner) { p.analyzer = a }
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Planner) { p.logger = logger }
}

// New builds a Planner.
func New(opts ...Option) *Planner {
	p := &Planner{logger: zap.NewNop()}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Plan builds an optimization plan from the agent's latest benchmark
// results and, when an analyzer and artifact are present, from static
// findings on the artifact source. Inputs are never mutated.
func (p *Planner) Plan(ctx context.Context, agentID string, results map[string]*models.BenchmarkResult, artifact *models.Artifact) (*models.OptimizationPlan, error) {
	var improvements []models.Improvement

	// Iterate benchmarks in sorted order so the plan is reproducible.
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		r := results[name]
		if r.Score >= improvementScoreThreshold {
			continue
		}
		improvements = append(improvements, models.Improvement{
			Type:   models.ImprovementOptimize,
			Target: name,
			Description: fmt.Sprintf("raise %s score from %.3f toward %.2f",
				name, r.Score, improvementScoreThreshold),
			Priority: models.PriorityHigh,
			Impact: models.Impact{
				Benchmarks:  map[string]float64{name: benchmarkImpactDelta},
				Performance: benchmarkImpactDelta,
			},
			Status: models.StatusPlanned,
		})
	}

	if p.analyzer != nil && artifact != nil && artifact.Source != "" {
		findings, err := p.findingImprovements(ctx, artifact)
		if err != nil {
			return nil, err
		}
		improvements = append(improvements, findings...)
	}

	plan := &models.OptimizationPlan{
		AgentID:      agentID,
		Improvements: improvements,
		CreatedAt:    time.Now().UTC(),
	}
	for _, imp := range improvements {
		plan.ExpectedImpact.Add(imp.Impact)
	}

	version, err := planVersion(agentID, improvements)
	if err != nil {
		return nil, err
	}
	plan.Version = version

	p.logger.Info("optimization plan built",
		zap.String("agent", agentID),
		zap.String("version", plan.Version),
		zap.Int("improvements", len(improvements)))
	return plan, nil
}

// findingImprovements converts analyzer issues into improvements using the
// category and severity classification tables.
func (p *Planner) findingImprovements(ctx context.Context, artifact *models.Artifact) ([]models.Improvement, error) {
	report, err := p.analyzer.Analyze(ctx, artifact.Source, artifact.Language)
	if err != nil {
		return nil, fmt.Errorf("analyzing artifact v%d: %w", artifact.Version, err)
	}

	improvements := make([]models.Improvement, 0, len(report.Issues))
	for _, issue := range report.Issues {
		improvements = append(improvements, models.Improvement{
			Type:        typeForCategory(issue.Category),
			Target:      artifact.AgentID,
			Description: issue.Message,
			Priority:    priorityForSeverity(issue.Severity),
			Impact:      impactForCategory(issue.Category),
			Status:      models.StatusPlanned,
		})
	}
	return improvements, nil
}

// typeForCategory maps an issue category to an improvement type.
// Unrecognized categories default to refactor.
func typeForCategory(category string) models.ImprovementType {
	switch category {
	case quality.CategoryBug, quality.CategorySecurity:
		return models.ImprovementFix
	case quality.CategoryPerformance:
		return models.ImprovementOptimize
	case quality.CategoryStyle, quality.CategoryMaintainability:
		return models.ImprovementEnhance
	default:
		return models.ImprovementRefactor
	}
}

// priorityForSeverity maps an issue severity to an application priority.
// Unrecognized severities default to medium.
func priorityForSeverity(severity string) models.Priority {
	switch severity {
	case quality.SeverityInfo:
		return models.PriorityLow
	case quality.SeverityWarning:
		return models.PriorityMedium
	case quality.SeverityError:
		return models.PriorityHigh
	case quality.SeverityCritical:
		return models.PriorityCritical
	default:
		return models.PriorityMedium
	}
}

// impactForCategory estimates the improvement's effect axis from its
// category.
func impactForCategory(category string) models.Impact {
	switch category {
	case quality.CategoryBug, quality.CategorySecurity:
		return models.Impact{Reliability: 0.1}
	case quality.CategoryPerformance:
		return models.Impact{Performance: 0.1}
	default:
		return models.Impact{Maintainability: 0.1}
	}
}

// planVersion derives a content-addressed plan version so replanning the
// same inputs yields the same identifier.
func planVersion(agentID string, improvements []models.Improvement) (string, error) {
	canonical, err := json.Marshal(struct {
		AgentID      string               `json:"agent_id"`
		Improvements []models.Improvement `json:"improvements"`
	}{agentID, improvements})
	if err != nil {
		return "", fmt.Errorf("hashing plan: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return "plan-" + hex.EncodeToString(sum[:4]), nil
}
