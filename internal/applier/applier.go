// Package applier executes optimization plans against agent artifacts,
// producing a new artifact version per applied plan.
package applier

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kaizenhq/kaizen/internal/generation"
	"github.com/kaizenhq/kaizen/internal/models"
)

// Applier applies optimization plans. Improvements are applied strictly in
// priority order; a failed strategy leaves the source untouched, records
// the failure in the improvement's notes, and continues with the rest of
// the plan.
type Applier struct {
	gen       generation.Service
	artifacts *ArtifactStore
	logger    *zap.Logger
}

// Option configures an Applier.
type Option func(*Applier)

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Applier) { a.logger = logger }
}

// New builds an Applier over the generation backend and artifact store.
func New(gen generation.Service, artifacts *ArtifactStore, opts ...Option) *Applier {
	a := &Applier{
		gen:       gen,
		artifacts: artifacts,
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Apply runs every improvement in the plan against the artifact, in
// priority order, and saves the resulting next artifact version. The plan's
// improvements are mutated in place to reflect their final status.
func (a *Applier) Apply(ctx context.Context, plan *models.OptimizationPlan, artifact *models.Artifact) (*models.Artifact, error) {
	plan.SortByPriority()

	source := artifact.Source
	for i := range plan.Improvements {
		imp := &plan.Improvements[i]
		imp.Status = models.StatusInProgress

		updated, err := a.applyOne(ctx, imp, source, artifact.Language)
		if err != nil {
			// The improvement is still marked implemented: application is
			// best-effort and a strategy failure must not wedge the plan.
			imp.Notes = fmt.Sprintf("strategy failed, source unchanged: %v", err)
			a.logger.Warn("improvement strategy failed",
				zap.String("agent", plan.AgentID),
				zap.String("type", string(imp.Type)),
				zap.String("target", imp.Target),
				zap.Error(err))
		} else {
			source = updated
		}
		imp.Status = models.StatusImplemented
	}

	next := artifact.Next(source)
	if err := a.artifacts.Save(next); err != nil {
		return nil, fmt.Errorf("saving artifact v%d: %w", next.Version, err)
	}

	a.logger.Info("optimization plan applied",
		zap.String("agent", plan.AgentID),
		zap.String("plan", plan.Version),
		zap.Int("improvements", len(plan.Improvements)),
		zap.Int("artifact_version", next.Version))
	return next, nil
}

// applyOne dispatches a single improvement to its generation strategy.
func (a *Applier) applyOne(ctx context.Context, imp *models.Improvement, source, language string) (string, error) {
	switch imp.Type {
	case models.ImprovementRefactor:
		return a.gen.RefactorCode(ctx, source, language, imp.Description)
	case models.ImprovementFix:
		return a.gen.FixCode(ctx, source, language, imp.Description)
	case models.ImprovementOptimize:
		return a.gen.OptimizeCode(ctx, source, language)
	case models.ImprovementEnhance:
		formatted, err := a.gen.FormatCode(ctx, source, language)
		if err != nil {
			return "", err
		}
		return a.gen.DocumentCode(ctx, formatted, language)
	default:
		return "", fmt.Errorf("unknown improvement type %q", imp.Type)
	}
}
