package benchmark

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kaizenhq/kaizen/internal/models"
)

// ResultSink receives completed benchmark results. The feedback store
// implements it.
type ResultSink interface {
	AddBenchmarkResult(result *models.BenchmarkResult) error
}

// Orchestrator dispatches benchmark runs by name and forwards every
// completed result to the sink.
type Orchestrator struct {
	registry *Registry
	sink     ResultSink
	logger   *zap.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithOrchestratorLogger sets the structured logger.
func WithOrchestratorLogger(logger *zap.Logger) OrchestratorOption {
	return func(o *Orchestrator) { o.logger = logger }
}

// NewOrchestrator builds an orchestrator over the registry. sink may be nil
// when no feedback store is attached.
func NewOrchestrator(registry *Registry, sink ResultSink, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		registry: registry,
		sink:     sink,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunBenchmark runs the named benchmark for the agent and forwards the
// result to the sink. A forwarding failure is logged, not returned; the
// result is still handed back to the caller.
func (o *Orchestrator) RunBenchmark(ctx context.Context, name, agentID string, opts Options) (*models.BenchmarkResult, error) {
	bench, err := o.registry.Get(name)
	if err != nil {
		return nil, err
	}

	o.logger.Info("running benchmark",
		zap.String("benchmark", name), zap.String("agent", agentID))

	result, err := bench.Run(ctx, agentID, opts)
	if err != nil {
		return nil, fmt.Errorf("benchmark %q: %w", name, err)
	}

	if o.sink != nil {
		if err := o.sink.AddBenchmarkResult(result); err != nil {
			o.logger.Warn("failed to forward benchmark result",
				zap.String("benchmark", name), zap.String("agent", agentID), zap.Error(err))
		}
	}

	return result, nil
}

// RunAll runs every registered benchmark in name order and returns the
// results keyed by benchmark name. The first run error aborts the sweep.
func (o *Orchestrator) RunAll(ctx context.Context, agentID string, opts Options) (map[string]*models.BenchmarkResult, error) {
	results := make(map[string]*models.BenchmarkResult)
	for _, name := range o.registry.Names() {
		result, err := o.RunBenchmark(ctx, name, agentID, opts)
		if err != nil {
			return nil, err
		}
		results[name] = result
	}
	return results, nil
}
