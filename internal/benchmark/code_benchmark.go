package benchmark

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kaizenhq/kaizen/internal/evaluator"
	"github.com/kaizenhq/kaizen/internal/generation"
	"github.com/kaizenhq/kaizen/internal/models"
	"github.com/kaizenhq/kaizen/internal/statistics"
)

// SolutionEvaluator is the evaluation boundary the benchmark depends on.
type SolutionEvaluator interface {
	Evaluate(ctx context.Context, p models.Problem, source string) evaluator.Verdict
}

// CodeBenchmark runs a problem catalog against a generation backend and the
// solution evaluator, aggregating pass@k metrics.
type CodeBenchmark struct {
	catalog *Catalog
	gen     generation.Service
	eval    SolutionEvaluator
	logger  *zap.Logger

	// notifyMu serializes listener invocation so parallel workers never
	// call a listener concurrently.
	notifyMu   sync.Mutex
	listenerMu sync.Mutex
	listeners  []ProgressListener
}

// CodeBenchmarkOption configures a CodeBenchmark.
type CodeBenchmarkOption func(*CodeBenchmark)

// WithBenchmarkLogger sets the structured logger.
func WithBenchmarkLogger(logger *zap.Logger) CodeBenchmarkOption {
	return func(cb *CodeBenchmark) { cb.logger = logger }
}

// NewCodeBenchmark builds a benchmark family over the given catalog.
func NewCodeBenchmark(catalog *Catalog, gen generation.Service, eval SolutionEvaluator, opts ...CodeBenchmarkOption) *CodeBenchmark {
	cb := &CodeBenchmark{
		catalog: catalog,
		gen:     gen,
		eval:    eval,
		logger:  zap.NewNop(),
	}
	for _, o := range opts {
		o(cb)
	}
	return cb
}

// Name returns the catalog's family name.
func (cb *CodeBenchmark) Name() string { return cb.catalog.Family() }

// OnProgress registers a progress listener.
func (cb *CodeBenchmark) OnProgress(listener ProgressListener) {
	cb.listenerMu.Lock()
	defer cb.listenerMu.Unlock()
	cb.listeners = append(cb.listeners, listener)
}

func (cb *CodeBenchmark) notify(event ProgressEvent) {
	cb.listenerMu.Lock()
	listeners := make([]ProgressListener, len(cb.listeners))
	copy(listeners, cb.listeners)
	cb.listenerMu.Unlock()

	cb.notifyMu.Lock()
	defer cb.notifyMu.Unlock()
	for _, listener := range listeners {
		listener(event)
	}
}

// Run solves every catalog problem for the agent and aggregates the result.
// Per-problem failures degrade to failed solutions; only an empty problem
// set aborts the run.
func (cb *CodeBenchmark) Run(ctx context.Context, agentID string, opts Options) (*models.BenchmarkResult, error) {
	opts = opts.withDefaults()

	problems, err := cb.catalog.ProblemsFor(opts.Language)
	if err != nil {
		return nil, err
	}

	cb.notify(ProgressEvent{EventType: EventBenchmarkStart, TotalProblems: len(problems)})
	start := time.Now()

	// Index-addressed results: the pool writes each solution to its own
	// slot, aggregation below reads only completed solutions.
	solutions := make([]models.Solution, len(problems))

	if opts.Parallel {
		g, groupCtx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)
		for i, p := range problems {
			g.Go(func() error {
				solutions[i] = cb.solveOne(groupCtx, agentID, p, i+1, len(problems))
				return nil
			})
		}
		// Workers never return errors; failures are captured per solution.
		_ = g.Wait()
	} else {
		for i, p := range problems {
			solutions[i] = cb.solveOne(ctx, agentID, p, i+1, len(problems))
		}
	}

	result := cb.buildResult(agentID, opts, solutions)

	cb.notify(ProgressEvent{
		EventType:     EventBenchmarkComplete,
		TotalProblems: len(problems),
		DurationMs:    time.Since(start).Milliseconds(),
		Score:         result.Score,
	})

	return result, nil
}

// solveOne generates and evaluates a single problem. A generation failure
// becomes a failed solution for this problem only.
func (cb *CodeBenchmark) solveOne(ctx context.Context, agentID string, p models.Problem, num, total int) models.Solution {
	cb.notify(ProgressEvent{
		EventType:     EventProblemStart,
		ProblemID:     p.ID,
		ProblemNum:    num,
		TotalProblems: total,
	})
	start := time.Now()

	sol := models.Solution{ProblemID: p.ID, Language: p.Language}

	source, err := cb.gen.GenerateSolution(ctx, agentID, p.Prompt, p.Language)
	if err != nil {
		sol.Error = fmt.Sprintf("generation failed: %v", err)
		sol.DurationMs = time.Since(start).Milliseconds()
		cb.logger.Warn("solution generation failed",
			zap.String("agent", agentID), zap.String("problem", p.ID), zap.Error(err))
	} else {
		sol.Source = source
		verdict := cb.eval.Evaluate(ctx, p, source)
		sol.Passed = verdict.Passed
		sol.Error = verdict.Error
		sol.DurationMs = time.Since(start).Milliseconds()
	}

	cb.notify(ProgressEvent{
		EventType:     EventProblemComplete,
		ProblemID:     p.ID,
		ProblemNum:    num,
		TotalProblems: total,
		Passed:        sol.Passed,
		Error:         sol.Error,
		DurationMs:    sol.DurationMs,
	})

	return sol
}

// buildResult aggregates completed solutions into a BenchmarkResult.
// Every requested k labels the same single-attempt solved/total ratio.
func (cb *CodeBenchmark) buildResult(agentID string, opts Options, solutions []models.Solution) *models.BenchmarkResult {
	total := len(solutions)
	solved := 0
	passSignal := make([]float64, 0, total)
	outcomes := make([]models.ProblemOutcome, 0, total)

	for _, sol := range solutions {
		if sol.Passed {
			solved++
			passSignal = append(passSignal, 1.0)
		} else {
			passSignal = append(passSignal, 0.0)
		}
		outcomes = append(outcomes, models.ProblemOutcome{
			ProblemID:  sol.ProblemID,
			Passed:     sol.Passed,
			Error:      sol.Error,
			DurationMs: sol.DurationMs,
		})
	}

	ratio := 0.0
	if total > 0 {
		ratio = float64(solved) / float64(total)
	}

	metrics := map[string]float64{
		models.MetricTotalProblems:  float64(total),
		models.MetricSolvedProblems: float64(solved),
	}
	for _, k := range opts.PassAtK {
		metrics[models.PassAtKey(k)] = ratio
	}
	// Score is defined as pass@1 even when the caller did not request k=1.
	metrics[models.PassAtKey(1)] = ratio

	details := models.ResultDetails{
		Language: opts.Language,
		Problems: outcomes,
	}
	if total >= 2 {
		ci := statistics.BootstrapCI(passSignal, 0.95)
		details.CI95Lo = &ci.Lower
		details.CI95Hi = &ci.Upper
	}

	return &models.BenchmarkResult{
		AgentID:       agentID,
		BenchmarkType: cb.Name(),
		Score:         metrics[models.PassAtKey(1)],
		Metrics:       metrics,
		Details:       details,
		Timestamp:     time.Now().UTC(),
	}
}
