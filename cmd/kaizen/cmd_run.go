package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kaizenhq/kaizen/internal/benchmark"
	"github.com/kaizenhq/kaizen/internal/config"
	"github.com/kaizenhq/kaizen/internal/evaluator"
	"github.com/kaizenhq/kaizen/internal/feedback"
	"github.com/kaizenhq/kaizen/internal/generation"
	"github.com/kaizenhq/kaizen/internal/models"
	"github.com/kaizenhq/kaizen/internal/reporting"
)

func newRunCommand() *cobra.Command {
	var (
		agentID    string
		benchName  string
		catalogArg string
		passAt     []int
		parallel   bool
		workers    int
		outputPath string
		format     string
		verbose    bool
		minScore   float64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a benchmark against an agent",
		Long: `Run a benchmark problem set against an agent's generation backend.

Each problem's generated solution is evaluated in an isolated subprocess.
The aggregated result is persisted to the feedback store and can be
exported as JSON, markdown, HTML, or JUnit XML.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadEnvironment()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			opts, err := resolveRunOptions(cfg, benchName)
			if err != nil {
				return err
			}
			opts = overlayRunFlags(cmd, opts, passAt, parallel, workers)

			result, err := runBenchmark(cmd, cfg, logger, agentID, benchName, catalogArg, opts, verbose)
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), result)

			if outputPath != "" {
				if err := writeResult(result, outputPath, format); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nResults saved to: %s\n", outputPath) //nolint:errcheck
			}

			if minScore > 0 && result.Score < minScore {
				return &GateFailureError{Message: fmt.Sprintf(
					"score %.3f below required minimum %.3f", result.Score, minScore)}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&agentID, "agent", "a", "", "Agent identifier (required)")
	cmd.Flags().StringVarP(&benchName, "benchmark", "b", benchmark.DefaultFamily, "Benchmark family to run")
	cmd.Flags().StringVar(&catalogArg, "catalog", "", "Path to a YAML problem catalog (default: built-in set)")
	cmd.Flags().IntSliceVar(&passAt, "pass-at", nil, "k values to label on the pass ratio (default: 1)")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "Evaluate problems concurrently")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of concurrent workers (default: 4, requires --parallel)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file for the result")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json, md, html, junit")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output with per-problem progress")
	cmd.Flags().Float64Var(&minScore, "min-score", 0, "Fail with exit code 1 when the score is below this value")
	cmd.MarkFlagRequired("agent") //nolint:errcheck

	return cmd
}

// resolveRunOptions decodes the config file's options block for the
// requested family, when one is present.
func resolveRunOptions(cfg *config.Config, benchName string) (benchmark.Options, error) {
	raw, ok := cfg.Benchmarks[benchName]
	if !ok {
		return benchmark.Options{}, nil
	}
	opts, err := benchmark.DecodeOptions(raw)
	if err != nil {
		return benchmark.Options{}, fmt.Errorf("benchmarks.%s in config: %w", benchName, err)
	}
	return opts, nil
}

// overlayRunFlags applies run flags on top of configured options. Only
// flags the user actually set take effect.
func overlayRunFlags(cmd *cobra.Command, opts benchmark.Options, passAt []int, parallel bool, workers int) benchmark.Options {
	if cmd.Flags().Changed("pass-at") {
		opts.PassAtK = passAt
	}
	if cmd.Flags().Changed("parallel") {
		opts.Parallel = parallel
	}
	if cmd.Flags().Changed("workers") {
		opts.Workers = workers
	}
	return opts
}

// runBenchmark wires the pipeline for one benchmark run: catalog, evaluator,
// generation backend, feedback store sink, and orchestrator.
func runBenchmark(cmd *cobra.Command, cfg *config.Config, logger *zap.Logger, agentID, benchName, catalogArg string, opts benchmark.Options, verbose bool) (*models.BenchmarkResult, error) {
	catalog, err := resolveCatalog(catalogArg, cfg)
	if err != nil {
		return nil, err
	}

	eval, err := evaluator.New(cfg.EvalRoot,
		evaluator.WithTimeout(time.Duration(cfg.EvalTimeoutSecs)*time.Second),
		evaluator.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	gen, err := buildGenerationService(cfg, logger)
	if err != nil {
		return nil, err
	}

	store, err := feedback.NewStore(cfg.StorageRoot, feedback.WithStoreLogger(logger))
	if err != nil {
		return nil, err
	}

	cb := benchmark.NewCodeBenchmark(catalog, gen, eval, benchmark.WithBenchmarkLogger(logger))
	cb.OnProgress(newProgressReporter(cmd.OutOrStdout(), verbose).Listen)

	registry := benchmark.NewRegistry()
	registry.Register(cb)

	orch := benchmark.NewOrchestrator(registry, store, benchmark.WithOrchestratorLogger(logger))
	return orch.RunBenchmark(cmd.Context(), benchName, agentID, opts)
}

// resolveCatalog loads the flagged catalog, the configured one, or the
// built-in default, in that order.
func resolveCatalog(catalogArg string, cfg *config.Config) (*benchmark.Catalog, error) {
	path := catalogArg
	if path == "" {
		path = cfg.Catalog
	}
	if path == "" {
		return benchmark.DefaultCatalog(), nil
	}
	return benchmark.LoadCatalog(path)
}

// buildGenerationService constructs the OpenAI-backed generation service
// from configuration.
func buildGenerationService(cfg *config.Config, logger *zap.Logger) (generation.Service, error) {
	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("no OpenAI API key configured (set KAIZEN_OPENAI_API_KEY or openai.api_key in kaizen.yaml)")
	}
	return generation.NewOpenAIService(cfg.OpenAI.APIKey,
		generation.WithModel(cfg.OpenAI.Model),
		generation.WithRequestsPerMinute(cfg.OpenAI.RequestsPerMinute),
		generation.WithCallTimeout(time.Duration(cfg.OpenAI.TimeoutSecs)*time.Second),
		generation.WithOpenAILogger(logger))
}

// writeResult exports a benchmark result in the requested format.
func writeResult(result *models.BenchmarkResult, path, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		return os.WriteFile(path, data, 0o644)
	case "md":
		return os.WriteFile(path, []byte(reporting.RenderMarkdown(result)), 0o644)
	case "html":
		html, err := reporting.RenderHTML(result)
		if err != nil {
			return err
		}
		return os.WriteFile(path, []byte(html), 0o644)
	case "junit":
		return reporting.WriteJUnitXML(result, path)
	default:
		return fmt.Errorf("unknown output format %q (expected json, md, html, or junit)", format)
	}
}
