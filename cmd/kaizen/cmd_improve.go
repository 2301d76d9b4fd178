package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kaizenhq/kaizen/internal/applier"
	"github.com/kaizenhq/kaizen/internal/benchmark"
	"github.com/kaizenhq/kaizen/internal/config"
	"github.com/kaizenhq/kaizen/internal/feedback"
	"github.com/kaizenhq/kaizen/internal/models"
	"github.com/kaizenhq/kaizen/internal/planner"
	"github.com/kaizenhq/kaizen/internal/quality"
	"github.com/kaizenhq/kaizen/internal/statistics"
)

func newImproveCommand() *cobra.Command {
	var (
		agentID      string
		artifactPath string
		withQuality  bool
		recheck      bool
		benchName    string
		catalogArg   string
	)

	cmd := &cobra.Command{
		Use:   "improve",
		Short: "Plan and apply improvements to an agent",
		Long: `Build an optimization plan from the agent's latest benchmark results
(and optional static-quality findings), apply it to the agent's current
artifact, and store the new artifact version.

With --recheck, the benchmark is re-run after applying the plan and the
normalized score gain is reported.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadEnvironment()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			store, err := feedback.NewStore(cfg.StorageRoot, feedback.WithStoreLogger(logger))
			if err != nil {
				return err
			}
			artifacts, err := applier.NewArtifactStore(cfg.StorageRoot, applier.WithArtifactLogger(logger))
			if err != nil {
				return err
			}

			artifact, err := resolveArtifact(artifacts, agentID, artifactPath)
			if err != nil {
				return err
			}

			plannerOpts := []planner.Option{planner.WithLogger(logger)}
			if withQuality {
				plannerOpts = append(plannerOpts, planner.WithAnalyzer(quality.NewHeuristicAnalyzer()))
			}
			p := planner.New(plannerOpts...)

			results := store.LatestResults(agentID)
			plan, err := p.Plan(cmd.Context(), agentID, results, artifact)
			if err != nil {
				return err
			}
			if err := store.SavePlan(plan); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Plan %s: %d improvement(s)\n", plan.Version, len(plan.Improvements)) //nolint:errcheck
			for _, imp := range plan.Improvements {
				fmt.Fprintf(out, "  [%s] %s: %s\n", imp.Priority, imp.Type, imp.Description) //nolint:errcheck
			}
			if len(plan.Improvements) == 0 {
				fmt.Fprintln(out, "Nothing to improve.") //nolint:errcheck
				return nil
			}
			if artifact == nil {
				return fmt.Errorf("no artifact to apply the plan to; seed one with --artifact <source-file>")
			}

			gen, err := buildGenerationService(cfg, logger)
			if err != nil {
				return err
			}
			next, err := applier.New(gen, artifacts, applier.WithLogger(logger)).Apply(cmd.Context(), plan, artifact)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Applied plan %s: artifact v%d -> v%d\n", plan.Version, artifact.Version, next.Version) //nolint:errcheck

			if !recheck {
				return nil
			}
			return runRecheck(cmd, cfg, logger, store, agentID, benchName, catalogArg)
		},
	}

	cmd.Flags().StringVarP(&agentID, "agent", "a", "", "Agent identifier (required)")
	cmd.Flags().StringVar(&artifactPath, "artifact", "", "Seed source file for the agent's first artifact version")
	cmd.Flags().BoolVar(&withQuality, "with-quality", false, "Include static-quality findings in the plan")
	cmd.Flags().BoolVar(&recheck, "recheck", false, "Re-run the benchmark after applying and report the gain")
	cmd.Flags().StringVarP(&benchName, "benchmark", "b", benchmark.DefaultFamily, "Benchmark family for --recheck")
	cmd.Flags().StringVar(&catalogArg, "catalog", "", "Catalog path for --recheck (default: built-in set)")
	cmd.MarkFlagRequired("agent") //nolint:errcheck

	return cmd
}

// resolveArtifact returns the agent's latest artifact, seeding version 1
// from a source file when none exists and a seed path was given. A missing
// artifact without a seed is not an error; planning can proceed without one.
func resolveArtifact(artifacts *applier.ArtifactStore, agentID, seedPath string) (*models.Artifact, error) {
	artifact, err := artifacts.Latest(agentID)
	if err == nil {
		return artifact, nil
	}
	if !errors.Is(err, applier.ErrNoArtifact) {
		return nil, err
	}
	if seedPath == "" {
		return nil, nil
	}

	source, err := os.ReadFile(seedPath)
	if err != nil {
		return nil, fmt.Errorf("reading seed artifact: %w", err)
	}
	seed := (&models.Artifact{AgentID: agentID, Version: 0, Language: "python"}).Next(string(source))
	if err := artifacts.Save(seed); err != nil {
		return nil, err
	}
	return seed, nil
}

// runRecheck re-runs the benchmark after an improvement pass and reports
// the normalized gain over the previous score.
func runRecheck(cmd *cobra.Command, cfg *config.Config, logger *zap.Logger, store *feedback.Store, agentID, benchName, catalogArg string) error {
	var pre float64
	if prev, ok := store.LatestResults(agentID)[benchName]; ok {
		pre = prev.Score
	}

	result, err := runBenchmark(cmd, cfg, logger, agentID, benchName, catalogArg, benchmark.Options{}, false)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printSummary(out, result)
	fmt.Fprintf(out, "\nNormalized gain over previous score %.3f: %.3f\n", //nolint:errcheck
		pre, statistics.NormalizedGain(pre, result.Score))
	return nil
}
