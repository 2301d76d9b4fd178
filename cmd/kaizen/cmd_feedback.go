package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kaizenhq/kaizen/internal/feedback"
	"github.com/kaizenhq/kaizen/internal/models"
)

func newFeedbackCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Submit and inspect agent feedback",
	}

	cmd.AddCommand(newFeedbackAddCommand())
	cmd.AddCommand(newFeedbackListCommand())
	cmd.AddCommand(newFeedbackExamplesCommand())

	return cmd
}

func openStore() (*feedback.Store, error) {
	cfg, logger, err := loadEnvironment()
	if err != nil {
		return nil, err
	}
	return feedback.NewStore(cfg.StorageRoot, feedback.WithStoreLogger(logger))
}

func newFeedbackAddCommand() *cobra.Command {
	var (
		agentID string
		fbType  string
		content string
		input   string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a feedback event for an agent",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			ev := models.FeedbackEvent{
				AgentID: agentID,
				Source:  models.SourceHuman,
				Type:    models.FeedbackType(fbType),
				Content: content,
			}
			if input != "" || output != "" {
				ev.Context = map[string]any{"input": input, "output": output}
			}

			stored, err := store.AddFeedback(ev)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded feedback %s\n", stored.ID) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().StringVarP(&agentID, "agent", "a", "", "Agent identifier (required)")
	cmd.Flags().StringVarP(&fbType, "type", "t", string(models.FeedbackSuggestion), "Feedback type: positive, negative, neutral, suggestion")
	cmd.Flags().StringVarP(&content, "content", "c", "", "Feedback text (required)")
	cmd.Flags().StringVar(&input, "input", "", "The prompt/input the feedback refers to")
	cmd.Flags().StringVar(&output, "output", "", "The expected output for the input")
	cmd.MarkFlagRequired("agent")   //nolint:errcheck
	cmd.MarkFlagRequired("content") //nolint:errcheck

	return cmd
}

func newFeedbackListCommand() *cobra.Command {
	var agentID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List an agent's feedback events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			events := store.ForAgent(agentID)
			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No feedback recorded.") //nolint:errcheck
				return nil
			}
			for _, ev := range events {
				fmt.Fprintf(out, "%s  %-10s %-10s %s\n", //nolint:errcheck
					ev.Timestamp.Format("2006-01-02 15:04"), ev.Type, ev.Source, ev.Content)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&agentID, "agent", "a", "", "Agent identifier (required)")
	cmd.MarkFlagRequired("agent") //nolint:errcheck

	return cmd
}

func newFeedbackExamplesCommand() *cobra.Command {
	var (
		agentID string
		save    bool
	)

	cmd := &cobra.Command{
		Use:   "examples",
		Short: "Derive learning examples from an agent's feedback",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			examples := store.DeriveLearningExamples(agentID)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Derived %d learning example(s)\n", len(examples)) //nolint:errcheck
			for _, ex := range examples {
				fmt.Fprintf(out, "  %s -> %s\n", firstLine(ex.Input), firstLine(ex.ExpectedOutput)) //nolint:errcheck
			}

			if save && len(examples) > 0 {
				if err := store.SaveLearningExamples(agentID, examples); err != nil {
					return err
				}
				fmt.Fprintln(out, "Saved.") //nolint:errcheck
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&agentID, "agent", "a", "", "Agent identifier (required)")
	cmd.Flags().BoolVar(&save, "save", false, "Persist the derived examples")
	cmd.MarkFlagRequired("agent") //nolint:errcheck

	return cmd
}
