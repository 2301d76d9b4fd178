package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kaizenhq/kaizen/internal/models"
	"github.com/kaizenhq/kaizen/internal/reporting"
)

func newReportCommand() *cobra.Command {
	var (
		htmlOut  string
		junitOut string
	)

	cmd := &cobra.Command{
		Use:   "report <result.json>",
		Short: "Render a saved benchmark result",
		Long: `Render a saved benchmark result as a markdown summary.

Use --html or --junit to additionally write an HTML page or JUnit XML
file for CI consumption.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading result: %w", err)
			}
			var result models.BenchmarkResult
			if err := json.Unmarshal(data, &result); err != nil {
				return fmt.Errorf("parsing result: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), reporting.RenderMarkdown(&result)) //nolint:errcheck

			if htmlOut != "" {
				html, err := reporting.RenderHTML(&result)
				if err != nil {
					return err
				}
				if err := os.WriteFile(htmlOut, []byte(html), 0o644); err != nil {
					return fmt.Errorf("writing HTML report: %w", err)
				}
			}
			if junitOut != "" {
				if err := reporting.WriteJUnitXML(&result, junitOut); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&htmlOut, "html", "", "Also write an HTML report to this path")
	cmd.Flags().StringVar(&junitOut, "junit", "", "Also write a JUnit XML report to this path")

	return cmd
}
