// Package reporting renders benchmark results for humans and CI systems.
// Renderers are pure views over result data, never a control surface.
package reporting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kaizenhq/kaizen/internal/models"
)

// InterpretScore returns a plain-language label for a score in [0,1].
func InterpretScore(score float64) string {
	pct := score * 100
	switch {
	case pct > 90:
		return "Excellent (>90%)"
	case pct >= 70:
		return "Good (70-90%)"
	case pct >= 50:
		return "Needs Work (50-70%)"
	default:
		return "Poor (<50%)"
	}
}

// RenderMarkdown produces the markdown summary of one benchmark result:
// headline score, metrics table, and a per-problem details block.
func RenderMarkdown(result *models.BenchmarkResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Benchmark Report: %s\n\n", result.BenchmarkType)
	fmt.Fprintf(&b, "- **Agent**: %s\n", result.AgentID)
	fmt.Fprintf(&b, "- **Score**: %.3f — %s\n", result.Score, InterpretScore(result.Score))
	fmt.Fprintf(&b, "- **Timestamp**: %s\n", result.Timestamp.Format("2006-01-02 15:04:05 MST"))
	if result.Details.CI95Lo != nil && result.Details.CI95Hi != nil {
		fmt.Fprintf(&b, "- **95%% CI**: [%.3f, %.3f]\n", *result.Details.CI95Lo, *result.Details.CI95Hi)
	}
	b.WriteString("\n## Metrics\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "| %s | %s |\n", name, formatMetric(result.Metrics[name]))
	}

	if len(result.Details.Problems) > 0 {
		b.WriteString("\n## Problems\n\n")
		b.WriteString("| Problem | Result | Duration | Error |\n|---|---|---|---|\n")
		for _, p := range result.Details.Problems {
			status := "PASS"
			if !p.Passed {
				status = "FAIL"
			}
			fmt.Fprintf(&b, "| %s | %s | %dms | %s |\n",
				p.ProblemID, status, p.DurationMs, escapeCell(p.Error))
		}
	}

	return b.String()
}

// formatMetric prints counts without a fractional part and ratios with
// three decimals.
func formatMetric(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.3f", v)
}

// escapeCell keeps error text from breaking markdown table rows.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}
