package quality

import (
	"context"
	"regexp"
	"strings"
)

// maxLineLength is the style threshold for long-line findings.
const maxLineLength = 120

// rule matches one line-level pattern to a categorized finding.
type rule struct {
	pattern  *regexp.Regexp
	category string
	severity string
	message  string
}

var pythonRules = []rule{
	{regexp.MustCompile(`\bexcept\s*:`), CategoryBug, SeverityWarning, "bare except swallows all exceptions"},
	{regexp.MustCompile(`\beval\s*\(`), CategorySecurity, SeverityError, "eval() on dynamic input"},
	{regexp.MustCompile(`\bexec\s*\(`), CategorySecurity, SeverityError, "exec() on dynamic input"},
	{regexp.MustCompile(`==\s*None\b`), CategoryStyle, SeverityInfo, "compare to None with 'is'"},
	{regexp.MustCompile(`\bglobal\s+\w`), CategoryMaintainability, SeverityWarning, "global state mutation"},
	{regexp.MustCompile(`(?i)\b(TODO|FIXME)\b`), CategoryMaintainability, SeverityInfo, "unresolved TODO/FIXME"},
	{regexp.MustCompile(`\btime\.sleep\s*\(`), CategoryPerformance, SeverityWarning, "blocking sleep in hot path"},
}

var goRules = []rule{
	{regexp.MustCompile(`\bpanic\s*\(`), CategoryBug, SeverityWarning, "panic instead of error return"},
	{regexp.MustCompile(`(?i)\b(TODO|FIXME)\b`), CategoryMaintainability, SeverityInfo, "unresolved TODO/FIXME"},
	{regexp.MustCompile(`_\s*=\s*err\b`), CategoryBug, SeverityError, "discarded error"},
}

// HeuristicAnalyzer is a lightweight, local Analyzer built on line-level
// pattern rules. It gives the planning path real findings without a remote
// analysis service.
type HeuristicAnalyzer struct{}

var _ Analyzer = (*HeuristicAnalyzer)(nil)

// NewHeuristicAnalyzer returns a ready analyzer; it has no state.
func NewHeuristicAnalyzer() *HeuristicAnalyzer {
	return &HeuristicAnalyzer{}
}

func (a *HeuristicAnalyzer) Analyze(_ context.Context, source, language string) (*Report, error) {
	rules := pythonRules
	if language == "go" {
		rules = goRules
	}

	report := &Report{Metrics: map[string]float64{}}
	lines := strings.Split(source, "\n")

	for i, line := range lines {
		for _, r := range rules {
			if r.pattern.MatchString(line) {
				report.Issues = append(report.Issues, Issue{
					Category: r.category,
					Severity: r.severity,
					Message:  r.message,
					Line:     i + 1,
				})
			}
		}
		if len(line) > maxLineLength {
			report.Issues = append(report.Issues, Issue{
				Category: CategoryStyle,
				Severity: SeverityInfo,
				Message:  "line exceeds 120 characters",
				Line:     i + 1,
			})
		}
	}

	report.Metrics["lines"] = float64(len(lines))
	report.Metrics["issues"] = float64(len(report.Issues))
	return report, nil
}
