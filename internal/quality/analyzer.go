// Package quality defines the optional static-analysis capability consumed
// by the optimization planner. Absence of an analyzer is tolerated; the
// planner simply skips finding-derived improvements.
package quality

import "context"

// Issue categories understood by the planner's classification tables.
const (
	CategoryBug             = "bug"
	CategorySecurity        = "security"
	CategoryPerformance     = "performance"
	CategoryStyle           = "style"
	CategoryMaintainability = "maintainability"
)

// Issue severities understood by the planner's classification tables.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Issue is one static finding in analyzed source.
type Issue struct {
	Category string `json:"category"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line,omitempty"`
}

// Report is the result of analyzing one source text.
type Report struct {
	Issues  []Issue            `json:"issues"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
}

// Analyzer is the code-quality capability boundary.
type Analyzer interface {
	Analyze(ctx context.Context, source, language string) (*Report, error)
}
