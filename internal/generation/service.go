// Package generation defines the external code-generation capability
// consumed by the benchmark orchestrator and the optimization applier.
//
// Capability failures are expected to degrade the caller's operation (an
// empty solution, unchanged code) rather than propagate as pipeline errors.
package generation

import "context"

// Service is the generation capability boundary.
type Service interface {
	// GenerateSolution produces a candidate solution for a benchmark prompt.
	GenerateSolution(ctx context.Context, agentID, prompt, language string) (string, error)

	// RefactorCode rewrites source following the given directive.
	RefactorCode(ctx context.Context, source, language, directive string) (string, error)

	// FormatCode normalizes the formatting of source.
	FormatCode(ctx context.Context, source, language string) (string, error)

	// DocumentCode adds documentation to source.
	DocumentCode(ctx context.Context, source, language string) (string, error)

	// FixCode regenerates source with the described defect as context.
	FixCode(ctx context.Context, source, language, defect string) (string, error)

	// OptimizeCode regenerates source directed at performance.
	OptimizeCode(ctx context.Context, source, language string) (string, error)
}
