package benchmark

import "errors"

// Sentinel errors surfaced by the orchestration layer.
var (
	// ErrNotFound indicates an empty problem set for the requested language.
	ErrNotFound = errors.New("no problems found")

	// ErrUnknownBenchmark indicates a benchmark type with no registration.
	ErrUnknownBenchmark = errors.New("unknown benchmark")
)
