package benchmark

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kaizenhq/kaizen/internal/models"
)

// Benchmark is one pluggable benchmark family.
type Benchmark interface {
	// Name returns the registry key for this family.
	Name() string

	// Run solves every problem in the family for the given agent and
	// returns the aggregated result.
	Run(ctx context.Context, agentID string, opts Options) (*models.BenchmarkResult, error)
}

// Registry maps declared benchmark identifiers to their implementations.
// Families are bound at configuration time, never inferred at runtime.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Benchmark
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Benchmark)}
}

// Register binds a benchmark under its name, replacing any prior binding.
func (r *Registry) Register(b Benchmark) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[b.Name()] = b
}

// Get resolves a benchmark by key; an unregistered key yields
// ErrUnknownBenchmark.
func (r *Registry) Get(name string) (Benchmark, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBenchmark, name)
	}
	return b, nil
}

// Names returns the registered keys in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
