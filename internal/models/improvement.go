package models

import (
	"sort"
	"time"
)

// ImprovementType selects the application strategy for an improvement.
type ImprovementType string

const (
	ImprovementRefactor ImprovementType = "refactor"
	ImprovementEnhance  ImprovementType = "enhance"
	ImprovementFix      ImprovementType = "fix"
	ImprovementOptimize ImprovementType = "optimize"
)

// Priority orders improvements for application. Critical applies first.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Rank returns the application order of a priority; lower applies earlier.
// Unknown priorities sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// ImprovementStatus tracks an improvement through application.
// implemented is terminal.
type ImprovementStatus string

const (
	StatusPlanned     ImprovementStatus = "planned"
	StatusInProgress  ImprovementStatus = "in_progress"
	StatusImplemented ImprovementStatus = "implemented"
)

// Impact estimates the effect of an improvement across measurement axes.
type Impact struct {
	// Benchmarks maps benchmark id to the expected score delta.
	Benchmarks      map[string]float64 `json:"benchmarks,omitempty"`
	Performance     float64            `json:"performance"`
	Reliability     float64            `json:"reliability"`
	Maintainability float64            `json:"maintainability"`
}

// Add accumulates another impact vector coordinate-wise.
func (i *Impact) Add(other Impact) {
	if len(other.Benchmarks) > 0 && i.Benchmarks == nil {
		i.Benchmarks = make(map[string]float64, len(other.Benchmarks))
	}
	for id, delta := range other.Benchmarks {
		i.Benchmarks[id] += delta
	}
	i.Performance += other.Performance
	i.Reliability += other.Reliability
	i.Maintainability += other.Maintainability
}

// Improvement is one discrete, typed, prioritized change recommendation.
// It is mutated in place as it moves through Status and is owned by the plan
// that contains it.
type Improvement struct {
	Type        ImprovementType   `json:"type"`
	Target      string            `json:"target"`
	Description string            `json:"description"`
	Priority    Priority          `json:"priority"`
	Impact      Impact            `json:"impact"`
	Status      ImprovementStatus `json:"status"`
	// Notes records application diagnostics, e.g. a strategy error that was
	// swallowed during apply.
	Notes string `json:"notes,omitempty"`
}

// OptimizationPlan is an ordered batch of improvements for one agent,
// created once per planning pass and consumed exactly once by the applier.
type OptimizationPlan struct {
	AgentID        string        `json:"agent_id"`
	Version        string        `json:"version"`
	Improvements   []Improvement `json:"improvements"`
	ExpectedImpact Impact        `json:"expected_impact"`
	CreatedAt      time.Time     `json:"created_at"`
}

// SortByPriority orders the plan's improvements for application:
// critical, high, medium, low. The sort is stable so improvements of equal
// priority keep their planning order.
func (p *OptimizationPlan) SortByPriority() {
	sort.SliceStable(p.Improvements, func(a, b int) bool {
		return p.Improvements[a].Priority.Rank() < p.Improvements[b].Priority.Rank()
	})
}
