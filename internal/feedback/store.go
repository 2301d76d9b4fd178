// Package feedback persists feedback events, benchmark results, learning
// examples, and optimization plans as JSON files under a storage root.
package feedback

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kaizenhq/kaizen/internal/models"
)

// Storage layout under the root directory.
const (
	feedbackDir  = "feedback"
	benchmarkDir = "benchmarks"
	analysisDir  = "analysis"
	learningDir  = "learning"
)

// Store is a file-backed feedback repository. Records are immutable once
// written; the in-memory index is rebuilt from disk at construction so a
// store survives process restarts.
type Store struct {
	root   string
	logger *zap.Logger

	mu       sync.RWMutex
	events   []models.FeedbackEvent
	results  []*models.BenchmarkResult
	examples map[string][]models.LearningExample
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the structured logger.
func WithStoreLogger(logger *zap.Logger) StoreOption {
	return func(s *Store) { s.logger = logger }
}

// NewStore opens (creating if needed) a feedback store rooted at dir and
// loads all existing records. Unreadable individual records are skipped
// with a warning rather than failing the whole load.
func NewStore(dir string, opts ...StoreOption) (*Store, error) {
	s := &Store{
		root:     dir,
		logger:   zap.NewNop(),
		examples: make(map[string][]models.LearningExample),
	}
	for _, o := range opts {
		o(s)
	}

	for _, sub := range []string{feedbackDir, benchmarkDir, analysisDir, learningDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory %s: %w", sub, err)
		}
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

func (s *Store) load() error {
	if err := loadDir(s, feedbackDir, func(ev models.FeedbackEvent) {
		s.events = append(s.events, ev)
	}); err != nil {
		return err
	}
	if err := loadDir(s, benchmarkDir, func(r models.BenchmarkResult) {
		s.results = append(s.results, &r)
	}); err != nil {
		return err
	}

	// Keep load order deterministic regardless of directory iteration.
	sort.SliceStable(s.events, func(a, b int) bool {
		return s.events[a].Timestamp.Before(s.events[b].Timestamp)
	})
	sort.SliceStable(s.results, func(a, b int) bool {
		return s.results[a].Timestamp.Before(s.results[b].Timestamp)
	})
	return nil
}

// loadDir decodes every JSON file in a store subdirectory, skipping files
// that fail to parse.
func loadDir[T any](s *Store, sub string, add func(T)) error {
	dir := filepath.Join(s.root, sub)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable record", zap.String("path", path), zap.Error(err))
			continue
		}
		var record T
		if err := json.Unmarshal(data, &record); err != nil {
			s.logger.Warn("skipping corrupt record", zap.String("path", path), zap.Error(err))
			continue
		}
		add(record)
	}
	return nil
}

// writeJSON marshals a record into the given store subdirectory.
func (s *Store) writeJSON(sub, name string, record any) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s record: %w", sub, err)
	}
	path := filepath.Join(s.root, sub, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// AddFeedback ingests a feedback event. A missing ID or timestamp is filled
// in; the stored event is returned.
func (s *Store) AddFeedback(ev models.FeedbackEvent) (models.FeedbackEvent, error) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	if err := s.writeJSON(feedbackDir, ev.ID+".json", ev); err != nil {
		return models.FeedbackEvent{}, err
	}

	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()

	s.logger.Debug("feedback recorded",
		zap.String("agent", ev.AgentID), zap.String("type", string(ev.Type)))
	return ev, nil
}

// AddBenchmarkResult persists a benchmark result and ingests the feedback
// event derived from it, so benchmark outcomes flow through the same
// analysis path as manual feedback.
func (s *Store) AddBenchmarkResult(result *models.BenchmarkResult) error {
	if err := s.writeJSON(benchmarkDir, uuid.NewString()+".json", result); err != nil {
		return err
	}

	s.mu.Lock()
	s.results = append(s.results, result)
	s.mu.Unlock()

	_, err := s.AddFeedback(models.FeedbackFromResult(result))
	return err
}

// ForAgent returns the agent's feedback events in ingestion order.
func (s *Store) ForAgent(agentID string) []models.FeedbackEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.FeedbackEvent
	for _, ev := range s.events {
		if ev.AgentID == agentID {
			out = append(out, ev)
		}
	}
	return out
}

// ResultsForAgent returns the agent's benchmark results in ingestion order.
func (s *Store) ResultsForAgent(agentID string) []*models.BenchmarkResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.BenchmarkResult
	for _, r := range s.results {
		if r.AgentID == agentID {
			out = append(out, r)
		}
	}
	return out
}

// LatestResults returns the most recent result per benchmark type for the
// agent, keyed by benchmark type.
func (s *Store) LatestResults(agentID string) map[string]*models.BenchmarkResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := make(map[string]*models.BenchmarkResult)
	for _, r := range s.results {
		if r.AgentID != agentID {
			continue
		}
		prev, ok := latest[r.BenchmarkType]
		if !ok || r.Timestamp.After(prev.Timestamp) {
			latest[r.BenchmarkType] = r
		}
	}
	return latest
}

// DeriveLearningExamples distills the agent's feedback into learning
// examples. Events without usable input/output context are skipped. The
// derivation is pure: nothing is persisted until SaveLearningExamples.
func (s *Store) DeriveLearningExamples(agentID string) []models.LearningExample {
	events := s.ForAgent(agentID)

	var examples []models.LearningExample
	for _, ev := range events {
		if ex, ok := models.LearningExampleFrom(ev); ok {
			examples = append(examples, ex)
		}
	}
	return examples
}

// SaveLearningExamples persists a derived example set for the agent,
// replacing any prior set.
func (s *Store) SaveLearningExamples(agentID string, examples []models.LearningExample) error {
	if err := s.writeJSON(learningDir, agentID+".json", examples); err != nil {
		return err
	}

	s.mu.Lock()
	s.examples[agentID] = examples
	s.mu.Unlock()
	return nil
}

// LearningExamples returns the saved example set for the agent, loading
// from disk when not cached.
func (s *Store) LearningExamples(agentID string) ([]models.LearningExample, error) {
	s.mu.RLock()
	cached, ok := s.examples[agentID]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	path := filepath.Join(s.root, learningDir, agentID+".json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading learning examples: %w", err)
	}
	var examples []models.LearningExample
	if err := json.Unmarshal(data, &examples); err != nil {
		return nil, fmt.Errorf("parsing learning examples: %w", err)
	}

	s.mu.Lock()
	s.examples[agentID] = examples
	s.mu.Unlock()
	return examples, nil
}

// SavePlan archives an optimization plan under analysis/ for later review.
func (s *Store) SavePlan(plan *models.OptimizationPlan) error {
	name := fmt.Sprintf("%s-%s.json", plan.AgentID, plan.Version)
	return s.writeJSON(analysisDir, name, plan)
}

// LoadPlan retrieves an archived plan by agent and version.
func (s *Store) LoadPlan(agentID, version string) (*models.OptimizationPlan, error) {
	path := filepath.Join(s.root, analysisDir, fmt.Sprintf("%s-%s.json", agentID, version))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan: %w", err)
	}
	var plan models.OptimizationPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing plan: %w", err)
	}
	return &plan, nil
}
