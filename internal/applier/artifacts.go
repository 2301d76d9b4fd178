package applier

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kaizenhq/kaizen/internal/models"
)

// ErrNoArtifact indicates an agent has no stored artifact versions.
var ErrNoArtifact = errors.New("no artifact versions")

// ArtifactStore keeps versioned agent artifacts as JSON files under
// <root>/artifacts/<agent>/v<N>.json. Versions are append-only; prior
// versions stay available for regression comparison.
type ArtifactStore struct {
	root   string
	logger *zap.Logger
}

// ArtifactStoreOption configures an ArtifactStore.
type ArtifactStoreOption func(*ArtifactStore)

// WithArtifactLogger sets the structured logger.
func WithArtifactLogger(logger *zap.Logger) ArtifactStoreOption {
	return func(s *ArtifactStore) { s.logger = logger }
}

// NewArtifactStore opens an artifact store under root, creating the
// directory if needed.
func NewArtifactStore(root string, opts ...ArtifactStoreOption) (*ArtifactStore, error) {
	s := &ArtifactStore{
		root:   filepath.Join(root, "artifacts"),
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact store: %w", err)
	}
	return s, nil
}

func (s *ArtifactStore) versionPath(agentID string, version int) string {
	return filepath.Join(s.root, agentID, fmt.Sprintf("v%d.json", version))
}

// Save writes one artifact version. Overwriting an existing version is
// rejected so history stays append-only.
func (s *ArtifactStore) Save(artifact *models.Artifact) error {
	dir := filepath.Join(s.root, artifact.AgentID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating agent artifact dir: %w", err)
	}

	path := s.versionPath(artifact.AgentID, artifact.Version)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("artifact %s v%d already exists", artifact.AgentID, artifact.Version)
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}

	s.logger.Debug("artifact saved",
		zap.String("agent", artifact.AgentID), zap.Int("version", artifact.Version))
	return nil
}

// Load reads one artifact version.
func (s *ArtifactStore) Load(agentID string, version int) (*models.Artifact, error) {
	data, err := os.ReadFile(s.versionPath(agentID, version))
	if err != nil {
		return nil, fmt.Errorf("reading artifact %s v%d: %w", agentID, version, err)
	}
	var artifact models.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("parsing artifact %s v%d: %w", agentID, version, err)
	}
	return &artifact, nil
}

// Latest returns the agent's newest artifact version, or ErrNoArtifact when
// none exist.
func (s *ArtifactStore) Latest(agentID string) (*models.Artifact, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, agentID))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w for agent %q", ErrNoArtifact, agentID)
	}
	if err != nil {
		return nil, fmt.Errorf("listing artifacts for %s: %w", agentID, err)
	}

	latest := 0
	for _, entry := range entries {
		var v int
		if _, err := fmt.Sscanf(entry.Name(), "v%d.json", &v); err == nil && v > latest {
			latest = v
		}
	}
	if latest == 0 {
		return nil, fmt.Errorf("%w for agent %q", ErrNoArtifact, agentID)
	}
	return s.Load(agentID, latest)
}
