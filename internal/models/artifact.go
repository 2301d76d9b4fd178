package models

import "time"

// Artifact is one version of an agent's implementation. Applying an
// optimization plan produces a new artifact with the next version number;
// prior versions are kept for regression comparison.
type Artifact struct {
	AgentID   string    `json:"agent_id"`
	Version   int       `json:"version"`
	Source    string    `json:"source"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

// Next returns a new artifact superseding a with the given source text.
func (a *Artifact) Next(source string) *Artifact {
	return &Artifact{
		AgentID:   a.AgentID,
		Version:   a.Version + 1,
		Source:    source,
		Language:  a.Language,
		CreatedAt: time.Now().UTC(),
	}
}
