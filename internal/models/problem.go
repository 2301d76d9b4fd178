package models

// Problem is one benchmark task: a prompt, a reference test, and the entry
// point the candidate solution must expose. Problems are loaded once at
// catalog initialization and never mutated.
type Problem struct {
	ID string `yaml:"id" json:"id"`
	// Prompt is the task statement handed to the generation backend.
	Prompt string `yaml:"prompt" json:"prompt"`
	// EntryPoint is the name of the function the solution must define.
	EntryPoint string `yaml:"entry_point" json:"entry_point"`
	// Test is the reference test source. It must define a check(candidate)
	// routine that raises on failure.
	Test     string `yaml:"test" json:"test"`
	Language string `yaml:"language" json:"language"`
}

// Solution is one generated candidate answer to a Problem, created per
// evaluation attempt and immutable afterwards.
type Solution struct {
	ProblemID string `json:"problem_id"`
	Source    string `json:"source"`
	Language  string `json:"language"`
	Passed    bool   `json:"passed"`
	// Error carries the generation or evaluation failure text, if any.
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}
