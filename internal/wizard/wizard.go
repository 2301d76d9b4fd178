// Package wizard collects workspace settings interactively for kaizen init.
package wizard

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// SetupSpec holds the fields collected during the interactive wizard.
type SetupSpec struct {
	AgentID     string
	Language    string
	Model       string
	StorageRoot string
}

var agentIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidateAgentID enforces kebab-case agent identifiers.
func ValidateAgentID(id string) error {
	if id == "" {
		return fmt.Errorf("agent id is required")
	}
	if !agentIDPattern.MatchString(id) {
		return fmt.Errorf("agent id must be lowercase letters, digits, and hyphens")
	}
	return nil
}

const configTemplate = `storage_root: {{ .StorageRoot }}
eval_root: {{ .StorageRoot }}/eval
eval_timeout_secs: 10
openai:
  model: {{ .Model }}
log:
  level: info
  format: console
`

// RunSetupWizard runs an interactive huh form to collect workspace settings.
func RunSetupWizard(in io.Reader, out io.Writer) (*SetupSpec, error) {
	var (
		agentID     string
		language    = "python"
		model       = "gpt-4o-mini"
		storageRoot = ".kaizen"
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Agent ID").
				Description("A kebab-case identifier for the agent under test").
				Placeholder("my-agent").
				Value(&agentID).
				Validate(func(s string) error {
					return ValidateAgentID(strings.TrimSpace(s))
				}),
			huh.NewSelect[string]().
				Title("Benchmark language").
				Options(
					huh.NewOption("python", "python"),
				).
				Value(&language),
			huh.NewInput().
				Title("Generation model").
				Description("OpenAI model used to generate and improve solutions").
				Value(&model),
			huh.NewInput().
				Title("Storage root").
				Description("Directory for feedback, results, plans, and artifacts").
				Value(&storageRoot),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	return &SetupSpec{
		AgentID:     strings.TrimSpace(agentID),
		Language:    language,
		Model:       strings.TrimSpace(model),
		StorageRoot: strings.TrimSpace(storageRoot),
	}, nil
}

// GenerateConfigYAML renders the kaizen.yaml content for a setup spec.
func GenerateConfigYAML(spec *SetupSpec) (string, error) {
	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing config template: %w", err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, spec); err != nil {
		return "", fmt.Errorf("rendering config: %w", err)
	}
	return b.String(), nil
}
