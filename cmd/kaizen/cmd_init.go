package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kaizenhq/kaizen/internal/wizard"
)

const sampleCatalog = `family: sample
problems:
  - id: add
    language: python
    entry_point: add
    prompt: "Write a function add(a, b) that returns the sum of a and b."
    test: |
      def check(candidate):
          assert candidate(1, 2) == 3
          assert candidate(-1, 1) == 0
`

func newInitCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a kaizen workspace",
		Long: `Initialize a kaizen workspace with a config file, a storage root, and
a sample problem catalog.

Use --interactive to run a guided wizard that collects the agent ID,
model, and storage settings.

If no directory is specified, the current directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}

			spec := &wizard.SetupSpec{
				Language:    "python",
				Model:       "gpt-4o-mini",
				StorageRoot: ".kaizen",
			}
			if interactive {
				collected, err := wizard.RunSetupWizard(cmd.InOrStdin(), cmd.OutOrStdout())
				if err != nil {
					return err
				}
				spec = collected
			}

			content, err := wizard.GenerateConfigYAML(spec)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			configFile := filepath.Join(dir, "kaizen.yaml")
			if err := writeIfAbsent(configFile, content); err != nil {
				return err
			}
			fmt.Fprintf(out, "  %s\n", configFile) //nolint:errcheck

			catalogFile := filepath.Join(dir, "catalog.yaml")
			if err := writeIfAbsent(catalogFile, sampleCatalog); err != nil {
				return err
			}
			fmt.Fprintf(out, "  %s\n", catalogFile) //nolint:errcheck

			storage := filepath.Join(dir, spec.StorageRoot)
			if err := os.MkdirAll(storage, 0o755); err != nil {
				return fmt.Errorf("failed to create storage root: %w", err)
			}
			fmt.Fprintf(out, "  %s/\n", storage) //nolint:errcheck

			fmt.Fprintln(out, "\nWorkspace ready. Set KAIZEN_OPENAI_API_KEY and run `kaizen run --agent <id>`.") //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Run the guided setup wizard")

	return cmd
}

// writeIfAbsent writes content to path unless the file already exists.
func writeIfAbsent(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", path)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
