package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Run from an empty directory so no stray kaizen.yaml is picked up.
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ".kaizen", cfg.StorageRoot)
	assert.Equal(t, ".kaizen/eval", cfg.EvalRoot)
	assert.Equal(t, 10, cfg.EvalTimeoutSecs)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 60, cfg.OpenAI.RequestsPerMinute)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kaizen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage_root: /data/kaizen
eval_timeout_secs: 30
openai:
  model: gpt-4o
log:
  level: debug
  format: console
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/kaizen", cfg.StorageRoot)
	assert.Equal(t, 30, cfg.EvalTimeoutSecs)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset fields keep defaults.
	assert.Equal(t, ".kaizen/eval", cfg.EvalRoot)
}

func TestLoadBenchmarkOptionBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kaizen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
benchmarks:
  humaneval-mini:
    language: python
    parallel: true
    workers: 2
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	block := cfg.Benchmarks["humaneval-mini"]
	require.NotNil(t, block)
	assert.Equal(t, "python", block["language"])
	assert.Equal(t, true, block["parallel"])
	assert.Equal(t, 2, block["workers"])
}

func TestLoadExplicitFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("KAIZEN_STORAGE_ROOT", "/env/root")
	t.Setenv("KAIZEN_OPENAI_MODEL", "gpt-5")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/env/root", cfg.StorageRoot)
	assert.Equal(t, "gpt-5", cfg.OpenAI.Model)
}

func TestBuildLogger(t *testing.T) {
	logger, err := BuildLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	require.NotNil(t, logger)

	_, err = BuildLogger(LogConfig{Level: "not-a-level", Format: "json"})
	require.Error(t, err)
}
