package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCommandScaffoldsWorkspace(t *testing.T) {
	dir := t.TempDir()

	cmd := newInitCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{dir})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(filepath.Join(dir, "kaizen.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "storage_root: .kaizen")
	assert.Contains(t, string(data), "model: gpt-4o-mini")

	catalog, err := os.ReadFile(filepath.Join(dir, "catalog.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(catalog), "family: sample")

	info, err := os.Stat(filepath.Join(dir, ".kaizen"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestInitCommandRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kaizen.yaml"), []byte("existing"), 0o644))

	cmd := newInitCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to overwrite")

	// The existing file is untouched.
	data, err := os.ReadFile(filepath.Join(dir, "kaizen.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "existing", string(data))
}
