package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_ParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "itest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 5\nlogDir: /tmp/custom-logs\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Workers)
	assert.Equal(t, "/tmp/custom-logs", cfg.LogDir)
}

func TestLoad_ZeroWorkersFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "itest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logDir: /tmp/custom-logs\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
}

func TestLoad_MalformedYAMLErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "itest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [this is not an int\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
