package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChuLiYu/taskpool/internal/config"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	contents := `
worker:
  count: 8
matrix:
  rows: 5
  cols: 5
factorial:
  n: 9
metrics:
  enabled: true
  port: 9999
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Worker.Count)
	assert.Equal(t, 5, cfg.Matrix.Rows)
	assert.Equal(t, 5, cfg.Matrix.Cols)
	assert.Equal(t, 9, cfg.Factorial.N)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9999, cfg.Metrics.Port)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("worker: [this is not a mapping"), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}
