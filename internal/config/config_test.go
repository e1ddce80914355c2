package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "beam.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValid(t *testing.T) {
	path := writeConfig(t, `
name: docs-server
version: 1.2.0
log_level: debug
transport:
  kind: tcp
  addr: 0.0.0.0:9000
session:
  idle_ttl: 5m
  sweep_every: 30s
resources:
  - path: /srv/docs
    patterns: ["**/*.md"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "docs-server", cfg.Name)
	assert.Equal(t, "1.2.0", cfg.Version)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "tcp", cfg.Transport.Kind)
	assert.Equal(t, "0.0.0.0:9000", cfg.Transport.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, 30*time.Second, cfg.Session.SweepEvery)
	require.Len(t, cfg.Resources, 1)
	assert.Equal(t, "/srv/docs", cfg.Resources[0].Path)
	assert.Equal(t, []string{"**/*.md"}, cfg.Resources[0].Patterns)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("/nonexistent/beam.yaml")
	require.NoError(t, err)
	assert.Equal(t, "beam", cfg.Name)
	assert.Equal(t, "stdio", cfg.Transport.Kind)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
	assert.Empty(t, cfg.Resources)
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := writeConfig(t, `
name: partial
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "partial", cfg.Name)
	assert.Equal(t, "0.0.0", cfg.Version)
	assert.Equal(t, "stdio", cfg.Transport.Kind)
	assert.Equal(t, "127.0.0.1:7421", cfg.Transport.Addr)
}

func TestLoadEnvExpansion(t *testing.T) {
	t.Setenv("BEAM_DOCS_DIR", "/home/tester/docs")
	t.Setenv("BEAM_PORT", "8765")
	path := writeConfig(t, `
transport:
  kind: tcp
  addr: "127.0.0.1:${BEAM_PORT}"
resources:
  - path: "${BEAM_DOCS_DIR}"
    patterns: ["*.md"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8765", cfg.Transport.Addr)
	assert.Equal(t, "/home/tester/docs", cfg.Resources[0].Path)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, `{{{nope`)
	_, err := Load(path)
	require.Error(t, err)
}
