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
	path := filepath.Join(t.TempDir(), "lddtopo.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
version = 1

[input]
library = " /usr/lib/libapp.so "
tree = "tree.json"

[exclude]
libraries = ["libc.so.*", "  ", "ld-linux*"]

[output]
json = "order.json"
dot = "graph.dot"
summary = false

[history]
enabled = true

[watch]
debounce = "2s"
rate = 0.5
burst = 3

[observability]
port = 9090
metrics_textfile = "lddtopo.prom"

[batch]
concurrency = 2

[[jobs]]
library = "/usr/lib/liba.so"
tree = "a.json"
json = "a.order.json"

[[jobs]]
name = "second"
library = "/usr/lib/libb.so"
tree = "b.yaml"
dot = "b.dot"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "/usr/lib/libapp.so", cfg.Input.Library)
	assert.Equal(t, "tree.json", cfg.Input.Tree)
	assert.Equal(t, []string{"libc.so.*", "ld-linux*"}, cfg.Exclude.Libraries)
	assert.Equal(t, "order.json", cfg.Output.JSON)
	assert.False(t, cfg.SummaryEnabled())
	assert.True(t, cfg.LibraryRequired())
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "data/history.db", cfg.History.Path)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
	assert.Equal(t, 0.5, cfg.Watch.Rate)
	assert.Equal(t, 3, cfg.Watch.Burst)
	assert.Equal(t, 9090, cfg.Observability.Port)
	assert.Equal(t, 2, cfg.Batch.Concurrency)

	require.Len(t, cfg.Jobs, 2)
	assert.Equal(t, "liba.so", cfg.Jobs[0].Name)
	assert.Equal(t, "second", cfg.Jobs[1].Name)
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `[input]
tree = "tree.json"
`))
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, 1.0, cfg.Watch.Rate)
	assert.Equal(t, 1, cfg.Watch.Burst)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.True(t, cfg.SummaryEnabled())
	assert.Empty(t, cfg.Observability.OTLPEndpoint)
}

func TestLoadTracingDefaultEndpoint(t *testing.T) {
	cfg, err := Load(writeConfig(t, `[observability]
enable_tracing = true
`))
	require.NoError(t, err)
	assert.Equal(t, "localhost:4317", cfg.Observability.OTLPEndpoint)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, `version = "one"`))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `version = 2`))
	assert.ErrorContains(t, err, "unsupported config version")
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadOrDefault(DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = LoadOrDefault("other.toml")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("LDDTOPO_INPUT_TREE", "env-tree.yaml")
	t.Setenv("LDDTOPO_OUTPUT_DOT", "env.dot")
	t.Setenv("LDDTOPO_HISTORY_ENABLED", "TRUE")
	t.Setenv("LDDTOPO_WATCH_DEBOUNCE", "250ms")
	t.Setenv("LDDTOPO_WATCH_RATE", "2.5")
	t.Setenv("LDDTOPO_BATCH_CONCURRENCY", "8")
	t.Setenv("LDDTOPO_OBSERVABILITY_PORT", "not-a-number")

	cfg := Default()
	cfg.Observability.Port = 9100
	ApplyEnvOverrides(cfg)

	assert.Equal(t, "env-tree.yaml", cfg.Input.Tree)
	assert.Equal(t, "env.dot", cfg.Output.DOT)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, 2.5, cfg.Watch.Rate)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	assert.Equal(t, 9100, cfg.Observability.Port, "unparseable values are ignored")
}
