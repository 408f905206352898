package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "recall.db", cfg.Store.Path)
	assert.False(t, cfg.Observer.Enabled, "observer should be disabled by default")
}

func TestLoadFromTOML(t *testing.T) {
	path := writeFile(t, "test.toml", `
[store]
backend = "memory"
namespace = "agent-7"

[log]
level = "debug"
`)

	cfg := Load(path)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, "agent-7", cfg.Store.Namespace)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "recall.db", cfg.Store.Path, "default should be preserved")
}

func TestLoadFromYAML(t *testing.T) {
	path := writeFile(t, "test.yaml", `
store:
  backend: postgres
  dsn: postgres://localhost/recall
observer:
  enabled: true
`)

	cfg := Load(path)
	assert.Equal(t, "postgres", cfg.Store.Backend)
	assert.Equal(t, "postgres://localhost/recall", cfg.Store.DSN)
	assert.True(t, cfg.Observer.Enabled)
	assert.Equal(t, "text", cfg.Log.Format, "default should be preserved")
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("RECALL_STORE_BACKEND", "memory")
	t.Setenv("RECALL_STORE_PATH", "/tmp/env.db")
	t.Setenv("RECALL_OBSERVER_ENABLED", "1")

	cfg := Load("/nonexistent/path.toml")
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, "/tmp/env.db", cfg.Store.Path)
	assert.True(t, cfg.Observer.Enabled, "expected observer enabled from env")
}

func TestEmptyNamespaceFallback(t *testing.T) {
	path := writeFile(t, "ns.toml", `
[store]
namespace = ""
`)
	assert.Equal(t, "default", Load(path).Store.Namespace)
}

func TestLogConfigLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "user_name")

	out := buf.String()
	assert.NotContains(t, out, "hidden", "info should be filtered at warn level")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"user_name"`)

	buf.Reset()
	LogConfig{}.Logger(&buf).Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}
