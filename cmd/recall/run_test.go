package main

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nevindra/recall/internal/config"
)

func quietLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

func TestDemoMemoryBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = "memory"

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, quietLogger(), "demo", strings.NewReader(""), &out))
	assert.Equal(t, `Short-term memory: "John"
Long-term memory: {"notifications":"enabled","theme":"dark"}
After clearing short-term memory: (none)
`, out.String())
}

func TestShellPersistsLongTermInSQLite(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Path = filepath.Join(t.TempDir(), "cli.db")
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, run(ctx, cfg, quietLogger(), "shell",
		strings.NewReader("remember -s temp 1\nremember city \"Lisbon\"\n"), &out))

	out.Reset()
	require.NoError(t, run(ctx, cfg, quietLogger(), "shell",
		strings.NewReader("recall city\nrecall -s temp\n"), &out))
	assert.Contains(t, out.String(), `"Lisbon"`)
	assert.Contains(t, out.String(), "(none)", "short-term memory must not outlive the process")
}

func TestServeMode(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = "memory"

	var out bytes.Buffer
	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\n")
	require.NoError(t, run(context.Background(), cfg, quietLogger(), "serve", in, &out))
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":1,"result":{}}`, strings.TrimSpace(out.String()))
}

func TestRunErrors(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	cfg.Store.Backend = "memory"
	assert.ErrorContains(t, run(ctx, cfg, quietLogger(), "dance", nil, &bytes.Buffer{}), `unknown mode "dance"`)

	cfg.Store.Backend = "etcd"
	assert.ErrorContains(t, run(ctx, cfg, quietLogger(), "demo", nil, &bytes.Buffer{}), `unknown store backend "etcd"`)

	cfg.Store.Backend = "postgres"
	assert.ErrorContains(t, run(ctx, cfg, quietLogger(), "demo", nil, &bytes.Buffer{}), "store.dsn is required")
}
