package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/nevindra/recall"
	"github.com/nevindra/recall/internal/config"
	"github.com/nevindra/recall/internal/shell"
	"github.com/nevindra/recall/mcp"
	"github.com/nevindra/recall/observer"
	"github.com/nevindra/recall/store/postgres"
	"github.com/nevindra/recall/store/sqlite"
)

// openBackend builds the long-term backend named in cfg. The returned close
// func releases it and is never nil.
func openBackend(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (recall.Backend, func(), error) {
	switch cfg.Backend {
	case "memory":
		return recall.NewMapBackend(), func() {}, nil

	case "sqlite", "":
		s := sqlite.New(cfg.Path, sqlite.WithLogger(logger), sqlite.WithNamespace(cfg.Namespace))
		if err := s.Init(ctx); err != nil {
			s.Close()
			return nil, nil, err
		}
		return recall.Encoded(s, nil), func() { s.Close() }, nil

	case "postgres":
		if cfg.DSN == "" {
			return nil, nil, fmt.Errorf("store.dsn is required for the postgres backend")
		}
		pool, err := postgres.Connect(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		s := postgres.New(pool, postgres.WithNamespace(cfg.Namespace))
		if err := s.Init(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return recall.Encoded(s, nil), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// run wires config into a Manager and executes mode.
func run(ctx context.Context, cfg config.Config, logger *slog.Logger, mode string, in io.Reader, out io.Writer) error {
	// 2. Long-term backend
	backend, closeBackend, err := openBackend(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer closeBackend()

	// 3. Optional OTEL instrumentation
	var opts []recall.Option
	opts = append(opts, recall.WithLogger(logger))
	if cfg.Observer.Enabled {
		inst, shutdown, err := observer.Init(ctx, cfg.Observer.ServiceName)
		if err != nil {
			return fmt.Errorf("observer: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("observer: shutdown", "error", err)
			}
		}()
		backend = observer.WrapBackend(backend, inst)
		opts = append(opts, recall.WithShortTermStore(
			observer.WrapStore(recall.NewShortTerm(), observer.TierShortTerm, inst)))
	}

	// 4. Manager
	mem := recall.NewManager(backend, opts...)
	logger.Info("recall: ready", "mode", mode, "backend", cfg.Store.Backend, "session_id", mem.SessionID())

	// 5. Run
	switch mode {
	case "demo":
		return demo(ctx, mem, out)
	case "shell":
		return shell.New(mem, in, out, "recall> ").Run(ctx)
	case "serve":
		return mcp.New(cfg.MCP.Name, cfg.MCP.Version, mem, mcp.WithLogger(logger), mcp.WithIO(in, out)).Serve(ctx)
	}
	return fmt.Errorf("unknown mode %q", mode)
}

// demo walks through both tiers and the short-term wipe.
func demo(ctx context.Context, mem *recall.Manager, out io.Writer) error {
	show := func(label string, key string, shortTerm bool) error {
		v, found, err := mem.Recall(ctx, key, shortTerm)
		if err != nil {
			return err
		}
		if !found {
			fmt.Fprintf(out, "%s: (none)\n", label)
			return nil
		}
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %s\n", label, data)
		return nil
	}

	if err := mem.Remember(ctx, "user_name", "John", true); err != nil {
		return err
	}
	if err := show("Short-term memory", "user_name", true); err != nil {
		return err
	}

	prefs := map[string]any{"theme": "dark", "notifications": "enabled"}
	if err := mem.Remember(ctx, "user_preferences", prefs, false); err != nil {
		return err
	}
	if err := show("Long-term memory", "user_preferences", false); err != nil {
		return err
	}

	if err := mem.ClearShortTerm(ctx); err != nil {
		return err
	}
	return show("After clearing short-term memory", "user_name", true)
}
