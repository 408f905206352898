package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Store    StoreConfig    `toml:"store" yaml:"store"`
	Observer ObserverConfig `toml:"observer" yaml:"observer"`
	Log      LogConfig      `toml:"log" yaml:"log"`
	MCP      MCPConfig      `toml:"mcp" yaml:"mcp"`
}

// StoreConfig selects the long-term backend: "memory", "sqlite" or "postgres".
type StoreConfig struct {
	Backend   string `toml:"backend" yaml:"backend"`
	Path      string `toml:"path" yaml:"path"`
	DSN       string `toml:"dsn" yaml:"dsn"`
	Namespace string `toml:"namespace" yaml:"namespace"`
}

type ObserverConfig struct {
	Enabled     bool   `toml:"enabled" yaml:"enabled"`
	ServiceName string `toml:"service_name" yaml:"service_name"`
}

type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

type MCPConfig struct {
	Name    string `toml:"name" yaml:"name"`
	Version string `toml:"version" yaml:"version"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Store:    StoreConfig{Backend: "sqlite", Path: "recall.db", Namespace: "default"},
		Observer: ObserverConfig{ServiceName: "recall"},
		Log:      LogConfig{Level: "info", Format: "text"},
		MCP:      MCPConfig{Name: "recall", Version: "0.1.0"},
	}
}

// Load reads config: defaults -> file -> env vars (env wins).
// Files ending in .yaml or .yml are parsed as YAML, anything else as TOML.
// A missing or unreadable file leaves the defaults in place.
func Load(path string) Config {
	cfg := Default()

	if path == "" {
		path = "recall.toml"
	}

	if data, err := os.ReadFile(path); err == nil {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			_ = yaml.Unmarshal(data, &cfg)
		default:
			_ = toml.Unmarshal(data, &cfg)
		}
	}

	// Env overrides
	if v := os.Getenv("RECALL_STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("RECALL_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("RECALL_STORE_DSN"); v != "" {
		cfg.Store.DSN = v
	}
	if v := os.Getenv("RECALL_STORE_NAMESPACE"); v != "" {
		cfg.Store.Namespace = v
	}
	if v := os.Getenv("RECALL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("RECALL_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if os.Getenv("RECALL_OBSERVER_ENABLED") == "true" || os.Getenv("RECALL_OBSERVER_ENABLED") == "1" {
		cfg.Observer.Enabled = true
	}

	// Fallbacks
	if cfg.Store.Namespace == "" {
		cfg.Store.Namespace = "default"
	}

	return cfg
}

// Logger builds a slog.Logger writing to w. Format "json" selects the JSON
// handler, anything else the text handler. Unknown levels mean info.
func (c LogConfig) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(c.Format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
