// Package sqlite implements recall.BlobBackend using pure-Go SQLite.
// Zero CGO required. Wrap a Store with recall.Encoded to hand it to
// recall.NewManager; remembered values must then be codec-compatible.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/nevindra/recall"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// StoreOption configures a SQLite Store.
type StoreOption func(*Store)

// WithLogger sets a structured logger for the store.
// When set, the store emits debug logs for every operation including
// timing and key. If not set, no logs are emitted.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// WithNamespace scopes every key to ns so several managers can share one
// database file. Default: "default".
func WithNamespace(ns string) StoreOption {
	return func(s *Store) { s.namespace = ns }
}

// Store implements recall.BlobBackend backed by a local SQLite file.
type Store struct {
	db        *sql.DB
	namespace string
	logger    *slog.Logger
}

var _ recall.BlobBackend = (*Store)(nil)

// nopLogger is a logger that discards all output.
var nopLogger = slog.New(slog.DiscardHandler)

// New creates a Store using a local SQLite file at dbPath.
// All goroutines serialize through one connection (SetMaxOpenConns(1)),
// which avoids SQLITE_BUSY from concurrent writers.
func New(dbPath string, opts ...StoreOption) *Store {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		// sql.Open only fails when the driver is not registered; with the
		// blank import above that never happens.
		panic(fmt.Sprintf("sqlite: open driver: %v", err))
	}
	db.SetMaxOpenConns(1)
	s := &Store{db: db, namespace: "default", logger: nopLogger}
	for _, o := range opts {
		o(s)
	}
	s.logger.Debug("sqlite: store opened", "path", dbPath, "namespace", s.namespace)
	return s
}

// Init creates the memories table. Safe to call multiple times.
func (s *Store) Init(ctx context.Context) error {
	start := time.Now()
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS memories (
		namespace TEXT NOT NULL,
		key TEXT NOT NULL,
		value BLOB NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (namespace, key)
	)`)
	if err != nil {
		return fmt.Errorf("sqlite: create table: %w", err)
	}
	s.logger.Info("sqlite: init completed", "duration", time.Since(start))
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM memories WHERE namespace = ? AND key = ?`,
		s.namespace, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		s.logger.Debug("sqlite: get not found", "key", key, "duration", time.Since(start))
		return nil, false, nil
	}
	if err != nil {
		s.logger.Error("sqlite: get failed", "key", key, "error", err, "duration", time.Since(start))
		return nil, false, fmt.Errorf("sqlite: get: %w", err)
	}
	s.logger.Debug("sqlite: get ok", "key", key, "bytes", len(value), "duration", time.Since(start))
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memories (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.namespace, key, value, time.Now().Unix(),
	)
	if err != nil {
		s.logger.Error("sqlite: set failed", "key", key, "error", err, "duration", time.Since(start))
		return fmt.Errorf("sqlite: set: %w", err)
	}
	s.logger.Debug("sqlite: set ok", "key", key, "bytes", len(value), "duration", time.Since(start))
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	start := time.Now()
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM memories WHERE namespace = ? AND key = ?`, s.namespace, key)
	if err != nil {
		s.logger.Error("sqlite: delete failed", "key", key, "error", err, "duration", time.Since(start))
		return fmt.Errorf("sqlite: delete: %w", err)
	}
	n, _ := res.RowsAffected()
	s.logger.Debug("sqlite: delete ok", "key", key, "rows", n, "duration", time.Since(start))
	return nil
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM memories WHERE namespace = ? ORDER BY key`, s.namespace)
	if err != nil {
		s.logger.Error("sqlite: keys failed", "error", err, "duration", time.Since(start))
		return nil, fmt.Errorf("sqlite: keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("sqlite: scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: keys: %w", err)
	}
	s.logger.Debug("sqlite: keys ok", "count", len(keys), "duration", time.Since(start))
	return keys, nil
}
