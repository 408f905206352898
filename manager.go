package recall

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Manager is the single entry point to both memory tiers. Every call names
// its tier with a shortTerm flag: true routes to the transient tier, false to
// the long-term tier.
//
// Manager holds no mutable state of its own after construction, so it is
// safe for concurrent use whenever its stores are.
type Manager struct {
	short     Store
	long      *LongTerm
	sessionID string
	logger    *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets a structured logger. When unset, no logs are emitted.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(m *Manager) { m.sessionID = id }
}

// WithShortTermStore replaces the default in-memory short-term tier, for
// example with an instrumented wrapper.
func WithShortTermStore(s Store) Option {
	return func(m *Manager) { m.short = s }
}

// NewManager creates a Manager whose long-term tier persists through
// backend. The caller owns backend and closes it after the Manager is done.
// Byte stores such as store/sqlite go through [Encoded] first.
func NewManager(backend Backend, opts ...Option) *Manager {
	m := &Manager{logger: nopLogger}
	for _, o := range opts {
		o(m)
	}
	if m.short == nil {
		m.short = NewShortTerm()
	}
	if m.sessionID == "" {
		m.sessionID = NewSessionID()
	}
	m.long = NewLongTerm(backend)
	m.logger = m.logger.With("session_id", m.sessionID)
	return m
}

// NewSessionID generates a time-sortable UUIDv7 session id.
func NewSessionID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SessionID identifies the session the short-term tier belongs to.
func (m *Manager) SessionID() string { return m.sessionID }

// ShortTerm returns the transient tier.
func (m *Manager) ShortTerm() Store { return m.short }

// LongTerm returns the durable tier.
func (m *Manager) LongTerm() *LongTerm { return m.long }

func (m *Manager) tier(shortTerm bool) (Store, string) {
	if shortTerm {
		return m.short, "short_term"
	}
	return m.long, "long_term"
}

// Remember stores value under key in the selected tier, replacing any
// previous value.
func (m *Manager) Remember(ctx context.Context, key string, value any, shortTerm bool) error {
	start := time.Now()
	s, tier := m.tier(shortTerm)
	if err := s.Set(ctx, key, value); err != nil {
		m.logger.Error("memory: remember failed", "tier", tier, "key", key, "error", err, "duration", time.Since(start))
		return err
	}
	m.logger.Debug("memory: remember", "tier", tier, "key", key, "duration", time.Since(start))
	return nil
}

// Recall returns the value under key in the selected tier. found is false
// when nothing is remembered under key; that is not an error.
func (m *Manager) Recall(ctx context.Context, key string, shortTerm bool) (any, bool, error) {
	start := time.Now()
	s, tier := m.tier(shortTerm)
	v, found, err := s.Get(ctx, key)
	if err != nil {
		m.logger.Error("memory: recall failed", "tier", tier, "key", key, "error", err, "duration", time.Since(start))
		return nil, false, err
	}
	m.logger.Debug("memory: recall", "tier", tier, "key", key, "found", found, "duration", time.Since(start))
	return v, found, nil
}

// RecallInto stores the value under key in dst, which must be a non-nil
// pointer. Values are assigned directly when their type fits and otherwise
// converted through JSON.
func (m *Manager) RecallInto(ctx context.Context, key string, shortTerm bool, dst any) (bool, error) {
	if err := checkPointer(dst); err != nil {
		return false, err
	}
	if !shortTerm {
		found, err := m.long.GetInto(ctx, key, dst)
		if err != nil {
			m.logger.Error("memory: recall failed", "tier", "long_term", "key", key, "error", err)
		}
		return found, err
	}

	v, found, err := m.Recall(ctx, key, true)
	if err != nil || !found {
		return found, err
	}
	if err := assign(key, v, dst); err != nil {
		return false, err
	}
	return true, nil
}

// ClearShortTerm forgets everything in the short-term tier. The long-term
// tier is untouched.
func (m *Manager) ClearShortTerm(ctx context.Context) error {
	if err := m.short.Clear(ctx); err != nil {
		m.logger.Error("memory: clear short-term failed", "error", err)
		return err
	}
	m.logger.Debug("memory: cleared short-term")
	return nil
}

// ClearLongTerm forgets a single key in the long-term tier. Unlike
// ClearShortTerm it does not wipe the whole tier.
func (m *Manager) ClearLongTerm(ctx context.Context, key string) error {
	if err := m.long.Delete(ctx, key); err != nil {
		m.logger.Error("memory: clear long-term failed", "key", key, "error", err)
		return err
	}
	m.logger.Debug("memory: cleared long-term key", "key", key)
	return nil
}

// nopLogger is a logger that discards all output.
var nopLogger = slog.New(slog.DiscardHandler)
