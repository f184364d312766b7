package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/flowcanvas/internal/editor"
	"github.com/aretw0/flowcanvas/internal/logging"
	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/google/uuid"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager owns the live editors, keyed by session id.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	mu       sync.Mutex                // Global lock for both maps
	locks    map[string]*lockEntry     // Map of active locks
	sessions map[string]*editor.Editor // Live editors

	newID   func() string
	options func(id string) []editor.Option
	hooks   Hooks
	logger  *slog.Logger
}

// Hooks observe sessions entering and leaving the Manager. Either may be nil.
type Hooks struct {
	OnCreated func(ctx context.Context, sessionID string)
	// OnDeleted receives the last snapshot of the closed session.
	OnDeleted func(ctx context.Context, last domain.Snapshot)
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithIDGenerator replaces the uuid session id source.
func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) {
		m.newID = gen
	}
}

// WithEditorOptions supplies extra options for every editor the Manager
// creates. The session id and logger are always set by the Manager.
func WithEditorOptions(fn func(id string) []editor.Option) Option {
	return func(m *Manager) {
		m.options = fn
	}
}

// WithHooks registers session lifecycle callbacks.
func WithHooks(hooks Hooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// NewManager creates an empty session manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		locks:    make(map[string]*lockEntry),
		sessions: make(map[string]*editor.Editor),
		newID:    uuid.NewString,
		logger:   logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

func (m *Manager) lookup(sessionID string) (*editor.Editor, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ed, ok := m.sessions[sessionID]
	return ed, ok
}

// Create starts a new idle editor and returns its session id.
func (m *Manager) Create(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 3; attempt++ {
		id := m.newID()
		if id == "" {
			return "", fmt.Errorf("failed to create session: empty id")
		}

		created := false
		err := m.withEntry(ctx, id, func(context.Context) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, taken := m.sessions[id]; taken {
				return nil
			}
			opts := []editor.Option{editor.WithSessionID(id), editor.WithLogger(m.logger)}
			if m.options != nil {
				opts = append(opts, m.options(id)...)
			}
			m.sessions[id] = editor.New(opts...)
			created = true
			return nil
		})
		if err != nil {
			return "", err
		}
		if created {
			m.logger.Debug("session created", "session_id", id)
			if m.hooks.OnCreated != nil {
				m.hooks.OnCreated(ctx, id)
			}
			return id, nil
		}
	}
	return "", fmt.Errorf("failed to create session: id generator keeps colliding")
}

// WithEditor runs fn while holding the session lock.
// It returns domain.ErrSessionNotFound for unknown ids.
func (m *Manager) WithEditor(ctx context.Context, sessionID string, fn func(context.Context, *editor.Editor) error) error {
	return m.withEntry(ctx, sessionID, func(ctx context.Context) error {
		ed, ok := m.lookup(sessionID)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
		}
		return fn(ctx, ed)
	})
}

// Dispatch feeds one event to a session and returns the resulting snapshot.
func (m *Manager) Dispatch(ctx context.Context, sessionID string, ev editor.Event) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := m.WithEditor(ctx, sessionID, func(ctx context.Context, ed *editor.Editor) error {
		ed.Dispatch(ctx, ev)
		snap = ed.Snapshot()
		return nil
	})
	return snap, err
}

// Snapshot returns a detached copy of a session.
func (m *Manager) Snapshot(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := m.WithEditor(ctx, sessionID, func(_ context.Context, ed *editor.Editor) error {
		snap = ed.Snapshot()
		return nil
	})
	return snap, err
}

// Delete closes the editor and forgets the session.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.withEntry(ctx, sessionID, func(context.Context) error {
		m.mu.Lock()
		ed, ok := m.sessions[sessionID]
		delete(m.sessions, sessionID)
		m.mu.Unlock()
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
		}
		last := ed.Snapshot()
		ed.Close()
		m.logger.Debug("session deleted", "session_id", sessionID)
		if m.hooks.OnDeleted != nil {
			m.hooks.OnDeleted(ctx, last)
		}
		return nil
	})
}

// List returns the live session ids in lexical order.
func (m *Manager) List(ctx context.Context) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close deletes every session.
func (m *Manager) Close(ctx context.Context) {
	for _, id := range m.List(ctx) {
		if err := m.Delete(ctx, id); err != nil {
			m.logger.Warn("session close failed", "session_id", id, "err", err)
		}
	}
}

// withEntry executes a function while holding the lock for the session.
func (m *Manager) withEntry(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
