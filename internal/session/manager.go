package session

import (
	"sort"
	"sync"
	"time"

	"github.com/CryoKynase/wheel-lacing-app/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxSessions limits concurrent live sessions
const MaxSessions = 256

// SessionMaxAge is how long an idle session is kept before cleanup
const SessionMaxAge = 30 * time.Minute

// SessionKeepAliveWindow is how long to keep sessions that are actively being used
const SessionKeepAliveWindow = 5 * time.Minute

// Manager tracks live compute connections and the newest generation each
// client has asked for. A result is only delivered when its generation is
// still the newest one when the computation finishes.
type Manager struct {
	sessions    map[string]*models.LiveSession
	mu          sync.RWMutex
	maxSessions int
	logger      *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxSessions overrides MaxSessions. Values below 1 are ignored.
func WithMaxSessions(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxSessions = n
		}
	}
}

// NewManager creates a session manager. A nil logger disables logging.
func NewManager(logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		sessions:    make(map[string]*models.LiveSession),
		maxSessions: MaxSessions,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StartSession registers a new live connection.
func (m *Manager) StartSession() models.LiveSession {
	m.evictIfNeeded()

	s := models.NewLiveSession(uuid.New().String())

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Debug("live session started", zap.String("session", s.ID))
	return *s
}

// Begin records that the client requested generation gen. It reports false
// when gen is not newer than a generation already seen on the session, in
// which case the request is stale on arrival and should not be computed.
//
// A session dropped by idle cleanup or eviction while its connection stayed
// open is registered again under the same id, since no newer generation can
// have been recorded for it.
func (m *Manager) Begin(id string, gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		m.evictLocked()
		s = models.NewLiveSession(id)
		m.sessions[id] = s
		m.logger.Info("live session resumed", zap.String("session", id), zap.Uint64("generation", gen))
	}
	s.LastAccessed = time.Now()
	if s.Requests > 0 && gen <= s.Generation {
		s.Superseded++
		return false
	}
	s.Generation = gen
	s.Requests++
	return true
}

// IsCurrent reports whether no generation newer than gen was requested on
// the session.
func (m *Manager) IsCurrent(id string, gen uint64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	return !ok || s.Generation == gen
}

// Finish reports whether the result for gen should be delivered, counting
// it as superseded when it should not. A session removed while gen was
// computing has seen nothing newer, so its result is delivered.
func (m *Manager) Finish(id string, gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return true
	}
	if s.Generation != gen {
		s.Superseded++
		return false
	}
	return true
}

// EndSession forgets a connection.
func (m *Manager) EndSession(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// GetSession returns a snapshot of a session.
func (m *Manager) GetSession(id string) (models.LiveSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return models.LiveSession{}, false
	}
	return *s, true
}

// TouchSession updates the LastAccessed timestamp for a session.
func (m *Manager) TouchSession(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return false
	}
	s.LastAccessed = time.Now()
	return true
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupOldSessions removes sessions idle for longer than maxAge, but keeps
// sessions accessed within SessionKeepAliveWindow. It returns how many were
// removed.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-maxAge)
	keepAliveCutoff := now.Add(-SessionKeepAliveWindow)

	removed := 0
	for id, s := range m.sessions {
		if s.LastAccessed.After(keepAliveCutoff) {
			continue
		}
		if s.LastAccessed.Before(cutoff) {
			delete(m.sessions, id)
			removed++
			m.logger.Info("cleaned up idle live session",
				zap.String("session", id),
				zap.Duration("idle", now.Sub(s.LastAccessed).Round(time.Second)))
		}
	}
	return removed
}

// evictIfNeeded drops the least recently used sessions when at capacity.
func (m *Manager) evictIfNeeded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictLocked()
}

// evictLocked is evictIfNeeded with m.mu already held.
func (m *Manager) evictLocked() {
	if len(m.sessions) < m.maxSessions {
		return
	}

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return m.sessions[ids[i]].LastAccessed.Before(m.sessions[ids[j]].LastAccessed)
	})

	toFree := len(m.sessions) - m.maxSessions + 1
	for _, id := range ids[:toFree] {
		delete(m.sessions, id)
		m.logger.Warn("evicted live session at capacity", zap.String("session", id))
	}
}
