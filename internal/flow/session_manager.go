package flow

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultIdleTimeout is how long an untouched session survives before the
// janitor terminates it.
const DefaultIdleTimeout = 30 * time.Minute

// janitorInterval is how often the janitor sweeps for idle sessions.
const janitorInterval = time.Minute

// SessionManager owns the per-user session table. At most one session is
// active per user; events for different users never interleave on shared
// session state because each entry is guarded by the table lock and mutated
// only by that user's events.
type SessionManager struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	idleTimeout time.Duration
}

// NewSessionManager creates a session table with the given idle timeout.
// A zero timeout selects DefaultIdleTimeout.
func NewSessionManager(idleTimeout time.Duration) *SessionManager {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &SessionManager{
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
	}
}

// Start creates a session for the user and returns it. An in-progress
// session is replaced; replaced reports whether that happened so the caller
// can log the data loss.
func (m *SessionManager) Start(userID string, kind Kind) (s *Session, replaced bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, replaced = m.sessions[userID]
	s = NewSession(kind)
	m.sessions[userID] = s
	if replaced {
		slog.Info("SessionManager replaced in-progress session", "userID", userID, "kind", kind)
	} else {
		slog.Debug("SessionManager started session", "userID", userID, "kind", kind)
	}
	return s, replaced
}

// Get returns the active session for the user, or nil.
func (m *SessionManager) Get(userID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[userID]
}

// Touch marks the session as recently active.
func (m *SessionManager) Touch(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		s.UpdatedAt = time.Now()
	}
}

// End destroys the user's session and reports whether one existed.
func (m *SessionManager) End(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[userID]; !ok {
		return false
	}
	delete(m.sessions, userID)
	slog.Debug("SessionManager ended session", "userID", userID)
	return true
}

// Count returns the number of active sessions.
func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// StartJanitor launches the idle-session sweeper. Expired sessions are
// removed and reported through onExpire (called outside the table lock) so
// the dispatcher can notify the user. Stops when ctx is canceled.
func (m *SessionManager) StartJanitor(ctx context.Context, onExpire func(userID string)) {
	go func() {
		ticker := time.NewTicker(janitorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				for _, userID := range m.expireIdle() {
					if onExpire != nil {
						onExpire(userID)
					}
				}
			case <-ctx.Done():
				slog.Debug("SessionManager janitor stopping")
				return
			}
		}
	}()
}

// expireIdle removes sessions idle past the timeout and returns their users.
func (m *SessionManager) expireIdle() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-m.idleTimeout)
	var expired []string
	for userID, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(m.sessions, userID)
			expired = append(expired, userID)
			slog.Info("SessionManager expired idle session", "userID", userID, "kind", s.Kind)
		}
	}
	return expired
}
