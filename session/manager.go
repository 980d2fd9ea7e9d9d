package session

import (
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/giygas/hospi/interfaces"
	"github.com/giygas/hospi/logging"
	"github.com/giygas/hospi/metrics"
	"github.com/google/uuid"
)

// CookieName is the cookie carrying the session identifier
const CookieName = "hospi_session"

var ErrSessionNotFound = errors.New("session not found")

// Compile-time check to ensure Manager implements interfaces.SessionStore
var _ interfaces.SessionStore = (*Manager)(nil)

// Manager is the registry of live sessions
type Manager struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	lastSweep atomic.Value // time.Time
	now       func() time.Time
}

// NewManager creates an empty registry using the wall clock
func NewManager() *Manager {
	return NewManagerWithClock(time.Now)
}

// NewManagerWithClock creates an empty registry reading time from now
func NewManagerWithClock(now func() time.Time) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		now:      now,
	}
	m.lastSweep.Store(time.Time{})
	return m
}

// Create starts a new seeded session
func (m *Manager) Create() *Session {
	s := newSession(uuid.NewString(), m.now())

	m.mu.Lock()
	m.sessions[s.ID] = s
	active := len(m.sessions)
	m.mu.Unlock()

	metrics.SessionsActive.Set(float64(active))
	logging.Debug("Session created", "session_id", s.ID, "active", active)

	return s
}

// Get returns the session with the given identifier
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// FromRequest resolves the request's session from its cookie, creating a new
// one (and setting the cookie) when the cookie is absent or the session expired.
func (m *Manager) FromRequest(w http.ResponseWriter, r *http.Request) *Session {
	if cookie, err := r.Cookie(CookieName); err == nil {
		if s, err := m.Get(cookie.Value); err == nil {
			s.Touch(m.now())
			return s
		}
	}

	s := m.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep evicts sessions whose last activity is older than maxIdle
func (m *Manager) Sweep(maxIdle time.Duration, now time.Time) int {
	cutoff := now.Add(-maxIdle)

	m.mu.Lock()
	evicted := 0
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
			evicted++
		}
	}
	active := len(m.sessions)
	m.mu.Unlock()

	m.lastSweep.Store(now)
	metrics.SessionsActive.Set(float64(active))
	metrics.SessionsEvicted.Add(float64(evicted))

	if evicted > 0 {
		logging.Info("Idle sessions evicted", "evicted", evicted, "active", active)
	}

	return evicted
}

// Stats summarizes the live sessions
func (m *Manager) Stats() interfaces.SessionStats {
	m.mu.RLock()
	stats := interfaces.SessionStats{Active: len(m.sessions)}
	for _, s := range m.sessions {
		stats.TotalPatients += s.Store.Count()
	}
	m.mu.RUnlock()

	if v, ok := m.lastSweep.Load().(time.Time); ok {
		stats.LastSweep = v
	}
	return stats
}
