package memory

import (
	"sync"
	"time"

	"aftercare/internal/domain"
	"aftercare/internal/observability"
)

const defaultTTL = 60 * time.Minute

type entry struct {
	state     *domain.SessionState
	lastWrite time.Time
}

// SessionStore is an in-process, TTL-expiring cache of session state keyed by
// session id. Saves replace the whole state plus a refreshed timestamp, so an
// entry is never partially written. The mutex makes individual operations
// safe, but a load/process/save turn for one session still needs external
// serialization.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[domain.SessionID]entry
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &SessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[domain.SessionID]entry),
	}
}

// WithClock overrides the store's clock. Tests use this to step time.
func (s *SessionStore) WithClock(now func() time.Time) *SessionStore {
	s.now = now
	return s
}

// Get returns the stored state for id. An expired entry is treated as absent
// and evicted on the spot.
func (s *SessionStore) Get(id domain.SessionID) (*domain.SessionState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.now().Sub(e.lastWrite) > s.ttl {
		observability.Logger().Info("session expired, removing", "session_id", id)
		delete(s.sessions, id)
		return nil, false
	}
	return e.state, true
}

// Save replaces the whole state for id and refreshes its timestamp.
func (s *SessionStore) Save(id domain.SessionID, state *domain.SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = entry{state: state, lastWrite: s.now()}
}

// Clear removes the session if present.
func (s *SessionStore) Clear(id domain.SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; ok {
		delete(s.sessions, id)
		observability.Logger().Info("cleared session", "session_id", id)
	}
}

// Sweep removes every expired entry and reports how many were evicted.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked()
}

// CountActive sweeps, then returns the number of live sessions.
func (s *SessionStore) CountActive() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	return len(s.sessions)
}

func (s *SessionStore) sweepLocked() int {
	now := s.now()
	removed := 0
	for id, e := range s.sessions {
		if now.Sub(e.lastWrite) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		observability.Logger().Info("swept expired sessions", "count", removed)
	}
	return removed
}
