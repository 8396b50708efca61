package web

import (
	"net/http"
	"sync"
	"time"

	"ForecastBoard/internal/model"

	"github.com/google/uuid"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "forecastboard_session"

type sessionEntry struct {
	mu       sync.Mutex // held for the whole render: one writer per session
	sess     *model.Session
	lastSeen time.Time
}

// SessionStore keeps per-browser dashboard state in memory.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store that forgets sessions idle for longer than ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Acquire returns the caller's session, creating it (and its cookie) when needed, locked.
// The caller must invoke the returned release func.
func (s *SessionStore) Acquire(w http.ResponseWriter, r *http.Request) (*model.Session, func()) {
	id := ""
	if c, err := r.Cookie(SessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			id = c.Value
		}
	}

	s.mu.Lock()
	s.prune()
	e, ok := s.sessions[id]
	if !ok {
		id = uuid.NewString()
		e = &sessionEntry{sess: model.NewSession(id)}
		s.sessions[id] = e
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	e.lastSeen = s.now()
	s.mu.Unlock()

	e.mu.Lock()
	return e.sess, e.mu.Unlock
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// prune drops idle sessions. Caller holds s.mu.
func (s *SessionStore) prune() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
