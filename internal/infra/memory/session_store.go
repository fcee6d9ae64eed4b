package memory

import (
	"sync"

	"live-quiz-service/internal/app"
)

// SessionStore is the in-memory implementation of app.SessionStore.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*app.Session)}
}

// PutIfAbsent stores the session unless the code is already taken. The
// check-and-set runs under one lock so concurrent creates cannot both
// claim a code.
func (s *SessionStore) PutIfAbsent(code string, session *app.Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[code]; exists {
		return false
	}
	s.sessions[code] = session
	return true
}

func (s *SessionStore) Get(code string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[code]
	return session, ok
}

func (s *SessionStore) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, code)
}

// Codes returns the currently live codes, for the registry sweep.
func (s *SessionStore) Codes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]string, 0, len(s.sessions))
	for code := range s.sessions {
		codes = append(codes, code)
	}
	return codes
}
