package redis

import (
	"context"
	"sync"
	"time"

	"live-quiz-service/internal/app"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of app.SessionStore.
// Sessions themselves stay in-process (the state machine is memory-only by
// design); Redis holds a liveness marker per code so that code uniqueness
// and occupancy are visible beyond this process. SETNX on the marker is
// the uniqueness gate when Redis is reachable.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) PutIfAbsent(code string, session *app.Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[code]; exists {
		return false
	}
	ok, err := s.client.SetNX(context.Background(), s.key(code), "1", s.ttl).Result()
	if err == nil && !ok {
		// Marker held by another instance; treat the code as taken.
		return false
	}
	s.sessions[code] = session
	return true
}

func (s *SessionStore) Get(code string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[code]
	if ok {
		// best-effort marker refresh so live sessions do not expire
		_ = s.client.Expire(context.Background(), s.key(code), s.ttl).Err()
	}
	return session, ok
}

func (s *SessionStore) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, code)
	_ = s.client.Del(context.Background(), s.key(code)).Err()
}

func (s *SessionStore) Codes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]string, 0, len(s.sessions))
	for code := range s.sessions {
		codes = append(codes, code)
	}
	return codes
}

func (s *SessionStore) key(code string) string {
	return "session:live:" + code
}
