package app

import (
	"context"
	"log"
	"time"

	"live-quiz-service/internal/domain"
)

// maxCodeAttempts bounds collision retries before minting is treated as
// an operational failure (alphabet too small for the live session count).
const maxCodeAttempts = 32

// SessionStore abstracts how the registry keeps its code→session map
// (plain in-memory, or Redis-marked for visibility across instances).
// Codes are stored in canonical form; PutIfAbsent is the uniqueness gate.
type SessionStore interface {
	PutIfAbsent(code string, session *Session) bool
	Get(code string) (*Session, bool)
	Delete(code string)
	Codes() []string
}

// Registry owns the lifecycle of live sessions: it mints unique codes,
// hands out sessions for mutation, and evicts idle ones. All sub-state
// mutation happens through the *Session it returns, never through the
// registry itself.
type Registry struct {
	store       SessionStore
	generate    func() string
	idleTTL     time.Duration
	sweepEvery  time.Duration
	now         func() time.Time
	sessionOpts []SessionOption
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithGenerator overrides code generation, mainly to force collisions in
// tests.
func WithGenerator(generate func() string) RegistryOption {
	return func(r *Registry) { r.generate = generate }
}

// WithIdleTTL sets how long a session may sit without activity before the
// background sweep evicts it. Zero disables eviction.
func WithIdleTTL(ttl time.Duration) RegistryOption {
	return func(r *Registry) { r.idleTTL = ttl }
}

// WithSweepInterval sets how often Run scans for idle sessions.
func WithSweepInterval(interval time.Duration) RegistryOption {
	return func(r *Registry) {
		if interval > 0 {
			r.sweepEvery = interval
		}
	}
}

// WithRegistryClock makes sweep decisions deterministic in tests.
func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// WithSessionOptions forwards policy options to every session the
// registry creates.
func WithSessionOptions(opts ...SessionOption) RegistryOption {
	return func(r *Registry) { r.sessionOpts = opts }
}

// NewRegistry builds a registry over the given store.
func NewRegistry(store SessionStore, opts ...RegistryOption) *Registry {
	r := &Registry{
		store:      store,
		sweepEvery: time.Minute,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.generate == nil {
		r.generate = NewCodeGenerator().Generate
	}
	return r
}

// Create mints a fresh session in the waiting state. Code collisions are
// retried internally and never surface to the caller; exhausting the
// retry budget reports ErrCodeSpaceExhausted.
func (r *Registry) Create(quiz domain.Quiz) (*Session, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := NormalizeCode(r.generate())
		session := NewSession(code, quiz, r.sessionOpts...)
		if r.store.PutIfAbsent(code, session) {
			return session, nil
		}
	}
	return nil, domain.ErrCodeSpaceExhausted
}

// Get looks a session up by code, case-insensitively.
func (r *Registry) Get(code string) (*Session, error) {
	session, ok := r.store.Get(NormalizeCode(code))
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Remove tears a session down explicitly.
func (r *Registry) Remove(code string) {
	r.store.Delete(NormalizeCode(code))
}

// Sweep evicts sessions idle longer than the configured TTL and returns
// how many were removed.
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTTL)
	evicted := 0
	for _, code := range r.store.Codes() {
		session, ok := r.store.Get(code)
		if !ok {
			continue
		}
		if session.IdleSince().Before(cutoff) {
			r.store.Delete(code)
			evicted++
		}
	}
	return evicted
}

// Run drives the idle sweep until the context is canceled. It runs
// independently of request handling; eviction itself reads the session's
// activity under its lock, so it cannot race a live request into a
// half-removed state.
func (r *Registry) Run(ctx context.Context) {
	if r.idleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(r.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				log.Printf("evicted %d idle session(s)", n)
			}
		}
	}
}
