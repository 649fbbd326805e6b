package checkout

import (
	"sync"

	"github.com/google/uuid"
)

// Session wraps one checkout service behind a mutex. The core service is
// single-goroutine; the session lock serializes HTTP access so that contract
// holds per session.
type Session struct {
	ID  string
	mu  sync.Mutex
	svc *Service
}

// Do runs fn with exclusive access to the session's service.
func (s *Session) Do(fn func(*Service) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.svc)
}

// Registry is an in-memory session store. Sessions live for the lifetime of
// the process; nothing is persisted.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry returns an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create registers a new session around the provided service and returns it.
func (r *Registry) Create(svc *Service) *Session {
	s := &Session{ID: uuid.NewString(), svc: svc}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get looks up a session by id.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Delete removes a session, reporting whether it existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
