package search

import (
	"sync"

	"github.com/google/uuid"

	"github.com/fleveque/investor-scout/internal/model"
)

// Store keeps live sessions in memory so the HTTP server can run a search
// asynchronously and let clients poll it by id. Sessions are transient by
// design — a restart loses them, and that's fine: the audit log is what
// persists.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registers a new idle session and returns it.
func (s *Store) Create(query string, dealType model.DealType) *Session {
	sess := NewSession(uuid.NewString(), query, dealType)
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the session with the given id, or nil.
func (s *Store) Get(id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

// Delete removes a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}
