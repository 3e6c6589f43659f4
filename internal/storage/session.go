package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// SessionStore keeps values in memory for the lifetime of one session
type SessionStore struct {
	id     string
	mu     sync.RWMutex
	values map[string]string
}

// NewSessionStore creates an empty session with a random ID
func NewSessionStore() *SessionStore {
	return NewSessionStoreWithID(uuid.NewString())
}

// NewSessionStoreWithID creates an empty session with the given ID
func NewSessionStoreWithID(id string) *SessionStore {
	return &SessionStore{
		id:     id,
		values: make(map[string]string),
	}
}

// ID returns the session identifier
func (s *SessionStore) ID() string {
	return s.id
}

// Get returns the value stored under name
func (s *SessionStore) Get(ctx context.Context, name string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[name]
	return value, ok, nil
}

// Set stores value under name
func (s *SessionStore) Set(ctx context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[name] = value
	return nil
}

// Clear ends the session, dropping every value
func (s *SessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = make(map[string]string)
}
