// Package session stores authenticated browser sessions.
package session

import (
	"context"
	"sync"

	"aegis/internal/oauth/models"
	"aegis/pkg/platform/sentinel"
)

// InMemoryStore keeps sessions in memory for tests/dev.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session // key: realm + "/" + id
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*models.Session)}
}

func key(realm, id string) string { return realm + "/" + id }

func (s *InMemoryStore) Save(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key(session.Realm, session.ID)] = session
	return nil
}

func (s *InMemoryStore) GetByID(_ context.Context, realm, id string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if session, ok := s.sessions[key(realm, id)]; ok {
		copied := *session
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}
