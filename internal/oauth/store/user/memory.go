// Package user stores end-user records.
package user

import (
	"context"
	"sync"

	"aegis/internal/oauth/models"
	"aegis/pkg/platform/sentinel"
)

// InMemoryStore keeps users in memory for tests/dev.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[string]*models.User // key: realm + "/" + id
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{users: make(map[string]*models.User)}
}

func key(realm, id string) string { return realm + "/" + id }

func (s *InMemoryStore) Save(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[key(u.Realm, u.ID)] = u
	return nil
}

func (s *InMemoryStore) GetByID(_ context.Context, realm, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[key(realm, id)]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}
