// Package authcode stores one-time authorization codes.
package authcode

import (
	"context"
	"sync"

	"aegis/internal/oauth/models"
	"aegis/pkg/platform/sentinel"
)

// InMemoryStore keeps authorization codes in memory for tests/dev.
type InMemoryStore struct {
	mu    sync.Mutex
	codes map[string]*models.AuthorizationCode // key: realm + "/" + code
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{codes: make(map[string]*models.AuthorizationCode)}
}

func key(realm, code string) string { return realm + "/" + code }

func (s *InMemoryStore) Save(_ context.Context, code *models.AuthorizationCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[key(code.Realm, code.Code)] = code
	return nil
}

// Consume returns the code and removes it, so a code redeems at most
// once.
func (s *InMemoryStore) Consume(_ context.Context, realm, code string) (*models.AuthorizationCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.codes[key(realm, code)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	delete(s.codes, key(realm, code))
	copied := *stored
	return &copied, nil
}
