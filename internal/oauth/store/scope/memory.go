// Package scope stores the scopes registered per realm.
package scope

import (
	"context"
	"sync"

	"aegis/internal/oauth/models"
)

// InMemoryStore keeps registered scopes in memory for tests/dev.
type InMemoryStore struct {
	mu     sync.RWMutex
	scopes map[string][]models.Scope // key: realm
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{scopes: make(map[string][]models.Scope)}
}

func (s *InMemoryStore) Save(_ context.Context, scope models.Scope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.scopes[scope.Realm] {
		if existing.Name == scope.Name {
			return nil
		}
	}
	s.scopes[scope.Realm] = append(s.scopes[scope.Realm], scope)
	return nil
}

func (s *InMemoryStore) ListByRealm(_ context.Context, realm string) ([]models.Scope, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]models.Scope, len(s.scopes[realm]))
	copy(result, s.scopes[realm])
	return result, nil
}
