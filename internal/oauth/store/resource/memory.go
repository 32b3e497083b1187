// Package resource stores the API resources registered per realm.
package resource

import (
	"context"
	"sync"

	"aegis/internal/oauth/models"
	"aegis/pkg/platform/sentinel"
)

// InMemoryStore keeps API resources in memory for tests/dev.
type InMemoryStore struct {
	mu        sync.RWMutex
	resources map[string]*models.APIResource // key: realm + "/" + identifier
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{resources: make(map[string]*models.APIResource)}
}

func key(realm, identifier string) string { return realm + "/" + identifier }

func (s *InMemoryStore) Save(_ context.Context, resource *models.APIResource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[key(resource.Realm, resource.Identifier)] = resource
	return nil
}

func (s *InMemoryStore) GetByIdentifier(_ context.Context, realm, identifier string) (*models.APIResource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if resource, ok := s.resources[key(realm, identifier)]; ok {
		copied := *resource
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}
