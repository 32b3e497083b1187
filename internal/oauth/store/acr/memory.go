// Package acr stores authentication context class references.
package acr

import (
	"context"
	"sync"

	"aegis/internal/oauth/models"
	"aegis/pkg/platform/sentinel"
)

// InMemoryStore keeps ACR definitions in memory. The first ACR saved
// for a realm becomes the realm default.
type InMemoryStore struct {
	mu       sync.RWMutex
	acrs     map[string]*models.Acr // key: realm + "/" + name
	defaults map[string]string      // realm -> default ACR name
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		acrs:     make(map[string]*models.Acr),
		defaults: make(map[string]string),
	}
}

func key(realm, name string) string { return realm + "/" + name }

func (s *InMemoryStore) Save(_ context.Context, acr *models.Acr) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acrs[key(acr.Realm, acr.Name)] = acr
	if _, ok := s.defaults[acr.Realm]; !ok {
		s.defaults[acr.Realm] = acr.Name
	}
	return nil
}

func (s *InMemoryStore) GetByName(_ context.Context, realm, name string) (*models.Acr, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if acr, ok := s.acrs[key(realm, name)]; ok {
		copied := *acr
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) GetDefault(_ context.Context, realm string) (*models.Acr, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.defaults[realm]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *s.acrs[key(realm, name)]
	return &copied, nil
}
