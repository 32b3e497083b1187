// Package client stores client registrations.
//
// Error contract (all stores): return sentinel.ErrNotFound when the entity
// does not exist, nil on success, wrapped errors for infrastructure
// failures.
package client

import (
	"context"
	"sync"

	"aegis/internal/oauth/models"
	"aegis/pkg/platform/sentinel"
)

// InMemoryStore keeps client registrations in memory for tests/dev.
type InMemoryStore struct {
	mu      sync.RWMutex
	clients map[string]*models.Client // key: realm + "/" + clientID
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{clients: make(map[string]*models.Client)}
}

func key(realm, clientID string) string { return realm + "/" + clientID }

func (s *InMemoryStore) Save(_ context.Context, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[key(client.Realm, client.ClientID)] = client
	return nil
}

func (s *InMemoryStore) GetByClientID(_ context.Context, realm, clientID string) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if client, ok := s.clients[key(realm, clientID)]; ok {
		copied := *client
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}
