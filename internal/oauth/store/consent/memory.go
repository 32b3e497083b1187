// Package consent stores consent grants.
package consent

import (
	"context"
	"sync"

	"aegis/internal/oauth/models"
)

// InMemoryStore keeps consent grants in memory for tests/dev.
type InMemoryStore struct {
	mu     sync.RWMutex
	grants []*models.ConsentGrant
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Save(_ context.Context, grant *models.ConsentGrant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.grants {
		if existing.ID == grant.ID {
			s.grants[i] = grant
			return nil
		}
	}
	s.grants = append(s.grants, grant)
	return nil
}

func (s *InMemoryStore) ListByUserAndClient(_ context.Context, realm, userID, clientID string) ([]models.ConsentGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []models.ConsentGrant
	for _, grant := range s.grants {
		if grant.Realm == realm && grant.UserID == userID && grant.ClientID == clientID {
			result = append(result, *grant)
		}
	}
	return result, nil
}
