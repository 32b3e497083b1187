// Package bcauthorize stores backchannel authentication requests.
//
// UpdateAndSave must be atomic with respect to concurrent callers: two
// clients polling the same auth_req_id must not both commit a
// transition to Completed.
package bcauthorize

import (
	"context"
	"sync"

	"aegis/internal/oauth/models"
	"aegis/pkg/platform/sentinel"
)

// InMemoryStore keeps backchannel requests in memory for tests/dev.
type InMemoryStore struct {
	mu       sync.RWMutex
	requests map[string]*models.BCAuthorize // key: realm + "/" + id
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{requests: make(map[string]*models.BCAuthorize)}
}

func key(realm, id string) string { return realm + "/" + id }

func (s *InMemoryStore) Save(_ context.Context, request *models.BCAuthorize) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *request
	s.requests[key(request.Realm, request.ID)] = &copied
	return nil
}

func (s *InMemoryStore) GetByID(_ context.Context, realm, id string) (*models.BCAuthorize, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if request, ok := s.requests[key(realm, id)]; ok {
		copied := *request
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

// UpdateAndSave commits a state transition. The stored record is
// re-checked under the write lock so that a poller racing on the same
// auth_req_id cannot commit Completed twice.
func (s *InMemoryStore) UpdateAndSave(_ context.Context, request *models.BCAuthorize) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.requests[key(request.Realm, request.ID)]
	if !ok {
		return sentinel.ErrNotFound
	}
	if stored.Status == models.BCAuthorizeCompleted {
		return sentinel.ErrAlreadyConsumed
	}
	copied := *request
	s.requests[key(request.Realm, request.ID)] = &copied
	return nil
}
