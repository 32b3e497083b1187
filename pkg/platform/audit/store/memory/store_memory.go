package memory

import (
	"context"
	"sync"

	audit "aegis/pkg/platform/audit"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events...), nil
}

// ListByClient filters events by the client that triggered them.
func (s *InMemoryStore) ListByClient(_ context.Context, realm, clientID string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []audit.Event
	for _, event := range s.events {
		if event.Realm == realm && event.ClientID == clientID {
			result = append(result, event)
		}
	}
	return result, nil
}
