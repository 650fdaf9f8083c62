package audit

import (
	"context"
	"sync"
)

// InMemoryStore keeps the audit trail in memory, indexed by device.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.DeviceID] = append(s.events[event.DeviceID], event)
	return nil
}

func (s *InMemoryStore) ListByDevice(_ context.Context, deviceID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[deviceID]...), nil
}
