package persistence

import (
	"context"
	"sync"

	"github.com/AnEntrypoint/flowkit/pkg/api"
)

// InMemoryStore is a simple, goroutine-safe FlowStore backed by a map.
// Flows are cloned on both Put and Get so callers and the store never share
// a mutable document.
type InMemoryStore struct {
	mu    sync.RWMutex
	flows map[string]*api.Flow
}

// NewInMemoryStore creates a new InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		flows: make(map[string]*api.Flow),
	}
}

var _ FlowStore = (*InMemoryStore)(nil)

func (s *InMemoryStore) GetFlow(ctx context.Context, taskID string) (*api.Flow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.flows[taskID]
	if !ok {
		return nil, ErrFlowNotFound
	}

	return f.Clone(), nil
}

func (s *InMemoryStore) PutFlow(ctx context.Context, f *api.Flow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flows[f.ID] = f.Clone()
	return nil
}
