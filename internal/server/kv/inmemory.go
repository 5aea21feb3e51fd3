package kv

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/proposalkeeper/internal/common"
)

type entry struct {
	data    []byte
	version int64
}

// InMemoryStore is a Store held entirely in process memory. It is the
// default backend when no database DSN is configured, and the backend used
// by tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string]entry)}
}

func (s *InMemoryStore) Get(ctx context.Context, key string) ([]byte, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, 0, nil
	}
	data := make([]byte, len(e.data))
	copy(data, e.data)
	return data, e.version, nil
}

func (s *InMemoryStore) Put(ctx context.Context, key string, data []byte, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	current := int64(0)
	if ok {
		current = e.version
	}
	if version != current {
		return common.ErrVersionConflict
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	s.entries[key] = entry{data: stored, version: current + 1}
	return nil
}

func (s *InMemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
