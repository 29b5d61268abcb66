package store

import (
	"context"
	"sync"
	"time"

	"github.com/layer-3/nearstore/core"
	"github.com/layer-3/nearstore/ports"
)

// MemoryStore is an in-memory implementation of the Store interface
type MemoryStore struct {
	data        map[string]string
	invalidated map[string]time.Time
	mu          sync.RWMutex
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() ports.Store {
	return &MemoryStore{
		data:        make(map[string]string),
		invalidated: make(map[string]time.Time),
	}
}

// Get retrieves a value by key
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return "", core.ErrKeyNotFound
	}
	return value, nil
}

// Set stores a key with a value
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}

// Delete removes a key
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// InvalidateToken marks a token as invalidated until expiry passes
func (s *MemoryStore) InvalidateToken(ctx context.Context, tokenID string, expiry time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, until := range s.invalidated {
		if !now.Before(until) {
			delete(s.invalidated, id)
		}
	}

	if _, ok := s.invalidated[tokenID]; ok {
		return false, nil
	}
	s.invalidated[tokenID] = now.Add(expiry)
	return true, nil
}
