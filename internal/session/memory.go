package session

import (
	"context"
	"sync"
)

// MemoryStore keeps tokens in process memory. Used for tests and single
// instance development setups.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]string)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens[key], nil
}

func (m *MemoryStore) Set(ctx context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[key] = token
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, key)
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
