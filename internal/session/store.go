package session

import "sync"

// TokenKey is the storage key of the persisted bearer token.
const TokenKey = "jwt_token"

// TokenStore is the persisted token slot. Get returns "" when nothing is stored.
type TokenStore interface {
	Get() (string, error)
	Set(token string) error
	Remove() error
}

// MemoryStore is an in-process TokenStore
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore returns a store seeded with token
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (m *MemoryStore) Get() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *MemoryStore) Set(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Remove() error {
	return m.Set("")
}
