package cache

import (
	"context"
	"database/sql"
	"sync"
	"time"
)

// MemoryTokens is the in-memory counterpart of TokenRepo, used with the
// memory cache driver and in tests.  It reports invalid tokens with
// sql.ErrNoRows so callers treat both implementations identically.
type MemoryTokens struct {
	mu     sync.Mutex
	byHash map[string]memToken
}

type memToken struct {
	userID  string
	exp     time.Time
	revoked bool
}

func NewMemoryTokens() *MemoryTokens {
	return &MemoryTokens{byHash: make(map[string]memToken)}
}

func (m *MemoryTokens) StoreRefresh(_ context.Context, userID, tokenHash string, exp time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byHash[tokenHash] = memToken{userID: userID, exp: exp}
	return nil
}

func (m *MemoryTokens) ValidateRefresh(_ context.Context, tokenHash string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.byHash[tokenHash]
	if !ok || t.revoked || time.Now().UTC().After(t.exp) {
		return "", sql.ErrNoRows
	}
	return t.userID, nil
}

func (m *MemoryTokens) RevokeByHash(_ context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.byHash[tokenHash]; ok {
		t.revoked = true
		m.byHash[tokenHash] = t
	}
	return nil
}

func (m *MemoryTokens) RevokeAllForUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for h, t := range m.byHash {
		if t.userID == userID {
			t.revoked = true
			m.byHash[h] = t
		}
	}
	return nil
}
