package revocation

import (
	"context"
	"sync"
	"time"
)

// InMemoryList is the single-process fallback when Redis is not configured.
type InMemoryList struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewInMemoryList() *InMemoryList {
	return &InMemoryList{revoked: make(map[string]time.Time)}
}

func (t *InMemoryList) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.revoked[jti] = time.Now().Add(ttl)
	return nil
}

func (t *InMemoryList) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	t.mu.RLock()
	expiry, ok := t.revoked[jti]
	t.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		t.mu.Lock()
		delete(t.revoked, jti)
		t.mu.Unlock()
		return false, nil
	}
	return true, nil
}
