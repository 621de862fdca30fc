package memory

import (
	"context"
	"sync"
	"time"
)

// TokenRegistry tracks issued admin tokens in process memory.
type TokenRegistry struct {
	mu     sync.Mutex
	clock  func() time.Time
	tokens map[string]time.Time
}

func NewTokenRegistry() *TokenRegistry {
	return &TokenRegistry{clock: time.Now, tokens: make(map[string]time.Time)}
}

func (r *TokenRegistry) Register(_ context.Context, tokenID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[tokenID] = r.clock().Add(ttl)
	return nil
}

func (r *TokenRegistry) Active(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	expiresAt, ok := r.tokens[tokenID]
	if !ok {
		return false, nil
	}
	if !expiresAt.After(r.clock()) {
		delete(r.tokens, tokenID)
		return false, nil
	}
	return true, nil
}

func (r *TokenRegistry) Revoke(_ context.Context, tokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, tokenID)
	return nil
}
