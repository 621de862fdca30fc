package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRegistry records issued admin tokens in Redis so that every replica
// accepts them and a logout on one replica revokes them everywhere.
// Keys expire together with the token.
type TokenRegistry struct {
	client *redis.Client
}

func NewTokenRegistry(client *redis.Client) *TokenRegistry {
	return &TokenRegistry{client: client}
}

func (r *TokenRegistry) Register(ctx context.Context, tokenID string, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(tokenID), "1", ttl).Err()
}

func (r *TokenRegistry) Active(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *TokenRegistry) Revoke(ctx context.Context, tokenID string) error {
	return r.client.Del(ctx, r.key(tokenID)).Err()
}

func (r *TokenRegistry) key(tokenID string) string {
	return "quiz:admin:token:" + tokenID
}
