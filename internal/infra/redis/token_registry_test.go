package redis

import (
	"context"
	"testing"
	"time"
)

func TestTokenRegistryRoundTrip(t *testing.T) {
	client, mr := newClient(t)
	registry := NewTokenRegistry(client)
	ctx := context.Background()

	if err := registry.Register(ctx, "jti-1", time.Hour); err != nil {
		t.Fatalf("register: %v", err)
	}
	if ok, err := registry.Active(ctx, "jti-1"); err != nil || !ok {
		t.Fatalf("expected active token, got %v (%v)", ok, err)
	}
	if ttl := mr.TTL("quiz:admin:token:jti-1"); ttl != time.Hour {
		t.Fatalf("expected 1h ttl, got %v", ttl)
	}

	if err := registry.Revoke(ctx, "jti-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if ok, _ := registry.Active(ctx, "jti-1"); ok {
		t.Fatalf("revoked token still active")
	}
}

func TestTokenRegistryExpiry(t *testing.T) {
	client, mr := newClient(t)
	registry := NewTokenRegistry(client)
	ctx := context.Background()

	_ = registry.Register(ctx, "jti-2", time.Minute)
	mr.FastForward(2 * time.Minute)
	if ok, _ := registry.Active(ctx, "jti-2"); ok {
		t.Fatalf("expired token still active")
	}
}
