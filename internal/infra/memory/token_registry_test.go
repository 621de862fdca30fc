package memory

import (
	"context"
	"testing"
	"time"
)

func TestTokenRegistryLifecycle(t *testing.T) {
	r := NewTokenRegistry()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.clock = func() time.Time { return now }
	ctx := context.Background()

	if ok, _ := r.Active(ctx, "jti-1"); ok {
		t.Fatalf("unknown token reported active")
	}
	_ = r.Register(ctx, "jti-1", time.Hour)
	_ = r.Register(ctx, "jti-2", time.Hour)
	if ok, _ := r.Active(ctx, "jti-1"); !ok {
		t.Fatalf("expected registered token to be active")
	}

	_ = r.Revoke(ctx, "jti-1")
	if ok, _ := r.Active(ctx, "jti-1"); ok {
		t.Fatalf("revoked token still active")
	}

	now = now.Add(2 * time.Hour)
	if ok, _ := r.Active(ctx, "jti-2"); ok {
		t.Fatalf("expired token still active")
	}
}
