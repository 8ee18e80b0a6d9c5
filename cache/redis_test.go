package cache

import (
	"bytes"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, "audience_test")
}

func TestRedisStore_GetSet(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	if _, ok := store.Get(ctx, "missing"); ok {
		t.Error("Get of unset key should return ok=false")
	}

	value := []byte(`["g1","g2"]`)
	if err := store.Set(ctx, "k1", value, []string{"node_list"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := store.Get(ctx, "k1")
	if !ok {
		t.Fatal("Get after Set should return ok=true")
	}
	if !bytes.Equal(got, value) {
		t.Errorf("Get returned %q, want %q", got, value)
	}
}

func TestRedisStore_Invalidate(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	_ = store.Set(ctx, "k1", []byte("v1"), []string{"og_membership:42", "og_membership_list"})
	_ = store.Set(ctx, "k2", []byte("v2"), []string{"og_membership_list"})

	if err := store.Invalidate(ctx, "og_membership:42"); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if _, ok := store.Get(ctx, "k1"); ok {
		t.Error("k1 should be evicted via its record tag")
	}
	if _, ok := store.Get(ctx, "k2"); !ok {
		t.Error("k2 should survive the narrow invalidation")
	}

	if err := store.Invalidate(ctx, "og_membership_list"); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if _, ok := store.Get(ctx, "k2"); ok {
		t.Error("k2 should be evicted via the list tag")
	}
}

func TestRedisStore_Flush(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	_ = store.Set(ctx, "k1", []byte("v1"), []string{"t1"})
	_ = store.Set(ctx, "k2", []byte("v2"), []string{"t2"})

	if err := store.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	if _, ok := store.Get(ctx, "k1"); ok {
		t.Error("k1 should be gone after Flush")
	}
	if _, ok := store.Get(ctx, "k2"); ok {
		t.Error("k2 should be gone after Flush")
	}
}

func TestRedisStore_UnreachableIsMiss(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client, "audience_test")

	ctx := context.Background()
	_ = store.Set(ctx, "k1", []byte("v1"), []string{"t1"})

	// A store failure must read as a miss, never as an error
	srv.Close()

	if _, ok := store.Get(ctx, "k1"); ok {
		t.Error("Get against an unreachable store should return ok=false")
	}
}

// Verify RedisStore implements Store interface at compile time
var _ Store = (*RedisStore)(nil)
