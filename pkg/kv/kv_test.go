package kv

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type record struct {
	Count   int   `json:"count"`
	ResetAt int64 `json:"resetAt"`
}

func TestMemoryStore_RoundTripAndMiss(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var got record
	found, err := s.Get(ctx, "missing", &got)
	if err != nil || found {
		t.Fatalf("expected miss without error, got found=%v err=%v", found, err)
	}

	if err := s.Set(ctx, "k", record{Count: 3, ResetAt: 99}, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	found, err = s.Get(ctx, "k", &got)
	if err != nil || !found {
		t.Fatalf("expected hit, got found=%v err=%v", found, err)
	}
	if got.Count != 3 || got.ResetAt != 99 {
		t.Fatalf("unexpected record %+v", got)
	}
}

func TestMemoryStore_ExpiresWithTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1000, 0)
	s := NewMemoryStore(WithClock(func() time.Time { return now }))

	if err := s.Set(ctx, "k", record{Count: 1}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	now = now.Add(59 * time.Second)
	var got record
	if found, _ := s.Get(ctx, "k", &got); !found {
		t.Fatalf("expected entry before ttl")
	}

	now = now.Add(time.Second)
	if found, _ := s.Get(ctx, "k", &got); found {
		t.Fatalf("expected entry to expire at ttl")
	}
	if s.Len() != 0 {
		t.Fatalf("expected expired entry to be dropped")
	}
}

func TestRedisStore_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	s := NewRedisStore(client)

	var got record
	found, err := s.Get(ctx, "rl:1.2.3.4", &got)
	if err != nil || found {
		t.Fatalf("expected miss, got found=%v err=%v", found, err)
	}

	if err := s.Set(ctx, "rl:1.2.3.4", record{Count: 2, ResetAt: 7}, 2*time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := mr.TTL("rl:1.2.3.4"); ttl != 2*time.Minute {
		t.Fatalf("expected ttl 2m, got %s", ttl)
	}

	found, err = s.Get(ctx, "rl:1.2.3.4", &got)
	if err != nil || !found || got.Count != 2 {
		t.Fatalf("unexpected get result found=%v err=%v rec=%+v", found, err, got)
	}
}

func TestRedisStore_ErrorsWhenServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	var got record
	if _, err := NewRedisStore(client).Get(context.Background(), "k", &got); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}

func TestRedisStore_NilClient(t *testing.T) {
	var s *RedisStore
	if err := s.Set(context.Background(), "k", 1, 0); err != ErrUnavailable {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
