package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/scorebridge/scoring-api/internal/app/storage"
)

func TestGetAndSet(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	s.Set("i:1", `["books"]`)
	v, err := s.Get(ctx, "i:1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != `["books"]` {
		t.Fatalf("unexpected value %q", v)
	}
}

func TestCacheExpiry(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.CacheSet(ctx, "k", "v", time.Millisecond)
	if v, ok := s.CacheGet(ctx, "k"); !ok || v != "v" {
		t.Fatalf("expected fresh cache hit, got %q/%v", v, ok)
	}

	time.Sleep(5 * time.Millisecond)
	if _, ok := s.CacheGet(ctx, "k"); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestCacheSetWithoutTTL(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.CacheSet(ctx, "k", "v", 0)
	if _, ok := s.CacheGet(ctx, "k"); !ok {
		t.Fatalf("expected zero-ttl entry to persist")
	}
}
