package engine

import (
	"context"
	"testing"
	"time"
)

func TestCacheKeyDeterministic(t *testing.T) {
	a := CacheKey("comments", "dQw4w9WgXcQ", "500")
	b := CacheKey("comments", "dQw4w9WgXcQ", "500")
	c := CacheKey("comments", "dQw4w9WgXcQ", "100")

	if a != b {
		t.Errorf("same parts produced different keys: %q vs %q", a, b)
	}
	if a == c {
		t.Error("different parts produced the same key")
	}
	if len(a) != 27 || a[:3] != "wl:" {
		t.Errorf("key shape = %q", a)
	}
}

func TestCacheNilSafe(t *testing.T) {
	corpusCache = nil
	ctx := context.Background()

	if _, ok := CacheGet(ctx, "wl:x"); ok {
		t.Error("uninitialized cache reported a hit")
	}
	CacheSet(ctx, "wl:x", []byte("data")) // must not panic
}

func TestCacheRoundTrip(t *testing.T) {
	InitCache("", time.Minute, 10, time.Minute)
	t.Cleanup(func() { corpusCache = nil })
	ctx := context.Background()

	key := CacheKey("test", "round-trip")
	type payload struct {
		Words []string `json:"words"`
	}

	if _, ok := CacheLoadJSON[payload](ctx, key); ok {
		t.Fatal("hit before store")
	}

	CacheStoreJSON(ctx, key, payload{Words: []string{"a", "b"}})
	got, ok := CacheLoadJSON[payload](ctx, key)
	if !ok {
		t.Fatal("miss after store")
	}
	if len(got.Words) != 2 || got.Words[0] != "a" {
		t.Errorf("payload = %+v", got)
	}
}

func TestCacheExpiry(t *testing.T) {
	InitCache("", 10*time.Millisecond, 10, time.Minute)
	t.Cleanup(func() { corpusCache = nil })
	ctx := context.Background()

	key := CacheKey("test", "expiry")
	CacheSet(ctx, key, []byte("x"))
	if _, ok := CacheGet(ctx, key); !ok {
		t.Fatal("miss right after store")
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := CacheGet(ctx, key); ok {
		t.Error("hit after TTL expiry")
	}
}
