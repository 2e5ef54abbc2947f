package cache

import (
	"context"
	"testing"
	"time"
)

func TestTTLCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewTTLCache(10)
	c.now = func() time.Time { return now }

	if err := c.SetBytes(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("SetBytes: %v", err)
	}
	if b, ok, _ := c.GetBytes(ctx, "k"); !ok || string(b) != "v" {
		t.Fatalf("expected hit, got %q %v", b, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := c.GetBytes(ctx, "k"); ok {
		t.Fatalf("expected expired entry to miss")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry not removed")
	}
}

func TestTTLCacheBounded(t *testing.T) {
	ctx := context.Background()
	c := NewTTLCache(3)
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		_ = c.SetBytes(ctx, k, []byte(k), 0)
	}
	if c.Len() > 3 {
		t.Fatalf("cache grew to %d entries", c.Len())
	}
	if _, ok, _ := c.GetBytes(ctx, "e"); !ok {
		t.Fatalf("latest entry must be present")
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c := NewTTLCache(0)
	type payload struct{ N int }

	key := Key("deals", "lebron", "ebay")
	if key == Key("deals", "lebron", "pwcc") {
		t.Fatalf("keys must differ")
	}
	if err := SetJSON(ctx, c, key, payload{N: 3}, time.Minute); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	var got payload
	ok, err := GetJSON(ctx, c, key, &got)
	if err != nil || !ok || got.N != 3 {
		t.Fatalf("GetJSON = %+v %v %v", got, ok, err)
	}
	if ok, _ := GetJSON(ctx, c, "missing", &got); ok {
		t.Fatalf("expected miss")
	}
}
