package auth

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestTokenCacheRefreshesOnceForConcurrentCallers(t *testing.T) {
	var calls int32
	c := NewTokenCache(func(ctx context.Context) (Token, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(20 * time.Millisecond)
		return Token{Value: "abc", ExpiresAt: time.Now().Add(time.Hour)}, nil
	}, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Token(context.Background())
			if err != nil || v != "abc" {
				t.Errorf("Token() = %q, %v", v, err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("fetch called %d times; want 1", got)
	}
}

func TestTokenCacheRefreshesAfterExpiry(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	n := 0
	c := NewTokenCache(func(ctx context.Context) (Token, error) {
		n++
		return Token{Value: string(rune('a' + n - 1)), ExpiresAt: now.Add(2 * time.Hour)}, nil
	}, 5*time.Minute)
	c.now = func() time.Time { return now }

	if v, _ := c.Token(context.Background()); v != "a" {
		t.Fatalf("first token = %q", v)
	}
	now = now.Add(time.Hour)
	if v, _ := c.Token(context.Background()); v != "a" {
		t.Fatalf("cached token = %q", v)
	}
	// inside the refresh margin
	now = now.Add(56 * time.Minute)
	if v, _ := c.Token(context.Background()); v != "b" {
		t.Fatalf("refreshed token = %q", v)
	}
}

func TestTokenCacheShortLivedToken(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	n := 0
	c := NewTokenCache(func(ctx context.Context) (Token, error) {
		n++
		return Token{Value: "short", ExpiresAt: now.Add(30 * time.Second)}, nil
	}, time.Minute)
	c.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if v, err := c.Token(context.Background()); err != nil || v != "short" {
			t.Fatalf("Token() = %q, %v", v, err)
		}
	}
	if n != 1 {
		t.Fatalf("fetch called %d times within lifetime; want 1", n)
	}

	now = now.Add(20 * time.Second)
	if _, err := c.Token(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("fetch called %d times after half the lifetime; want 2", n)
	}
}

func TestTokenCacheFetchError(t *testing.T) {
	boom := errors.New("boom")
	c := NewTokenCache(func(ctx context.Context) (Token, error) { return Token{}, boom }, 0)
	if _, err := c.Token(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("error = %v; want wrapped boom", err)
	}
}

func TestTokenCacheInvalidate(t *testing.T) {
	n := 0
	c := NewTokenCache(func(ctx context.Context) (Token, error) {
		n++
		return Token{Value: "x", ExpiresAt: time.Now().Add(time.Hour)}, nil
	}, 0)
	_, _ = c.Token(context.Background())
	c.Invalidate()
	_, _ = c.Token(context.Background())
	if n != 2 {
		t.Fatalf("fetch calls = %d; want 2", n)
	}
}
