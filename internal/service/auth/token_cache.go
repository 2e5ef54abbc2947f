// Package auth caches short-lived bearer tokens for outbound APIs.
package auth

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Token is an access token and the instant it stops being valid.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// FetchFunc obtains a fresh token from the identity provider.
type FetchFunc func(ctx context.Context) (Token, error)

// TokenCache holds one token and refreshes it under a lock. Concurrent callers
// that find it expired wait for a single refresh.
type TokenCache struct {
	mu    sync.RWMutex
	token Token
	// effective margin for the current token
	skew   time.Duration
	fetch  FetchFunc
	margin time.Duration
	now    func() time.Time
}

// NewTokenCache refreshes margin before the reported expiry. Tokens whose
// lifetime is not much longer than margin refresh at half their lifetime.
func NewTokenCache(fetch FetchFunc, margin time.Duration) *TokenCache {
	return &TokenCache{fetch: fetch, margin: margin, now: time.Now}
}

// Token returns the cached value or fetches a new one.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	c.mu.RLock()
	if c.validLocked() {
		v := c.token.Value
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// another caller may have refreshed while we waited
	if c.validLocked() {
		return c.token.Value, nil
	}

	t, err := c.fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	if t.Value == "" {
		return "", fmt.Errorf("refresh token: empty access token")
	}
	c.token = t
	c.skew = c.margin
	if half := t.ExpiresAt.Sub(c.now()) / 2; half < c.skew {
		c.skew = half
	}
	return t.Value, nil
}

// Invalidate drops the cached token so the next call refetches.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	c.token = Token{}
	c.skew = 0
	c.mu.Unlock()
}

func (c *TokenCache) validLocked() bool {
	return c.token.Value != "" && c.now().Add(c.skew).Before(c.token.ExpiresAt)
}
