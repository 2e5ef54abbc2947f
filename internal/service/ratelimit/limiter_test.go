package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestLimiterRefill(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(2, 1)
	l.now = func() time.Time { return now }

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatalf("first two requests should pass")
	}
	if l.Allow("a") {
		t.Fatalf("third request should be limited")
	}
	if !l.Allow("b") {
		t.Fatalf("keys are independent")
	}

	now = now.Add(1500 * time.Millisecond)
	if !l.Allow("a") {
		t.Fatalf("token should have refilled")
	}
	if l.Allow("a") {
		t.Fatalf("only one token refilled")
	}
}

func TestLimiterDropsIdleBuckets(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(2, 1)
	l.now = func() time.Time { return now }

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		l.Allow(ip)
	}
	if len(l.m) != 3 {
		t.Fatalf("buckets = %d; want 3", len(l.m))
	}

	now = now.Add(2 * time.Minute)
	if !l.Allow("10.0.0.9") {
		t.Fatalf("new key should pass")
	}
	if len(l.m) != 1 {
		t.Fatalf("buckets after idle period = %d; want 1", len(l.m))
	}
}

func TestMiddlewareRejects(t *testing.T) {
	e := echo.New()
	l := New(1, 0)
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, Middleware(l))

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-User-ID", "u1")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("request %d: status %d; want %d", i, rec.Code, want)
		}
	}
}
