package ratelimit

import (
	"sync"
	"time"

	xhttp "CardScout/pkg/http"

	"github.com/labstack/echo/v4"
)

type bucket struct {
	tokens float64
	last   time.Time
}

// Limiter is a keyed token bucket. Every key gets capacity tokens that refill
// at refillPerSec. Buckets idle long enough to be full again are dropped.
type Limiter struct {
	mu           sync.Mutex
	m            map[string]*bucket
	capacity     float64
	refillPerSec float64
	idle         time.Duration
	lastSweep    time.Time
	now          func() time.Time
}

func New(capacity, refillPerSec float64) *Limiter {
	// without refill a bucket never recovers, so nothing is swept
	var idle time.Duration
	if refillPerSec > 0 {
		idle = time.Minute
		if full := time.Duration(capacity / refillPerSec * float64(time.Second)); full > idle {
			idle = full
		}
	}
	return &Limiter{
		m:            make(map[string]*bucket),
		capacity:     capacity,
		refillPerSec: refillPerSec,
		idle:         idle,
		now:          time.Now,
	}
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.idle > 0 && now.Sub(l.lastSweep) >= l.idle {
		l.sweepLocked(now)
	}

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: l.capacity, last: now}
		l.m[key] = b
	}
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * l.refillPerSec
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// sweepLocked removes buckets untouched for the idle period. A dropped key
// starts again at full capacity, which is where its bucket would be anyway.
func (l *Limiter) sweepLocked(now time.Time) {
	for k, b := range l.m {
		if now.Sub(b.last) >= l.idle {
			delete(l.m, k)
		}
	}
	l.lastSweep = now
}

// Middleware rejects requests over the limit with 429. Keys are the caller's
// user id when present, else the client IP.
func Middleware(l *Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get("X-User-ID")
			if key == "" {
				key = c.RealIP()
			}
			if !l.Allow(c.Path() + "|" + key) {
				return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limit exceeded, retry shortly"))
			}
			return next(c)
		}
	}
}
