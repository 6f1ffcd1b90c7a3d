package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	resp "swag-shop/internal/transport/http/response"
)

// RateLimit is a global token bucket.
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		abort(c, resp.CodeTooManyRequests, "too many requests")
	}
}

// RateLimitPerIP keeps one token bucket per client IP. Buckets idle long
// enough to have refilled are dropped.
func RateLimitPerIP(rps rate.Limit, burst int) gin.HandlerFunc {
	b := newIPBuckets(rps, burst, time.Now)
	return func(c *gin.Context) {
		if b.allow(c.ClientIP()) {
			c.Next()
			return
		}
		abort(c, resp.CodeTooManyRequests, "too many requests")
	}
}

const minBucketIdle = 10 * time.Minute

type ipBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

type ipBuckets struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	idle      time.Duration
	now       func() time.Time
	m         map[string]*ipBucket
	lastSweep time.Time
}

func newIPBuckets(rps rate.Limit, burst int, now func() time.Time) *ipBuckets {
	idle := minBucketIdle
	// a dropped bucket must be indistinguishable from a fresh one
	if rps > 0 {
		if refill := time.Duration(float64(burst) / float64(rps) * float64(time.Second)); refill > idle {
			idle = refill
		}
	}
	return &ipBuckets{rps: rps, burst: burst, idle: idle, now: now, m: make(map[string]*ipBucket), lastSweep: now()}
}

func (b *ipBuckets) allow(ip string) bool {
	now := b.now()
	b.mu.Lock()
	if now.Sub(b.lastSweep) >= b.idle {
		for k, e := range b.m {
			if now.Sub(e.seen) >= b.idle {
				delete(b.m, k)
			}
		}
		b.lastSweep = now
	}
	e, ok := b.m[ip]
	if !ok {
		e = &ipBucket{lim: rate.NewLimiter(b.rps, b.burst)}
		b.m[ip] = e
	}
	e.seen = now
	b.mu.Unlock()
	return e.lim.AllowN(now, 1)
}

func (b *ipBuckets) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.m)
}
