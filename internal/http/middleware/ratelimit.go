package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// KeyFunc picks the bucket a request is charged to.
type KeyFunc func(*gin.Context) string

// KeyByUserOrIP charges identified callers per user and everyone else per
// client IP. The prefixes keep the two namespaces apart.
func KeyByUserOrIP() KeyFunc {
	return func(c *gin.Context) string {
		if id := UserIDFrom(c); id != "" {
			return "user:" + id
		}
		return "ip:" + c.ClientIP()
	}
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter is a process-local token bucket per key. Buckets idle for
// longer than idleTTL are dropped by a sweep that runs at most once per
// sweepEvery. It is safe for concurrent use.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	key   KeyFunc
	now   func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	idleTTL   time.Duration
	sweepEvry time.Duration
	lastSweep time.Time
}

// NewRateLimiter returns a limiter refilling rps tokens per second up to
// burst (at least 1). A nil key charges every request to one bucket.
func NewRateLimiter(rps float64, burst int, key KeyFunc) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	if key == nil {
		key = func(*gin.Context) string { return "global" }
	}
	return &RateLimiter{
		rps:       rate.Limit(rps),
		burst:     burst,
		key:       key,
		now:       time.Now,
		buckets:   make(map[string]*bucket),
		idleTTL:   10 * time.Minute,
		sweepEvry: time.Minute,
	}
}

// limiter returns the bucket for k, creating it on first use.
func (rl *RateLimiter) limiter(k string) *rate.Limiter {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) >= rl.sweepEvry {
		for bk, b := range rl.buckets {
			if now.Sub(b.seen) >= rl.idleTTL {
				delete(rl.buckets, bk)
			}
		}
		rl.lastSweep = now
	}

	b, ok := rl.buckets[k]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rl.rps, rl.burst)}
		rl.buckets[k] = b
	}
	b.seen = now
	return b.lim
}

// size reports the number of live buckets.
func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// Handler enforces the limit. Idempotent replays are exempt. Rejected
// requests get 429 too_many_requests with Retry-After set to the whole
// seconds until the next token.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool(ctxKeyRateBypass) {
			c.Next()
			return
		}
		lim := rl.limiter(rl.key(c))
		now := rl.now()
		if lim.AllowN(now, 1) {
			c.Next()
			return
		}

		retry := 1
		if r := lim.ReserveN(now, 1); r.OK() {
			if d := r.DelayFrom(now); d > 0 {
				retry = int(math.Ceil(d.Seconds()))
			}
			r.CancelAt(now)
		}
		c.Header("Retry-After", strconv.Itoa(retry))
		abortJSON(c, http.StatusTooManyRequests, "too_many_requests", "rate limit exceeded")
	}
}
