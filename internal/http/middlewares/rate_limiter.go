package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// staleAfter is how long an idle client's bucket survives before pruning.
const staleAfter = 10 * time.Minute

type bucket struct {
	tokens   int
	lastSeen time.Time
}

// RateLimiter is a per-client-IP token bucket.
type RateLimiter struct {
	mu      sync.Mutex
	rate    int
	burst   int
	buckets map[string]*bucket
}

func NewRateLimiter(rate, burst int) *RateLimiter {
	return &RateLimiter{
		rate:    rate,
		burst:   burst,
		buckets: make(map[string]*bucket),
	}
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		rl.mu.Lock()
		now := time.Now()

		b, ok := rl.buckets[ip]
		if !ok {
			b = &bucket{tokens: rl.burst, lastSeen: now}
			rl.buckets[ip] = b
			rl.prune(now)
		}

		elapsed := now.Sub(b.lastSeen)
		b.lastSeen = now

		b.tokens += int(elapsed.Seconds()) * rl.rate
		if b.tokens > rl.burst {
			b.tokens = rl.burst
		}

		if b.tokens <= 0 {
			rl.mu.Unlock()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		b.tokens--
		rl.mu.Unlock()

		c.Next()
	}
}

// prune drops buckets idle past staleAfter. Called with the lock held, on
// the new-client path only, so steady traffic pays nothing.
func (rl *RateLimiter) prune(now time.Time) {
	for ip, b := range rl.buckets {
		if now.Sub(b.lastSeen) > staleAfter {
			delete(rl.buckets, ip)
		}
	}
}
