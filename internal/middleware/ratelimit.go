package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimit caps requests per client IP over a sliding window. State is
// held in-process; deployments with multiple replicas need an external
// limiter in front.
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	l := newIPLimiter(limit, window)

	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "Rate limit exceeded. Please try again later.",
			})
			return
		}
		c.Next()
	}
}

type ipLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration
}

func newIPLimiter(limit int, window time.Duration) *ipLimiter {
	l := &ipLimiter{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
	}
	go l.prune()
	return l
}

// allow records a hit for ip unless the window is already full
func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	recent := l.hits[ip][:0]
	for _, ts := range l.hits[ip] {
		if now.Sub(ts) < l.window {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= l.limit {
		l.hits[ip] = recent
		return false
	}
	l.hits[ip] = append(recent, now)
	return true
}

// prune drops idle clients so the map does not grow without bound
func (l *ipLimiter) prune() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for ip, times := range l.hits {
			i := 0
			for _, ts := range times {
				if now.Sub(ts) < l.window {
					times[i] = ts
					i++
				}
			}
			if i == 0 {
				delete(l.hits, ip)
			} else {
				l.hits[ip] = times[:i]
			}
		}
		l.mu.Unlock()
	}
}
