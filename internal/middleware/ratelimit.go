package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit returns per-API-key rate limiting middleware using token
// buckets: each key gets a bucket that fills at rps tokens/sec up to burst.
// A search session alone triggers ten provider calls, so this guards the
// expensive endpoints against a single key hammering the service.
//
// The limiter map is shared across requests, hence the mutex.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(c *gin.Context) {
		// Set by the auth middleware; if auth didn't run there is no key
		// to bucket on, so allow through.
		key, exists := c.Get("api_key")
		if !exists {
			c.Next()
			return
		}

		apiKey := key.(string)

		mu.Lock()
		limiter, exists := limiters[apiKey]
		if !exists {
			limiter = rate.NewLimiter(rate.Limit(rps), burst)
			limiters[apiKey] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}
