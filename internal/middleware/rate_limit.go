package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/tripbound/travel-booking-backend/internal/config"
)

// clientLimiter tracks one token bucket per client IP
type clientLimiter struct {
	limiters sync.Map
	rps      rate.Limit
	burst    int
}

func (l *clientLimiter) get(key string) *rate.Limiter {
	if limiter, ok := l.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}
	limiter, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(l.rps, l.burst))
	return limiter.(*rate.Limiter)
}

// RateLimitMiddleware rejects clients exceeding the configured request
// rate with 429. Buckets are keyed by client IP.
func RateLimitMiddleware(cfg config.RateLimitConfig) gin.HandlerFunc {
	limiter := &clientLimiter{
		rps:   rate.Limit(cfg.RPS),
		burst: cfg.Burst,
	}

	return func(c *gin.Context) {
		if !limiter.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"message": "Too many requests, please slow down",
					"code":    "RATE_LIMITED",
				},
			})
			return
		}
		c.Next()
	}
}
