package middleware

import (
	"strconv"
	"sync"

	"go-staff/internal/config"
	"go-staff/internal/shared/apperror"
	"go-staff/internal/shared/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// KeyedRateLimiter hands out one token bucket per key (client IP or user).
type KeyedRateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	r        rate.Limit // tokens per second
	b        int        // burst
}

func NewKeyedRateLimiter(r rate.Limit, b int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		b:        b,
	}
}

func (k *KeyedRateLimiter) GetLimiter(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	limiter, exists := k.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(k.r, k.b)
		k.limiters[key] = limiter
	}
	return limiter
}

func RateLimitByIP(r rate.Limit, b int) gin.HandlerFunc {
	limiter := NewKeyedRateLimiter(r, b)
	return func(c *gin.Context) {
		if !limiter.GetLimiter(c.ClientIP()).Allow() {
			abortTooManyRequests(c)
			return
		}
		c.Next()
	}
}

// RateLimitByUser limits authenticated callers by account. Anonymous
// requests pass through untouched.
func RateLimitByUser(r rate.Limit, b int) gin.HandlerFunc {
	limiter := NewKeyedRateLimiter(r, b)
	return func(c *gin.Context) {
		uid, ok := c.Get(ContextUserID)
		if !ok {
			c.Next()
			return
		}
		id, _ := uid.(uint)
		if !limiter.GetLimiter(strconv.FormatUint(uint64(id), 10)).Allow() {
			abortTooManyRequests(c)
			return
		}
		c.Next()
	}
}

// LimitByIP and LimitByUser build the limiters from configured values.
func LimitByIP(l config.RateLimit) gin.HandlerFunc {
	return RateLimitByIP(rate.Limit(l.PerSecond), l.Burst)
}

func LimitByUser(l config.RateLimit) gin.HandlerFunc {
	return RateLimitByUser(rate.Limit(l.PerSecond), l.Burst)
}

func abortTooManyRequests(c *gin.Context) {
	e := apperror.ErrTooManyRequests
	response.Error(c, e.HTTPStatus, e.Code, e.Message, nil)
	c.Abort()
}
