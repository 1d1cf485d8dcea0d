package middleware

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/classwork-api/pkg/cache"
	appErrors "github.com/noah-isme/classwork-api/pkg/errors"
	"github.com/noah-isme/classwork-api/pkg/response"
)

type rateLimiter interface {
	Allow(ctx context.Context, key string) (cache.RateDecision, error)
	Limit() int
}

type rateRecorder interface {
	RecordRateLimited(path string)
}

// RateLimit sheds bursts per client IP and route. Limiter failures let the request through.
func RateLimit(limiter rateLimiter, recorder rateRecorder, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		path := c.FullPath()
		decision, err := limiter.Allow(c.Request.Context(), c.ClientIP()+":"+path)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.String("path", path), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		if !decision.Allowed {
			seconds := int(decision.RetryAfter.Seconds())
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			if recorder != nil {
				recorder.RecordRateLimited(path)
			}
			response.Error(c, appErrors.ErrTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}
