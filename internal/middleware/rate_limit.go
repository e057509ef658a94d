// internal/middleware/rate_limit.go
package middleware

import (
	"fmt"
	"net/http"
	"time"

	"entitlement-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitMiddleware caps metered endpoint traffic per identity using
// a fixed one-minute window in redis. When redis is unreachable the
// request passes through; metering must not take the API down.
type RateLimitMiddleware struct {
	client    *redis.Client
	perMinute int
	logger    *zap.Logger
}

func NewRateLimitMiddleware(client *redis.Client, perMinute int, logger *zap.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		client:    client,
		perMinute: perMinute,
		logger:    logger,
	}
}

// Limit MUST be used after Auth() middleware.
func (m *RateLimitMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.client == nil || m.perMinute <= 0 {
			c.Next()
			return
		}

		identityID := MustGetIdentityID(c)
		window := time.Now().Unix() / 60
		key := fmt.Sprintf("ratelimit:%d:%d", identityID, window)

		ctx := c.Request.Context()
		count, err := m.client.Incr(ctx, key).Result()
		if err != nil {
			m.logger.Warn("rate limit check failed", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			m.client.Expire(ctx, key, time.Minute)
		}

		if count > int64(m.perMinute) {
			response.Error(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}

		c.Next()
	}
}
