package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyLockTTL = 10 * time.Second
	idempotencyTTL     = 24 * time.Hour
)

// Idempotency rejects a repeated Idempotency-Key on state-changing requests
// with 409. Without a Redis client or a key the request passes through.
func Idempotency(client *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil {
			c.Next()
			return
		}
		m := c.Request.Method
		if m != http.MethodPost && m != http.MethodPut && m != http.MethodPatch {
			c.Next()
			return
		}
		key := c.GetHeader("Idempotency-Key")
		if key == "" {
			c.Next()
			return
		}

		idemKey := fmt.Sprintf("idempotency:%s", key)
		if s, ok := CurrentSession(c); ok {
			idemKey = fmt.Sprintf("idempotency:%d:%s", s.UserID, key)
		}
		ctx := c.Request.Context()

		acquired, err := client.SetNX(ctx, idemKey, "PROCESSING", idempotencyLockTTL).Result()
		if err != nil {
			// Redis trouble must not block bookings.
			c.Next()
			return
		}
		if !acquired {
			c.Header("X-Idempotency-Hit", "true")
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error":      "request already processed",
				"request_id": GetRequestID(c),
			})
			return
		}

		c.Next()

		if c.Writer.Status() >= 400 {
			// Failed attempts may be retried with the same key.
			client.Del(ctx, idemKey)
			return
		}
		client.Set(ctx, idemKey, "COMPLETED", idempotencyTTL)
	}
}
