package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RateLimit allows max requests per client IP and window for the routes it
// guards, counted in Redis under <name>:<ip>. When Redis fails the request
// is let through.
func RateLimit(client *redis.Client, name string, max int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := name + ":" + c.ClientIP()

		n, err := client.Incr(ctx, key).Result()
		if err == nil && n == 1 {
			// First hit opens the window.
			err = client.Expire(ctx, key, window).Err()
		}
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("⚠️ Rate limiter unavailable")
			c.Next()
			return
		}

		count := int(n)
		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		if count > max {
			ttl, err := client.TTL(ctx, key).Result()
			if err != nil || ttl < 0 {
				ttl = window
			}
			c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())))
			c.Header("X-RateLimit-Remaining", "0")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success":     false,
				"error":       fmt.Sprintf("Too many requests. Try again in %d seconds", int(ttl.Seconds())),
				"retry_after": int(ttl.Seconds()),
			})
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(max-count))
		c.Next()
	}
}
