package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimit aplica janela fixa por ip+escopo em Redis. Se o Redis estiver
// fora, a requisição passa; o limite é proteção, não disponibilidade.
func RateLimit(rdb *redis.Client, scope string, max int64, window time.Duration, l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || max <= 0 {
			c.Next()
			return
		}

		bucket := time.Now().Unix() / int64(window.Seconds())
		key := fmt.Sprintf("rl:%s:%s:%d", scope, c.ClientIP(), bucket)

		ctx := c.Request.Context()
		n, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			l.WarnContext(ctx, "rate limit unavailable", "scope", scope, "err", err)
			c.Next()
			return
		}
		if n == 1 {
			if err := rdb.Expire(ctx, key, window).Err(); err != nil {
				l.WarnContext(ctx, "rate limit expire failed", "key", key, "err", err)
			}
		}

		remaining := max - n
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.FormatInt(max, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if n > max {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Muitas requisições. Tente novamente em instantes.",
				"code":  "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}
