package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/rafaelmiranda-prontix/GiftPix/internal/shared/apperr"
)

const HeaderAPIKey = "X-API-Key"

// RequireAPIKey protege rotas administrativas. Chave vazia na configuração
// desliga a checagem (ambiente local).
func RequireAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		got := c.GetHeader(HeaderAPIKey)
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			Fail(c, apperr.UnauthorizedErr("Credencial inválida."))
			return
		}
		c.Next()
	}
}
