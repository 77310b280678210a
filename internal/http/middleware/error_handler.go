package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafaelmiranda-prontix/GiftPix/internal/providers"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/shared/apperr"
)

func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandler converte o último erro acumulado na resposta JSON da API.
// Erros de provider carregam o código/mensagem do PSP; o resto passa pela
// taxonomia de apperr.
func ErrorHandler(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		rid := GetRequestID(c)

		var perr *providers.ProviderError
		if errors.As(err, &perr) {
			l.LogAttrs(c.Request.Context(), slog.LevelError, "provider_request_failed",
				slog.String("request_id", rid),
				slog.String("provider", perr.Provider),
				slog.Int("provider_status", perr.StatusCode),
				slog.String("provider_code", perr.ErrorCode),
				slog.Any("err", err),
			)

			payload := gin.H{
				"error":      "Falha na comunicação com o provedor de pagamento.",
				"code":       "PROVIDER_ERROR",
				"provider":   perr.Provider,
				"request_id": rid,
			}
			if perr.ErrorCode != "" {
				payload["provider_code"] = perr.ErrorCode
			}
			if perr.Message != "" {
				payload["provider_message"] = perr.Message
			}
			c.AbortWithStatusJSON(http.StatusBadGateway, payload)
			return
		}

		status := apperr.HTTPStatus(err)
		l.LogAttrs(c.Request.Context(), slog.LevelError, "request_failed",
			slog.String("request_id", rid),
			slog.Int("status", status),
			slog.Any("err", err),
		)

		payload := gin.H{
			"error":      apperr.PublicMessage(err),
			"code":       apperr.Code(err),
			"request_id": rid,
		}
		if ae, ok := apperr.As(err); ok && len(ae.Fields) > 0 {
			payload["fields"] = ae.Fields
		}
		c.AbortWithStatusJSON(status, payload)
	}
}
