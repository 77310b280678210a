package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/rafaelmiranda-prontix/GiftPix/internal/config"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/http/handlers"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/http/middleware"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/gifts"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/payouts"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/qrcode"
)

// Deps agrupa tudo que o router precisa; a montagem fica em cmd/api.
type Deps struct {
	Config    *config.Config
	Logger    *slog.Logger
	DB        *gorm.DB
	GiftSvc   *gifts.Service
	PayoutSvc *payouts.Service
	QR        *qrcode.Generator
	Redis     *redis.Client // nil desliga o rate limit
}

func NewRouter(d Deps) *gin.Engine {
	if d.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.ErrorHandler(d.Logger))

	healthHandler := handlers.NewHealthHandler(d.DB)
	r.GET("/healthz", healthHandler.Check)

	giftHandler := handlers.NewGiftHandler(d.Logger, d.GiftSvc, d.QR)
	payoutHandler := handlers.NewPayoutHandler(d.Logger, d.PayoutSvc)

	window := time.Duration(d.Config.RateLimit.Window) * time.Second
	limited := middleware.RateLimit(d.Redis, "api", int64(d.Config.RateLimit.MaxRequests), window, d.Logger)

	v1 := r.Group("/api/v1")
	{
		g := v1.Group("/gifts")
		g.POST("", limited, giftHandler.Create)
		g.GET("/:reference", giftHandler.Get)
		g.GET("/:reference/qrcode", giftHandler.QRCode)
		g.POST("/:reference/pin", limited, giftHandler.ValidatePin)
		g.POST("/:reference/redeem", limited, giftHandler.Redeem)

		if d.QR != nil {
			qrHandler := handlers.NewQRCodeHandler(d.Logger, d.QR,
				d.Config.Limits.MinPixCents, d.Config.Limits.MaxPixCents)
			qr := v1.Group("/qrcode")
			qr.POST("/generate", limited, qrHandler.Generate)
			qr.GET("/image", limited, qrHandler.Image)
		}

		// payout avulso movimenta saldo direto: exige a chave de API
		pix := v1.Group("/pix", middleware.RequireAPIKey(d.Config.Security.APISecretKey))
		pix.POST("/transfers", limited, payoutHandler.Create)
		pix.GET("/transfers/:reference", payoutHandler.Get)

		admin := v1.Group("/admin", middleware.RequireAPIKey(d.Config.Security.APISecretKey))
		admin.GET("/gifts", giftHandler.List)
		admin.GET("/gifts/summary", giftHandler.Summary)
		admin.GET("/pix/transfers", payoutHandler.List)
	}

	return r
}
