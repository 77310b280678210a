package main

import (
	"log"
	"os"

	"log/slog"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/rafaelmiranda-prontix/GiftPix/internal/config"
	apphttp "github.com/rafaelmiranda-prontix/GiftPix/internal/http"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/mailer"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/fraud"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/gifts"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/notifications"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/payments"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/payouts"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/sysconfig"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/transactions"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/providers"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/qrcode"
)

func main() {
	// .env é conveniência local; produção usa variáveis reais
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := gorm.Open(mysql.Open(cfg.DB.DSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	asaas := providers.NewAsaas(cfg.Asaas.APIURL, cfg.Asaas.APIKey, logger)
	pagbank := providers.NewPagBank(cfg.PagBank.APIURL, cfg.PagBank.APIToken, logger)
	registry := providers.NewRegistry(cfg.Provider, asaas, pagbank)

	giftRepo := gifts.NewRepo(db)
	paymentRepo := payments.NewRepo(db)
	redemptionRepo := payments.NewRedemptionRepo(db)
	txlogRepo := transactions.NewRepo(db)
	notifRepo := notifications.NewRepo(db)
	guard := fraud.NewGuard(fraud.NewRepo(db), sysconfig.NewRepo(db), logger)

	notifier := buildNotifier(&cfg, notifRepo, logger)

	giftSvc := gifts.NewService(db, giftRepo, paymentRepo, redemptionRepo, txlogRepo,
		registry, guard, notifier, gifts.Options{
			MinPixCents:                cfg.Limits.MinPixCents,
			MaxPixCents:                cfg.Limits.MaxPixCents,
			RequirePaymentConfirmation: cfg.RequirePaymentConfirmation,
			NotifyRecipient:            cfg.Notifications.DefaultRecipient,
		}, logger)

	payoutSvc := payouts.NewService(txlogRepo, registry, payouts.Options{
		MinPixCents: cfg.Limits.MinPixCents,
		MaxPixCents: cfg.Limits.MaxPixCents,
	}, logger)

	var rdb *redis.Client
	if cfg.RateLimit.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RateLimit.RedisAddr})
	}

	var qr *qrcode.Generator
	if cfg.PublicBaseURL != "" {
		qr = qrcode.NewGenerator(cfg.PublicBaseURL)
	}

	r := apphttp.NewRouter(apphttp.Deps{
		Config:    &cfg,
		Logger:    logger,
		DB:        db,
		GiftSvc:   giftSvc,
		PayoutSvc: payoutSvc,
		QR:        qr,
		Redis:     rdb,
	})

	logger.Info("giftpix api listening", "port", cfg.HTTP.Port, "provider", cfg.Provider)
	if err := r.Run(":" + cfg.HTTP.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// buildNotifier escolhe o canal: Kafka quando há brokers, e-mail quando há
// SMTP, senão noop.
func buildNotifier(cfg *config.Config, repo *notifications.Repo, logger *slog.Logger) notifications.Notifier {
	if len(cfg.Notifications.KafkaBrokers) > 0 {
		svc, err := notifications.NewKafkaService(repo, cfg.Notifications.KafkaBrokers,
			cfg.Notifications.KafkaTopic, logger)
		if err != nil {
			logger.Error("kafka notifier init failed, falling back", "err", err)
		} else {
			return svc
		}
	}
	if cfg.SMTP.Host != "" {
		m := mailer.NewSMTPMailer(cfg.SMTP)
		return notifications.NewEmailService(repo, m,
			cfg.Notifications.FromAddress, cfg.Notifications.FromName, logger)
	}
	logger.Warn("no notification channel configured")
	return notifications.Noop{}
}
