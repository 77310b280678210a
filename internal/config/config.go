package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/rafaelmiranda-prontix/GiftPix/internal/mailer"
)

type HTTPConfig struct {
	Port string
}

type DBConfig struct {
	DSN string
}

type AsaasConfig struct {
	APIURL string
	APIKey string
}

type PagBankConfig struct {
	APIURL   string
	APIToken string
	Email    string
}

type SecurityConfig struct {
	APISecretKey string
}

type LimitsConfig struct {
	MinPixCents int64
	MaxPixCents int64
}

type NotificationsConfig struct {
	DefaultRecipient string
	FromAddress      string
	FromName         string
	KafkaBrokers     []string
	KafkaTopic       string
}

type RateLimitConfig struct {
	RedisAddr   string
	Window      int // segundos
	MaxRequests int
}

type Config struct {
	Env      string
	HTTP     HTTPConfig
	DB       DBConfig
	Provider string // provider default: "asaas" ou "pagbank"

	Asaas   AsaasConfig
	PagBank PagBankConfig

	Security SecurityConfig
	Limits   LimitsConfig

	SMTP          mailer.SMTPConfig
	Notifications NotificationsConfig
	RateLimit     RateLimitConfig

	// exigir payment completed antes do resgate
	RequirePaymentConfirmation bool

	PublicBaseURL string
}

// Load lê variáveis de ambiente via viper. Defaults apontam para sandbox.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PAYMENT_PROVIDER", "asaas")
	v.SetDefault("ASAAS_API_URL", "https://sandbox.asaas.com/api")
	v.SetDefault("PAGBANK_API_URL", "https://sandbox.api.pagseguro.com")
	v.SetDefault("MIN_PIX_VALUE", 1.00)
	v.SetDefault("MAX_PIX_VALUE", 10000.00)
	v.SetDefault("REQUIRE_PAYMENT_CONFIRMATION", false)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 900)
	v.SetDefault("RATE_LIMIT_MAX_REQUESTS", 100)
	v.SetDefault("SMTP_PORT", "1025")
	v.SetDefault("NOTIFY_FROM_ADDRESS", "no-reply@giftpix.local")
	v.SetDefault("NOTIFY_FROM_NAME", "GiftPix")
	v.SetDefault("KAFKA_TOPIC", "giftpix.notifications")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")

	cfg := Config{
		Env:      v.GetString("APP_ENV"),
		HTTP:     HTTPConfig{Port: v.GetString("PORT")},
		DB:       DBConfig{DSN: v.GetString("DB_DSN")},
		Provider: strings.ToLower(v.GetString("PAYMENT_PROVIDER")),
		Asaas: AsaasConfig{
			APIURL: v.GetString("ASAAS_API_URL"),
			APIKey: v.GetString("ASAAS_API_KEY"),
		},
		PagBank: PagBankConfig{
			APIURL:   v.GetString("PAGBANK_API_URL"),
			APIToken: v.GetString("PAGBANK_API_TOKEN"),
			Email:    v.GetString("PAGBANK_EMAIL"),
		},
		Security: SecurityConfig{APISecretKey: v.GetString("API_SECRET_KEY")},
		Limits: LimitsConfig{
			MinPixCents: int64(v.GetFloat64("MIN_PIX_VALUE") * 100),
			MaxPixCents: int64(v.GetFloat64("MAX_PIX_VALUE") * 100),
		},
		SMTP: mailer.SMTPConfig{
			Host:    v.GetString("SMTP_HOST"),
			Port:    v.GetString("SMTP_PORT"),
			User:    v.GetString("SMTP_USER"),
			Pass:    v.GetString("SMTP_PASS"),
			TLSMode: v.GetString("SMTP_TLS_MODE"),
		},
		Notifications: NotificationsConfig{
			DefaultRecipient: v.GetString("NOTIFY_DEFAULT_RECIPIENT"),
			FromAddress:      v.GetString("NOTIFY_FROM_ADDRESS"),
			FromName:         v.GetString("NOTIFY_FROM_NAME"),
			KafkaBrokers:     splitList(v.GetString("KAFKA_BROKERS")),
			KafkaTopic:       v.GetString("KAFKA_TOPIC"),
		},
		RateLimit: RateLimitConfig{
			RedisAddr:   v.GetString("REDIS_ADDR"),
			Window:      v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
			MaxRequests: v.GetInt("RATE_LIMIT_MAX_REQUESTS"),
		},
		RequirePaymentConfirmation: v.GetBool("REQUIRE_PAYMENT_CONFIRMATION"),
		PublicBaseURL:              v.GetString("PUBLIC_BASE_URL"),
	}

	if cfg.Provider != "asaas" && cfg.Provider != "pagbank" {
		return Config{}, fmt.Errorf("config: PAYMENT_PROVIDER inválido: %q", cfg.Provider)
	}
	if cfg.Limits.MinPixCents <= 0 || cfg.Limits.MaxPixCents < cfg.Limits.MinPixCents {
		return Config{}, fmt.Errorf("config: limites de valor inconsistentes (min=%d max=%d)",
			cfg.Limits.MinPixCents, cfg.Limits.MaxPixCents)
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
