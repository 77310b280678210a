package fraud

import (
	"context"
	"log/slog"
	"time"

	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/sysconfig"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/shared/apperr"
)

// Thresholds vêm do system config, com defaults fixos. Valores monetários
// em reais nas chaves, centavos internamente.
const (
	keyGiftsPerDay    = "gifts_per_day_limit"
	keyValuePerDay    = "gifts_value_per_day_limit"
	keyValuePerGift   = "gift_value_limit"
	keyRedeemAttempts = "redeem_attempts_limit"

	defaultGiftsPerDay       = 5
	defaultValuePerDayReais  = 2000.0
	defaultValuePerGiftReais = 1000.0
	defaultRedeemAttempts    = 5

	redeemAbuseBlockTTL = 30 * time.Minute

	creationWindow = 24 * time.Hour
	redeemWindow   = time.Hour
)

// Eventos registrados para análise posterior.
const (
	EventGiftCreated        = "gift_created"
	EventGiftValueMarker    = "gift_value_marker"
	EventRedeemAttempt      = "redeem_attempt"
	EventGiftCreationBlock  = "gift_creation_block"
	EventCreationBlockValue = "gift_creation_block_value"
	EventCreationBlockLimit = "gift_creation_block_amount"
	EventRedeemBlock        = "redeem_block"
)

// mensagem deliberadamente vaga: não revelar a heurística ao cliente
const blockedMsg = "Não foi possível concluir esta ação no momento."

type Guard struct {
	repo   *Repo
	cfg    *sysconfig.Repo
	logger *slog.Logger
}

func NewGuard(repo *Repo, cfg *sysconfig.Repo, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{repo: repo, cfg: cfg, logger: logger}
}

// CheckGiftCreation é consultivo e best-effort: bloqueia a ação do caller
// mas nunca toca no estado de Gift/Payment.
func (g *Guard) CheckGiftCreation(ctx context.Context, ip *string, amountCents int64) error {
	now := time.Now()

	if ip != nil {
		blocked, err := g.repo.IsBlocked(ctx, EntityIP, *ip, now)
		if err != nil {
			return apperr.Wrap(err)
		}
		if blocked {
			return apperr.InvalidErr(blockedMsg, nil)
		}
	}

	maxPerDay := g.cfg.GetInt(ctx, keyGiftsPerDay, defaultGiftsPerDay)
	maxValuePerDay := int64(g.cfg.GetFloat(ctx, keyValuePerDay, defaultValuePerDayReais) * 100)
	maxValuePerGift := int64(g.cfg.GetFloat(ctx, keyValuePerGift, defaultValuePerGiftReais) * 100)

	since := now.Add(-creationWindow)

	var giftsToday int64
	if ip != nil {
		var err error
		giftsToday, err = g.repo.CountEvents(ctx, CountFilter{EventType: EventGiftCreated, IP: ip, Since: since})
		if err != nil {
			return apperr.Wrap(err)
		}
	}
	if giftsToday >= maxPerDay {
		g.record(ctx, EventParams{EventType: EventGiftCreationBlock, RiskScore: 50, IP: ip})
		return apperr.InvalidErr(blockedMsg, nil)
	}

	if amountCents > maxValuePerGift {
		g.record(ctx, EventParams{EventType: EventCreationBlockLimit, RiskScore: 40, IP: ip})
		return apperr.InvalidErr(blockedMsg, nil)
	}

	// heurística grosseira de valor acumulado: marcadores do dia vezes
	// metade do teto por gift, mais o valor atual
	var valueEvents int64
	if ip != nil {
		var err error
		valueEvents, err = g.repo.CountEvents(ctx, CountFilter{EventType: EventGiftValueMarker, IP: ip, Since: since})
		if err != nil {
			return apperr.Wrap(err)
		}
	}
	if amountCents > 0 && valueEvents*(maxValuePerGift/2)+amountCents > maxValuePerDay {
		g.record(ctx, EventParams{EventType: EventCreationBlockValue, RiskScore: 40, IP: ip})
		return apperr.InvalidErr(blockedMsg, nil)
	}

	return nil
}

// CheckRedeem limita tentativas por par {ip, gift} na janela de 1h e
// instala um bloqueio temporário do ip ao estourar o limite.
func (g *Guard) CheckRedeem(ctx context.Context, ip *string, giftID *string) error {
	now := time.Now()

	if ip != nil {
		blocked, err := g.repo.IsBlocked(ctx, EntityIP, *ip, now)
		if err != nil {
			return apperr.Wrap(err)
		}
		if blocked {
			return apperr.InvalidErr(blockedMsg, nil)
		}
	}
	if giftID != nil {
		blocked, err := g.repo.IsBlocked(ctx, EntityGift, *giftID, now)
		if err != nil {
			return apperr.Wrap(err)
		}
		if blocked {
			return apperr.InvalidErr(blockedMsg, nil)
		}
	}

	maxAttempts := g.cfg.GetInt(ctx, keyRedeemAttempts, defaultRedeemAttempts)

	attempts, err := g.repo.CountEvents(ctx, CountFilter{
		EventType: EventRedeemAttempt,
		IP:        ip,
		GiftID:    giftID,
		Since:     now.Add(-redeemWindow),
	})
	if err != nil {
		return apperr.Wrap(err)
	}
	if attempts >= maxAttempts {
		g.record(ctx, EventParams{EventType: EventRedeemBlock, RiskScore: 50, IP: ip, GiftID: giftID})
		if ip != nil {
			if err := g.repo.Block(ctx, EntityIP, *ip, "redeem_attempts_exceeded", redeemAbuseBlockTTL); err != nil {
				g.logger.WarnContext(ctx, "fraud block install failed", "ip", *ip, "err", err)
			}
		}
		return apperr.InvalidErr(blockedMsg, nil)
	}

	return nil
}

func (g *Guard) MarkGiftCreated(ctx context.Context, ip *string, giftID *string, amountCents int64) {
	g.record(ctx, EventParams{EventType: EventGiftCreated, RiskScore: 5, IP: ip, GiftID: giftID})
	if amountCents > 0 && ip != nil {
		// marcador simples para o somatório aproximado de valor do dia
		g.record(ctx, EventParams{EventType: EventGiftValueMarker, RiskScore: 1, IP: ip, GiftID: giftID})
	}
}

func (g *Guard) MarkRedeemAttempt(ctx context.Context, ip *string, giftID *string) {
	g.record(ctx, EventParams{EventType: EventRedeemAttempt, RiskScore: 10, IP: ip, GiftID: giftID})
}

func (g *Guard) record(ctx context.Context, p EventParams) {
	if err := g.repo.RecordEvent(ctx, p); err != nil {
		g.logger.WarnContext(ctx, "fraud event record failed", "event_type", p.EventType, "err", err)
	}
}
