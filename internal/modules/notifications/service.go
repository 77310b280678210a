package notifications

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rafaelmiranda-prontix/GiftPix/internal/mailer"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/shared/money"
)

// GiftSummary é o recorte de gift que as notificações carregam; nunca
// inclui PIN ou pin_hash.
type GiftSummary struct {
	ReferenceID string
	AmountCents int64
	CreatedAt   string
}

// Notifier é fire-and-forget: chamadores disparam em goroutine e nunca
// veem os erros daqui.
type Notifier interface {
	NotifyGiftCreated(ctx context.Context, recipient string, gift GiftSummary)
	NotifyGiftRedeemed(ctx context.Context, recipient string, gift GiftSummary)
	NotifyGiftExpired(ctx context.Context, recipient string, gift GiftSummary)
}

// sender abstrai o canal de entrega (SMTP direto ou produtor Kafka).
type sender interface {
	send(ctx context.Context, typ, recipient, subject, body string, gift GiftSummary) error
	channel() string
}

type Service struct {
	repo   *Repo
	out    sender
	logger *slog.Logger
}

func NewService(repo *Repo, out sender, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, out: out, logger: logger}
}

// NewEmailService monta o service com entrega SMTP direta.
func NewEmailService(repo *Repo, m mailer.Service, fromAddr, fromName string, logger *slog.Logger) *Service {
	return NewService(repo, &emailSender{mailer: m, fromAddr: fromAddr, fromName: fromName}, logger)
}

func (s *Service) NotifyGiftCreated(ctx context.Context, recipient string, gift GiftSummary) {
	s.dispatch(ctx, TypeGiftCreated, recipient, gift,
		"Seu GiftPix foi criado",
		fmt.Sprintf("GiftPix criado no valor de %s em %s. Status: Ativo.",
			money.FormatBRL(gift.AmountCents), gift.CreatedAt))
}

func (s *Service) NotifyGiftRedeemed(ctx context.Context, recipient string, gift GiftSummary) {
	s.dispatch(ctx, TypeGiftRedeemed, recipient, gift,
		"Seu GiftPix foi resgatado",
		fmt.Sprintf("O presente foi resgatado. Valor enviado: %s.", money.FormatBRL(gift.AmountCents)))
}

func (s *Service) NotifyGiftExpired(ctx context.Context, recipient string, gift GiftSummary) {
	s.dispatch(ctx, TypeGiftExpired, recipient, gift,
		"Seu GiftPix expirou",
		fmt.Sprintf("O GiftPix de %s expirou. Status: Expirado.", money.FormatBRL(gift.AmountCents)))
}

func (s *Service) dispatch(ctx context.Context, typ, recipient string, gift GiftSummary, subject, body string) {
	record, err := s.repo.Create(ctx, gift.ReferenceID, typ, s.out.channel(), recipient)
	if err != nil {
		s.logger.WarnContext(ctx, "notification record failed", "type", typ, "err", err)
		return
	}

	if err := s.out.send(ctx, typ, recipient, subject, body, gift); err != nil {
		s.logger.WarnContext(ctx, "notification send failed",
			"type", typ, "channel", s.out.channel(), "err", err)
		if err := s.repo.MarkFailed(ctx, record.ID, err.Error()); err != nil {
			s.logger.WarnContext(ctx, "notification mark failed error", "id", record.ID, "err", err)
		}
		return
	}

	if err := s.repo.MarkSent(ctx, record.ID); err != nil {
		s.logger.WarnContext(ctx, "notification mark sent error", "id", record.ID, "err", err)
	}
}

type emailSender struct {
	mailer   mailer.Service
	fromAddr string
	fromName string
}

func (e *emailSender) channel() string { return ChannelEmail }

func (e *emailSender) send(ctx context.Context, typ, recipient, subject, body string, _ GiftSummary) error {
	return e.mailer.Send(ctx, mailer.Email{
		From:     e.fromAddr,
		FromName: e.fromName,
		To:       []string{recipient},
		Subject:  subject,
		TextBody: body,
	})
}

// Noop descarta tudo; usado quando nenhum destinatário está configurado.
type Noop struct{}

func (Noop) NotifyGiftCreated(context.Context, string, GiftSummary)  {}
func (Noop) NotifyGiftRedeemed(context.Context, string, GiftSummary) {}
func (Noop) NotifyGiftExpired(context.Context, string, GiftSummary)  {}
