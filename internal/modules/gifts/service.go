package gifts

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/fraud"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/notifications"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/payments"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/transactions"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/pix"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/providers"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/shared/apperr"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/shared/money"
)

const defaultTransferDescription = "GiftPix"

// Options: knobs do lifecycle vindos da configuração.
type Options struct {
	MinPixCents                int64
	MaxPixCents                int64
	RequirePaymentConfirmation bool
	NotifyRecipient            string
}

// Service orquestra o lifecycle do gift: criação, validação de PIN,
// transferência via provider selecionado, reconciliação de status e os
// registros dependentes.
type Service struct {
	db          *gorm.DB
	repo        *Repo
	paymentRepo *payments.Repo
	redemptions *payments.RedemptionRepo
	txlog       *transactions.Repo
	registry    *providers.Registry
	guard       *fraud.Guard
	notifier    notifications.Notifier
	opts        Options
	logger      *slog.Logger
}

func NewService(
	db *gorm.DB,
	repo *Repo,
	paymentRepo *payments.Repo,
	redemptions *payments.RedemptionRepo,
	txlog *transactions.Repo,
	registry *providers.Registry,
	guard *fraud.Guard,
	notifier notifications.Notifier,
	opts Options,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = notifications.Noop{}
	}
	return &Service{
		db:          db,
		repo:        repo,
		paymentRepo: paymentRepo,
		redemptions: redemptions,
		txlog:       txlog,
		registry:    registry,
		guard:       guard,
		notifier:    notifier,
		opts:        opts,
		logger:      logger,
	}
}

type CreateGiftInput struct {
	Amount      float64 // reais
	Message     *string
	PIN         string
	ExpiresAt   *time.Time
	Provider    string // vazio = provider default
	Description *string
	IP          *string
}

type CreateGiftResult struct {
	Gift Gift
	PIN  string
}

func (s *Service) CreateGift(ctx context.Context, in CreateGiftInput) (CreateGiftResult, error) {
	if err := pix.ValidateAmount(in.Amount, s.opts.MinPixCents, s.opts.MaxPixCents); err != nil {
		return CreateGiftResult{}, err
	}
	amountCents, _ := money.ToCents(in.Amount)

	if in.PIN == "" {
		return CreateGiftResult{}, apperr.InvalidErr("PIN é obrigatório.", nil)
	}

	if s.guard != nil {
		if err := s.guard.CheckGiftCreation(ctx, in.IP, amountCents); err != nil {
			return CreateGiftResult{}, err
		}
	}

	providerName := in.Provider
	if providerName == "" {
		providerName = s.registry.DefaultName()
	}
	if _, err := s.registry.ByName(providerName); err != nil {
		return CreateGiftResult{}, apperr.InvalidErr("Provider inválido.", nil)
	}

	referenceID := uuid.NewString()

	pinHash, err := bcrypt.GenerateFromPassword([]byte(in.PIN), bcrypt.DefaultCost)
	if err != nil {
		return CreateGiftResult{}, apperr.Wrap(err)
	}

	description := pix.SanitizeDescription(firstNonEmpty(deref(in.Description), deref(in.Message)))

	// Gift + Payment placeholder + TransactionLog como unidade atômica
	var gift Gift
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		gift, err = s.repo.CreateTx(ctx, tx, CreateParams{
			ReferenceID: referenceID,
			AmountCents: amountCents,
			Message:     in.Message,
			PinHash:     string(pinHash),
			ExpiresAt:   in.ExpiresAt,
		})
		if err != nil {
			return err
		}

		now := time.Now()
		payment := payments.Payment{
			ID:          uuid.NewString(),
			GiftID:      gift.ID,
			Provider:    providerName,
			AmountCents: amountCents,
			Status:      payments.StatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.WithContext(ctx).Create(&payment).Error; err != nil {
			return err
		}

		_, err = s.txlog.CreateTx(ctx, tx, transactions.CreateParams{
			ReferenceID: referenceID,
			PixKey:      "",
			AmountCents: amountCents,
			Description: optional(description),
			Provider:    providerName,
		})
		return err
	})
	if err != nil {
		return CreateGiftResult{}, apperr.Wrap(err)
	}

	if s.guard != nil {
		s.guard.MarkGiftCreated(ctx, in.IP, &gift.ID, amountCents)
	}

	if s.opts.NotifyRecipient != "" {
		summary := notifications.GiftSummary{
			ReferenceID: referenceID,
			AmountCents: amountCents,
			CreatedAt:   gift.CreatedAt.Format(time.RFC3339),
		}
		go s.notifier.NotifyGiftCreated(context.WithoutCancel(ctx), s.opts.NotifyRecipient, summary)
	}

	s.logger.InfoContext(ctx, "gift created",
		"reference_id", referenceID, "provider", providerName, "amount_cents", amountCents)

	return CreateGiftResult{Gift: gift, PIN: in.PIN}, nil
}

type RedeemGiftInput struct {
	ReferenceID string
	PIN         string
	PixKey      string
	Description *string
	IP          *string
}

type RedeemGiftResult struct {
	Provider string
	Transfer providers.TransferResult
}

func (s *Service) RedeemGift(ctx context.Context, in RedeemGiftInput) (RedeemGiftResult, error) {
	if err := pix.ValidateKey(in.PixKey); err != nil {
		return RedeemGiftResult{}, err
	}

	gift, err := s.repo.FindByReferenceID(ctx, in.ReferenceID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return RedeemGiftResult{}, apperr.NotFoundErr("Gift não encontrado.")
	}
	if err != nil {
		return RedeemGiftResult{}, apperr.Wrap(err)
	}

	if s.guard != nil {
		if err := s.guard.CheckRedeem(ctx, in.IP, &gift.ID); err != nil {
			return RedeemGiftResult{}, err
		}
		s.guard.MarkRedeemAttempt(ctx, in.IP, &gift.ID)
	}

	payment, err := s.paymentRepo.FindByGiftID(ctx, gift.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return RedeemGiftResult{}, apperr.Wrap(ErrPaymentMissing)
	}
	if err != nil {
		return RedeemGiftResult{}, apperr.Wrap(err)
	}

	// confirmação exigida: um refresh best-effort antes de rejeitar
	if s.opts.RequirePaymentConfirmation && payment.Status != payments.StatusCompleted {
		s.refreshPaymentBestEffort(ctx, gift, &payment)
		if payment.Status != payments.StatusCompleted {
			return RedeemGiftResult{}, apperr.InvalidErr("Pagamento pendente. Aguarde a confirmação para resgatar.", nil)
		}
	}

	provider, err := s.registry.Default()
	if err != nil {
		return RedeemGiftResult{}, apperr.Wrap(err)
	}

	// Fase 1: lock do gift + guards re-checados do storage + tentativa
	// pending criada antes da chamada externa. O lock e a contagem de
	// tentativas ativas fecham a corrida de resgate duplo.
	var redemption payments.Redemption
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := s.repo.LockByID(ctx, tx, gift.ID)
		if err != nil {
			return err
		}

		if err := s.ensureActive(locked); err != nil {
			return err
		}
		if bcrypt.CompareHashAndPassword([]byte(locked.PinHash), []byte(in.PIN)) != nil {
			return apperr.InvalidErr("PIN inválido.", nil)
		}

		pending, completed, err := s.redemptions.CountActiveTx(ctx, tx, gift.ID)
		if err != nil {
			return err
		}
		if completed > 0 {
			return apperr.InvalidErr("Gift não está ativo ou já foi resgatado/expirado.", nil)
		}
		if pending > 0 {
			return apperr.ConflictErr("Já existe um resgate em andamento para este gift.")
		}

		redemption, err = s.redemptions.CreateTx(ctx, tx, gift.ID, in.PixKey, provider.Name())
		return err
	})
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return RedeemGiftResult{}, err
		}
		return RedeemGiftResult{}, apperr.Wrap(err)
	}

	description := pix.SanitizeDescription(firstNonEmpty(
		deref(in.Description), deref(gift.Message), defaultTransferDescription))

	// Fase 2: chamada externa, fora de transação
	transfer, perr := provider.CreatePixTransfer(ctx, providers.TransferRequest{
		PixKey:      in.PixKey,
		AmountCents: gift.AmountCents,
		Description: description,
		ReferenceID: gift.ReferenceID,
	})
	if perr != nil {
		s.applyTransferFailure(ctx, gift, payment, redemption, perr)
		// o ProviderError original segue acessível via Unwrap
		return RedeemGiftResult{}, apperr.ProviderErr("Falha na comunicação com o provedor de pagamento.", perr)
	}

	// Fase 3: bookkeeping best-effort; a verdade sobre a transferência
	// já está decidida e é o que o caller recebe
	s.applyTransferOutcome(ctx, gift, payment, redemption, transfer)

	return RedeemGiftResult{Provider: provider.Name(), Transfer: transfer}, nil
}

func (s *Service) ensureActive(g Gift) error {
	if g.Status != StatusActive {
		return apperr.InvalidErr("Gift não está ativo ou já foi resgatado/expirado.", nil)
	}
	if g.Expired(time.Now()) {
		return apperr.InvalidErr("Gift expirado.", nil)
	}
	return nil
}

func (s *Service) applyTransferFailure(ctx context.Context, gift Gift, payment payments.Payment, redemption payments.Redemption, perr error) {
	msg := perr.Error()
	if err := s.redemptions.UpdateStatus(ctx, redemption.ID, payments.StatusFailed,
		payments.UpdateOpts{ErrorMessage: &msg}); err != nil {
		s.logger.ErrorContext(ctx, "redemption mark failed error",
			"redemption_id", redemption.ID, "err", err)
	}
	// best-effort; falha aqui é engolida
	if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, payments.StatusFailed,
		payments.UpdateOpts{ErrorMessage: &msg}); err != nil {
		s.logger.WarnContext(ctx, "payment mark failed error", "payment_id", payment.ID, "err", err)
	}
	if err := s.txlog.Update(ctx, gift.ReferenceID, transactions.UpdateParams{
		Status:       transactions.StatusFailed,
		ErrorMessage: &msg,
	}); err != nil {
		s.logger.WarnContext(ctx, "transaction log update error", "reference_id", gift.ReferenceID, "err", err)
	}
}

func (s *Service) applyTransferOutcome(ctx context.Context, gift Gift, payment payments.Payment, redemption payments.Redemption, transfer providers.TransferResult) {
	// o PSP pode aceitar a chamada e ainda assim reportar liquidação
	// falhada
	outcome := payments.StatusCompleted
	if transfer.Status == providers.StatusFailed {
		outcome = payments.StatusFailed
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		updates := map[string]any{
			"status":       outcome,
			"provider_ref": transfer.ID,
			"updated_at":   now,
		}
		if err := tx.WithContext(ctx).Model(&payments.Redemption{}).
			Where("id = ?", redemption.ID).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Model(&payments.Payment{}).
			Where("id = ?", payment.ID).Updates(map[string]any{
			"status":       outcome,
			"provider_ref": transfer.ID,
			"updated_at":   now,
		}).Error; err != nil {
			return err
		}

		if transfer.Status == providers.StatusCompleted {
			if _, err := s.repo.MarkRedeemed(ctx, tx, gift.ID); err != nil {
				return err
			}
		}

		return tx.WithContext(ctx).Model(&transactions.TransactionLog{}).
			Where("reference_id = ?", gift.ReferenceID).Updates(map[string]any{
			"status":                  transactions.FromProviderStatus(string(transfer.Status)),
			"provider_transaction_id": transfer.ID,
			"pix_key":                 transfer.PixKey,
			"updated_at":              now,
		}).Error
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "redeem bookkeeping failed",
			"reference_id", gift.ReferenceID, "transfer_id", transfer.ID, "err", err)
	}

	if transfer.Status == providers.StatusCompleted && s.opts.NotifyRecipient != "" {
		summary := notifications.GiftSummary{
			ReferenceID: gift.ReferenceID,
			AmountCents: gift.AmountCents,
		}
		go s.notifier.NotifyGiftRedeemed(context.WithoutCancel(ctx), s.opts.NotifyRecipient, summary)
	}
}

// refreshPaymentBestEffort consulta o provider do payment e persiste o que
// voltou; qualquer falha é ignorada e o payment fica como estava.
func (s *Service) refreshPaymentBestEffort(ctx context.Context, gift Gift, payment *payments.Payment) {
	if payment.ProviderRef == nil {
		return
	}
	provider, err := s.registry.ByName(payment.Provider)
	if err != nil {
		s.logger.WarnContext(ctx, "payment refresh: unknown provider", "provider", payment.Provider)
		return
	}
	res, err := provider.GetTransferStatus(ctx, *payment.ProviderRef)
	if err != nil {
		s.logger.WarnContext(ctx, "payment refresh failed",
			"reference_id", gift.ReferenceID, "err", err)
		return
	}

	status := transactions.FromProviderStatus(string(res.Status))
	now := time.Now()
	if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, status, payments.UpdateOpts{
		ProviderRef:   &res.ID,
		LastCheckedAt: &now,
	}); err != nil {
		s.logger.WarnContext(ctx, "payment refresh persist failed", "payment_id", payment.ID, "err", err)
		return
	}
	payment.Status = status
	payment.ProviderRef = &res.ID
}

type StatusView struct {
	Gift          Gift
	PaymentStatus *string // vocabulário de 5 valores do provider
	ProviderRef   *string
}

// GetGiftStatus devolve uma view reconciliada: o status exibido do gift
// reflete o payment recém-consultado mesmo que a escrita ainda não tenha
// acontecido.
func (s *Service) GetGiftStatus(ctx context.Context, referenceID string) (StatusView, error) {
	gift, err := s.repo.FindByReferenceID(ctx, referenceID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return StatusView{}, apperr.NotFoundErr("Gift não encontrado.")
	}
	if err != nil {
		return StatusView{}, apperr.Wrap(err)
	}

	payment, err := s.paymentRepo.FindByGiftID(ctx, gift.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return StatusView{Gift: gift}, nil
	}
	if err != nil {
		return StatusView{}, apperr.Wrap(err)
	}

	latest := payment.Status
	providerRef := payment.ProviderRef

	if payment.ProviderRef != nil {
		provider, err := s.registry.ByName(payment.Provider)
		if err != nil {
			s.logger.WarnContext(ctx, "status refresh: unknown provider", "provider", payment.Provider)
		} else if res, err := provider.GetTransferStatus(ctx, *payment.ProviderRef); err != nil {
			// refresh é best-effort: devolve o status armazenado
			s.logger.WarnContext(ctx, "status refresh failed", "reference_id", referenceID, "err", err)
		} else {
			s.logger.InfoContext(ctx, "psp status refresh",
				"reference_id", referenceID, "provider_ref", *payment.ProviderRef, "provider_status", res.Status)
			latest = string(res.Status)
			providerRef = &res.ID

			now := time.Now()
			if err := s.paymentRepo.UpdateStatus(ctx, payment.ID,
				transactions.FromProviderStatus(latest), payments.UpdateOpts{
					ProviderRef:   &res.ID,
					LastCheckedAt: &now,
				}); err != nil {
				s.logger.WarnContext(ctx, "status refresh persist failed", "payment_id", payment.ID, "err", err)
			}

			switch res.Status {
			case providers.StatusCompleted:
				if err := s.repo.UpdateStatus(ctx, gift.ID, StatusRedeemed); err != nil {
					s.logger.WarnContext(ctx, "gift cascade failed", "gift_id", gift.ID, "err", err)
				}
			case providers.StatusRefunded:
				if err := s.repo.UpdateStatus(ctx, gift.ID, StatusRefunded); err != nil {
					s.logger.WarnContext(ctx, "gift cascade failed", "gift_id", gift.ID, "err", err)
				}
			}

			if err := s.txlog.Update(ctx, referenceID, transactions.UpdateParams{
				Status:                transactions.FromProviderStatus(latest),
				ProviderTransactionID: &res.ID,
			}); err != nil {
				s.logger.WarnContext(ctx, "transaction log update error", "reference_id", referenceID, "err", err)
			}
		}
	}

	// view reflete o status reconciliado antes/além da escrita
	switch latest {
	case string(providers.StatusCompleted):
		gift.Status = StatusRedeemed
	case string(providers.StatusRefunded):
		gift.Status = StatusRefunded
	}

	return StatusView{Gift: gift, PaymentStatus: &latest, ProviderRef: providerRef}, nil
}

// ValidatePin confere guard de estado e PIN sem efeitos colaterais; a UI
// de resgate em duas etapas usa isso.
func (s *Service) ValidatePin(ctx context.Context, referenceID, pin string) (Gift, error) {
	gift, err := s.repo.FindByReferenceID(ctx, referenceID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Gift{}, apperr.NotFoundErr("Gift não encontrado.")
	}
	if err != nil {
		return Gift{}, apperr.Wrap(err)
	}
	if err := s.ensureActive(gift); err != nil {
		return Gift{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(gift.PinHash), []byte(pin)) != nil {
		return Gift{}, apperr.InvalidErr("PIN inválido.", nil)
	}
	return gift, nil
}

func (s *Service) ListGifts(ctx context.Context) ([]Gift, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	return out, nil
}

func (s *Service) GetSummary(ctx context.Context) (Summary, error) {
	sum, err := s.repo.Summarize(ctx)
	if err != nil {
		return Summary{}, apperr.Wrap(err)
	}
	return sum, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
