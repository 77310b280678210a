package payouts

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rafaelmiranda-prontix/GiftPix/internal/modules/transactions"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/pix"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/providers"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/shared/apperr"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/shared/money"
)

// Options: limites de valor herdados da configuração.
type Options struct {
	MinPixCents int64
	MaxPixCents int64
}

// Service cobre o payout avulso: uma transferência Pix fora do lifecycle
// de gift, com idempotência por reference_id.
type Service struct {
	txlog    *transactions.Repo
	registry *providers.Registry
	opts     Options
	logger   *slog.Logger
}

func NewService(txlog *transactions.Repo, registry *providers.Registry, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{txlog: txlog, registry: registry, opts: opts, logger: logger}
}

type CreateInput struct {
	PixKey      string
	Amount      float64 // reais
	Description *string
	ReferenceID string // vazio = gerado
	Provider    string // vazio = default
}

type Result struct {
	Transaction transactions.TransactionLog
	Provider    string
	// Existing indica replay idempotente: nada foi enviado ao PSP
	Existing bool
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Result, error) {
	if err := pix.ValidateKey(in.PixKey); err != nil {
		return Result{}, err
	}
	if err := pix.ValidateAmount(in.Amount, s.opts.MinPixCents, s.opts.MaxPixCents); err != nil {
		return Result{}, err
	}
	amountCents, _ := money.ToCents(in.Amount)

	referenceID := in.ReferenceID
	if referenceID == "" {
		referenceID = uuid.NewString()
	} else {
		// replay com o mesmo reference_id devolve a transação original
		existing, found, err := s.txlog.FindByReferenceID(ctx, referenceID)
		if err != nil {
			return Result{}, apperr.Wrap(err)
		}
		if found {
			s.logger.InfoContext(ctx, "payout replay", "reference_id", referenceID, "status", existing.Status)
			return Result{Transaction: existing, Provider: existing.Provider, Existing: true}, nil
		}
	}

	providerName := in.Provider
	if providerName == "" {
		providerName = s.registry.DefaultName()
	}
	provider, err := s.registry.ByName(providerName)
	if err != nil {
		return Result{}, apperr.InvalidErr("Provider inválido.", nil)
	}

	description := pix.SanitizeDescription(derefOr(in.Description, "Transferência Pix"))

	record, err := s.txlog.Create(ctx, transactions.CreateParams{
		ReferenceID: referenceID,
		PixKey:      in.PixKey,
		AmountCents: amountCents,
		Description: &description,
		Provider:    providerName,
	})
	if errors.Is(err, transactions.ErrDuplicateReference) {
		// corrida entre duas requisições com o mesmo reference_id: quem
		// perdeu o índice único devolve a transação do vencedor
		existing, found, ferr := s.txlog.FindByReferenceID(ctx, referenceID)
		if ferr != nil || !found {
			return Result{}, apperr.Wrap(err)
		}
		return Result{Transaction: existing, Provider: existing.Provider, Existing: true}, nil
	}
	if err != nil {
		return Result{}, apperr.Wrap(err)
	}

	transfer, perr := provider.CreatePixTransfer(ctx, providers.TransferRequest{
		PixKey:      in.PixKey,
		AmountCents: amountCents,
		Description: description,
		ReferenceID: referenceID,
	})
	if perr != nil {
		msg := perr.Error()
		if uerr := s.txlog.Update(ctx, referenceID, transactions.UpdateParams{
			Status:       transactions.StatusFailed,
			ErrorMessage: &msg,
		}); uerr != nil {
			s.logger.ErrorContext(ctx, "payout mark failed error", "reference_id", referenceID, "err", uerr)
		}
		return Result{}, apperr.ProviderErr("Falha na comunicação com o provedor de pagamento.", perr)
	}

	// payload bruto guardado para auditoria
	payload, _ := json.Marshal(transfer)
	if err := s.txlog.Update(ctx, referenceID, transactions.UpdateParams{
		Status:                transactions.FromProviderStatus(string(transfer.Status)),
		ProviderTransactionID: &transfer.ID,
		ProviderPayload:       payload,
	}); err != nil {
		s.logger.ErrorContext(ctx, "payout bookkeeping failed",
			"reference_id", referenceID, "transfer_id", transfer.ID, "err", err)
	}

	record, _, err = s.txlog.FindByReferenceID(ctx, referenceID)
	if err != nil {
		return Result{}, apperr.Wrap(err)
	}

	s.logger.InfoContext(ctx, "payout created",
		"reference_id", referenceID, "provider", providerName,
		"amount_cents", amountCents, "status", record.Status)

	return Result{Transaction: record, Provider: providerName}, nil
}

// GetStatus consulta o PSP quando há transaction id do provider; falha na
// consulta devolve o último estado persistido.
func (s *Service) GetStatus(ctx context.Context, referenceID string) (transactions.TransactionLog, error) {
	record, found, err := s.txlog.FindByReferenceID(ctx, referenceID)
	if err != nil {
		return transactions.TransactionLog{}, apperr.Wrap(err)
	}
	if !found {
		return transactions.TransactionLog{}, apperr.NotFoundErr("Transferência não encontrada.")
	}

	if record.ProviderTransactionID == nil {
		return record, nil
	}
	provider, err := s.registry.ByName(record.Provider)
	if err != nil {
		s.logger.WarnContext(ctx, "payout status: unknown provider", "provider", record.Provider)
		return record, nil
	}

	res, err := provider.GetTransferStatus(ctx, *record.ProviderTransactionID)
	if err != nil {
		s.logger.WarnContext(ctx, "payout status refresh failed", "reference_id", referenceID, "err", err)
		return record, nil
	}

	status := transactions.FromProviderStatus(string(res.Status))
	if status != record.Status {
		if err := s.txlog.Update(ctx, referenceID, transactions.UpdateParams{Status: status}); err != nil {
			s.logger.WarnContext(ctx, "payout status persist failed", "reference_id", referenceID, "err", err)
		} else {
			record.Status = status
			record.UpdatedAt = time.Now()
		}
	}
	return record, nil
}

func (s *Service) List(ctx context.Context) ([]transactions.TransactionLog, error) {
	out, err := s.txlog.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	return out, nil
}

func derefOr(p *string, def string) string {
	if p == nil || *p == "" {
		return def
	}
	return *p
}
