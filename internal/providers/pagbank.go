package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

const NamePagBank = "pagbank"

// PagBank trabalha em centavos inteiros e não tem o conceito de tipo de
// chave Pix.
// https://developer.pagbank.com.br/reference/criar-transferencia
type PagBank struct {
	client *apiClient
}

type pagBankAmount struct {
	Value int64 `json:"value"`
}

type pagBankDestination struct {
	Type   string `json:"type"`
	PixKey string `json:"pix_key"`
}

type pagBankTransferRequest struct {
	ReferenceID string             `json:"reference_id"`
	Amount      pagBankAmount      `json:"amount"`
	Destination pagBankDestination `json:"destination"`
	Description string             `json:"description,omitempty"`
}

type pagBankTransferResponse struct {
	ID          string             `json:"id"`
	ReferenceID string             `json:"reference_id"`
	Status      string             `json:"status"`
	Amount      pagBankAmount      `json:"amount"`
	CreatedAt   string             `json:"created_at"`
	Destination pagBankDestination `json:"destination"`
	Description string             `json:"description"`
}

type pagBankErrorBody struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

func NewPagBank(apiURL, apiToken string, logger *slog.Logger) *PagBank {
	headers := map[string]string{"Authorization": "Bearer " + apiToken}
	parseError := func(status int, body []byte) (string, string) {
		var eb pagBankErrorBody
		if err := json.Unmarshal(body, &eb); err == nil && eb.Message != "" {
			return eb.Message, eb.ErrorCode
		}
		return fmt.Sprintf("PagBank API Error: %d", status), ""
	}
	return &PagBank{client: newAPIClient(NamePagBank, apiURL, headers, logger, parseError)}
}

func (p *PagBank) Name() string { return NamePagBank }

func (p *PagBank) CreatePixTransfer(ctx context.Context, req TransferRequest) (TransferResult, error) {
	payload := pagBankTransferRequest{
		ReferenceID: req.ReferenceID,
		Amount:      pagBankAmount{Value: req.AmountCents},
		Destination: pagBankDestination{Type: "PIX", PixKey: req.PixKey},
		Description: req.Description,
	}

	var resp pagBankTransferResponse
	if err := p.client.postJSON(ctx, "/transfers", payload, &resp); err != nil {
		return TransferResult{}, err
	}
	return p.toResult(resp), nil
}

func (p *PagBank) GetTransferStatus(ctx context.Context, transferID string) (TransferResult, error) {
	var resp pagBankTransferResponse
	if err := p.client.getJSON(ctx, "/transfers/"+transferID, &resp); err != nil {
		return TransferResult{}, err
	}
	return p.toResult(resp), nil
}

// CheckBalance consulta o saldo disponível. Best-effort: devolve 0 em
// qualquer falha.
func (p *PagBank) CheckBalance(ctx context.Context) int64 {
	var resp struct {
		AvailableBalance int64 `json:"available_balance"`
	}
	if err := p.client.getJSON(ctx, "/balance", &resp); err != nil {
		return 0
	}
	return resp.AvailableBalance
}

func (p *PagBank) toResult(resp pagBankTransferResponse) TransferResult {
	return TransferResult{
		ID:          resp.ID,
		ReferenceID: resp.ReferenceID,
		Status:      pagBankStatus(resp.Status),
		AmountCents: resp.Amount.Value,
		CreatedAt:   resp.CreatedAt,
		PixKey:      resp.Destination.PixKey,
		Description: resp.Description,
	}
}

// tabela de tradução do vocabulário nativo do PagBank
func pagBankStatus(s string) Status {
	switch s {
	case "PENDING", "PROCESSING":
		return StatusPending
	case "COMPLETED":
		return StatusCompleted
	case "CANCELLED", "FAILED":
		return StatusFailed
	default:
		return StatusPending
	}
}
