package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rafaelmiranda-prontix/GiftPix/internal/pix"
	"github.com/rafaelmiranda-prontix/GiftPix/internal/shared/money"
)

const NameAsaas = "asaas"

// Asaas exige a marcação explícita do tipo da chave Pix e trabalha com
// valores decimais em reais.
// https://docs.asaas.com/reference/transferir-para-conta-de-outra-instituicao-ou-chave-pix
type Asaas struct {
	client *apiClient
}

type asaasTransferRequest struct {
	Value             float64 `json:"value"`
	PixAddressKey     string  `json:"pixAddressKey"`
	PixAddressKeyType string  `json:"pixAddressKeyType,omitempty"`
	Description       string  `json:"description,omitempty"`
	ExternalReference string  `json:"externalReference,omitempty"`
}

type asaasTransferResponse struct {
	ID                string  `json:"id"`
	DateCreated       string  `json:"dateCreated"`
	Value             float64 `json:"value"`
	Status            string  `json:"status"`
	PixAddressKey     string  `json:"pixAddressKey"`
	Description       string  `json:"description"`
	ExternalReference string  `json:"externalReference"`
}

type asaasErrorBody struct {
	Errors []struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"errors"`
}

func NewAsaas(apiURL, apiKey string, logger *slog.Logger) *Asaas {
	headers := map[string]string{"access_token": apiKey}
	parseError := func(status int, body []byte) (string, string) {
		var eb asaasErrorBody
		if err := json.Unmarshal(body, &eb); err == nil && len(eb.Errors) > 0 {
			return eb.Errors[0].Description, eb.Errors[0].Code
		}
		return fmt.Sprintf("Asaas API Error: %d", status), ""
	}
	return &Asaas{client: newAPIClient(NameAsaas, apiURL, headers, logger, parseError)}
}

func (a *Asaas) Name() string { return NameAsaas }

func (a *Asaas) CreatePixTransfer(ctx context.Context, req TransferRequest) (TransferResult, error) {
	payload := asaasTransferRequest{
		Value:             money.FromCents(req.AmountCents),
		PixAddressKey:     req.PixKey,
		PixAddressKeyType: string(pix.DetectKeyType(req.PixKey)),
		Description:       req.Description,
		ExternalReference: req.ReferenceID,
	}

	var resp asaasTransferResponse
	if err := a.client.postJSON(ctx, "/v3/transfers", payload, &resp); err != nil {
		return TransferResult{}, err
	}
	return a.toResult(resp), nil
}

func (a *Asaas) GetTransferStatus(ctx context.Context, transferID string) (TransferResult, error) {
	var resp asaasTransferResponse
	if err := a.client.getJSON(ctx, "/v3/transfers/"+transferID, &resp); err != nil {
		return TransferResult{}, err
	}
	return a.toResult(resp), nil
}

func (a *Asaas) toResult(resp asaasTransferResponse) TransferResult {
	cents, err := money.ToCents(resp.Value)
	if err != nil {
		cents = 0
	}
	return TransferResult{
		ID:          resp.ID,
		ReferenceID: resp.ExternalReference,
		Status:      asaasStatus(resp.Status),
		AmountCents: cents,
		CreatedAt:   resp.DateCreated,
		PixKey:      resp.PixAddressKey,
		Description: resp.Description,
	}
}

// tabela de tradução do vocabulário nativo do Asaas
func asaasStatus(s string) Status {
	switch s {
	case "PENDING":
		return StatusPending
	case "BANK_PROCESSING":
		return StatusProcessing
	case "DONE":
		return StatusCompleted
	case "CANCELLED", "FAILED":
		return StatusFailed
	case "REFUNDED":
		return StatusRefunded
	default:
		return StatusPending
	}
}
