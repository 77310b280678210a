package providers

import "context"

// Status normalizado de uma transferência, independente do vocabulário
// nativo de cada PSP.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusRefunded   Status = "refunded"
)

type TransferRequest struct {
	PixKey      string
	AmountCents int64
	Description string
	ReferenceID string
}

type TransferResult struct {
	ID          string
	ReferenceID string
	Status      Status
	AmountCents int64
	CreatedAt   string
	PixKey      string
	Description string
}

type Provider interface {
	Name() string
	CreatePixTransfer(ctx context.Context, req TransferRequest) (TransferResult, error)
	GetTransferStatus(ctx context.Context, transferID string) (TransferResult, error)
}
