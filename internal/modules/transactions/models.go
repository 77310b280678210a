package transactions

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// TransactionLog é a trilha de auditoria agnóstica de provider, chaveada
// pelo reference_id público. Também serve de checagem de idempotência do
// caminho de payout direto.
type TransactionLog struct {
	ID                    string         `gorm:"type:char(36);primaryKey"`
	ReferenceID           string         `gorm:"type:char(36);not null;uniqueIndex:ux_transaction_logs_reference_id"`
	PixKey                string         `gorm:"type:varchar(140);not null"`
	AmountCents           int64          `gorm:"not null"`
	Status                string         `gorm:"type:varchar(32);not null"`
	Description           *string        `gorm:"type:varchar(255)"`
	Provider              string         `gorm:"type:varchar(32);not null"`
	ProviderTransactionID *string        `gorm:"type:varchar(128);index:ix_transaction_logs_provider_tx"`
	ErrorMessage          *string        `gorm:"type:varchar(255)"`
	ProviderPayload       datatypes.JSON `gorm:"type:json"`
	CreatedAt             time.Time      `gorm:"not null"`
	UpdatedAt             time.Time      `gorm:"not null"`
}

func (TransactionLog) TableName() string { return "transaction_logs" }

// FromProviderStatus projeta o vocabulário de 5 valores do provider no de
// 3 valores do log (processing/refunded contam como pending).
func FromProviderStatus(s string) string {
	switch s {
	case StatusCompleted:
		return StatusCompleted
	case StatusFailed:
		return StatusFailed
	default:
		return StatusPending
	}
}
