package gifts

import "time"

const (
	StatusActive   = "active"
	StatusRedeemed = "redeemed"
	StatusExpired  = "expired"
	StatusRefunded = "refunded"
)

// Gift é o voucher. reference_id é o único handle externo; o id interno
// nunca sai para o caller. Lifecycle soft: nunca deletado.
type Gift struct {
	ID          string     `gorm:"type:char(36);primaryKey"`
	ReferenceID string     `gorm:"type:char(36);not null;uniqueIndex:ux_gifts_reference_id"`
	AmountCents int64      `gorm:"not null"`
	Status      string     `gorm:"type:varchar(16);not null;index:ix_gifts_status"`
	Message     *string    `gorm:"type:varchar(255)"`
	PinHash     string     `gorm:"type:varchar(72);not null"`
	ExpiresAt   *time.Time
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

func (Gift) TableName() string { return "gifts" }

// Expired: expires_at no passado (nil nunca expira).
func (g Gift) Expired(now time.Time) bool {
	return g.ExpiresAt != nil && g.ExpiresAt.Before(now)
}

type Summary struct {
	Total            int64
	Redeemed         int64
	Active           int64
	Expired          int64
	TotalAmountCents int64
}
