package payments

import "time"

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Payment é o placeholder de fundos de um gift: um registro ativo por
// gift, criado como pending na criação, antes de qualquer transferência.
type Payment struct {
	ID            string     `gorm:"type:char(36);primaryKey"`
	GiftID        string     `gorm:"type:char(36);not null;index:ix_payments_gift_id"`
	Provider      string     `gorm:"type:varchar(32);not null"`
	ProviderRef   *string    `gorm:"type:varchar(128);index:ix_payments_provider_ref"`
	AmountCents   int64      `gorm:"not null"`
	Status        string     `gorm:"type:varchar(32);not null"`
	ErrorMessage  *string    `gorm:"type:varchar(255)"`
	LastCheckedAt *time.Time
	CreatedAt     time.Time  `gorm:"not null"`
	UpdatedAt     time.Time  `gorm:"not null"`
}

func (Payment) TableName() string { return "payments" }

// Redemption registra cada tentativa de resgate, criada como pending antes
// da chamada ao provider. Várias tentativas falhas podem existir por gift;
// no máximo uma completa.
type Redemption struct {
	ID           string    `gorm:"type:char(36);primaryKey"`
	GiftID       string    `gorm:"type:char(36);not null;index:ix_redemptions_gift_id"`
	PixKey       string    `gorm:"type:varchar(140);not null"`
	Provider     string    `gorm:"type:varchar(32);not null"`
	ProviderRef  *string   `gorm:"type:varchar(128)"`
	Status       string    `gorm:"type:varchar(32);not null"`
	ErrorMessage *string   `gorm:"type:varchar(255)"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (Redemption) TableName() string { return "gift_redemptions" }
