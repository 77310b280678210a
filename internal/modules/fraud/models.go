package fraud

import "time"

// FraudEvent é append-only; entrada puramente consultiva do guard, nunca
// referenciada pelas máquinas de estado de Gift/Payment.
type FraudEvent struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	EventType string    `gorm:"type:varchar(64);not null;index:ix_fraud_events_type_ip,priority:1"`
	RiskScore int       `gorm:"not null"`
	IP        *string   `gorm:"type:varchar(45);index:ix_fraud_events_type_ip,priority:2"`
	GiftID    *string   `gorm:"type:char(36);index:ix_fraud_events_gift_id"`
	CreatedAt time.Time `gorm:"not null;index:ix_fraud_events_created_at"`
}

func (FraudEvent) TableName() string { return "fraud_events" }

type FraudBlock struct {
	ID         string    `gorm:"type:char(36);primaryKey"`
	EntityType string    `gorm:"type:varchar(16);not null;index:ix_fraud_blocks_entity,priority:1"`
	EntityID   string    `gorm:"type:varchar(64);not null;index:ix_fraud_blocks_entity,priority:2"`
	Reason     string    `gorm:"type:varchar(128);not null"`
	ExpiresAt  time.Time `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (FraudBlock) TableName() string { return "fraud_blocks" }

const (
	EntityIP   = "ip"
	EntityGift = "gift"
)
