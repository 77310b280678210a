package notifications

import "time"

const (
	TypeGiftCreated  = "gift_created"
	TypeGiftRedeemed = "gift_redeemed"
	TypeGiftExpired  = "gift_expired"

	ChannelEmail = "email"
	ChannelKafka = "kafka"

	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

type Notification struct {
	ID            string     `gorm:"type:char(36);primaryKey"`
	GiftReference string     `gorm:"type:char(36);not null;index:ix_notifications_gift_reference"`
	Type          string     `gorm:"type:varchar(32);not null"`
	Channel       string     `gorm:"type:varchar(16);not null"`
	Recipient     string     `gorm:"type:varchar(255);not null"`
	Status        string     `gorm:"type:varchar(16);not null"`
	ErrorMessage  *string    `gorm:"type:varchar(255)"`
	SentAt        *time.Time
	CreatedAt     time.Time  `gorm:"not null"`
	UpdatedAt     time.Time  `gorm:"not null"`
}

func (Notification) TableName() string { return "notifications" }
