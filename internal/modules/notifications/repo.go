package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Create(ctx context.Context, giftReference, typ, channel, recipient string) (Notification, error) {
	now := time.Now()
	n := Notification{
		ID:            uuid.NewString(),
		GiftReference: giftReference,
		Type:          typ,
		Channel:       channel,
		Recipient:     recipient,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := r.db.WithContext(ctx).Create(&n).Error
	return n, err
}

func (r *Repo) MarkSent(ctx context.Context, id string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": StatusSent, "sent_at": &now, "updated_at": now}).Error
}

func (r *Repo) MarkFailed(ctx context.Context, id, msg string) error {
	if len(msg) > 250 {
		msg = msg[:250]
	}
	return r.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": StatusFailed, "error_message": msg, "updated_at": time.Now()}).Error
}

func (r *Repo) ListByGiftReference(ctx context.Context, giftReference string) ([]Notification, error) {
	var out []Notification
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&out, "gift_reference = ?", giftReference).Error
	return out, err
}
