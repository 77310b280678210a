package fraud

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

type EventParams struct {
	EventType string
	RiskScore int
	IP        *string
	GiftID    *string
}

func (r *Repo) RecordEvent(ctx context.Context, p EventParams) error {
	ev := FraudEvent{
		ID:        uuid.NewString(),
		EventType: p.EventType,
		RiskScore: p.RiskScore,
		IP:        p.IP,
		GiftID:    p.GiftID,
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Create(&ev).Error
}

type CountFilter struct {
	EventType string
	IP        *string
	GiftID    *string
	Since     time.Time
}

func (r *Repo) CountEvents(ctx context.Context, f CountFilter) (int64, error) {
	q := r.db.WithContext(ctx).Model(&FraudEvent{}).
		Where("created_at >= ?", f.Since)
	if f.EventType != "" {
		q = q.Where("event_type = ?", f.EventType)
	}
	if f.IP != nil {
		q = q.Where("ip = ?", *f.IP)
	}
	if f.GiftID != nil {
		q = q.Where("gift_id = ?", *f.GiftID)
	}

	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *Repo) IsBlocked(ctx context.Context, entityType, entityID string, now time.Time) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&FraudBlock{}).
		Where("entity_type = ? AND entity_id = ? AND expires_at > ?", entityType, entityID, now).
		Count(&n).Error
	return n > 0, err
}

func (r *Repo) Block(ctx context.Context, entityType, entityID, reason string, ttl time.Duration) error {
	b := FraudBlock{
		ID:         uuid.NewString(),
		EntityType: entityType,
		EntityID:   entityID,
		Reason:     reason,
		ExpiresAt:  time.Now().Add(ttl),
		CreatedAt:  time.Now(),
	}
	return r.db.WithContext(ctx).Create(&b).Error
}
