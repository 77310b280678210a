package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UpdateOpts: campos opcionais persistidos junto com um status.
type UpdateOpts struct {
	ProviderRef   *string
	ErrorMessage  *string
	LastCheckedAt *time.Time
}

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Create(ctx context.Context, giftID, provider string, amountCents int64) (Payment, error) {
	now := time.Now()
	p := Payment{
		ID:          uuid.NewString(),
		GiftID:      giftID,
		Provider:    provider,
		AmountCents: amountCents,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := r.db.WithContext(ctx).Create(&p).Error
	return p, err
}

func (r *Repo) FindByGiftID(ctx context.Context, giftID string) (Payment, error) {
	var p Payment
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		First(&p, "gift_id = ?", giftID).Error
	return p, err
}

func (r *Repo) UpdateStatus(ctx context.Context, id, status string, opts UpdateOpts) error {
	return updateStatus(r.db.WithContext(ctx), &Payment{}, id, status, opts)
}

type RedemptionRepo struct{ db *gorm.DB }

func NewRedemptionRepo(db *gorm.DB) *RedemptionRepo { return &RedemptionRepo{db: db} }

func (r *RedemptionRepo) Create(ctx context.Context, giftID, pixKey, provider string) (Redemption, error) {
	return r.create(r.db.WithContext(ctx), giftID, pixKey, provider)
}

// CreateTx cria a tentativa dentro de uma transação em andamento.
func (r *RedemptionRepo) CreateTx(ctx context.Context, tx *gorm.DB, giftID, pixKey, provider string) (Redemption, error) {
	return r.create(tx.WithContext(ctx), giftID, pixKey, provider)
}

func (r *RedemptionRepo) create(db *gorm.DB, giftID, pixKey, provider string) (Redemption, error) {
	now := time.Now()
	red := Redemption{
		ID:        uuid.NewString(),
		GiftID:    giftID,
		PixKey:    pixKey,
		Provider:  provider,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := db.Create(&red).Error
	return red, err
}

func (r *RedemptionRepo) UpdateStatus(ctx context.Context, id, status string, opts UpdateOpts) error {
	return updateStatus(r.db.WithContext(ctx), &Redemption{}, id, status, opts)
}

func (r *RedemptionRepo) ListByGiftID(ctx context.Context, giftID string) ([]Redemption, error) {
	var out []Redemption
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&out, "gift_id = ?", giftID).Error
	return out, err
}

// CountActiveTx conta tentativas pending/completed do gift dentro de uma
// transação; usada pelo guard de resgate único.
func (r *RedemptionRepo) CountActiveTx(ctx context.Context, tx *gorm.DB, giftID string) (pending, completed int64, err error) {
	if err = tx.WithContext(ctx).Model(&Redemption{}).
		Where("gift_id = ? AND status = ?", giftID, StatusPending).
		Count(&pending).Error; err != nil {
		return 0, 0, err
	}
	err = tx.WithContext(ctx).Model(&Redemption{}).
		Where("gift_id = ? AND status = ?", giftID, StatusCompleted).
		Count(&completed).Error
	return pending, completed, err
}

func updateStatus(db *gorm.DB, model any, id, status string, opts UpdateOpts) error {
	updates := map[string]any{
		"status":     status,
		"updated_at": time.Now(),
	}
	if opts.ProviderRef != nil {
		updates["provider_ref"] = *opts.ProviderRef
	}
	if opts.ErrorMessage != nil {
		updates["error_message"] = truncate(*opts.ErrorMessage, 250)
	}
	if opts.LastCheckedAt != nil {
		updates["last_checked_at"] = opts.LastCheckedAt
	}
	return db.Model(model).Where("id = ?", id).Updates(updates).Error
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
