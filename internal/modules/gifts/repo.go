package gifts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

type CreateParams struct {
	ReferenceID string
	AmountCents int64
	Message     *string
	PinHash     string
	ExpiresAt   *time.Time
}

func (r *Repo) CreateTx(ctx context.Context, tx *gorm.DB, p CreateParams) (Gift, error) {
	now := time.Now()
	g := Gift{
		ID:          uuid.NewString(),
		ReferenceID: p.ReferenceID,
		AmountCents: p.AmountCents,
		Status:      StatusActive,
		Message:     p.Message,
		PinHash:     p.PinHash,
		ExpiresAt:   p.ExpiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := tx.WithContext(ctx).Create(&g).Error
	return g, err
}

func (r *Repo) FindByReferenceID(ctx context.Context, referenceID string) (Gift, error) {
	var g Gift
	err := r.db.WithContext(ctx).First(&g, "reference_id = ?", referenceID).Error
	return g, err
}

func (r *Repo) FindByID(ctx context.Context, id string) (Gift, error) {
	var g Gift
	err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error
	return g, err
}

// LockByID carrega o gift com FOR UPDATE dentro de uma transação; o guard
// de resgate único depende desse lock. SQLite não aceita FOR UPDATE e já
// serializa escritas por conta própria, então o clause só entra no MySQL.
func (r *Repo) LockByID(ctx context.Context, tx *gorm.DB, id string) (Gift, error) {
	q := tx.WithContext(ctx)
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var g Gift
	err := q.First(&g, "id = ?", id).Error
	return g, err
}

func (r *Repo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).Model(&Gift{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()}).Error
}

// MarkRedeemed transiciona active -> redeemed de forma condicional;
// devolve false quando outra chamada já mudou o status.
func (r *Repo) MarkRedeemed(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	res := db.WithContext(ctx).Model(&Gift{}).
		Where("id = ? AND status = ?", id, StatusActive).
		Updates(map[string]any{"status": StatusRedeemed, "updated_at": time.Now()})
	return res.RowsAffected > 0, res.Error
}

func (r *Repo) List(ctx context.Context) ([]Gift, error) {
	var out []Gift
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *Repo) Summarize(ctx context.Context) (Summary, error) {
	var s Summary
	rows := []struct {
		Status string
		N      int64
		Cents  int64
	}{}
	err := r.db.WithContext(ctx).Model(&Gift{}).
		Select("status, COUNT(*) AS n, COALESCE(SUM(amount_cents),0) AS cents").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return Summary{}, err
	}
	for _, row := range rows {
		s.Total += row.N
		s.TotalAmountCents += row.Cents
		switch row.Status {
		case StatusRedeemed:
			s.Redeemed = row.N
		case StatusActive:
			s.Active = row.N
		case StatusExpired:
			s.Expired = row.N
		}
	}
	return s, nil
}
