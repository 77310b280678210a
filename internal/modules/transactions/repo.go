package transactions

import (
	"context"
	"errors"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrDuplicateReference: o reference_id já existe. Duas requisições
// simultâneas com o mesmo id passam pela checagem prévia; o índice único
// derruba a segunda e o caller trata como replay.
var ErrDuplicateReference = errors.New("reference_id duplicado")

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

type CreateParams struct {
	ReferenceID string
	PixKey      string
	AmountCents int64
	Description *string
	Provider    string
}

func (r *Repo) Create(ctx context.Context, p CreateParams) (TransactionLog, error) {
	return r.create(r.db.WithContext(ctx), p)
}

func (r *Repo) CreateTx(ctx context.Context, tx *gorm.DB, p CreateParams) (TransactionLog, error) {
	return r.create(tx.WithContext(ctx), p)
}

func (r *Repo) create(db *gorm.DB, p CreateParams) (TransactionLog, error) {
	now := time.Now()
	t := TransactionLog{
		ID:          uuid.NewString(),
		ReferenceID: p.ReferenceID,
		PixKey:      p.PixKey,
		AmountCents: p.AmountCents,
		Status:      StatusPending,
		Description: p.Description,
		Provider:    p.Provider,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := db.Create(&t).Error
	if isDuplicate(err) {
		return TransactionLog{}, ErrDuplicateReference
	}
	return t, err
}

func isDuplicate(err error) bool {
	var me *gomysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return true
	}
	// dialetos com TranslateError habilitado (sqlite nos testes)
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// FindByReferenceID devolve (zero, false, nil) quando não existe; a
// checagem de duplicata do payout depende dessa forma.
func (r *Repo) FindByReferenceID(ctx context.Context, referenceID string) (TransactionLog, bool, error) {
	var t TransactionLog
	err := r.db.WithContext(ctx).First(&t, "reference_id = ?", referenceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TransactionLog{}, false, nil
	}
	if err != nil {
		return TransactionLog{}, false, err
	}
	return t, true, nil
}

type UpdateParams struct {
	Status                string
	ProviderTransactionID *string
	ErrorMessage          *string
	ProviderPayload       datatypes.JSON
	PixKey                *string
}

func (r *Repo) Update(ctx context.Context, referenceID string, p UpdateParams) error {
	updates := map[string]any{"updated_at": time.Now()}
	if p.Status != "" {
		updates["status"] = p.Status
	}
	if p.ProviderTransactionID != nil {
		updates["provider_transaction_id"] = *p.ProviderTransactionID
	}
	if p.ErrorMessage != nil {
		updates["error_message"] = *p.ErrorMessage
	}
	if p.ProviderPayload != nil {
		updates["provider_payload"] = p.ProviderPayload
	}
	if p.PixKey != nil {
		updates["pix_key"] = *p.PixKey
	}
	return r.db.WithContext(ctx).Model(&TransactionLog{}).
		Where("reference_id = ?", referenceID).
		Updates(updates).Error
}

func (r *Repo) List(ctx context.Context) ([]TransactionLog, error) {
	var out []TransactionLog
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}
