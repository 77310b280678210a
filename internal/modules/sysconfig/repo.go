package sysconfig

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"
)

// SystemConfig é um par chave/valor ajustável em runtime; thresholds do
// fraud guard vivem aqui.
type SystemConfig struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	Key       string    `gorm:"type:varchar(128);not null;uniqueIndex:ux_system_configs_key"`
	Value     string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (SystemConfig) TableName() string { return "system_configs" }

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// GetValue devolve "" quando a chave não existe.
func (r *Repo) GetValue(ctx context.Context, key string) (string, error) {
	var sc SystemConfig
	err := r.db.WithContext(ctx).First(&sc, "`key` = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return sc.Value, nil
}

// GetInt aplica o fallback quando a chave está ausente ou não numérica.
// Falhas de leitura também caem no fallback (config é advisory).
func (r *Repo) GetInt(ctx context.Context, key string, fallback int64) int64 {
	val, err := r.GetValue(ctx, key)
	if err != nil || val == "" {
		return fallback
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func (r *Repo) GetFloat(ctx context.Context, key string, fallback float64) float64 {
	val, err := r.GetValue(ctx, key)
	if err != nil || val == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fallback
	}
	return f
}
