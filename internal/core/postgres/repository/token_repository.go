package repository

import (
	"context"
	"errors"
	"fmt"

	"jobrelay/internal/core/ports"
	"jobrelay/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates the postgres-backed token store. Postgres
// reads-after-commit are strongly consistent, which is what lets a
// completion event that arrives milliseconds after submission resolve.
func NewTokenRepository(db *gorm.DB) ports.TokenStore {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Put(ctx context.Context, record *domain.CorrelationRecord) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "correlation_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"continuation_token"}),
		}).
		Create(record).Error
	if err != nil {
		return fmt.Errorf("token store: put %s: %w", record.CorrelationKey, err)
	}
	return nil
}

func (r *tokenRepository) Get(ctx context.Context, correlationKey string) (*domain.CorrelationRecord, error) {
	var record domain.CorrelationRecord
	err := r.db.WithContext(ctx).
		Where("correlation_key = ?", correlationKey).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("token store: get %s: %w", correlationKey, domain.ErrTokenNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("token store: get %s: %w", correlationKey, err)
	}
	return &record, nil
}
