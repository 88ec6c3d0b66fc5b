package repository

import (
	"context"
	"errors"
	"fmt"

	"jobrelay/internal/core/ports"
	"jobrelay/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type statementRepository struct {
	db *gorm.DB
}

// NewStatementRepository creates the postgres-backed statement store.
func NewStatementRepository(db *gorm.DB) ports.StatementStore {
	return &statementRepository{db: db}
}

func (r *statementRepository) Create(ctx context.Context, record *domain.StatementRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("statement store: create %s: %w", record.ID, err)
	}
	return nil
}

func (r *statementRepository) MarkStarted(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&domain.StatementRecord{}).
		Where("id = ? AND status = ?", id, domain.StatementSubmitted).
		Update("status", domain.StatementStarted).Error
	if err != nil {
		return fmt.Errorf("statement store: mark %s started: %w", id, err)
	}
	return nil
}

func (r *statementRepository) MarkTerminal(ctx context.Context, id uuid.UUID, status domain.StatementStatus, errText string) error {
	err := r.db.WithContext(ctx).
		Model(&domain.StatementRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status": status,
			"error":  errText,
		}).Error
	if err != nil {
		return fmt.Errorf("statement store: mark %s %s: %w", id, status, err)
	}
	return nil
}

func (r *statementRepository) Get(ctx context.Context, id uuid.UUID) (*domain.StatementRecord, error) {
	var record domain.StatementRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("statement store: get %s: %w", id, domain.ErrStatementNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("statement store: get %s: %w", id, err)
	}
	return &record, nil
}
