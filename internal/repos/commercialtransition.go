package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/types"
)

type CommercialTransitionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, records []*types.CommercialTransition) ([]*types.CommercialTransition, error)
	GetLatest(ctx context.Context, tx *gorm.DB) (*types.CommercialTransition, error)
}

type commercialTransitionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommercialTransitionRepo(db *gorm.DB, baseLog *logger.Logger) CommercialTransitionRepo {
	repoLog := baseLog.With("repo", "CommercialTransitionRepo")
	return &commercialTransitionRepo{db: db, log: repoLog}
}

func (r *commercialTransitionRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.CommercialTransition) ([]*types.CommercialTransition, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(records) == 0 {
		return []*types.CommercialTransition{}, nil
	}
	for _, rec := range records {
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
	}
	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GetLatest returns nil without error when no record exists.
func (r *commercialTransitionRepo) GetLatest(ctx context.Context, tx *gorm.DB) (*types.CommercialTransition, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.CommercialTransition
	err := transaction.WithContext(ctx).
		Order("checked_at DESC").
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}
