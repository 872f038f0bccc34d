package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/types"
)

type DecisionLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entries []*types.DecisionLog) ([]*types.DecisionLog, error)
	GetRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.DecisionLog, error)
}

type decisionLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDecisionLogRepo(db *gorm.DB, baseLog *logger.Logger) DecisionLogRepo {
	repoLog := baseLog.With("repo", "DecisionLogRepo")
	return &decisionLogRepo{db: db, log: repoLog}
}

func (r *decisionLogRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.DecisionLog) ([]*types.DecisionLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(entries) == 0 {
		return []*types.DecisionLog{}, nil
	}
	for _, e := range entries {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
	}
	if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *decisionLogRepo) GetRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.DecisionLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 100
	}

	var results []*types.DecisionLog
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
