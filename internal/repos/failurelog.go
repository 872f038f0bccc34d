package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/types"
)

type FailureLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, logs []*types.FailureLog) ([]*types.FailureLog, error)
	GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.FailureLog, error)
}

type failureLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFailureLogRepo(db *gorm.DB, baseLog *logger.Logger) FailureLogRepo {
	repoLog := baseLog.With("repo", "FailureLogRepo")
	return &failureLogRepo{db: db, log: repoLog}
}

func (r *failureLogRepo) Create(ctx context.Context, tx *gorm.DB, logs []*types.FailureLog) ([]*types.FailureLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(logs) == 0 {
		return []*types.FailureLog{}, nil
	}
	for _, l := range logs {
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
	}
	if err := transaction.WithContext(ctx).Create(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *failureLogRepo) GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.FailureLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.FailureLog
	if sessionID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
