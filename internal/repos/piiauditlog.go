package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/types"
)

type PIIAuditLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, logs []*types.PIIAuditLog) ([]*types.PIIAuditLog, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.PIIAuditLog, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	GetCompletedInRange(ctx context.Context, tx *gorm.DB, start, end time.Time) ([]*types.PIIAuditLog, error)
}

type piiAuditLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPIIAuditLogRepo(db *gorm.DB, baseLog *logger.Logger) PIIAuditLogRepo {
	repoLog := baseLog.With("repo", "PIIAuditLogRepo")
	return &piiAuditLogRepo{db: db, log: repoLog}
}

func (r *piiAuditLogRepo) Create(ctx context.Context, tx *gorm.DB, logs []*types.PIIAuditLog) ([]*types.PIIAuditLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(logs) == 0 {
		return []*types.PIIAuditLog{}, nil
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

func (r *piiAuditLogRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.PIIAuditLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PIIAuditLog
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *piiAuditLogRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if _, ok := fields["updated_at"]; !ok {
		fields["updated_at"] = time.Now()
	}

	return transaction.WithContext(ctx).
		Model(&types.PIIAuditLog{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *piiAuditLogRepo) GetCompletedInRange(ctx context.Context, tx *gorm.DB, start, end time.Time) ([]*types.PIIAuditLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PIIAuditLog
	if err := transaction.WithContext(ctx).
		Where("delete_requested_at >= ? AND delete_requested_at <= ? AND delete_completed_at IS NOT NULL", start, end).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
