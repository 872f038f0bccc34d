package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/types"
)

type APIAuditLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, logs []*types.APIAuditLog) ([]*types.APIAuditLog, error)
	CountByKeyAndModuleSince(ctx context.Context, tx *gorm.DB, maskedKey string, module types.APIModule, since time.Time) (int64, error)
}

type apiAuditLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAPIAuditLogRepo(db *gorm.DB, baseLog *logger.Logger) APIAuditLogRepo {
	repoLog := baseLog.With("repo", "APIAuditLogRepo")
	return &apiAuditLogRepo{db: db, log: repoLog}
}

func (r *apiAuditLogRepo) Create(ctx context.Context, tx *gorm.DB, logs []*types.APIAuditLog) ([]*types.APIAuditLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(logs) == 0 {
		return []*types.APIAuditLog{}, nil
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

// CountByKeyAndModuleSince counts calls by masked key; the audit table never
// holds the raw credential, so rate-limit counting compares masked forms.
func (r *apiAuditLogRepo) CountByKeyAndModuleSince(ctx context.Context, tx *gorm.DB, maskedKey string, module types.APIModule, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.APIAuditLog{}).
		Where("api_key = ? AND module = ? AND created_at >= ?", maskedKey, module, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
