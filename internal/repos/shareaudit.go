package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/types"
)

type ShareAuditRepo interface {
	Create(ctx context.Context, tx *gorm.DB, audits []*types.ShareAudit) ([]*types.ShareAudit, error)
}

type shareAuditRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewShareAuditRepo(db *gorm.DB, baseLog *logger.Logger) ShareAuditRepo {
	repoLog := baseLog.With("repo", "ShareAuditRepo")
	return &shareAuditRepo{db: db, log: repoLog}
}

func (r *shareAuditRepo) Create(ctx context.Context, tx *gorm.DB, audits []*types.ShareAudit) ([]*types.ShareAudit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(audits) == 0 {
		return []*types.ShareAudit{}, nil
	}
	for _, a := range audits {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
	}
	if err := transaction.WithContext(ctx).Create(&audits).Error; err != nil {
		return nil, err
	}
	return audits, nil
}
