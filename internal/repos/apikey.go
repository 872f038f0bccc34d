package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/types"
)

type APIKeyRepo interface {
	GetByHash(ctx context.Context, tx *gorm.DB, keyHash string) (*types.APIKey, error)
}

type apiKeyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAPIKeyRepo(db *gorm.DB, baseLog *logger.Logger) APIKeyRepo {
	repoLog := baseLog.With("repo", "APIKeyRepo")
	return &apiKeyRepo{db: db, log: repoLog}
}

// GetByHash returns nil without error when no key matches; the gate treats
// an unknown key the same as an inactive one.
func (r *apiKeyRepo) GetByHash(ctx context.Context, tx *gorm.DB, keyHash string) (*types.APIKey, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.APIKey
	err := transaction.WithContext(ctx).
		Where("key_hash = ?", keyHash).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}
