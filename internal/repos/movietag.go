package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/types"
)

type MovieTagRepo interface {
	Create(ctx context.Context, tx *gorm.DB, tags []*types.MovieTag) ([]*types.MovieTag, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.MovieTag, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	GetWithEmptyReason(ctx context.Context, tx *gorm.DB) ([]*types.MovieTag, error)
}

type movieTagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMovieTagRepo(db *gorm.DB, baseLog *logger.Logger) MovieTagRepo {
	repoLog := baseLog.With("repo", "MovieTagRepo")
	return &movieTagRepo{db: db, log: repoLog}
}

func (r *movieTagRepo) Create(ctx context.Context, tx *gorm.DB, tags []*types.MovieTag) ([]*types.MovieTag, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(tags) == 0 {
		return []*types.MovieTag{}, nil
	}
	for _, t := range tags {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
	}
	if err := transaction.WithContext(ctx).Create(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *movieTagRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.MovieTag, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.MovieTag
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

func (r *movieTagRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if _, ok := fields["updated_at"]; !ok {
		fields["updated_at"] = time.Now()
	}

	return transaction.WithContext(ctx).
		Model(&types.MovieTag{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *movieTagRepo) GetWithEmptyReason(ctx context.Context, tx *gorm.DB) ([]*types.MovieTag, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.MovieTag
	if err := transaction.WithContext(ctx).
		Where("reason = ''").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
