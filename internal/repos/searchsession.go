package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/types"
)

type SearchSessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sessions []*types.SearchSession) ([]*types.SearchSession, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.SearchSession, error)
	GetWithRelations(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SearchSession, error)
	SetEndStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.SessionEndStatus, reason string) error
	SetProcessingTime(ctx context.Context, tx *gorm.DB, id uuid.UUID, processingTimeMs int64) error
	GetWithoutEndStatusBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]*types.SearchSession, error)
}

type searchSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSearchSessionRepo(db *gorm.DB, baseLog *logger.Logger) SearchSessionRepo {
	repoLog := baseLog.With("repo", "SearchSessionRepo")
	return &searchSessionRepo{db: db, log: repoLog}
}

func (r *searchSessionRepo) Create(ctx context.Context, tx *gorm.DB, sessions []*types.SearchSession) ([]*types.SearchSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(sessions) == 0 {
		return []*types.SearchSession{}, nil
	}
	for _, s := range sessions {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
	}
	if err := transaction.WithContext(ctx).Create(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *searchSessionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.SearchSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SearchSession
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

func (r *searchSessionRepo) GetWithRelations(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SearchSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.SearchSession
	err := transaction.WithContext(ctx).
		Preload("Candidates", func(db *gorm.DB) *gorm.DB { return db.Order("rank ASC") }).
		Preload("Candidates.Movie").
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("question_order ASC") }).
		First(&result, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *searchSessionRepo) SetEndStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.SessionEndStatus, reason string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.SearchSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"end_status":        status,
			"end_status_reason": reason,
			"updated_at":        time.Now(),
		}).Error
}

func (r *searchSessionRepo) SetProcessingTime(ctx context.Context, tx *gorm.DB, id uuid.UUID, processingTimeMs int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.SearchSession{}).
		Where("id = ?", id).
		Update("processing_time_ms", processingTimeMs).Error
}

func (r *searchSessionRepo) GetWithoutEndStatusBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]*types.SearchSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SearchSession
	if err := transaction.WithContext(ctx).
		Where("end_status IS NULL AND created_at < ?", cutoff).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
