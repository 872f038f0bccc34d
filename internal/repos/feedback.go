package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/types"
)

type FeedbackRepo interface {
	Create(ctx context.Context, tx *gorm.DB, feedbacks []*types.Feedback) ([]*types.Feedback, error)
	GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Feedback, error)
}

type feedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	repoLog := baseLog.With("repo", "FeedbackRepo")
	return &feedbackRepo{db: db, log: repoLog}
}

func (r *feedbackRepo) Create(ctx context.Context, tx *gorm.DB, feedbacks []*types.Feedback) ([]*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(feedbacks) == 0 {
		return []*types.Feedback{}, nil
	}
	for _, f := range feedbacks {
		if f.ID == uuid.Nil {
			f.ID = uuid.New()
		}
	}
	if err := transaction.WithContext(ctx).Create(&feedbacks).Error; err != nil {
		return nil, err
	}
	return feedbacks, nil
}

func (r *feedbackRepo) GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Feedback
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
