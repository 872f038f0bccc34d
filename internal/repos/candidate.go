package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/types"
)

type CandidateRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, candidate *types.Candidate) (*types.Candidate, error)
	GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Candidate, error)
}

type candidateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCandidateRepo(db *gorm.DB, baseLog *logger.Logger) CandidateRepo {
	repoLog := baseLog.With("repo", "CandidateRepo")
	return &candidateRepo{db: db, log: repoLog}
}

// Upsert writes a candidate keyed by (session_id, rank). Last writer wins:
// concurrent writes for the same slot resolve to the most recent movie and
// score rather than failing on the unique index.
func (r *candidateRepo) Upsert(ctx context.Context, tx *gorm.DB, candidate *types.Candidate) (*types.Candidate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if candidate.ID == uuid.Nil {
		candidate.ID = uuid.New()
	}
	err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "rank"}},
			DoUpdates: clause.AssignmentColumns([]string{"movie_id", "confidence_score", "updated_at"}),
		}).
		Create(candidate).Error
	if err != nil {
		return nil, err
	}
	return candidate, nil
}

func (r *candidateRepo) GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Candidate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Candidate
	if sessionID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("rank ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
