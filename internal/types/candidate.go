package types

import (
	"time"

	"github.com/google/uuid"
)

// Candidate ranks are unique per session; score corrections go through an
// upsert keyed by (session_id, rank), last writer wins.
type Candidate struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_candidate_session_rank" json:"session_id"`
	MovieID         uuid.UUID `gorm:"type:uuid;not null;index" json:"movie_id"`
	Movie           *Movie    `gorm:"foreignKey:MovieID;references:ID" json:"movie,omitempty"`
	Rank            int       `gorm:"column:rank;not null;uniqueIndex:idx_candidate_session_rank" json:"rank"`
	ConfidenceScore float64   `gorm:"column:confidence_score;not null" json:"confidence_score"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func (Candidate) TableName() string { return "candidate" }
