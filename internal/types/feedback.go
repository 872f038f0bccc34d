package types

import (
	"time"

	"github.com/google/uuid"
)

type FeedbackType string

const (
	FeedbackConfirmed     FeedbackType = "CONFIRMED"
	FeedbackLowConfidence FeedbackType = "LOW_CONFIDENCE"
	FeedbackNotFound      FeedbackType = "NOT_FOUND"
	FeedbackSubmittedHint FeedbackType = "SUBMITTED_HINT"
)

type Feedback struct {
	ID               uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID        uuid.UUID    `gorm:"type:uuid;not null;index" json:"session_id"`
	FeedbackType     FeedbackType `gorm:"column:feedback_type;not null" json:"feedback_type"`
	Content          string       `gorm:"column:content" json:"content,omitempty"`
	ConfirmedMovieID *uuid.UUID   `gorm:"type:uuid;column:confirmed_movie_id" json:"confirmed_movie_id,omitempty"`
	CreatedAt        time.Time    `gorm:"not null" json:"created_at"`
}

func (Feedback) TableName() string { return "feedback" }
