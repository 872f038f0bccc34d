package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SessionFailureType classifies why a session ended without a confirmed
// match, feeding later refinement of the ranking rules.
type SessionFailureType string

const (
	SessionFailureLowConfidenceAll SessionFailureType = "LOW_CONFIDENCE_ALL"
	SessionFailureUserRejectedAll  SessionFailureType = "USER_REJECTED_ALL"
)

type FailureLog struct {
	ID           uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"session_id"`
	FailureType  SessionFailureType `gorm:"column:failure_type;not null" json:"failure_type"`
	UserSentence string             `gorm:"column:user_sentence" json:"user_sentence,omitempty"`
	Context      datatypes.JSON     `gorm:"type:jsonb;column:context" json:"context,omitempty"`
	CreatedAt    time.Time          `gorm:"not null" json:"created_at"`
}

func (FailureLog) TableName() string { return "failure_log" }
