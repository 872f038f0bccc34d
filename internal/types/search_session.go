package types

import (
	"time"

	"github.com/google/uuid"
)

// SessionEndStatus is the terminal classification of a search session.
// Every session must eventually receive one; a session older than the
// grace window without one is a Gate A violation.
type SessionEndStatus string

const (
	SessionEndSuccessConfirmed     SessionEndStatus = "SUCCESS_CONFIRMED"
	SessionEndLowConfidence        SessionEndStatus = "LOW_CONFIDENCE"
	SessionEndFailedAfterQuestions SessionEndStatus = "FAILED_AFTER_QUESTIONS"
	SessionEndSubmittedHint        SessionEndStatus = "SUBMITTED_HINT"
)

type SearchSession struct {
	ID                 uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserMemorySentence string            `gorm:"column:user_memory_sentence;not null" json:"user_memory_sentence"`
	EndStatus          *SessionEndStatus `gorm:"column:end_status;index" json:"end_status,omitempty"`
	EndStatusReason    string            `gorm:"column:end_status_reason" json:"end_status_reason,omitempty"`
	ProcessingTimeMs   int64             `gorm:"column:processing_time_ms" json:"processing_time_ms"`
	Candidates         []Candidate       `gorm:"foreignKey:SessionID;references:ID" json:"candidates,omitempty"`
	Questions          []Question        `gorm:"foreignKey:SessionID;references:ID" json:"questions,omitempty"`
	CreatedAt          time.Time         `gorm:"not null;index" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"not null" json:"updated_at"`
}

func (SearchSession) TableName() string { return "search_session" }
