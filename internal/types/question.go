package types

import (
	"time"

	"github.com/google/uuid"
)

type QuestionType string

const (
	QuestionGenreClarification QuestionType = "GENRE_CLARIFICATION"
	QuestionYearClarification  QuestionType = "YEAR_CLARIFICATION"
	QuestionMoodClarification  QuestionType = "MOOD_CLARIFICATION"
	QuestionOther              QuestionType = "OTHER"
)

type Question struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_question_session_order" json:"session_id"`
	Text      string       `gorm:"column:text;not null" json:"text"`
	Type      QuestionType `gorm:"column:type;not null" json:"type"`
	Order     int          `gorm:"column:question_order;not null;uniqueIndex:idx_question_session_order" json:"order"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
}

func (Question) TableName() string { return "question" }
