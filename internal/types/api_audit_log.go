package types

import (
	"time"

	"github.com/google/uuid"
)

// APIModule identifies which internal module a gated call targeted.
type APIModule string

const (
	ModuleGenreClassifier  APIModule = "GENRE_CLASSIFIER"
	ModuleCandidateRanker  APIModule = "CANDIDATE_RANKER"
	ModuleQuestionSelector APIModule = "QUESTION_SELECTOR"
	ModuleFeedbackHandler  APIModule = "FEEDBACK_HANDLER"
)

// APIAuditLog rows are append-only; the api_key column only ever holds the
// masked form of the credential.
type APIAuditLog struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Module         APIModule `gorm:"column:module;not null;index" json:"module"`
	APIKey         string    `gorm:"column:api_key;index" json:"api_key,omitempty"`
	Endpoint       string    `gorm:"column:endpoint;not null" json:"endpoint"`
	Method         string    `gorm:"column:method;not null" json:"method"`
	StatusCode     int       `gorm:"column:status_code;not null" json:"status_code"`
	ResponseTimeMs int64     `gorm:"column:response_time_ms;not null" json:"response_time_ms"`
	RateLimitHit   bool      `gorm:"column:rate_limit_hit;not null" json:"rate_limit_hit"`
	CreatedAt      time.Time `gorm:"not null;index" json:"created_at"`
}

func (APIAuditLog) TableName() string { return "api_audit_log" }
