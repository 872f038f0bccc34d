package types

import (
	"time"

	"github.com/google/uuid"
)

type PIIDataType string

const (
	PIIUserSentence PIIDataType = "USER_SENTENCE"
	PIIFeedback     PIIDataType = "FEEDBACK"
	PIISessionData  PIIDataType = "SESSION_DATA"
)

// PIIAuditLog records one PII deletion lifecycle. Each timestamp column is a
// one-way transition; sla_ms is computed once at completion and never edited.
type PIIAuditLog struct {
	ID                 uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             *uuid.UUID  `gorm:"type:uuid;index" json:"user_id,omitempty"`
	DataType           PIIDataType `gorm:"column:data_type;not null" json:"data_type"`
	DeleteRequestedAt  time.Time   `gorm:"column:delete_requested_at;not null;index" json:"delete_requested_at"`
	DeleteCompletedAt  *time.Time  `gorm:"column:delete_completed_at" json:"delete_completed_at,omitempty"`
	SlaMs              *int64      `gorm:"column:sla_ms" json:"sla_ms,omitempty"`
	RetentionExpiredAt *time.Time  `gorm:"column:retention_expired_at" json:"retention_expired_at,omitempty"`
	PurgeCompletedAt   *time.Time  `gorm:"column:purge_completed_at" json:"purge_completed_at,omitempty"`
	OptInStatus        *bool       `gorm:"column:opt_in_status" json:"opt_in_status,omitempty"`
	MaskingApplied     bool        `gorm:"column:masking_applied;not null" json:"masking_applied"`
	CreatedAt          time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time   `gorm:"not null" json:"updated_at"`
}

func (PIIAuditLog) TableName() string { return "pii_audit_log" }
