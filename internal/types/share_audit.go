package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ShareType string

const (
	ShareOGImage     ShareType = "OG_IMAGE"
	ShareTwitterCard ShareType = "TWITTER_CARD"
	ShareLinkPreview ShareType = "LINK_PREVIEW"
)

type ShareAudit struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ShareType    ShareType      `gorm:"column:share_type;not null" json:"share_type"`
	Content      string         `gorm:"column:content" json:"content"`
	DetectedURLs datatypes.JSON `gorm:"type:jsonb;column:detected_urls" json:"detected_urls"`
	Blocked      bool           `gorm:"column:blocked;not null;index" json:"blocked"`
	CreatedAt    time.Time      `gorm:"not null;index" json:"created_at"`
}

func (ShareAudit) TableName() string { return "share_audit" }
