package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// APIKey records are managed externally and read-only to the audit gate.
type APIKey struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	KeyHash         string         `gorm:"column:key_hash;not null;uniqueIndex" json:"-"`
	IsActive        bool           `gorm:"column:is_active;not null" json:"is_active"`
	AllowedModules  datatypes.JSON `gorm:"type:jsonb;column:allowed_modules" json:"allowed_modules"`
	RateLimitPerMin int            `gorm:"column:rate_limit_per_min;not null" json:"rate_limit_per_min"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
}

func (APIKey) TableName() string { return "api_key" }
