package types

import (
	"time"

	"github.com/google/uuid"
)

// CommercialTransition is append-only; the latest row by checked_at is
// authoritative. CommercialTransitionRequired is derived from the three
// trigger booleans, never set independently.
type CommercialTransition struct {
	ID                           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AdsEnabled                   bool      `gorm:"column:ads_enabled;not null" json:"ads_enabled"`
	PaidFeaturesEnabled          bool      `gorm:"column:paid_features_enabled;not null" json:"paid_features_enabled"`
	AffiliateRevenueOccurred     bool      `gorm:"column:affiliate_revenue_occurred;not null" json:"affiliate_revenue_occurred"`
	CommercialTransitionRequired bool      `gorm:"column:commercial_transition_required;not null" json:"commercial_transition_required"`
	CheckedAt                    time.Time `gorm:"column:checked_at;not null;index" json:"checked_at"`
	CheckedBy                    string    `gorm:"column:checked_by;not null" json:"checked_by"`
	Notes                        string    `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt                    time.Time `gorm:"not null" json:"created_at"`
}

func (CommercialTransition) TableName() string { return "commercial_transition" }
