package types

import (
	"time"

	"github.com/google/uuid"
)

type TagType string

const (
	TagGenrePrimary   TagType = "GENRE_PRIMARY"
	TagGenreSecondary TagType = "GENRE_SECONDARY"
	TagSubgenre       TagType = "SUBGENRE"
	TagMood           TagType = "MOOD"
	TagObject         TagType = "OBJECT"
	TagNarrativeHint  TagType = "NARRATIVE_HINT"
)

type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "HIGH"
	ConfidenceMedium ConfidenceLevel = "MEDIUM"
	ConfidenceLow    ConfidenceLevel = "LOW"
)

// MovieTag rows are only written through the TagDecisionGate: reason may
// never be empty and version increases by exactly 1 per mutation.
type MovieTag struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	MovieID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"movie_id"`
	TagType         TagType         `gorm:"column:tag_type;not null;index" json:"tag_type"`
	TagCode         string          `gorm:"column:tag_code;not null" json:"tag_code"`
	Reason          string          `gorm:"column:reason;not null" json:"reason"`
	Author          string          `gorm:"column:author;not null" json:"author"`
	ConfidenceLevel ConfidenceLevel `gorm:"column:confidence_level;not null" json:"confidence_level"`
	Version         int             `gorm:"column:version;not null" json:"version"`
	NodeID          string          `gorm:"column:node_id" json:"node_id,omitempty"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`
}

func (MovieTag) TableName() string { return "movie_tag" }
