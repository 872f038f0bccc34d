package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ResultType string

const (
	ResultSuccess ResultType = "SUCCESS"
	ResultPartial ResultType = "PARTIAL"
	ResultFailure ResultType = "FAILURE"
)

type FailureType string

const (
	FailureNoResult      FailureType = "NO_RESULT"
	FailureNoCandidates  FailureType = "NO_CANDIDATES"
	FailureLowConfidence FailureType = "LOW_CONFIDENCE"
	FailurePipelineError FailureType = "PIPELINE_ERROR"
)

type CostLevel string

const (
	CostLow    CostLevel = "LOW"
	CostMedium CostLevel = "MEDIUM"
	CostHigh   CostLevel = "HIGH"
)

// DecisionLog is the append-only trace of one pipeline run. Exactly one row
// is written per invocation, success or failure.
type DecisionLog struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserInput        string         `gorm:"column:user_input;not null" json:"user_input"`
	Intent           string         `gorm:"column:intent;not null" json:"intent"`
	Genre            string         `gorm:"column:genre;not null" json:"genre"`
	Tags             datatypes.JSON `gorm:"type:jsonb;column:tags" json:"tags"`
	Solver           string         `gorm:"column:solver;not null" json:"solver"`
	Confidence       float64        `gorm:"column:confidence;not null" json:"confidence"`
	ResultGenerated  bool           `gorm:"column:result_generated;not null" json:"result_generated"`
	ResultType       ResultType     `gorm:"column:result_type;not null;index" json:"result_type"`
	FailureType      *FailureType   `gorm:"column:failure_type" json:"failure_type,omitempty"`
	FailureReason    string         `gorm:"column:failure_reason" json:"failure_reason,omitempty"`
	FailureTags      datatypes.JSON `gorm:"type:jsonb;column:failure_tags" json:"failure_tags,omitempty"`
	ProcessingTimeMs int64          `gorm:"column:processing_time_ms;not null" json:"processing_time_ms"`
	CostLevel        CostLevel      `gorm:"column:cost_level;not null" json:"cost_level"`
	CreatedAt        time.Time      `gorm:"not null;index" json:"created_at"`
}

func (DecisionLog) TableName() string { return "decision_log" }
