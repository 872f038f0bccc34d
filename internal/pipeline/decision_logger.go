package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/repos"
	"github.com/cinememory/backend/internal/types"
)

// DecisionEntry carries everything a single pipeline run decided, including
// failure classification when the run did not succeed.
type DecisionEntry struct {
	UserInput        string
	Intent           Intent
	Genre            Genre
	Tags             []Tag
	Solver           Solver
	Confidence       float64
	ResultGenerated  bool
	ResultType       types.ResultType
	FailureType      *types.FailureType
	FailureReason    string
	FailureTags      []string
	ProcessingTimeMs int64
	CostLevel        types.CostLevel
}

// DecisionLogger persists pipeline decisions. Failures are recorded, never
// dropped, and a failed write is surfaced to the caller.
type DecisionLogger struct {
	log  *logger.Logger
	repo repos.DecisionLogRepo
}

func NewDecisionLogger(repo repos.DecisionLogRepo, baseLog *logger.Logger) *DecisionLogger {
	return &DecisionLogger{
		log:  baseLog.With("component", "DecisionLogger"),
		repo: repo,
	}
}

func (dl *DecisionLogger) Log(ctx context.Context, entry DecisionEntry) (uuid.UUID, error) {
	tagsJSON, err := json.Marshal(entry.Tags)
	if err != nil {
		dl.log.Error("failed to marshal decision tags", "error", err)
		return uuid.Nil, fmt.Errorf("decision logging failed: %w", err)
	}

	var failureTagsJSON datatypes.JSON
	if entry.FailureTags != nil {
		raw, err := json.Marshal(entry.FailureTags)
		if err != nil {
			dl.log.Error("failed to marshal failure tags", "error", err)
			return uuid.Nil, fmt.Errorf("decision logging failed: %w", err)
		}
		failureTagsJSON = datatypes.JSON(raw)
	}

	row := &types.DecisionLog{
		UserInput:        entry.UserInput,
		Intent:           string(entry.Intent),
		Genre:            string(entry.Genre),
		Tags:             datatypes.JSON(tagsJSON),
		Solver:           string(entry.Solver),
		Confidence:       entry.Confidence,
		ResultGenerated:  entry.ResultGenerated,
		ResultType:       entry.ResultType,
		FailureType:      entry.FailureType,
		FailureReason:    entry.FailureReason,
		FailureTags:      failureTagsJSON,
		ProcessingTimeMs: entry.ProcessingTimeMs,
		CostLevel:        entry.CostLevel,
	}

	created, err := dl.repo.Create(ctx, nil, []*types.DecisionLog{row})
	if err != nil {
		dl.log.Error("failed to persist decision log", "error", err)
		return uuid.Nil, fmt.Errorf("decision logging failed: %w", err)
	}
	return created[0].ID, nil
}

// Recent returns the newest decision logs, capped at limit (default 100).
func (dl *DecisionLogger) Recent(ctx context.Context, limit int) ([]*types.DecisionLog, error) {
	return dl.repo.GetRecent(ctx, nil, limit)
}
