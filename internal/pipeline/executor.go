package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/types"
)

// Result is the full outcome of one pipeline run.
type Result struct {
	Intent           Intent           `json:"intent"`
	Genre            Genre            `json:"genre"`
	Tags             []Tag            `json:"tags"`
	SelectedSolver   Solver           `json:"selected_solver"`
	Confidence       float64          `json:"confidence"`
	Result           *ResultEnvelope  `json:"result"`
	ResultType       types.ResultType `json:"result_type"`
	ProcessingTimeMs int64            `json:"processing_time_ms"`
	CostLevel        types.CostLevel  `json:"cost_level"`
	LogID            uuid.UUID        `json:"log_id"`
}

// Executor runs every request through the same fixed stage order:
// intent classification, genre decision, tag granularization, solver
// selection, result generation, confidence scoring, decision logging.
// No stage is merged or skipped.
type Executor struct {
	log       *logger.Logger
	intents   *IntentClassifier
	runner    SolverRunner
	decisions *DecisionLogger
}

func NewExecutor(intents *IntentClassifier, runner SolverRunner, decisions *DecisionLogger, baseLog *logger.Logger) *Executor {
	if runner == nil {
		runner = NewStaticSolverRunner()
	}
	return &Executor{
		log:       baseLog.With("component", "PipelineExecutor"),
		intents:   intents,
		runner:    runner,
		decisions: decisions,
	}
}

func (e *Executor) Execute(ctx context.Context, userInput string) (*Result, error) {
	start := time.Now()

	intentResult := e.intents.Classify(userInput)
	genreResult := DecideGenre(intentResult.Intent, userInput)
	tagResult := GranularizeTags(genreResult.Genre, userInput)
	solverResult := SelectSolver(genreResult.Genre, tagResult.PrimaryTags, genreResult.Confidence)

	envelope, err := e.runner.Run(ctx, solverResult.Selected, userInput, genreResult.Genre, tagResult.PrimaryTags)
	if err != nil {
		return nil, e.logPipelineError(ctx, userInput, start, err)
	}

	confidence := finalConfidence(intentResult.Confidence, genreResult.Confidence, envelope)
	resultType := determineResultType(envelope, confidence)

	entry := DecisionEntry{
		UserInput:        userInput,
		Intent:           intentResult.Intent,
		Genre:            genreResult.Genre,
		Tags:             tagResult.PrimaryTags,
		Solver:           solverResult.Selected,
		Confidence:       confidence,
		ResultGenerated:  envelope != nil,
		ResultType:       resultType,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		CostLevel:        solverResult.Config.CostLevel,
	}
	if resultType == types.ResultFailure {
		ft := classifyFailure(envelope)
		entry.FailureType = &ft
		entry.FailureReason = failureReason(envelope, genreResult.Genre)
		entry.FailureTags = failureTags(envelope, genreResult.Genre)
	}

	logID, err := e.decisions.Log(ctx, entry)
	if err != nil {
		return nil, err
	}

	return &Result{
		Intent:           intentResult.Intent,
		Genre:            genreResult.Genre,
		Tags:             tagResult.PrimaryTags,
		SelectedSolver:   solverResult.Selected,
		Confidence:       confidence,
		Result:           envelope,
		ResultType:       resultType,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		CostLevel:        solverResult.Config.CostLevel,
		LogID:            logID,
	}, nil
}

// logPipelineError records an aborted run with placeholder stage values, then
// hands the original error back wrapped. A failed log write takes precedence
// since an unrecorded failure is worse than an unreported one.
func (e *Executor) logPipelineError(ctx context.Context, userInput string, start time.Time, cause error) error {
	ft := types.FailurePipelineError
	entry := DecisionEntry{
		UserInput:        userInput,
		Intent:           IntentUnknown,
		Genre:            GenreExploratoryDiscovery,
		Tags:             []Tag{},
		Solver:           SolverRuleBased,
		Confidence:       0,
		ResultGenerated:  false,
		ResultType:       types.ResultFailure,
		FailureType:      &ft,
		FailureReason:    cause.Error(),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		CostLevel:        types.CostLow,
	}
	if _, logErr := e.decisions.Log(ctx, entry); logErr != nil {
		e.log.Error("pipeline failed and decision log write failed", "error", cause, "log_error", logErr)
		return logErr
	}
	return fmt.Errorf("pipeline execution failed: %w", cause)
}

// finalConfidence blends the stage confidences, weighting genre heavier, with
// a small capped bonus when the solver produced candidates.
func finalConfidence(intentConfidence, genreConfidence float64, envelope *ResultEnvelope) float64 {
	base := intentConfidence*0.3 + genreConfidence*0.7
	if envelope != nil && len(envelope.Candidates) > 0 {
		return math.Min(1.0, base+0.1)
	}
	return base
}

func determineResultType(envelope *ResultEnvelope, confidence float64) types.ResultType {
	if envelope == nil || len(envelope.Candidates) == 0 {
		return types.ResultFailure
	}
	if confidence >= 0.7 && len(envelope.Candidates) >= 3 {
		return types.ResultSuccess
	}
	return types.ResultPartial
}

func classifyFailure(envelope *ResultEnvelope) types.FailureType {
	if envelope == nil {
		return types.FailureNoResult
	}
	if len(envelope.Candidates) == 0 {
		return types.FailureNoCandidates
	}
	return types.FailureLowConfidence
}

func failureReason(envelope *ResultEnvelope, genre Genre) string {
	if envelope == nil {
		return "Solver returned no result"
	}
	if len(envelope.Candidates) == 0 {
		return fmt.Sprintf("No candidates found for genre %s", genre)
	}
	return "Low confidence in results"
}

func failureTags(envelope *ResultEnvelope, genre Genre) []string {
	tags := []string{}
	if envelope == nil {
		tags = append(tags, "SOLVER_FAILURE")
	} else if len(envelope.Candidates) == 0 {
		tags = append(tags, "NO_MATCHES")
	}
	tags = append(tags, fmt.Sprintf("GENRE_%s", genre))
	return tags
}
