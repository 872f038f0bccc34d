package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/cinememory/backend/internal/gates"
	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/repos"
	"github.com/cinememory/backend/internal/types"
)

type FeedbackInput struct {
	SessionID        uuid.UUID          `json:"sessionId"`
	FeedbackType     types.FeedbackType `json:"feedbackType"`
	Content          string             `json:"content,omitempty"`
	ConfirmedMovieID *uuid.UUID         `json:"confirmedMovieId,omitempty"`
}

type FeedbackResult struct {
	Success       bool                   `json:"success"`
	EndStatus     types.SessionEndStatus `json:"endStatus"`
	FailureLogged bool                   `json:"failureLogged"`
}

type FeedbackHandler struct {
	log        *logger.Logger
	feedbacks  repos.FeedbackRepo
	sessions   repos.SearchSessionRepo
	failures   repos.FailureLogRepo
	sessionEnd *gates.SessionEndGate
	audit      *gates.APIAuditGate
}

func NewFeedbackHandler(
	feedbacks repos.FeedbackRepo,
	sessions repos.SearchSessionRepo,
	failures repos.FailureLogRepo,
	sessionEnd *gates.SessionEndGate,
	audit *gates.APIAuditGate,
	baseLog *logger.Logger,
) *FeedbackHandler {
	svcLog := baseLog.With("service", "FeedbackHandler")
	return &FeedbackHandler{
		log:        svcLog,
		feedbacks:  feedbacks,
		sessions:   sessions,
		failures:   failures,
		sessionEnd: sessionEnd,
		audit:      audit,
	}
}

// Handle stores the feedback row, maps the feedback type to a terminal
// session status, and closes the session through the end-status gate.
func (s *FeedbackHandler) Handle(ctx context.Context, input FeedbackInput, apiKey string) (*FeedbackResult, error) {
	start := time.Now()

	result, err := s.handle(ctx, input)
	status := 200
	if err != nil {
		status = 500
	}

	if auditErr := s.audit.Log(ctx, gates.AuditEntry{
		Module:         types.ModuleFeedbackHandler,
		APIKey:         apiKey,
		Endpoint:       "/api/modules/feedback-handler",
		Method:         "POST",
		StatusCode:     status,
		ResponseTimeMs: time.Since(start).Milliseconds(),
	}); auditErr != nil {
		s.log.Error("audit log write failed", "error", auditErr)
		if err == nil {
			return nil, auditErr
		}
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *FeedbackHandler) handle(ctx context.Context, input FeedbackInput) (*FeedbackResult, error) {
	existing, err := s.sessions.GetByIDs(ctx, nil, []uuid.UUID{input.SessionID})
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if len(existing) == 0 {
		return nil, fmt.Errorf("session %s: %w", input.SessionID, gates.ErrSessionNotFound)
	}

	if _, err := s.feedbacks.Create(ctx, nil, []*types.Feedback{{
		SessionID:        input.SessionID,
		FeedbackType:     input.FeedbackType,
		Content:          input.Content,
		ConfirmedMovieID: input.ConfirmedMovieID,
	}}); err != nil {
		return nil, fmt.Errorf("storing feedback: %w", err)
	}

	var endStatus types.SessionEndStatus
	failureLogged := false

	switch input.FeedbackType {
	case types.FeedbackConfirmed:
		endStatus = types.SessionEndSuccessConfirmed
	case types.FeedbackLowConfidence:
		endStatus = types.SessionEndLowConfidence
		failureLogged = s.logFailure(ctx, input.SessionID, types.SessionFailureLowConfidenceAll)
	case types.FeedbackNotFound:
		endStatus = types.SessionEndFailedAfterQuestions
		failureLogged = s.logFailure(ctx, input.SessionID, types.SessionFailureUserRejectedAll)
	case types.FeedbackSubmittedHint:
		endStatus = types.SessionEndSubmittedHint
	default:
		endStatus = types.SessionEndFailedAfterQuestions
	}

	reason := fmt.Sprintf("Feedback: %s", input.FeedbackType)
	if err := s.sessionEnd.SetEndStatus(ctx, input.SessionID, endStatus, reason); err != nil {
		return nil, err
	}

	return &FeedbackResult{Success: true, EndStatus: endStatus, FailureLogged: failureLogged}, nil
}

// logFailure records the failed session for later rule refinement. A storage
// error here is deliberately swallowed: the feedback itself was saved and
// closing the session matters more than the refinement record, so the caller
// only sees failureLogged=false.
func (s *FeedbackHandler) logFailure(ctx context.Context, sessionID uuid.UUID, failureType types.SessionFailureType) bool {
	var sentence string
	sessions, err := s.sessions.GetByIDs(ctx, nil, []uuid.UUID{sessionID})
	if err == nil && len(sessions) > 0 {
		sentence = sessions[0].UserMemorySentence
	}

	failureContext, _ := json.Marshal(map[string]interface{}{
		"sessionId": sessionID.String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})

	if _, err := s.failures.Create(ctx, nil, []*types.FailureLog{{
		SessionID:    sessionID,
		FailureType:  failureType,
		UserSentence: sentence,
		Context:      datatypes.JSON(failureContext),
	}}); err != nil {
		s.log.Warn("failure log write skipped", "session_id", sessionID, "error", err)
		return false
	}
	return true
}
