package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinememory/backend/internal/gates"
	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/repos"
	"github.com/cinememory/backend/internal/types"
)

func newTestFeedbackHandler(t *testing.T) (*FeedbackHandler, repos.SearchSessionRepo, *gorm.DB) {
	t.Helper()
	db := newServiceTestDB(t,
		&types.SearchSession{}, &types.Candidate{}, &types.Question{}, &types.Movie{},
		&types.Feedback{}, &types.FailureLog{}, &types.APIAuditLog{}, &types.APIKey{},
	)
	log := logger.NewNop()
	sessions := repos.NewSearchSessionRepo(db, log)
	handler := NewFeedbackHandler(
		repos.NewFeedbackRepo(db, log),
		sessions,
		repos.NewFailureLogRepo(db, log),
		gates.NewSessionEndGate(sessions, log),
		newTestAuditGate(t, db),
		log,
	)
	return handler, sessions, db
}

func createSession(t *testing.T, sessions repos.SearchSessionRepo, sentence string) uuid.UUID {
	t.Helper()
	created, err := sessions.Create(context.Background(), nil, []*types.SearchSession{{
		UserMemorySentence: sentence,
	}})
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}
	return created[0].ID
}

func TestHandle_ConfirmedClosesSession(t *testing.T) {
	handler, sessions, db := newTestFeedbackHandler(t)
	ctx := context.Background()
	sessionID := createSession(t, sessions, "the one with the spinning hallway")
	movieID := uuid.New()

	result, err := handler.Handle(ctx, FeedbackInput{
		SessionID:        sessionID,
		FeedbackType:     types.FeedbackConfirmed,
		ConfirmedMovieID: &movieID,
	}, "")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !result.Success || result.EndStatus != types.SessionEndSuccessConfirmed {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.FailureLogged {
		t.Fatal("confirmed feedback must not log a failure")
	}

	var session types.SearchSession
	if err := db.First(&session, "id = ?", sessionID).Error; err != nil {
		t.Fatalf("loading session: %v", err)
	}
	if session.EndStatus == nil || *session.EndStatus != types.SessionEndSuccessConfirmed {
		t.Fatalf("expected SUCCESS_CONFIRMED end status, got %v", session.EndStatus)
	}
	if session.EndStatusReason != "Feedback: CONFIRMED" {
		t.Fatalf("unexpected end status reason %q", session.EndStatusReason)
	}
}

func TestHandle_NotFoundLogsRejectionFailure(t *testing.T) {
	handler, sessions, db := newTestFeedbackHandler(t)
	ctx := context.Background()
	sessionID := createSession(t, sessions, "it had a lighthouse at the end")

	result, err := handler.Handle(ctx, FeedbackInput{
		SessionID:    sessionID,
		FeedbackType: types.FeedbackNotFound,
	}, "")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if result.EndStatus != types.SessionEndFailedAfterQuestions {
		t.Fatalf("expected FAILED_AFTER_QUESTIONS, got %s", result.EndStatus)
	}
	if !result.FailureLogged {
		t.Fatal("expected failure to be logged")
	}

	var failure types.FailureLog
	if err := db.First(&failure, "session_id = ?", sessionID).Error; err != nil {
		t.Fatalf("loading failure log: %v", err)
	}
	if failure.FailureType != types.SessionFailureUserRejectedAll {
		t.Fatalf("expected USER_REJECTED_ALL, got %s", failure.FailureType)
	}
	if failure.UserSentence != "it had a lighthouse at the end" {
		t.Fatalf("expected sentence snapshot, got %q", failure.UserSentence)
	}
}

func TestHandle_LowConfidenceLogsFailure(t *testing.T) {
	handler, sessions, db := newTestFeedbackHandler(t)
	ctx := context.Background()
	sessionID := createSession(t, sessions, "too vague to place")

	result, err := handler.Handle(ctx, FeedbackInput{
		SessionID:    sessionID,
		FeedbackType: types.FeedbackLowConfidence,
	}, "")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if result.EndStatus != types.SessionEndLowConfidence {
		t.Fatalf("expected LOW_CONFIDENCE, got %s", result.EndStatus)
	}
	if !result.FailureLogged {
		t.Fatal("expected failure to be logged")
	}

	var failure types.FailureLog
	if err := db.First(&failure, "session_id = ?", sessionID).Error; err != nil {
		t.Fatalf("loading failure log: %v", err)
	}
	if failure.FailureType != types.SessionFailureLowConfidenceAll {
		t.Fatalf("expected LOW_CONFIDENCE_ALL, got %s", failure.FailureType)
	}
}

func TestHandle_SubmittedHintSkipsFailureLog(t *testing.T) {
	handler, sessions, db := newTestFeedbackHandler(t)
	ctx := context.Background()
	sessionID := createSession(t, sessions, "maybe a korean film from 2003")

	result, err := handler.Handle(ctx, FeedbackInput{
		SessionID:    sessionID,
		FeedbackType: types.FeedbackSubmittedHint,
		Content:      "it might have been a festival release",
	}, "")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if result.EndStatus != types.SessionEndSubmittedHint {
		t.Fatalf("expected SUBMITTED_HINT, got %s", result.EndStatus)
	}
	if result.FailureLogged {
		t.Fatal("hints are not failures")
	}

	var n int64
	if err := db.Model(&types.FailureLog{}).Count(&n).Error; err != nil {
		t.Fatalf("counting failure logs: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no failure logs, got %d", n)
	}
}

func TestHandle_StoresFeedbackRowAndAudit(t *testing.T) {
	handler, sessions, db := newTestFeedbackHandler(t)
	ctx := context.Background()
	sessionID := createSession(t, sessions, "something with trains")

	if _, err := handler.Handle(ctx, FeedbackInput{
		SessionID:    sessionID,
		FeedbackType: types.FeedbackConfirmed,
	}, "sk-test-key-0001"); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	var feedback types.Feedback
	if err := db.First(&feedback, "session_id = ?", sessionID).Error; err != nil {
		t.Fatalf("loading feedback: %v", err)
	}
	if feedback.FeedbackType != types.FeedbackConfirmed {
		t.Fatalf("unexpected feedback type %s", feedback.FeedbackType)
	}
	if n := countAuditRows(t, db, types.ModuleFeedbackHandler); n != 1 {
		t.Fatalf("expected 1 audit row, got %d", n)
	}
}

func TestHandle_UnknownSessionIsRejected(t *testing.T) {
	handler, _, db := newTestFeedbackHandler(t)
	ctx := context.Background()

	_, err := handler.Handle(ctx, FeedbackInput{
		SessionID:    uuid.New(),
		FeedbackType: types.FeedbackConfirmed,
	}, "")
	if !errors.Is(err, gates.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}

	var count int64
	if err := db.Model(&types.Feedback{}).Count(&count).Error; err != nil {
		t.Fatalf("counting feedback rows: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no orphan feedback rows, got %d", count)
	}
}
