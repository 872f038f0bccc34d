package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/types"
)

func newTestSelector(t *testing.T) (*QuestionSelector, func(types.APIModule) int64) {
	t.Helper()
	db := newServiceTestDB(t, &types.APIAuditLog{}, &types.APIKey{})
	selector := NewQuestionSelector(newTestAuditGate(t, db), logger.NewNop())
	return selector, func(m types.APIModule) int64 { return countAuditRows(t, db, m) }
}

func someCandidates(n int) []RankedCandidate {
	out := make([]RankedCandidate, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, RankedCandidate{MovieID: uuid.New(), Rank: i + 1, ConfidenceScore: 0.8})
	}
	return out
}

func TestSelect_SingleCandidateGetsGenreQuestion(t *testing.T) {
	selector, _ := newTestSelector(t)

	result, err := selector.Select(context.Background(), QuestionSelectionInput{
		CurrentCandidates: someCandidates(1),
	}, "")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(result.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(result.Questions))
	}
	q := result.Questions[0]
	if q.QuestionType != types.QuestionGenreClarification || q.Order != 1 {
		t.Fatalf("unexpected question %+v", q)
	}
}

func TestSelect_MultipleCandidatesAddYearQuestion(t *testing.T) {
	selector, _ := newTestSelector(t)

	result, err := selector.Select(context.Background(), QuestionSelectionInput{
		CurrentCandidates: someCandidates(3),
	}, "")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(result.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(result.Questions))
	}
	if result.Questions[1].QuestionType != types.QuestionYearClarification || result.Questions[1].Order != 2 {
		t.Fatalf("unexpected second question %+v", result.Questions[1])
	}
	if result.MaxQuestions != 2 {
		t.Fatalf("expected max 2, got %d", result.MaxQuestions)
	}
}

func TestSelect_NoCandidatesGetsSceneQuestion(t *testing.T) {
	selector, _ := newTestSelector(t)

	result, err := selector.Select(context.Background(), QuestionSelectionInput{}, "")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(result.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(result.Questions))
	}
	if result.Questions[0].QuestionType != types.QuestionOther {
		t.Fatalf("expected OTHER question, got %s", result.Questions[0].QuestionType)
	}
	if result.Questions[0].QuestionText != "Can you remember any specific scene or dialogue?" {
		t.Fatalf("unexpected question text %q", result.Questions[0].QuestionText)
	}
}

func TestSelect_QuotaReachedReturnsNothing(t *testing.T) {
	selector, auditCount := newTestSelector(t)

	result, err := selector.Select(context.Background(), QuestionSelectionInput{
		CurrentCandidates: someCandidates(3),
		PreviousQuestions: 2,
	}, "")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(result.Questions) != 0 {
		t.Fatalf("expected no questions, got %d", len(result.Questions))
	}
	// The quota short-circuit happens before any module work is audited.
	if n := auditCount(types.ModuleQuestionSelector); n != 0 {
		t.Fatalf("expected no audit rows, got %d", n)
	}
}
