package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cinememory/backend/internal/gates"
	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/types"
)

// maxQuestions caps follow-ups per session. An "I don't remember" answer is
// always accepted, so two questions is the ceiling, never a requirement.
const maxQuestions = 2

type QuestionSelectionInput struct {
	SessionID         uuid.UUID         `json:"sessionId"`
	UserSentence      string            `json:"userSentence"`
	CurrentCandidates []RankedCandidate `json:"currentCandidates"`
	PreviousQuestions int               `json:"previousQuestions"`
}

type SelectedQuestion struct {
	QuestionText string             `json:"questionText"`
	QuestionType types.QuestionType `json:"questionType"`
	Order        int                `json:"order"`
}

type QuestionSelectionResult struct {
	Questions    []SelectedQuestion `json:"questions"`
	MaxQuestions int                `json:"maxQuestions"`
}

type QuestionSelector struct {
	log   *logger.Logger
	audit *gates.APIAuditGate
}

func NewQuestionSelector(audit *gates.APIAuditGate, baseLog *logger.Logger) *QuestionSelector {
	svcLog := baseLog.With("service", "QuestionSelector")
	return &QuestionSelector{log: svcLog, audit: audit}
}

// Select picks clarifying questions for the current candidate set. A session
// that already received the question quota gets none; the quota check happens
// before any audit write since no module work is done.
func (s *QuestionSelector) Select(ctx context.Context, input QuestionSelectionInput, apiKey string) (*QuestionSelectionResult, error) {
	start := time.Now()

	if input.PreviousQuestions >= maxQuestions {
		return &QuestionSelectionResult{Questions: []SelectedQuestion{}, MaxQuestions: maxQuestions}, nil
	}

	questions := selectQuestions(input)

	if err := s.audit.Log(ctx, gates.AuditEntry{
		Module:         types.ModuleQuestionSelector,
		APIKey:         apiKey,
		Endpoint:       "/api/modules/question-selector",
		Method:         "POST",
		StatusCode:     200,
		ResponseTimeMs: time.Since(start).Milliseconds(),
	}); err != nil {
		s.log.Error("audit log write failed", "error", err)
		return nil, err
	}

	return &QuestionSelectionResult{Questions: questions, MaxQuestions: maxQuestions}, nil
}

func selectQuestions(input QuestionSelectionInput) []SelectedQuestion {
	var questions []SelectedQuestion

	if len(input.CurrentCandidates) > 0 {
		questions = append(questions, SelectedQuestion{
			QuestionText: "What genre does this movie belong to?",
			QuestionType: types.QuestionGenreClarification,
			Order:        1,
		})
		if len(input.CurrentCandidates) >= 2 {
			questions = append(questions, SelectedQuestion{
				QuestionText: "What year was this movie released?",
				QuestionType: types.QuestionYearClarification,
				Order:        2,
			})
		}
	} else {
		questions = append(questions, SelectedQuestion{
			QuestionText: "Can you remember any specific scene or dialogue?",
			QuestionType: types.QuestionOther,
			Order:        1,
		})
	}

	if len(questions) > maxQuestions {
		questions = questions[:maxQuestions]
	}
	return questions
}
