package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/repos"
	"github.com/cinememory/backend/internal/types"
)

type SearchInput struct {
	UserSentence string     `json:"userSentence"`
	SessionID    *uuid.UUID `json:"sessionId,omitempty"`
}

type SearchResult struct {
	Session          *types.SearchSession `json:"session"`
	HasLowConfidence bool                 `json:"hasLowConfidence"`
}

type SearchService struct {
	log        *logger.Logger
	sessions   repos.SearchSessionRepo
	movies     repos.MovieRepo
	candidates repos.CandidateRepo
	questions  repos.QuestionRepo
	classifier *GenreClassifier
	ranker     *CandidateRanker
	selector   *QuestionSelector
}

func NewSearchService(
	sessions repos.SearchSessionRepo,
	movies repos.MovieRepo,
	candidates repos.CandidateRepo,
	questions repos.QuestionRepo,
	classifier *GenreClassifier,
	ranker *CandidateRanker,
	selector *QuestionSelector,
	baseLog *logger.Logger,
) *SearchService {
	svcLog := baseLog.With("service", "SearchService")
	return &SearchService{
		log:        svcLog,
		sessions:   sessions,
		movies:     movies,
		candidates: candidates,
		questions:  questions,
		classifier: classifier,
		ranker:     ranker,
		selector:   selector,
	}
}

// Search resolves a memory sentence into ranked candidates and follow-up
// questions. Passing an existing session id replays the stored session
// without re-running classification; only a fresh session goes through the
// classifier, ranker, and question selector.
func (s *SearchService) Search(ctx context.Context, input SearchInput, apiKey string) (*SearchResult, error) {
	if input.SessionID != nil {
		existing, err := s.sessions.GetWithRelations(ctx, nil, *input.SessionID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil {
			return &SearchResult{
				Session:          existing,
				HasLowConfidence: len(existing.Candidates) == 0,
			}, nil
		}
	}

	created, err := s.sessions.Create(ctx, nil, []*types.SearchSession{{
		UserMemorySentence: input.UserSentence,
	}})
	if err != nil {
		return nil, err
	}
	session := created[0]
	start := time.Now()

	classification, err := s.classifier.Classify(ctx, GenreClassificationInput{
		UserSentence: input.UserSentence,
		SessionID:    session.ID,
	}, apiKey)
	if err != nil {
		return nil, err
	}

	genreHints := append([]string{classification.PrimaryGenre}, classification.SecondaryGenres...)
	ranking, err := s.ranker.Rank(ctx, CandidateRankingInput{
		SessionID:    session.ID,
		UserSentence: input.UserSentence,
		GenreHints:   genreHints,
	}, apiKey)
	if err != nil {
		return nil, err
	}

	if len(ranking.Candidates) > 0 && !ranking.HasLowConfidence {
		if err := s.persistCandidates(ctx, session.ID, ranking.Candidates); err != nil {
			return nil, err
		}
	}

	selection, err := s.selector.Select(ctx, QuestionSelectionInput{
		SessionID:         session.ID,
		UserSentence:      input.UserSentence,
		CurrentCandidates: ranking.Candidates,
	}, apiKey)
	if err != nil {
		return nil, err
	}
	for _, q := range selection.Questions {
		if _, err := s.questions.Create(ctx, nil, []*types.Question{{
			SessionID: session.ID,
			Text:      q.QuestionText,
			Type:      q.QuestionType,
			Order:     q.Order,
		}}); err != nil {
			return nil, err
		}
	}

	if err := s.sessions.SetProcessingTime(ctx, nil, session.ID, time.Since(start).Milliseconds()); err != nil {
		return nil, err
	}

	reloaded, err := s.sessions.GetWithRelations(ctx, nil, session.ID)
	if err != nil {
		return nil, err
	}
	return &SearchResult{
		Session:          reloaded,
		HasLowConfidence: len(reloaded.Candidates) == 0,
	}, nil
}

// persistCandidates writes the ranked slots, skipping any movie that
// vanished between ranking and persistence.
func (s *SearchService) persistCandidates(ctx context.Context, sessionID uuid.UUID, ranked []RankedCandidate) error {
	ids := make([]uuid.UUID, 0, len(ranked))
	for _, c := range ranked {
		ids = append(ids, c.MovieID)
	}
	existing, err := s.movies.GetByIDs(ctx, nil, ids)
	if err != nil {
		return err
	}
	known := map[uuid.UUID]bool{}
	for _, m := range existing {
		known[m.ID] = true
	}

	for _, c := range ranked {
		if !known[c.MovieID] {
			s.log.Warn("ranked movie missing, skipping", "movie_id", c.MovieID)
			continue
		}
		if _, err := s.candidates.Upsert(ctx, nil, &types.Candidate{
			SessionID:       sessionID,
			MovieID:         c.MovieID,
			Rank:            c.Rank,
			ConfidenceScore: c.ConfidenceScore,
		}); err != nil {
			return err
		}
	}
	return nil
}
