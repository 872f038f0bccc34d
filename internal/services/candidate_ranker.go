package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cinememory/backend/internal/gates"
	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/repos"
	"github.com/cinememory/backend/internal/types"
)

const (
	// Candidates scoring below this are never surfaced; an empty list with
	// the low-confidence flag routes the user to the compensation path
	// instead of a forced guess.
	confidenceCutoff = 0.5
	maxCandidates    = 3
)

type CandidateRankingInput struct {
	SessionID    uuid.UUID `json:"sessionId"`
	UserSentence string    `json:"userSentence"`
	GenreHints   []string  `json:"genreHints,omitempty"`
	MoodHints    []string  `json:"moodHints,omitempty"`
	ObjectHints  []string  `json:"objectHints,omitempty"`
}

type RankedCandidate struct {
	MovieID         uuid.UUID `json:"movieId"`
	Rank            int       `json:"rank"`
	ConfidenceScore float64   `json:"confidenceScore"`
}

type CandidateRankingResult struct {
	Candidates       []RankedCandidate `json:"candidates"`
	HasLowConfidence bool              `json:"hasLowConfidence"`
}

type CandidateRanker struct {
	log    *logger.Logger
	movies repos.MovieRepo
	audit  *gates.APIAuditGate
}

func NewCandidateRanker(movies repos.MovieRepo, audit *gates.APIAuditGate, baseLog *logger.Logger) *CandidateRanker {
	svcLog := baseLog.With("service", "CandidateRanker")
	return &CandidateRanker{log: svcLog, movies: movies, audit: audit}
}

// Rank scores stored movies against the memory sentence and genre hints
// and returns at most three candidates. When even the best match falls
// below the cutoff the list comes back empty with HasLowConfidence set.
func (s *CandidateRanker) Rank(ctx context.Context, input CandidateRankingInput, apiKey string) (*CandidateRankingResult, error) {
	start := time.Now()

	result, err := s.rankCandidates(ctx, input)
	status := 200
	if err != nil {
		status = 500
	}

	if auditErr := s.audit.Log(ctx, gates.AuditEntry{
		Module:         types.ModuleCandidateRanker,
		APIKey:         apiKey,
		Endpoint:       "/api/modules/candidate-ranker",
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

func (s *CandidateRanker) rankCandidates(ctx context.Context, input CandidateRankingInput) (*CandidateRankingResult, error) {
	pool, err := s.candidatePool(ctx, input.GenreHints)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(input.UserSentence)

	type scored struct {
		movie *types.Movie
		score float64
	}
	var matched []scored
	for _, m := range pool {
		score := scoreMovie(m, lower, input.GenreHints)
		if score > 0 {
			matched = append(matched, scored{movie: m, score: score})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].score != matched[j].score {
			return matched[i].score > matched[j].score
		}
		return matched[i].movie.Title < matched[j].movie.Title
	})

	if len(matched) > maxCandidates {
		matched = matched[:maxCandidates]
	}

	if len(matched) == 0 || matched[0].score < confidenceCutoff {
		return &CandidateRankingResult{Candidates: []RankedCandidate{}, HasLowConfidence: true}, nil
	}

	ranked := make([]RankedCandidate, 0, len(matched))
	for i, m := range matched {
		ranked = append(ranked, RankedCandidate{
			MovieID:         m.movie.ID,
			Rank:            i + 1,
			ConfidenceScore: m.score,
		})
	}
	return &CandidateRankingResult{Candidates: ranked, HasLowConfidence: false}, nil
}

// candidatePool narrows the search to hinted genres when possible and falls
// back to the full catalog when the hints match nothing.
func (s *CandidateRanker) candidatePool(ctx context.Context, genreHints []string) ([]*types.Movie, error) {
	if len(genreHints) == 0 {
		return s.movies.GetAll(ctx, nil)
	}

	seen := map[uuid.UUID]bool{}
	var pool []*types.Movie
	for _, hint := range genreHints {
		byGenre, err := s.movies.GetByPrimaryGenre(ctx, nil, hint)
		if err != nil {
			return nil, err
		}
		for _, m := range byGenre {
			if !seen[m.ID] {
				seen[m.ID] = true
				pool = append(pool, m)
			}
		}
	}
	if len(pool) == 0 {
		return s.movies.GetAll(ctx, nil)
	}
	return pool, nil
}

func scoreMovie(m *types.Movie, lowerSentence string, genreHints []string) float64 {
	score := 0.0

	// A genre hint alone stays just under the cutoff; some sentence
	// evidence (title overlap) is needed to surface a candidate.
	for _, hint := range genreHints {
		if strings.EqualFold(m.PrimaryGenre, hint) {
			score += 0.45
			break
		}
	}
	if secondaryMatches(m.SecondaryGenres, genreHints) {
		score += 0.25
	}

	title := strings.ToLower(m.Title)
	switch {
	case title != "" && strings.Contains(lowerSentence, title):
		score += 0.4
	case titleTokenMatch(title, lowerSentence):
		score += 0.2
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func secondaryMatches(raw []byte, genreHints []string) bool {
	if len(raw) == 0 || len(genreHints) == 0 {
		return false
	}
	var genres []string
	if err := json.Unmarshal(raw, &genres); err != nil {
		return false
	}
	for _, g := range genres {
		for _, hint := range genreHints {
			if strings.EqualFold(g, hint) {
				return true
			}
		}
	}
	return false
}

// titleTokenMatch looks for any distinctive title word in the sentence.
// Short tokens like "the" or "of" are skipped to avoid accidental hits.
func titleTokenMatch(lowerTitle, lowerSentence string) bool {
	for _, tok := range strings.Fields(lowerTitle) {
		if len(tok) >= 4 && strings.Contains(lowerSentence, tok) {
			return true
		}
	}
	return false
}
