package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cinememory/backend/internal/gates"
	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/types"
)

// genreKeywordOrder fixes iteration order so equal-score genres always
// resolve the same way.
var genreKeywordOrder = []string{
	"SCIENCE_FICTION",
	"DRAMA",
	"ACTION",
	"THRILLER",
	"HORROR",
	"COMEDY",
}

var genreKeywords = map[string][]string{
	"SCIENCE_FICTION": {"space", "future", "robot", "ai", "alien", "time travel", "simulation", "matrix", "inception", "interstellar"},
	"DRAMA":           {"emotional", "sad", "tragic", "family", "relationship", "love", "loss"},
	"ACTION":          {"fight", "chase", "explosion", "gun", "battle", "war", "combat"},
	"THRILLER":        {"suspense", "mystery", "murder", "crime", "detective", "investigation"},
	"HORROR":          {"scary", "ghost", "monster", "zombie", "haunted", "fear", "nightmare"},
	"COMEDY":          {"funny", "laugh", "joke", "humor", "comic", "hilarious"},
}

type GenreClassificationInput struct {
	UserSentence string    `json:"userSentence"`
	SessionID    uuid.UUID `json:"sessionId"`
}

type GenreClassification struct {
	PrimaryGenre    string                `json:"primaryGenre"`
	SecondaryGenres []string              `json:"secondaryGenres"`
	Subgenres       []string              `json:"subgenres"`
	Confidence      types.ConfidenceLevel `json:"confidence"`
}

type GenreClassifier struct {
	log   *logger.Logger
	audit *gates.APIAuditGate
}

func NewGenreClassifier(audit *gates.APIAuditGate, baseLog *logger.Logger) *GenreClassifier {
	svcLog := baseLog.With("service", "GenreClassifier")
	return &GenreClassifier{log: svcLog, audit: audit}
}

// Classify assigns a primary genre from keyword evidence in the sentence.
// Rule-based matching comes first; a model-assisted pass can refine the
// result later without changing this contract. One audit row is written
// whether classification succeeds or fails.
func (s *GenreClassifier) Classify(ctx context.Context, input GenreClassificationInput, apiKey string) (*GenreClassification, error) {
	start := time.Now()

	result := s.ruleBasedClassification(input.UserSentence)

	if err := s.audit.Log(ctx, gates.AuditEntry{
		Module:         types.ModuleGenreClassifier,
		APIKey:         apiKey,
		Endpoint:       "/api/modules/genre-classifier",
		Method:         "POST",
		StatusCode:     200,
		ResponseTimeMs: time.Since(start).Milliseconds(),
	}); err != nil {
		s.log.Error("audit log write failed", "error", err)
		return nil, err
	}

	return result, nil
}

func (s *GenreClassifier) ruleBasedClassification(sentence string) *GenreClassification {
	lower := strings.ToLower(sentence)

	type scored struct {
		genre string
		score float64
	}
	var matched []scored
	for _, genre := range genreKeywordOrder {
		keywords := genreKeywords[genre]
		matches := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				matches++
			}
		}
		if matches > 0 {
			matched = append(matched, scored{genre: genre, score: float64(matches) / float64(len(keywords))})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].score > matched[j].score })

	primary := "DRAMA"
	confidence := types.ConfidenceLow
	if len(matched) > 0 {
		primary = matched[0].genre
		if matched[0].score > 0.3 {
			confidence = types.ConfidenceMedium
		}
	}

	secondary := []string{}
	for i := 1; i < len(matched) && i < 3; i++ {
		secondary = append(secondary, matched[i].genre)
	}

	return &GenreClassification{
		PrimaryGenre:    primary,
		SecondaryGenres: secondary,
		Subgenres:       []string{},
		Confidence:      confidence,
	}
}
