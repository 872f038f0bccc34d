package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cinememory/backend/internal/middleware"
	"github.com/cinememory/backend/internal/services"
	"github.com/cinememory/backend/internal/types"
)

type SearchHandler struct {
	searchService *services.SearchService
	feedback      *services.FeedbackHandler
}

func NewSearchHandler(searchService *services.SearchService, feedback *services.FeedbackHandler) *SearchHandler {
	return &SearchHandler{searchService: searchService, feedback: feedback}
}

type searchRequest struct {
	UserSentence string `json:"userSentence"`
	SessionID    string `json:"sessionId,omitempty"`
}

type candidateResponse struct {
	ID              uuid.UUID      `json:"id"`
	Movie           *movieResponse `json:"movie"`
	Rank            int            `json:"rank"`
	ConfidenceScore float64        `json:"confidenceScore"`
}

type movieResponse struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	OriginalTitle string    `json:"originalTitle,omitempty"`
	Year          int       `json:"year,omitempty"`
	PrimaryGenre  string    `json:"primaryGenre"`
}

type questionResponse struct {
	ID           uuid.UUID          `json:"id"`
	QuestionText string             `json:"questionText"`
	QuestionType types.QuestionType `json:"questionType"`
	Order        int                `json:"order"`
}

type searchResponse struct {
	SessionID        uuid.UUID           `json:"sessionId"`
	Candidates       []candidateResponse `json:"candidates"`
	Questions        []questionResponse  `json:"questions"`
	HasLowConfidence bool                `json:"hasLowConfidence"`
}

func (h *SearchHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.UserSentence == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User sentence is required"})
		return
	}

	input := services.SearchInput{UserSentence: req.UserSentence}
	if req.SessionID != "" {
		id, err := uuid.Parse(req.SessionID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
			return
		}
		input.SessionID = &id
	}

	result, err := h.searchService.Search(c.Request.Context(), input, middleware.APIKeyFrom(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, buildSearchResponse(result))
}

type feedbackRequest struct {
	SessionID        string             `json:"sessionId"`
	FeedbackType     types.FeedbackType `json:"feedbackType"`
	Content          string             `json:"content,omitempty"`
	ConfirmedMovieID string             `json:"confirmedMovieId,omitempty"`
}

func (h *SearchHandler) Feedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.SessionID == "" || req.FeedbackType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID and feedback type are required"})
		return
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	input := services.FeedbackInput{
		SessionID:    sessionID,
		FeedbackType: req.FeedbackType,
		Content:      req.Content,
	}
	if req.ConfirmedMovieID != "" {
		movieID, err := uuid.Parse(req.ConfirmedMovieID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
			return
		}
		input.ConfirmedMovieID = &movieID
	}

	result, err := h.feedback.Handle(c.Request.Context(), input, middleware.APIKeyFrom(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func buildSearchResponse(result *services.SearchResult) searchResponse {
	session := result.Session

	candidates := make([]candidateResponse, 0, len(session.Candidates))
	for _, cand := range session.Candidates {
		var movie *movieResponse
		if cand.Movie != nil {
			movie = &movieResponse{
				ID:            cand.Movie.ID,
				Title:         cand.Movie.Title,
				OriginalTitle: cand.Movie.OriginalTitle,
				Year:          cand.Movie.Year,
				PrimaryGenre:  cand.Movie.PrimaryGenre,
			}
		}
		candidates = append(candidates, candidateResponse{
			ID:              cand.ID,
			Movie:           movie,
			Rank:            cand.Rank,
			ConfidenceScore: cand.ConfidenceScore,
		})
	}

	questions := make([]questionResponse, 0, len(session.Questions))
	for _, q := range session.Questions {
		questions = append(questions, questionResponse{
			ID:           q.ID,
			QuestionText: q.Text,
			QuestionType: q.Type,
			Order:        q.Order,
		})
	}

	return searchResponse{
		SessionID:        session.ID,
		Candidates:       candidates,
		Questions:        questions,
		HasLowConfidence: result.HasLowConfidence,
	}
}
