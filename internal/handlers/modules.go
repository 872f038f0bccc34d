package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cinememory/backend/internal/middleware"
	"github.com/cinememory/backend/internal/services"
	"github.com/cinememory/backend/internal/types"
)

type ModulesHandler struct {
	classifier *services.GenreClassifier
	feedback   *services.FeedbackHandler
}

func NewModulesHandler(classifier *services.GenreClassifier, feedback *services.FeedbackHandler) *ModulesHandler {
	return &ModulesHandler{classifier: classifier, feedback: feedback}
}

type classifyRequest struct {
	UserSentence string `json:"userSentence"`
	SessionID    string `json:"sessionId,omitempty"`
}

func (h *ModulesHandler) ClassifyGenre(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserSentence == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User sentence is required"})
		return
	}

	input := services.GenreClassificationInput{UserSentence: req.UserSentence}
	if req.SessionID != "" {
		id, err := uuid.Parse(req.SessionID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
			return
		}
		input.SessionID = id
	}

	result, err := h.classifier.Classify(c.Request.Context(), input, middleware.APIKeyFrom(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

type moduleFeedbackRequest struct {
	SessionID        string             `json:"sessionId"`
	FeedbackType     types.FeedbackType `json:"feedbackType"`
	Content          string             `json:"content,omitempty"`
	ConfirmedMovieID string             `json:"confirmedMovieId,omitempty"`
}

func (h *ModulesHandler) HandleFeedback(c *gin.Context) {
	var req moduleFeedbackRequest
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
