package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cinememory/backend/internal/pipeline"
	"github.com/cinememory/backend/internal/types"
)

type PipelineHandler struct {
	executor  *pipeline.Executor
	decisions *pipeline.DecisionLogger
}

func NewPipelineHandler(executor *pipeline.Executor, decisions *pipeline.DecisionLogger) *PipelineHandler {
	return &PipelineHandler{executor: executor, decisions: decisions}
}

type pipelineRequest struct {
	UserInput string `json:"userInput"`
}

type pipelineTag struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

type pipelineTrace struct {
	Intent     pipeline.Intent  `json:"intent"`
	Genre      pipeline.Genre   `json:"genre"`
	Tags       []pipelineTag    `json:"tags"`
	Solver     pipeline.Solver  `json:"solver"`
	Confidence float64          `json:"confidence"`
	ResultType types.ResultType `json:"resultType"`
}

type pipelineMetadata struct {
	ProcessingTimeMs int64           `json:"processingTimeMs"`
	CostLevel        types.CostLevel `json:"costLevel"`
	LogID            uuid.UUID       `json:"logId"`
}

type pipelineResponse struct {
	Success  bool                     `json:"success"`
	Pipeline pipelineTrace            `json:"pipeline"`
	Result   *pipeline.ResultEnvelope `json:"result"`
	Metadata pipelineMetadata         `json:"metadata"`
}

func (h *PipelineHandler) Execute(c *gin.Context) {
	var req pipelineRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserInput == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userInput is required and must be a string"})
		return
	}

	result, err := h.executor.Execute(c.Request.Context(), req.UserInput)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   err.Error(),
			"success": false,
		})
		return
	}

	tags := make([]pipelineTag, 0, len(result.Tags))
	for _, t := range result.Tags {
		tags = append(tags, pipelineTag{Code: t.Code, Name: t.Name, Confidence: t.Confidence})
	}

	c.JSON(http.StatusOK, pipelineResponse{
		Success: true,
		Pipeline: pipelineTrace{
			Intent:     result.Intent,
			Genre:      result.Genre,
			Tags:       tags,
			Solver:     result.SelectedSolver,
			Confidence: result.Confidence,
			ResultType: result.ResultType,
		},
		Result: result.Result,
		Metadata: pipelineMetadata{
			ProcessingTimeMs: result.ProcessingTimeMs,
			CostLevel:        result.CostLevel,
			LogID:            result.LogID,
		},
	})
}

func (h *PipelineHandler) RecentLogs(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	logs, err := h.decisions.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "limit": limit})
}
