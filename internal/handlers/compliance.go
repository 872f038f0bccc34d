package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cinememory/backend/internal/services"
)

type ComplianceHandler struct {
	checklist *services.ChecklistService
}

func NewComplianceHandler(checklist *services.ChecklistService) *ComplianceHandler {
	return &ComplianceHandler{checklist: checklist}
}

func (h *ComplianceHandler) Checklist(c *gin.Context) {
	report, err := h.checklist.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
