package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/modsentry/modsentry/backend/internal/services"
)

type EvaluateHandler struct {
	service *services.EvaluationService
}

func NewEvaluateHandler(service *services.EvaluationService) *EvaluateHandler {
	return &EvaluateHandler{service: service}
}

type evaluateRequest struct {
	UserID  string           `json:"user_id" binding:"required"`
	Message services.Message `json:"message"`
}

// Evaluate handles POST /api/v1/evaluate
func (h *EvaluateHandler) Evaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.service.EvaluateMessage(req.UserID, req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}
