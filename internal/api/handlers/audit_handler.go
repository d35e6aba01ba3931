package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/modsentry/modsentry/backend/internal/services"
)

type AuditHandler struct {
	audit *services.AuditService
	rules *services.RuleService
}

func NewAuditHandler(audit *services.AuditService, rules *services.RuleService) *AuditHandler {
	return &AuditHandler{audit: audit, rules: rules}
}

// ListForRule handles GET /api/v1/rules/:id/audit. Ownership is enforced
// through the rule lookup: a foreign rule id reads as not found.
func (h *AuditHandler) ListForRule(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	rule, err := h.rules.GetByUUID(c.Param("id"), userID)
	if err != nil {
		writeRuleError(c, err)
		return
	}

	entries, err := h.audit.ListByRule(rule.UUID, limitParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ListRecent handles GET /api/v1/admin/audit (admin only)
func (h *AuditHandler) ListRecent(c *gin.Context) {
	entries, err := h.audit.ListRecent(limitParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func limitParam(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		return 50
	}
	return limit
}
