package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/modsentry/modsentry/backend/internal/models"
	"github.com/modsentry/modsentry/backend/internal/services"
)

type PatternHandler struct {
	service *services.PatternService
}

func NewPatternHandler(service *services.PatternService) *PatternHandler {
	return &PatternHandler{service: service}
}

func writePatternError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrThreatPatternNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "threat pattern not found"})
	case errors.Is(err, services.ErrInvalidRiskLevel):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid risk level"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// List handles GET /api/v1/patterns
func (h *PatternHandler) List(c *gin.Context) {
	filters := services.PatternListFilters{
		PatternType: c.Query("pattern_type"),
		RiskLevel:   c.Query("risk_level"),
	}
	if v, ok := c.GetQuery("is_active"); ok {
		active := v == "true"
		filters.IsActive = &active
	}

	patterns, err := h.service.List(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, patterns)
}

// Get handles GET /api/v1/patterns/:id
func (h *PatternHandler) Get(c *gin.Context) {
	p, err := h.service.GetByUUID(c.Param("id"))
	if err != nil {
		writePatternError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Create handles POST /api/v1/admin/patterns (admin only, idempotent on name)
func (h *PatternHandler) Create(c *gin.Context) {
	var p models.ThreatPattern
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.CreateOrUpdate(&p); err != nil {
		if errors.Is(err, services.ErrInvalidRiskLevel) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid risk level"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Update handles PUT /api/v1/admin/patterns/:id (admin only)
func (h *PatternHandler) Update(c *gin.Context) {
	var updates models.ThreatPattern
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.service.Update(c.Param("id"), &updates)
	if err != nil {
		writePatternError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /api/v1/admin/patterns/:id (admin only)
func (h *PatternHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		writePatternError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "threat pattern deleted"})
}
