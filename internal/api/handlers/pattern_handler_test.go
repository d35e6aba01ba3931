package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modsentry/modsentry/backend/internal/models"
	"github.com/modsentry/modsentry/backend/internal/services"
)

func newPatternRouter(t *testing.T) (*gin.Engine, *services.PatternService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := OpenTestDB(t)
	migrate(t, db)

	patternService := services.NewPatternService(db)
	h := NewPatternHandler(patternService)

	router := gin.New()
	router.GET("/api/v1/patterns", h.List)
	router.GET("/api/v1/patterns/:id", h.Get)
	router.POST("/api/v1/admin/patterns", h.Create)
	router.PUT("/api/v1/admin/patterns/:id", h.Update)
	router.DELETE("/api/v1/admin/patterns/:id", h.Delete)
	return router, patternService
}

func TestPatternHandler(t *testing.T) {
	router, patternService := newPatternRouter(t)

	t.Run("create", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/admin/patterns", map[string]interface{}{
			"name":         "Spam Keywords",
			"pattern_type": "spam",
			"config":       `{"keywords":["free money"]}`,
			"risk_level":   "high",
			"is_active":    true,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var p models.ThreatPattern
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
		assert.NotEmpty(t, p.UUID)
	})

	t.Run("create with invalid risk level", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/admin/patterns", map[string]interface{}{
			"name":       "Bad",
			"risk_level": "apocalyptic",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list with filters", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/patterns?pattern_type=spam", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var patterns []models.ThreatPattern
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &patterns))
		assert.Len(t, patterns, 1)
	})

	t.Run("get unknown is 404", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/patterns/missing", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		list, err := patternService.List(services.PatternListFilters{})
		require.NoError(t, err)
		require.NotEmpty(t, list)

		w := doJSON(t, router, http.MethodDelete, "/api/v1/admin/patterns/"+list[0].UUID, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, http.MethodDelete, "/api/v1/admin/patterns/"+list[0].UUID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
