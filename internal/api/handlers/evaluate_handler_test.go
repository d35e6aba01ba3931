package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modsentry/modsentry/backend/internal/services"
)

func newEvaluateRouter(t *testing.T) (*gin.Engine, *services.RuleService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := OpenTestDB(t)
	migrate(t, db)

	ruleService := services.NewRuleService(db, services.NewAuditService(db))
	evaluationService := services.NewEvaluationService(ruleService, nil)

	router := gin.New()
	router.POST("/api/v1/evaluate", NewEvaluateHandler(evaluationService).Evaluate)
	return router, ruleService
}

func TestEvaluateHandler(t *testing.T) {
	router, ruleService := newEvaluateRouter(t)

	_, err := ruleService.Create(services.RuleInput{
		RuleType:   "keyword_filter",
		RuleName:   "Spam Filter",
		RuleConfig: json.RawMessage(`{"keywords":["spam"],"action":"block"}`),
		UserID:     "alice",
	}, services.RequestMeta{})
	require.NoError(t, err)

	t.Run("blocked message", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/evaluate", map[string]interface{}{
			"user_id": "alice",
			"message": map[string]interface{}{"text": "this is spam"},
		})
		require.Equal(t, http.StatusOK, w.Code)

		var report services.EvaluationReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, "block", report.FinalAction)
		require.Len(t, report.RuleEvaluations, 1)
		assert.Equal(t, "Spam Filter", report.RuleEvaluations[0].RuleName)
		assert.Len(t, report.BlockingRules, 1)
	})

	t.Run("clean message", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/evaluate", map[string]interface{}{
			"user_id": "alice",
			"message": map[string]interface{}{"text": "hello there"},
		})
		require.Equal(t, http.StatusOK, w.Code)

		var report services.EvaluationReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, "allow", report.FinalAction)
		assert.Empty(t, report.BlockingRules)
	})

	t.Run("user with no rules", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/evaluate", map[string]interface{}{
			"user_id": "nobody",
			"message": map[string]interface{}{"text": "spam spam spam"},
		})
		require.Equal(t, http.StatusOK, w.Code)

		var report services.EvaluationReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, "allow", report.FinalAction)
		assert.Empty(t, report.RuleEvaluations)
	})

	t.Run("missing user_id", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/evaluate", map[string]interface{}{
			"message": map[string]interface{}{"text": "spam"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
