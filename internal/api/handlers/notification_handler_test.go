package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modsentry/modsentry/backend/internal/models"
	"github.com/modsentry/modsentry/backend/internal/services"
)

func TestNotificationHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := OpenTestDB(t)
	migrate(t, db)

	service := services.NewNotificationService(db, "", 1)
	h := NewNotificationHandler(service)

	router := gin.New()
	router.GET("/api/v1/notifications", h.List)
	router.POST("/api/v1/notifications/:id/read", h.MarkAsRead)
	router.POST("/api/v1/notifications/read-all", h.MarkAllAsRead)

	first, err := service.Create(models.NotificationWarning, "Message blocked", "blocked by Spam Filter")
	require.NoError(t, err)
	_, err = service.Create(models.NotificationInfo, "Heads up", "just info")
	require.NoError(t, err)

	t.Run("list all", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/notifications", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var notifications []models.Notification
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notifications))
		assert.Len(t, notifications, 2)
	})

	t.Run("mark one read", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/notifications/%d/read", first.ID), nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, http.MethodGet, "/api/v1/notifications?unread=true", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var notifications []models.Notification
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notifications))
		assert.Len(t, notifications, 1)
	})

	t.Run("mark all read", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/notifications/read-all", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, http.MethodGet, "/api/v1/notifications?unread=true", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var notifications []models.Notification
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notifications))
		assert.Empty(t, notifications)
	})
}
