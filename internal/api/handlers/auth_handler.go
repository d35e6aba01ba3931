package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/modsentry/modsentry/backend/internal/services"
)

type AuthHandler struct {
	service *services.AuthService
}

func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Token handles POST /api/v1/auth/token: exchanges the admin token for a
// short-lived session JWT.
func (h *AuthHandler) Token(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.service.IssueSessionToken(req.Token)
	if err != nil {
		if errors.Is(err, services.ErrAdminDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "admin API disabled"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
