package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/redact/redact-backend/internal/common"
	"github.com/redact/redact-backend/internal/domain"
	"github.com/redact/redact-backend/internal/service"
)

// AuthHandler handles the Discord OAuth callback
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Callback handles POST /auth/discord
// @Summary Exchange a Discord OAuth code for a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.AuthCallbackRequest true "authorization code"
// @Success 200 {object} domain.AuthCallbackResponse
// @Router /auth/discord [post]
func (h *AuthHandler) Callback(c *gin.Context) {
	var req domain.AuthCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	resp, err := h.service.Callback(c.Request.Context(), req.Code)
	if err != nil {
		if errors.Is(err, common.ErrMissingAuthCode) {
			common.ErrorResponse(c, http.StatusBadRequest, "Code is required", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Authentication failed", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
