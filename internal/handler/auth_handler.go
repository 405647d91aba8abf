package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexlink/nexlink-backend/internal/common"
	"github.com/nexlink/nexlink-backend/internal/domain"
	"github.com/nexlink/nexlink-backend/internal/middleware"
	"github.com/nexlink/nexlink-backend/internal/service"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.service.Register(&req)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: result})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.service.Login(&req)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, result, nil)
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "refresh_token is required", err)
		return
	}

	result, err := h.service.Refresh(req.RefreshToken)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, result, nil)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := h.service.Me(userID)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, user, nil)
}
