package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexlink/nexlink-backend/internal/common"
	"github.com/nexlink/nexlink-backend/internal/domain"
	"github.com/nexlink/nexlink-backend/internal/middleware"
	"github.com/nexlink/nexlink-backend/internal/service"
)

// UserHandler handles user profile and follow requests
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// GetProfile handles GET /api/users/:id
func (h *UserHandler) GetProfile(c *gin.Context) {
	viewerID := middleware.GetUserID(c)
	userID, err := parseID(c, "id")
	if err != nil {
		return
	}

	profile, err := h.service.GetProfile(viewerID, userID)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, profile, nil)
}

// UpdateProfile handles PATCH /api/users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	user, err := h.service.UpdateProfile(userID, &req)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, user, nil)
}

// Follow handles POST /api/users/:id/follow
func (h *UserHandler) Follow(c *gin.Context) {
	userID := middleware.GetUserID(c)
	targetID, err := parseID(c, "id")
	if err != nil {
		return
	}

	if err := h.service.Follow(userID, targetID); err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"following": true}, nil)
}

// Unfollow handles DELETE /api/users/:id/follow
func (h *UserHandler) Unfollow(c *gin.Context) {
	userID := middleware.GetUserID(c)
	targetID, err := parseID(c, "id")
	if err != nil {
		return
	}

	if err := h.service.Unfollow(userID, targetID); err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"following": false}, nil)
}

// Followers handles GET /api/users/:id/followers
func (h *UserHandler) Followers(c *gin.Context) {
	userID, err := parseID(c, "id")
	if err != nil {
		return
	}

	list, err := h.service.Followers(userID)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, list, nil)
}

// Following handles GET /api/users/:id/following
func (h *UserHandler) Following(c *gin.Context) {
	userID, err := parseID(c, "id")
	if err != nil {
		return
	}

	list, err := h.service.Following(userID)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, list, nil)
}
