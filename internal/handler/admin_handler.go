package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nexlink/nexlink-backend/internal/common"
	"github.com/nexlink/nexlink-backend/internal/domain"
	"github.com/nexlink/nexlink-backend/internal/service"
)

// AdminHandler handles admin user management requests
type AdminHandler struct {
	service *service.AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(service *service.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// ListUsers handles GET /api/admin/users?page=&limit=&keyword=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	keyword := c.Query("keyword")

	result, err := h.service.ListUsers(page, limit, keyword)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, result, nil)
}

// CreateUser handles POST /api/admin/users
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req struct {
		domain.RegisterRequest
		Role string `json:"role" binding:"omitempty,oneof=USER ADMIN"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Role == "" {
		req.Role = domain.RoleUser
	}

	user, err := h.service.CreateUser(&req.RegisterRequest, req.Role)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: user})
}

// UpdateUser handles PATCH /api/admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	userID, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req domain.AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	user, err := h.service.UpdateUser(userID, &req)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, user, nil)
}

// AdjustCoins handles POST /api/admin/users/:id/coins
func (h *AdminHandler) AdjustCoins(c *gin.Context) {
	userID, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req domain.AdjustCoinsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "delta is required", err)
		return
	}

	user, err := h.service.AdjustCoins(userID, req.Delta)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, user, nil)
}

// DeleteUser handles DELETE /api/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, err := parseID(c, "id")
	if err != nil {
		return
	}

	if err := h.service.DeleteUser(userID); err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}
