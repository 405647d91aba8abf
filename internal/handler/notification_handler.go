package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nexlink/nexlink-backend/internal/common"
	"github.com/nexlink/nexlink-backend/internal/domain"
	"github.com/nexlink/nexlink-backend/internal/middleware"
	"github.com/nexlink/nexlink-backend/internal/service"
)

// NotificationHandler handles notification requests
type NotificationHandler struct {
	service *service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(service *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// GetUnreadCount handles GET /api/notifications/unread-count
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID := middleware.GetUserID(c)

	summary, err := h.service.GetUnreadCount(userID)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, summary, nil)
}

// GetList handles GET /api/notifications
func (h *NotificationHandler) GetList(c *gin.Context) {
	userID := middleware.GetUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.service.GetList(userID, page, limit)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, result, nil)
}

// MarkAsRead handles PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	if err := h.service.MarkAsRead(userID, id); err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"read": true}, nil)
}

// MarkAllAsRead handles PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if err := h.service.MarkAllAsRead(userID); err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"read": true}, nil)
}

// Subscribe handles POST /api/notifications/subscribe. Registers a browser
// push subscription for the current user.
func (h *NotificationHandler) Subscribe(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req domain.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid subscription payload", err)
		return
	}

	if err := h.service.Subscribe(userID, &req); err != nil {
		common.ServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: gin.H{"subscribed": true}})
}
