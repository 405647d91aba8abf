package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nexlink/nexlink-backend/internal/common"
	"github.com/nexlink/nexlink-backend/internal/domain"
	"github.com/nexlink/nexlink-backend/internal/middleware"
	"github.com/nexlink/nexlink-backend/internal/service"
	"github.com/nexlink/nexlink-backend/pkg/storage"
)

const maxMediaSize = 20 << 20 // 20MB

// ChatHandler handles conversation and message requests
type ChatHandler struct {
	conversations *service.ConversationService
	messages      *service.MessageService
	storage       *storage.S3Client
}

// NewChatHandler creates a new ChatHandler. storage may be nil when media
// uploads are not configured.
func NewChatHandler(conversations *service.ConversationService, messages *service.MessageService, storage *storage.S3Client) *ChatHandler {
	return &ChatHandler{
		conversations: conversations,
		messages:      messages,
		storage:       storage,
	}
}

// ListConversations handles GET /api/chat/conversations
func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID := middleware.GetUserID(c)

	list, err := h.conversations.List(userID)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, list, nil)
}

// StartConversation handles POST /api/chat/conversation/start
func (h *ChatHandler) StartConversation(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req domain.StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "target_user_id is required", err)
		return
	}

	room, err := h.conversations.Start(userID, req.TargetUserID)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, room, nil)
}

// DeleteConversation handles DELETE /api/chat/conversation/:roomId
func (h *ChatHandler) DeleteConversation(c *gin.Context) {
	userID := middleware.GetUserID(c)
	roomID, err := parseID(c, "roomId")
	if err != nil {
		return
	}

	if err := h.conversations.Delete(userID, roomID); err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}

// CreateGroup handles POST /api/chat/group
func (h *ChatHandler) CreateGroup(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req domain.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	room, err := h.conversations.CreateGroup(userID, &req)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: room})
}

// UpdateGroup handles PATCH /api/chat/group/:roomId
func (h *ChatHandler) UpdateGroup(c *gin.Context) {
	userID := middleware.GetUserID(c)
	roomID, err := parseID(c, "roomId")
	if err != nil {
		return
	}

	var req domain.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.conversations.UpdateGroup(userID, roomID, &req); err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"updated": true}, nil)
}

// AddMember handles POST /api/chat/group/:roomId/members
func (h *ChatHandler) AddMember(c *gin.Context) {
	userID := middleware.GetUserID(c)
	roomID, err := parseID(c, "roomId")
	if err != nil {
		return
	}

	var req domain.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "user_id is required", err)
		return
	}

	if err := h.conversations.AddMember(userID, roomID, req.UserID); err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"added": true}, nil)
}

// RemoveMember handles DELETE /api/chat/group/:roomId/members/:userId
func (h *ChatHandler) RemoveMember(c *gin.Context) {
	userID := middleware.GetUserID(c)
	roomID, err := parseID(c, "roomId")
	if err != nil {
		return
	}
	targetID, err := parseID(c, "userId")
	if err != nil {
		return
	}

	if err := h.conversations.RemoveMember(userID, roomID, targetID); err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"removed": true}, nil)
}

// LeaveGroup handles POST /api/chat/group/:roomId/leave
func (h *ChatHandler) LeaveGroup(c *gin.Context) {
	userID := middleware.GetUserID(c)
	roomID, err := parseID(c, "roomId")
	if err != nil {
		return
	}

	if err := h.conversations.Leave(userID, roomID); err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"left": true}, nil)
}

// ListMessages handles GET /api/chat/:roomId/messages?cursor=&limit=
func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID := middleware.GetUserID(c)
	roomID, err := parseID(c, "roomId")
	if err != nil {
		return
	}

	cursor, _ := strconv.ParseInt(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	page, err := h.messages.List(userID, roomID, cursor, limit)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, page, &common.Meta{
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	})
}

// SendMessage handles POST /api/chat/:roomId/messages. Accepts either a JSON
// body or multipart form data with an optional media file.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID := middleware.GetUserID(c)
	roomID, err := parseID(c, "roomId")
	if err != nil {
		return
	}

	var content, mediaURL, mediaType string

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		content = c.PostForm("content")

		file, header, fErr := c.Request.FormFile("media")
		if fErr == nil {
			defer file.Close()

			if header.Size > maxMediaSize {
				common.ErrorResponse(c, http.StatusBadRequest, "media file too large", nil)
				return
			}
			if h.storage == nil {
				common.ErrorResponse(c, http.StatusBadRequest, "media uploads are not enabled", nil)
				return
			}

			contentType := header.Header.Get("Content-Type")
			result, upErr := h.storage.Upload(c.Request.Context(), file, contentType, header.Filename, header.Size)
			if upErr != nil {
				common.ErrorResponse(c, http.StatusInternalServerError, "media upload failed", upErr)
				return
			}
			mediaURL = result.URL
			mediaType = mediaTypeOf(contentType)
		}
	} else {
		var req struct {
			Content   string `json:"content"`
			MediaURL  string `json:"media_url"`
			MediaType string `json:"media_type"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
			return
		}
		content, mediaURL, mediaType = req.Content, req.MediaURL, req.MediaType
	}

	msg, err := h.messages.Send(userID, roomID, content, mediaURL, mediaType)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: msg})
}

// UpdateMessage handles PUT /api/chat/message/:id
func (h *ChatHandler) UpdateMessage(c *gin.Context) {
	userID := middleware.GetUserID(c)
	messageID, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req domain.UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "content is required", err)
		return
	}

	msg, err := h.messages.Update(userID, messageID, req.Content)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, msg, nil)
}

// DeleteMessage handles DELETE /api/chat/message/:id. The type field selects
// between recalling for everyone (default) and hiding for the caller only.
func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	userID := middleware.GetUserID(c)
	messageID, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req domain.DeleteMessageRequest
	_ = c.ShouldBindJSON(&req) // empty body means recall

	if err := h.messages.Delete(userID, messageID, req.Type); err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}

// MarkRead handles PUT /api/chat/read/:roomId
func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	roomID, err := parseID(c, "roomId")
	if err != nil {
		return
	}

	if err := h.messages.MarkRead(userID, roomID); err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"read": true}, nil)
}

// parseID parses a path parameter as an int64 ID, writing a 400 on failure
func parseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid "+name, nil)
		if err == nil {
			err = strconv.ErrRange
		}
		return 0, err
	}
	return id, nil
}

// mediaTypeOf maps an uploaded file's MIME type to a message media type
func mediaTypeOf(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return "image"
	case strings.HasPrefix(contentType, "video/"):
		return "video"
	case strings.HasPrefix(contentType, "audio/"):
		return "audio"
	default:
		return "file"
	}
}
