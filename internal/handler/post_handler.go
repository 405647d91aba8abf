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

// PostHandler handles post, comment and like requests
type PostHandler struct {
	service *service.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(service *service.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// Create handles POST /api/posts
func (h *PostHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req domain.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	post, err := h.service.Create(userID, &req)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: post})
}

// Get handles GET /api/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	viewerID := middleware.GetUserID(c)
	postID, err := parseID(c, "id")
	if err != nil {
		return
	}

	post, err := h.service.Get(viewerID, postID)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, post, nil)
}

// Delete handles DELETE /api/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	postID, err := parseID(c, "id")
	if err != nil {
		return
	}

	if err := h.service.Delete(userID, postID); err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}

// Feed handles GET /api/posts/feed — posts from followed users and self
func (h *PostHandler) Feed(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, limit := pageParams(c)

	posts, total, err := h.service.Feed(userID, page, limit)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, posts, &common.Meta{Page: page, Limit: limit, Total: total})
}

// UserPosts handles GET /api/users/:id/posts
func (h *PostHandler) UserPosts(c *gin.Context) {
	viewerID := middleware.GetUserID(c)
	userID, err := parseID(c, "id")
	if err != nil {
		return
	}
	page, limit := pageParams(c)

	posts, total, err := h.service.UserPosts(viewerID, userID, page, limit)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, posts, &common.Meta{Page: page, Limit: limit, Total: total})
}

// Like handles POST /api/posts/:id/like
func (h *PostHandler) Like(c *gin.Context) {
	userID := middleware.GetUserID(c)
	postID, err := parseID(c, "id")
	if err != nil {
		return
	}

	if err := h.service.Like(userID, postID); err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"liked": true}, nil)
}

// Unlike handles DELETE /api/posts/:id/like
func (h *PostHandler) Unlike(c *gin.Context) {
	userID := middleware.GetUserID(c)
	postID, err := parseID(c, "id")
	if err != nil {
		return
	}

	if err := h.service.Unlike(userID, postID); err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"liked": false}, nil)
}

// CreateComment handles POST /api/posts/:id/comments
func (h *PostHandler) CreateComment(c *gin.Context) {
	userID := middleware.GetUserID(c)
	postID, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req domain.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "content is required", err)
		return
	}

	comment, err := h.service.Comment(userID, postID, &req)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: comment})
}

// ListComments handles GET /api/posts/:id/comments
func (h *PostHandler) ListComments(c *gin.Context) {
	postID, err := parseID(c, "id")
	if err != nil {
		return
	}

	comments, err := h.service.Comments(postID)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	common.SuccessResponse(c, comments, nil)
}

// pageParams reads page/limit query parameters with sane defaults
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
