package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Post is a user's feed post. Media holds zero or more uploaded object URLs.
type Post struct {
	CreatedAt time.Time                   `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time                   `gorm:"column:updated_at;autoUpdateTime" json:"-"`
	Content   string                      `gorm:"column:content;type:text" json:"content"`
	Media     datatypes.JSONSlice[string] `gorm:"column:media" json:"media,omitempty"`
	ID        int64                       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AuthorID  int64                       `gorm:"column:author_id;index" json:"author_id"`
}

func (Post) TableName() string {
	return "posts"
}

// Comment belongs to a post
type Comment struct {
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Content   string    `gorm:"column:content;type:text" json:"content"`
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PostID    int64     `gorm:"column:post_id;index" json:"post_id"`
	AuthorID  int64     `gorm:"column:author_id" json:"author_id"`
}

func (Comment) TableName() string {
	return "comments"
}

// PostLike is unique per (post, user)
type PostLike struct {
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	PostID    int64     `gorm:"column:post_id;uniqueIndex:idx_post_user" json:"post_id"`
	UserID    int64     `gorm:"column:user_id;uniqueIndex:idx_post_user" json:"user_id"`
}

func (PostLike) TableName() string {
	return "post_likes"
}

// PostResponse represents a post in API responses
type PostResponse struct {
	CreatedAt time.Time    `json:"created_at"`
	Content   string       `json:"content"`
	Media     []string     `json:"media,omitempty"`
	Author    *UserSummary `json:"author,omitempty"`
	ID        int64        `json:"id"`
	AuthorID  int64        `json:"author_id"`
	LikeCount int64        `json:"like_count"`
	Liked     bool         `json:"liked"`
}

// CommentResponse represents a comment in API responses
type CommentResponse struct {
	CreatedAt time.Time    `json:"created_at"`
	Content   string       `json:"content"`
	Author    *UserSummary `json:"author,omitempty"`
	ID        int64        `json:"id"`
	PostID    int64        `json:"post_id"`
	AuthorID  int64        `json:"author_id"`
}

// CreatePostRequest creates a post
type CreatePostRequest struct {
	Content string   `json:"content"`
	Media   []string `json:"media,omitempty"`
}

// CreateCommentRequest comments on a post
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}
