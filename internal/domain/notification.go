package domain

import "time"

// Notification types
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
)

// Notification represents a persisted user notification.
// Never created for self-action on own content.
type Notification struct {
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Type      string    `gorm:"column:type;size:20" json:"type"`
	Content   string    `gorm:"column:content" json:"content"`
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"column:user_id;index" json:"user_id"`
	SenderID  *int64    `gorm:"column:sender_id" json:"sender_id,omitempty"`
	PostID    *int64    `gorm:"column:post_id" json:"post_id,omitempty"`
	CommentID *int64    `gorm:"column:comment_id" json:"comment_id,omitempty"`
	IsRead    bool      `gorm:"column:is_read;default:false" json:"is_read"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationItem represents a single notification in list responses
type NotificationItem struct {
	CreatedAt time.Time    `json:"created_at"`
	Type      string       `json:"type"`
	Content   string       `json:"content"`
	Sender    *UserSummary `json:"sender,omitempty"`
	ID        int64        `json:"id"`
	PostID    *int64       `json:"post_id,omitempty"`
	CommentID *int64       `json:"comment_id,omitempty"`
	IsRead    bool         `json:"is_read"`
}

// NotificationListResponse represents notification list response
type NotificationListResponse struct {
	Items       []NotificationItem `json:"items"`
	Total       int64              `json:"total"`
	UnreadCount int64              `json:"unread_count"`
	Page        int                `json:"page"`
	Limit       int                `json:"limit"`
	TotalPages  int                `json:"total_pages"`
}

// NotificationSummaryResponse represents unread count response
type NotificationSummaryResponse struct {
	TotalUnread int64 `json:"total_unread"`
}

// PushSubscription is a Web Push endpoint owned by a user. One row per
// endpoint; re-subscribing re-associates the endpoint with the current user.
type PushSubscription struct {
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Endpoint  string    `gorm:"column:endpoint;uniqueIndex;size:500" json:"endpoint"`
	P256dh    string    `gorm:"column:p256dh" json:"-"`
	Auth      string    `gorm:"column:auth" json:"-"`
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"column:user_id;index" json:"user_id"`
}

func (PushSubscription) TableName() string {
	return "push_subscriptions"
}

// SubscribeRequest registers a browser push subscription
type SubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	Keys     struct {
		P256dh string `json:"p256dh" binding:"required"`
		Auth   string `json:"auth" binding:"required"`
	} `json:"keys" binding:"required"`
}
