package domain

import (
	"fmt"
	"time"
)

// Room represents a 1:1 or group conversation.
// For 1:1 rooms PairKey is "lo:hi" of the two member IDs. The unique index,
// not the lookup, decides find-or-create races; the lookup is only a fast path.
type Room struct {
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
	Name      string    `gorm:"column:name;size:100" json:"name,omitempty"`
	Avatar    string    `gorm:"column:avatar" json:"avatar,omitempty"`
	PairKey   *string   `gorm:"column:pair_key;uniqueIndex;size:64" json:"-"`
	CreatedBy *int64    `gorm:"column:created_by" json:"created_by,omitempty"`
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	IsGroup   bool      `gorm:"column:is_group;default:false" json:"is_group"`
}

func (Room) TableName() string {
	return "rooms"
}

// PairKeyFor returns the canonical unordered-pair key for a 1:1 room
func PairKeyFor(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// RoomMember is the membership join row. A user appears at most once per room.
type RoomMember struct {
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"joined_at"`
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	RoomID    int64     `gorm:"column:room_id;uniqueIndex:idx_room_user" json:"room_id"`
	UserID    int64     `gorm:"column:user_id;uniqueIndex:idx_room_user;index" json:"user_id"`
}

func (RoomMember) TableName() string {
	return "room_members"
}

// ConversationSummary is one entry of the conversation list
type ConversationSummary struct {
	LastMessageAt time.Time        `json:"last_message_at"`
	Name          string           `json:"name,omitempty"`
	Avatar        string           `json:"avatar,omitempty"`
	Other         *UserSummary     `json:"other,omitempty"`
	LastMessage   *MessageResponse `json:"last_message,omitempty"`
	Members       []UserSummary    `json:"members,omitempty"`
	ID            int64            `json:"id"`
	UnreadCount   int64            `json:"unread_count"`
	MemberCount   int              `json:"member_count"`
	IsGroup       bool             `json:"is_group"`
}

// StartConversationRequest starts (or returns) a 1:1 room
type StartConversationRequest struct {
	TargetUserID int64 `json:"target_user_id" binding:"required"`
}

// CreateGroupRequest creates a group room
type CreateGroupRequest struct {
	Name      string  `json:"name" binding:"required,max=100"`
	Avatar    string  `json:"avatar,omitempty"`
	MemberIDs []int64 `json:"member_ids" binding:"required,min=1"`
}

// UpdateGroupRequest renames a group or changes its avatar
type UpdateGroupRequest struct {
	Name   *string `json:"name,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// AddMemberRequest adds a user to a group room
type AddMemberRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}
