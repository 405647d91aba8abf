package domain

import "time"

// RecallWindow is how long a sender may recall a message after creation
const RecallWindow = time.Hour

// Delete modes for DELETE /chat/message/:id
const (
	DeleteModeRecall = "recall"
	DeleteModeMe     = "me"
)

// Message belongs to exactly one room. Content may be empty when media is
// attached. Ordering is by ID (monotonic with creation time).
type Message struct {
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
	Content   string    `gorm:"column:content;type:text" json:"content"`
	MediaURL  string    `gorm:"column:media_url" json:"media_url,omitempty"`
	MediaType string    `gorm:"column:media_type;size:20" json:"media_type,omitempty"`
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RoomID    int64     `gorm:"column:room_id;index" json:"room_id"`
	SenderID  int64     `gorm:"column:sender_id;index" json:"sender_id"`
	IsRead    bool      `gorm:"column:is_read;default:false" json:"is_read"`
	IsEdited  bool      `gorm:"column:is_edited;default:false" json:"is_edited"`
}

func (Message) TableName() string {
	return "messages"
}

// MessageDeletion marks a message as hidden for one viewer ("delete for me").
// A dedicated join row instead of an embedded list keeps the visibility
// predicate expressible as plain SQL.
type MessageDeletion struct {
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	MessageID int64     `gorm:"column:message_id;uniqueIndex:idx_message_user" json:"message_id"`
	UserID    int64     `gorm:"column:user_id;uniqueIndex:idx_message_user" json:"user_id"`
}

func (MessageDeletion) TableName() string {
	return "message_deletions"
}

// MessageResponse represents a message in API responses and fan-out payloads
type MessageResponse struct {
	CreatedAt time.Time    `json:"created_at"`
	Content   string       `json:"content"`
	MediaURL  string       `json:"media_url,omitempty"`
	MediaType string       `json:"media_type,omitempty"`
	Sender    *UserSummary `json:"sender,omitempty"`
	ID        int64        `json:"id"`
	RoomID    int64        `json:"room_id"`
	SenderID  int64        `json:"sender_id"`
	IsRead    bool         `json:"is_read"`
	IsEdited  bool         `json:"is_edited"`
}

// ToResponse converts Message to MessageResponse
func (m *Message) ToResponse(sender *UserSummary) *MessageResponse {
	return &MessageResponse{
		ID:        m.ID,
		RoomID:    m.RoomID,
		SenderID:  m.SenderID,
		Sender:    sender,
		Content:   m.Content,
		MediaURL:  m.MediaURL,
		MediaType: m.MediaType,
		IsRead:    m.IsRead,
		IsEdited:  m.IsEdited,
		CreatedAt: m.CreatedAt,
	}
}

// SendMessageRequest creates a message in a room
type SendMessageRequest struct {
	Content string `json:"content" form:"content"`
}

// UpdateMessageRequest edits a message's content
type UpdateMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// DeleteMessageRequest selects the delete mode; recall is the default
type DeleteMessageRequest struct {
	Type string `json:"type" binding:"omitempty,oneof=recall me"`
}

// MessagePage is one page of chronological messages
type MessagePage struct {
	Messages   []MessageResponse `json:"messages"`
	NextCursor int64             `json:"next_cursor,omitempty"`
	HasMore    bool              `json:"has_more"`
}
