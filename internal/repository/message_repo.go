package repository

import (
	"errors"

	"github.com/nexlink/nexlink-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageRepository handles message data operations
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// visibleTo filters out messages the viewer has deleted for themselves
func (r *MessageRepository) visibleTo(q *gorm.DB, viewerID int64) *gorm.DB {
	sub := r.db.Model(&domain.MessageDeletion{}).
		Select("message_id").
		Where("user_id = ?", viewerID)
	return q.Where("id NOT IN (?)", sub)
}

// Create inserts a new message
func (r *MessageRepository) Create(message *domain.Message) error {
	return r.db.Create(message).Error
}

// FindByID returns a message by ID, nil if not found
func (r *MessageRepository) FindByID(id int64) (*domain.Message, error) {
	var message domain.Message
	err := r.db.First(&message, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

// ListPage returns up to limit messages of a room visible to the viewer,
// newest first. A non-zero cursor is the last-seen message ID (exclusive).
func (r *MessageRepository) ListPage(roomID, viewerID, cursor int64, limit int) ([]domain.Message, error) {
	q := r.db.Where("room_id = ?", roomID)
	q = r.visibleTo(q, viewerID)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}

	var messages []domain.Message
	err := q.Order("id DESC").Limit(limit).Find(&messages).Error
	return messages, err
}

// LastVisible returns the most recent message of a room visible to the viewer,
// nil if the room has none
func (r *MessageRepository) LastVisible(roomID, viewerID int64) (*domain.Message, error) {
	q := r.db.Where("room_id = ?", roomID)
	q = r.visibleTo(q, viewerID)

	var message domain.Message
	err := q.Order("id DESC").First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

// UnreadCount counts messages in a room authored by someone else, unread, and
// not deleted-for-self by the viewer
func (r *MessageRepository) UnreadCount(roomID, viewerID int64) (int64, error) {
	q := r.db.Model(&domain.Message{}).
		Where("room_id = ? AND sender_id <> ? AND is_read = ?", roomID, viewerID, false)
	q = r.visibleTo(q, viewerID)

	var count int64
	err := q.Count(&count).Error
	return count, err
}

// UpdateContent edits a message and flags it as edited
func (r *MessageRepository) UpdateContent(id int64, content string) error {
	return r.db.Model(&domain.Message{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"content": content, "is_edited": true}).Error
}

// MarkRoomRead marks every unread message in the room not authored by the
// reader as read
func (r *MessageRepository) MarkRoomRead(roomID, readerID int64) error {
	return r.db.Model(&domain.Message{}).
		Where("room_id = ? AND sender_id <> ? AND is_read = ?", roomID, readerID, false).
		Update("is_read", true).Error
}

// Delete hard-deletes a message and its per-viewer deletion marks
func (r *MessageRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&domain.MessageDeletion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Message{}, id).Error
	})
}

// MarkDeletedFor hides a message from one viewer. Repeating is a no-op.
func (r *MessageRepository) MarkDeletedFor(messageID, userID int64) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.MessageDeletion{MessageID: messageID, UserID: userID}).Error
}
