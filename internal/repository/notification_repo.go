package repository

import (
	"errors"

	"github.com/nexlink/nexlink-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationRepository handles notification data operations
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a new notification
func (r *NotificationRepository) Create(notification *domain.Notification) error {
	return r.db.Create(notification).Error
}

// FindByID returns a notification by ID, nil if not found
func (r *NotificationRepository) FindByID(id int64) (*domain.Notification, error) {
	var notification domain.Notification
	err := r.db.First(&notification, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notification, nil
}

// GetList returns paginated notifications for a user, newest first
func (r *NotificationRepository) GetList(userID int64, offset, limit int) ([]domain.Notification, int64, error) {
	var notifications []domain.Notification
	var total int64

	if err := r.db.Model(&domain.Notification{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.Where("user_id = ?", userID).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// GetUnreadCount returns the number of unread notifications for a user
func (r *NotificationRepository) GetUnreadCount(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkAsRead marks a notification as read
func (r *NotificationRepository) MarkAsRead(id int64) error {
	return r.db.Model(&domain.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

// MarkAllAsRead marks all of a user's notifications as read
func (r *NotificationRepository) MarkAllAsRead(userID int64) error {
	return r.db.Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

// PushRepository handles push subscription data operations
type PushRepository struct {
	db *gorm.DB
}

// NewPushRepository creates a new PushRepository
func NewPushRepository(db *gorm.DB) *PushRepository {
	return &PushRepository{db: db}
}

// Upsert stores a subscription keyed by endpoint; re-subscribing with a known
// endpoint re-associates it with the given user
func (r *PushRepository) Upsert(sub *domain.PushSubscription) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "p256dh", "auth"}),
	}).Create(sub).Error
}

// FindByUser returns all subscriptions owned by a user
func (r *PushRepository) FindByUser(userID int64) ([]domain.PushSubscription, error) {
	var subs []domain.PushSubscription
	err := r.db.Where("user_id = ?", userID).Find(&subs).Error
	return subs, err
}

// DeleteByEndpoint removes a stale subscription
func (r *PushRepository) DeleteByEndpoint(endpoint string) error {
	return r.db.Where("endpoint = ?", endpoint).Delete(&domain.PushSubscription{}).Error
}
