package service

import (
	"math"

	"github.com/nexlink/nexlink-backend/internal/common"
	"github.com/nexlink/nexlink-backend/internal/domain"
	"github.com/nexlink/nexlink-backend/internal/events"
	"github.com/nexlink/nexlink-backend/internal/repository"
)

// NotificationService handles notification business logic
type NotificationService struct {
	repo      *repository.NotificationRepository
	pushRepo  *repository.PushRepository
	users     *repository.UserRepository
	publisher events.Publisher
	pusher    *PushDispatcher
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	repo *repository.NotificationRepository,
	pushRepo *repository.PushRepository,
	users *repository.UserRepository,
	publisher events.Publisher,
	pusher *PushDispatcher,
) *NotificationService {
	return &NotificationService{
		repo:      repo,
		pushRepo:  pushRepo,
		users:     users,
		publisher: publisher,
		pusher:    pusher,
	}
}

// Notify persists a notification and delivers it live plus via push.
// Self-action on own content never creates a notification.
func (s *NotificationService) Notify(recipientID int64, ntype, content string, senderID int64, postID, commentID *int64) error {
	if recipientID == senderID {
		return nil
	}

	notification := &domain.Notification{
		UserID:    recipientID,
		Type:      ntype,
		Content:   content,
		SenderID:  &senderID,
		PostID:    postID,
		CommentID: commentID,
	}
	if err := s.repo.Create(notification); err != nil {
		return err
	}

	var senderSummary *domain.UserSummary
	if sender, err := s.users.FindByID(senderID); err == nil && sender != nil {
		senderSummary = sender.ToSummary()
	}
	item := domain.NotificationItem{
		ID:        notification.ID,
		Type:      notification.Type,
		Content:   notification.Content,
		Sender:    senderSummary,
		PostID:    notification.PostID,
		CommentID: notification.CommentID,
		IsRead:    false,
		CreatedAt: notification.CreatedAt,
	}

	s.publisher.ToUser(recipientID, &events.Event{Type: events.NewNotification, Payload: item})
	go s.pusher.Dispatch(recipientID, map[string]interface{}{
		"type": ntype,
		"body": content,
	})
	return nil
}

// GetUnreadCount returns the unread notification count for a user
func (s *NotificationService) GetUnreadCount(userID int64) (*domain.NotificationSummaryResponse, error) {
	count, err := s.repo.GetUnreadCount(userID)
	if err != nil {
		return nil, err
	}
	return &domain.NotificationSummaryResponse{TotalUnread: count}, nil
}

// GetList returns paginated notifications for a user
func (s *NotificationService) GetList(userID int64, page, limit int) (*domain.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	offset := (page - 1) * limit
	notifications, total, err := s.repo.GetList(userID, offset, limit)
	if err != nil {
		return nil, err
	}

	unreadCount, err := s.repo.GetUnreadCount(userID)
	if err != nil {
		return nil, err
	}

	senderCache := map[int64]*domain.UserSummary{}
	items := make([]domain.NotificationItem, len(notifications))
	for i, n := range notifications {
		var sender *domain.UserSummary
		if n.SenderID != nil {
			if cached, ok := senderCache[*n.SenderID]; ok {
				sender = cached
			} else if u, err := s.users.FindByID(*n.SenderID); err == nil && u != nil {
				sender = u.ToSummary()
				senderCache[*n.SenderID] = sender
			}
		}
		items[i] = domain.NotificationItem{
			ID:        n.ID,
			Type:      n.Type,
			Content:   n.Content,
			Sender:    sender,
			PostID:    n.PostID,
			CommentID: n.CommentID,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	return &domain.NotificationListResponse{
		Items:       items,
		Total:       total,
		UnreadCount: unreadCount,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
	}, nil
}

// MarkAsRead marks a notification as read after ownership check. Marking an
// already-read notification is a no-op, not an error.
func (s *NotificationService) MarkAsRead(userID, notificationID int64) error {
	n, err := s.repo.FindByID(notificationID)
	if err != nil {
		return err
	}
	if n == nil {
		return common.ErrNotFound
	}
	if n.UserID != userID {
		return common.ErrForbidden
	}
	if n.IsRead {
		return nil
	}
	if err := s.repo.MarkAsRead(notificationID); err != nil {
		return err
	}

	s.publisher.ToUser(userID, &events.Event{Type: events.RefreshUnread})
	return nil
}

// MarkAllAsRead marks all notifications as read for a user
func (s *NotificationService) MarkAllAsRead(userID int64) error {
	if err := s.repo.MarkAllAsRead(userID); err != nil {
		return err
	}
	s.publisher.ToUser(userID, &events.Event{Type: events.RefreshUnread})
	return nil
}

// Subscribe registers or re-associates a push subscription for the user
func (s *NotificationService) Subscribe(userID int64, req *domain.SubscribeRequest) error {
	return s.pushRepo.Upsert(&domain.PushSubscription{
		UserID:   userID,
		Endpoint: req.Endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
	})
}
