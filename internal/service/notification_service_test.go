package service

import (
	"testing"

	"github.com/nexlink/nexlink-backend/internal/common"
	"github.com/nexlink/nexlink-backend/internal/domain"
	"github.com/nexlink/nexlink-backend/internal/events"
	"github.com/nexlink/nexlink-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupNotificationService(t *testing.T) (*NotificationService, *gorm.DB, *recordingPublisher) {
	t.Helper()
	db := setupTestDB(t)
	pub := &recordingPublisher{}
	pushRepo := repository.NewPushRepository(db)
	svc := NewNotificationService(
		repository.NewNotificationRepository(db),
		pushRepo,
		repository.NewUserRepository(db),
		pub,
		NewPushDispatcher(pushRepo, nil),
	)
	return svc, db, pub
}

func TestNotify_DeliversLive(t *testing.T) {
	svc, db, pub := setupNotificationService(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	err := svc.Notify(alice.ID, domain.NotificationFollow, "bob started following you", bob.ID, nil, nil)
	assert.NoError(t, err)

	delivered := pub.userEvents(alice.ID, events.NewNotification)
	assert.Len(t, delivered, 1)
	item := delivered[0].Event.Payload.(domain.NotificationItem)
	assert.Equal(t, domain.NotificationFollow, item.Type)
	assert.Equal(t, bob.ID, item.Sender.ID)

	summary, err := svc.GetUnreadCount(alice.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), summary.TotalUnread)
}

func TestNotify_SelfActionIsNoOp(t *testing.T) {
	svc, db, pub := setupNotificationService(t)
	alice := createTestUser(t, db, "alice")

	err := svc.Notify(alice.ID, domain.NotificationLike, "you liked your own post", alice.ID, nil, nil)
	assert.NoError(t, err)

	var count int64
	db.Model(&domain.Notification{}).Count(&count)
	assert.Zero(t, count)
	assert.Empty(t, pub.userEvents(alice.ID, events.NewNotification))
}

func TestGetList_Pagination(t *testing.T) {
	svc, db, _ := setupNotificationService(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	for i := 0; i < 25; i++ {
		assert.NoError(t, svc.Notify(alice.ID, domain.NotificationLike, "liked your post", bob.ID, nil, nil))
	}

	page1, err := svc.GetList(alice.ID, 1, 10)
	assert.NoError(t, err)
	assert.Len(t, page1.Items, 10)
	assert.Equal(t, int64(25), page1.Total)
	assert.Equal(t, int64(25), page1.UnreadCount)
	assert.Equal(t, 3, page1.TotalPages)

	// Newest first
	assert.Greater(t, page1.Items[0].ID, page1.Items[9].ID)

	page3, err := svc.GetList(alice.ID, 3, 10)
	assert.NoError(t, err)
	assert.Len(t, page3.Items, 5)
}

func TestMarkAsRead_OwnershipAndIdempotency(t *testing.T) {
	svc, db, pub := setupNotificationService(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	assert.NoError(t, svc.Notify(alice.ID, domain.NotificationComment, "commented on your post", bob.ID, nil, nil))

	var n domain.Notification
	db.First(&n)

	// Only the recipient may mark it read
	assert.ErrorIs(t, svc.MarkAsRead(bob.ID, n.ID), common.ErrForbidden)

	assert.NoError(t, svc.MarkAsRead(alice.ID, n.ID))
	assert.Len(t, pub.userEvents(alice.ID, events.RefreshUnread), 1)

	// Already read: no-op, no extra refresh event
	assert.NoError(t, svc.MarkAsRead(alice.ID, n.ID))
	assert.Len(t, pub.userEvents(alice.ID, events.RefreshUnread), 1)

	assert.ErrorIs(t, svc.MarkAsRead(alice.ID, 9999), common.ErrNotFound)
}

func TestMarkAllAsRead(t *testing.T) {
	svc, db, _ := setupNotificationService(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	for i := 0; i < 3; i++ {
		svc.Notify(alice.ID, domain.NotificationLike, "liked your post", bob.ID, nil, nil)
	}

	assert.NoError(t, svc.MarkAllAsRead(alice.ID))

	summary, _ := svc.GetUnreadCount(alice.ID)
	assert.Zero(t, summary.TotalUnread)
}

func TestSubscribe_UpsertsByEndpoint(t *testing.T) {
	svc, db, _ := setupNotificationService(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	req := &domain.SubscribeRequest{Endpoint: "https://push.example/ep1"}
	req.Keys.P256dh = "key1"
	req.Keys.Auth = "auth1"
	assert.NoError(t, svc.Subscribe(alice.ID, req))

	// Same browser endpoint re-registered by another account moves over
	req.Keys.Auth = "auth2"
	assert.NoError(t, svc.Subscribe(bob.ID, req))

	var subs []domain.PushSubscription
	db.Find(&subs)
	assert.Len(t, subs, 1)
	assert.Equal(t, bob.ID, subs[0].UserID)
	assert.Equal(t, "auth2", subs[0].Auth)
}
