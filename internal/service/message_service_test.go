package service

import (
	"testing"
	"time"

	"github.com/nexlink/nexlink-backend/internal/common"
	"github.com/nexlink/nexlink-backend/internal/domain"
	"github.com/nexlink/nexlink-backend/internal/events"
	"github.com/nexlink/nexlink-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type messageFixture struct {
	svc   *MessageService
	conv  *ConversationService
	db    *gorm.DB
	pub   *recordingPublisher
	alice *domain.User
	bob   *domain.User
	room  *domain.Room
}

func setupMessageService(t *testing.T) *messageFixture {
	t.Helper()
	db := setupTestDB(t)
	users, rooms, messages := newTestRepos(db)
	pub := &recordingPublisher{}
	pusher := NewPushDispatcher(repository.NewPushRepository(db), nil)

	conv := NewConversationService(rooms, messages, users, pub)
	svc := NewMessageService(messages, rooms, users, pub, pusher)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	room, err := conv.Start(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("failed to start conversation: %v", err)
	}

	return &messageFixture{svc: svc, conv: conv, db: db, pub: pub, alice: alice, bob: bob, room: room}
}

func TestSendMessage_FanOut(t *testing.T) {
	f := setupMessageService(t)

	msg, err := f.svc.Send(f.alice.ID, f.room.ID, "hello", "", "")
	assert.NoError(t, err)
	assert.Equal(t, "hello", msg.Content)
	assert.Equal(t, f.alice.ID, msg.SenderID)
	assert.NotNil(t, msg.Sender)

	// Full message to the room group, alert to the other member only
	assert.Len(t, f.pub.roomEvents(f.room.ID, events.ReceiveMessage), 1)
	assert.Len(t, f.pub.userEvents(f.bob.ID, events.NewMessageAlert), 1)
	assert.Empty(t, f.pub.userEvents(f.alice.ID, events.NewMessageAlert))
}

func TestSendMessage_EmptyContent(t *testing.T) {
	f := setupMessageService(t)

	_, err := f.svc.Send(f.alice.ID, f.room.ID, "", "", "")
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	// Media without text is fine
	msg, err := f.svc.Send(f.alice.ID, f.room.ID, "", "https://cdn/img.png", "image")
	assert.NoError(t, err)
	assert.Equal(t, "image", msg.MediaType)
}

func TestSendMessage_NonMember(t *testing.T) {
	f := setupMessageService(t)
	eve := createTestUser(t, f.db, "eve")

	_, err := f.svc.Send(eve.ID, f.room.ID, "intrusion", "", "")
	assert.ErrorIs(t, err, common.ErrNotRoomMember)
}

func TestListMessages_PaginationTerminates(t *testing.T) {
	f := setupMessageService(t)

	for i := 0; i < 25; i++ {
		_, err := f.svc.Send(f.alice.ID, f.room.ID, "msg", "", "")
		assert.NoError(t, err)
	}

	page1, err := f.svc.List(f.bob.ID, f.room.ID, 0, 10)
	assert.NoError(t, err)
	assert.Len(t, page1.Messages, 10)
	assert.True(t, page1.HasMore)
	// Chronological within the page, cursor is the oldest entry
	assert.Equal(t, page1.Messages[0].ID, page1.NextCursor)
	assert.Less(t, page1.Messages[0].ID, page1.Messages[9].ID)

	page2, err := f.svc.List(f.bob.ID, f.room.ID, page1.NextCursor, 10)
	assert.NoError(t, err)
	assert.Len(t, page2.Messages, 10)
	assert.True(t, page2.HasMore)
	// No overlap between pages
	assert.Less(t, page2.Messages[9].ID, page1.Messages[0].ID)

	page3, err := f.svc.List(f.bob.ID, f.room.ID, page2.NextCursor, 10)
	assert.NoError(t, err)
	assert.Len(t, page3.Messages, 5)
	assert.False(t, page3.HasMore)
}

func TestUpdateMessage_SenderOnly(t *testing.T) {
	f := setupMessageService(t)

	msg, _ := f.svc.Send(f.alice.ID, f.room.ID, "typo", "", "")

	_, err := f.svc.Update(f.bob.ID, msg.ID, "hijack")
	assert.ErrorIs(t, err, common.ErrNotMessageSender)

	updated, err := f.svc.Update(f.alice.ID, msg.ID, "fixed")
	assert.NoError(t, err)
	assert.Equal(t, "fixed", updated.Content)
	assert.True(t, updated.IsEdited)

	assert.Len(t, f.pub.roomEvents(f.room.ID, events.MessageUpdated), 1)
}

func TestDeleteMessage_Recall(t *testing.T) {
	f := setupMessageService(t)

	msg, _ := f.svc.Send(f.alice.ID, f.room.ID, "oops", "", "")

	// Only the sender may recall
	err := f.svc.Delete(f.bob.ID, msg.ID, domain.DeleteModeRecall)
	assert.ErrorIs(t, err, common.ErrNotMessageSender)

	assert.NoError(t, f.svc.Delete(f.alice.ID, msg.ID, domain.DeleteModeRecall))

	var count int64
	f.db.Model(&domain.Message{}).Count(&count)
	assert.Zero(t, count)
	assert.Len(t, f.pub.roomEvents(f.room.ID, events.MessageDeleted), 1)
}

func TestDeleteMessage_RecallWindowExpired(t *testing.T) {
	f := setupMessageService(t)

	msg, _ := f.svc.Send(f.alice.ID, f.room.ID, "old", "", "")
	// Age the message past the recall window
	f.db.Model(&domain.Message{}).Where("id = ?", msg.ID).
		Update("created_at", time.Now().Add(-2*time.Hour))

	err := f.svc.Delete(f.alice.ID, msg.ID, domain.DeleteModeRecall)
	assert.ErrorIs(t, err, common.ErrRecallWindowExpired)

	// The failed recall must not mutate the message
	var count int64
	f.db.Model(&domain.Message{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDeleteMessage_ForMeOnly(t *testing.T) {
	f := setupMessageService(t)

	msg, _ := f.svc.Send(f.alice.ID, f.room.ID, "secret", "", "")

	assert.NoError(t, f.svc.Delete(f.bob.ID, msg.ID, domain.DeleteModeMe))
	// Hiding twice is a no-op
	assert.NoError(t, f.svc.Delete(f.bob.ID, msg.ID, domain.DeleteModeMe))

	bobPage, err := f.svc.List(f.bob.ID, f.room.ID, 0, 20)
	assert.NoError(t, err)
	assert.Empty(t, bobPage.Messages)

	alicePage, err := f.svc.List(f.alice.ID, f.room.ID, 0, 20)
	assert.NoError(t, err)
	assert.Len(t, alicePage.Messages, 1)
}

func TestHiddenMessageExcludedFromUnread(t *testing.T) {
	f := setupMessageService(t)

	msg, _ := f.svc.Send(f.alice.ID, f.room.ID, "spam", "", "")
	assert.NoError(t, f.svc.Delete(f.bob.ID, msg.ID, domain.DeleteModeMe))

	list, err := f.conv.List(f.bob.ID)
	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Zero(t, list[0].UnreadCount)
	assert.Nil(t, list[0].LastMessage)
}

func TestMarkRead(t *testing.T) {
	f := setupMessageService(t)

	// Alice sends two messages, then reads the room herself. Her own
	// messages stay unread for Bob.
	f.svc.Send(f.alice.ID, f.room.ID, "one", "", "")
	f.svc.Send(f.alice.ID, f.room.ID, "two", "", "")
	assert.NoError(t, f.svc.MarkRead(f.alice.ID, f.room.ID))

	bobList, _ := f.conv.List(f.bob.ID)
	assert.Equal(t, int64(2), bobList[0].UnreadCount)

	// Bob reads; his unread drops to zero and both sides get notified
	assert.NoError(t, f.svc.MarkRead(f.bob.ID, f.room.ID))

	bobList, _ = f.conv.List(f.bob.ID)
	assert.Zero(t, bobList[0].UnreadCount)

	assert.NotEmpty(t, f.pub.roomEvents(f.room.ID, events.MessagesRead))
	assert.Len(t, f.pub.userEvents(f.bob.ID, events.RefreshUnread), 1)
}

func TestMarkRead_NonMember(t *testing.T) {
	f := setupMessageService(t)
	eve := createTestUser(t, f.db, "eve")

	assert.ErrorIs(t, f.svc.MarkRead(eve.ID, f.room.ID), common.ErrNotRoomMember)
}
