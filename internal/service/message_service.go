package service

import (
	"time"

	"github.com/nexlink/nexlink-backend/internal/common"
	"github.com/nexlink/nexlink-backend/internal/domain"
	"github.com/nexlink/nexlink-backend/internal/events"
	"github.com/nexlink/nexlink-backend/internal/repository"
)

const defaultPageLimit = 20

// MessageService handles message business logic
type MessageService struct {
	messages  *repository.MessageRepository
	rooms     *repository.RoomRepository
	users     *repository.UserRepository
	publisher events.Publisher
	pusher    *PushDispatcher
}

// NewMessageService creates a new MessageService
func NewMessageService(
	messages *repository.MessageRepository,
	rooms *repository.RoomRepository,
	users *repository.UserRepository,
	publisher events.Publisher,
	pusher *PushDispatcher,
) *MessageService {
	return &MessageService{
		messages:  messages,
		rooms:     rooms,
		users:     users,
		publisher: publisher,
		pusher:    pusher,
	}
}

// Send persists a message and fans it out: the full message to the room
// group, an alert plus a best-effort push to every other member's personal
// group. Fan-out failures never fail the send.
func (s *MessageService) Send(me, roomID int64, content, mediaURL, mediaType string) (*domain.MessageResponse, error) {
	if content == "" && mediaURL == "" {
		return nil, common.ErrInvalidInput
	}
	if _, err := requireMembership(s.rooms, roomID, me); err != nil {
		return nil, err
	}

	message := &domain.Message{
		RoomID:    roomID,
		SenderID:  me,
		Content:   content,
		MediaURL:  mediaURL,
		MediaType: mediaType,
	}
	if err := s.messages.Create(message); err != nil {
		return nil, err
	}

	sender, err := s.users.FindByID(me)
	if err != nil {
		return nil, err
	}
	var senderSummary *domain.UserSummary
	if sender != nil {
		senderSummary = sender.ToSummary()
	}
	resp := message.ToResponse(senderSummary)

	s.publisher.ToRoom(roomID, &events.Event{Type: events.ReceiveMessage, Payload: resp})

	memberIDs, err := s.rooms.MemberIDs(roomID)
	if err != nil {
		return resp, nil
	}
	preview := content
	if preview == "" {
		preview = "[media]"
	}
	title := "New message"
	if senderSummary != nil {
		title = senderSummary.Name
	}
	for _, uid := range memberIDs {
		if uid == me {
			continue
		}
		s.publisher.ToUser(uid, &events.Event{
			Type:    events.NewMessageAlert,
			Payload: map[string]interface{}{"room_id": roomID},
		})
		go s.pusher.Dispatch(uid, map[string]interface{}{
			"type":    "message",
			"title":   title,
			"body":    preview,
			"room_id": roomID,
		})
	}
	return resp, nil
}

// List returns one chronological page of the room's messages visible to me.
// Cursor is the ID of the oldest message from the previous page (exclusive).
func (s *MessageService) List(me, roomID, cursor int64, limit int) (*domain.MessagePage, error) {
	if _, err := requireMembership(s.rooms, roomID, me); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = defaultPageLimit
	}

	messages, err := s.messages.ListPage(roomID, me, cursor, limit)
	if err != nil {
		return nil, err
	}

	senderIDs := make([]int64, 0, len(messages))
	seen := map[int64]bool{}
	for i := range messages {
		if !seen[messages[i].SenderID] {
			seen[messages[i].SenderID] = true
			senderIDs = append(senderIDs, messages[i].SenderID)
		}
	}
	senders, err := s.users.FindByIDs(senderIDs)
	if err != nil {
		return nil, err
	}
	summaries := make(map[int64]*domain.UserSummary, len(senders))
	for i := range senders {
		summaries[senders[i].ID] = senders[i].ToSummary()
	}

	page := &domain.MessagePage{
		Messages: make([]domain.MessageResponse, 0, len(messages)),
		HasMore:  len(messages) == limit,
	}
	if len(messages) > 0 {
		// messages are newest-first; the last one is the next cursor
		page.NextCursor = messages[len(messages)-1].ID
	}
	// reverse to chronological for direct rendering
	for i := len(messages) - 1; i >= 0; i-- {
		page.Messages = append(page.Messages, *messages[i].ToResponse(summaries[messages[i].SenderID]))
	}
	return page, nil
}

// Update edits a message; sender only
func (s *MessageService) Update(me, messageID int64, content string) (*domain.MessageResponse, error) {
	if content == "" {
		return nil, common.ErrInvalidInput
	}

	message, err := s.messages.FindByID(messageID)
	if err != nil {
		return nil, err
	}
	if message == nil {
		return nil, common.ErrMessageNotFound
	}
	if message.SenderID != me {
		return nil, common.ErrNotMessageSender
	}

	if err := s.messages.UpdateContent(messageID, content); err != nil {
		return nil, err
	}
	message.Content = content
	message.IsEdited = true

	sender, err := s.users.FindByID(me)
	if err != nil {
		return nil, err
	}
	var senderSummary *domain.UserSummary
	if sender != nil {
		senderSummary = sender.ToSummary()
	}
	resp := message.ToResponse(senderSummary)

	s.publisher.ToRoom(message.RoomID, &events.Event{Type: events.MessageUpdated, Payload: resp})
	return resp, nil
}

// Delete removes a message. Mode "me" hides it from the requester only; mode
// "recall" (the default) hard-deletes it for everyone, sender only, within
// the recall window, and fails without mutating the message otherwise.
func (s *MessageService) Delete(me, messageID int64, mode string) error {
	message, err := s.messages.FindByID(messageID)
	if err != nil {
		return err
	}
	if message == nil {
		return common.ErrMessageNotFound
	}

	if mode == domain.DeleteModeMe {
		if _, err := requireMembership(s.rooms, message.RoomID, me); err != nil {
			return err
		}
		return s.messages.MarkDeletedFor(messageID, me)
	}

	// recall
	if message.SenderID != me {
		return common.ErrNotMessageSender
	}
	if time.Since(message.CreatedAt) > domain.RecallWindow {
		return common.ErrRecallWindowExpired
	}
	if err := s.messages.Delete(messageID); err != nil {
		return err
	}

	s.publisher.ToRoom(message.RoomID, &events.Event{
		Type:    events.MessageDeleted,
		Payload: map[string]interface{}{"message_id": messageID, "room_id": message.RoomID},
	})
	return nil
}

// MarkRead flags all messages from other members as read and notifies both
// sides: the room (so senders flip their "seen" indicator) and me (so badge
// counts recompute)
func (s *MessageService) MarkRead(me, roomID int64) error {
	if _, err := requireMembership(s.rooms, roomID, me); err != nil {
		return err
	}
	if err := s.messages.MarkRoomRead(roomID, me); err != nil {
		return err
	}

	s.publisher.ToRoom(roomID, &events.Event{
		Type:    events.MessagesRead,
		Payload: map[string]interface{}{"room_id": roomID, "reader_id": me},
	})
	s.publisher.ToUser(me, &events.Event{Type: events.RefreshUnread})
	return nil
}
