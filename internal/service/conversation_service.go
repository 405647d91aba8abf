package service

import (
	"errors"
	"sort"

	"github.com/nexlink/nexlink-backend/internal/common"
	"github.com/nexlink/nexlink-backend/internal/domain"
	"github.com/nexlink/nexlink-backend/internal/events"
	"github.com/nexlink/nexlink-backend/internal/repository"
	"gorm.io/gorm"
)

// ConversationService handles room lifecycle and membership business logic
type ConversationService struct {
	rooms     *repository.RoomRepository
	messages  *repository.MessageRepository
	users     *repository.UserRepository
	publisher events.Publisher
}

// NewConversationService creates a new ConversationService
func NewConversationService(
	rooms *repository.RoomRepository,
	messages *repository.MessageRepository,
	users *repository.UserRepository,
	publisher events.Publisher,
) *ConversationService {
	return &ConversationService{
		rooms:     rooms,
		messages:  messages,
		users:     users,
		publisher: publisher,
	}
}

// Start finds or creates the 1:1 room for me and target. Creating is
// idempotent: the pair_key unique index decides races, a duplicate-key error
// means someone else won and we return their room.
func (s *ConversationService) Start(me, targetID int64) (*domain.Room, error) {
	if me == targetID {
		return nil, common.ErrSelfConversation
	}

	target, err := s.users.FindByID(targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, common.ErrUserNotFound
	}

	pairKey := domain.PairKeyFor(me, targetID)
	if room, err := s.rooms.FindByPairKey(pairKey); err != nil || room != nil {
		return room, err
	}

	room := &domain.Room{IsGroup: false, PairKey: &pairKey}
	err = s.rooms.CreateWithMembers(room, []int64{me, targetID})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.rooms.FindByPairKey(pairKey)
		}
		return nil, err
	}
	return room, nil
}

// List returns my conversations sorted by last-message time, newest first;
// rooms with no messages sort last
func (s *ConversationService) List(me int64) ([]domain.ConversationSummary, error) {
	roomIDs, err := s.rooms.RoomIDsOf(me)
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.FindByIDs(roomIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.ConversationSummary, 0, len(rooms))
	userCache := map[int64]*domain.UserSummary{}

	for _, room := range rooms {
		memberIDs, err := s.rooms.MemberIDs(room.ID)
		if err != nil {
			return nil, err
		}
		members, err := s.summaries(userCache, memberIDs)
		if err != nil {
			return nil, err
		}

		last, err := s.messages.LastVisible(room.ID, me)
		if err != nil {
			return nil, err
		}
		unread, err := s.messages.UnreadCount(room.ID, me)
		if err != nil {
			return nil, err
		}

		summary := domain.ConversationSummary{
			ID:          room.ID,
			IsGroup:     room.IsGroup,
			UnreadCount: unread,
			MemberCount: len(memberIDs),
		}
		if last != nil {
			summary.LastMessage = last.ToResponse(userCache[last.SenderID])
			summary.LastMessageAt = last.CreatedAt
		}
		if room.IsGroup {
			summary.Name = room.Name
			summary.Avatar = room.Avatar
			summary.Members = members
		} else {
			for i := range members {
				if members[i].ID != me {
					other := members[i]
					summary.Other = &other
					break
				}
			}
		}
		summaries = append(summaries, summary)
	}

	// Zero LastMessageAt sorts after any real timestamp
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastMessageAt.After(summaries[j].LastMessageAt)
	})
	return summaries, nil
}

// Delete removes a conversation with all its messages and notifies every
// former member
func (s *ConversationService) Delete(me, roomID int64) error {
	if _, err := requireMembership(s.rooms, roomID, me); err != nil {
		return err
	}

	memberIDs, err := s.rooms.MemberIDs(roomID)
	if err != nil {
		return err
	}

	if err := s.rooms.DeleteCascade(roomID); err != nil {
		return err
	}

	for _, uid := range memberIDs {
		s.publisher.ToUser(uid, &events.Event{
			Type:    events.ConversationDeleted,
			Payload: map[string]interface{}{"room_id": roomID},
		})
	}
	return nil
}

// CreateGroup creates a group room owned by me, with me as a member
func (s *ConversationService) CreateGroup(me int64, req *domain.CreateGroupRequest) (*domain.Room, error) {
	memberIDs := dedupe(append(req.MemberIDs, me))
	users, err := s.users.FindByIDs(memberIDs)
	if err != nil {
		return nil, err
	}
	if len(users) != len(memberIDs) {
		return nil, common.ErrUserNotFound
	}

	room := &domain.Room{
		IsGroup:   true,
		Name:      req.Name,
		Avatar:    req.Avatar,
		CreatedBy: &me,
	}
	if err := s.rooms.CreateWithMembers(room, memberIDs); err != nil {
		return nil, err
	}
	return room, nil
}

// AddMember adds a user to a group room; adding an existing member is a no-op
func (s *ConversationService) AddMember(me, roomID, userID int64) error {
	room, err := requireMembership(s.rooms, roomID, me)
	if err != nil {
		return err
	}
	if !room.IsGroup {
		return common.ErrNotGroupRoom
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return common.ErrUserNotFound
	}
	return s.rooms.AddMember(roomID, userID)
}

// RemoveMember kicks a member from a group room; owner only
func (s *ConversationService) RemoveMember(me, roomID, userID int64) error {
	room, err := requireMembership(s.rooms, roomID, me)
	if err != nil {
		return err
	}
	if !room.IsGroup {
		return common.ErrNotGroupRoom
	}
	if room.CreatedBy == nil || *room.CreatedBy != me {
		return common.ErrNotGroupOwner
	}
	if userID == me {
		return common.ErrInvalidInput
	}
	return s.rooms.RemoveMember(roomID, userID)
}

// Leave removes me from a group room
func (s *ConversationService) Leave(me, roomID int64) error {
	room, err := requireMembership(s.rooms, roomID, me)
	if err != nil {
		return err
	}
	if !room.IsGroup {
		return common.ErrNotGroupRoom
	}
	return s.rooms.RemoveMember(roomID, me)
}

// UpdateGroup renames a group or changes its avatar; owner only
func (s *ConversationService) UpdateGroup(me, roomID int64, req *domain.UpdateGroupRequest) error {
	room, err := requireMembership(s.rooms, roomID, me)
	if err != nil {
		return err
	}
	if !room.IsGroup {
		return common.ErrNotGroupRoom
	}
	if room.CreatedBy == nil || *room.CreatedBy != me {
		return common.ErrNotGroupOwner
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Avatar != nil {
		fields["avatar"] = *req.Avatar
	}
	if len(fields) == 0 {
		return nil
	}
	return s.rooms.UpdateFields(roomID, fields)
}

// summaries resolves user IDs to summaries through a per-call cache
func (s *ConversationService) summaries(cache map[int64]*domain.UserSummary, ids []int64) ([]domain.UserSummary, error) {
	var missing []int64
	for _, id := range ids {
		if _, ok := cache[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		users, err := s.users.FindByIDs(missing)
		if err != nil {
			return nil, err
		}
		for i := range users {
			cache[users[i].ID] = users[i].ToSummary()
		}
	}

	out := make([]domain.UserSummary, 0, len(ids))
	for _, id := range ids {
		if summary, ok := cache[id]; ok {
			out = append(out, *summary)
		}
	}
	return out, nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
